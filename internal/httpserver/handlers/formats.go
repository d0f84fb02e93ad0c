package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/showcase/internal/format"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/deps"
	"github.com/MrSnakeDoc/showcase/internal/httpserver/respond"
)

const maxFormatBody = 4 << 10

type formatRequest struct {
	Value string `json:"value" validate:"max=256"`
}

type formatResponse struct {
	Type string `json:"type"`
	format.Result
}

// ListFormats returns the preset gallery in display order
func ListFormats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, d.Formats.Presets())
	}
}

// FormatValue formats and validates one raw value with the {type} preset
func FormatValue(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		preset, err := d.Formats.Lookup(chi.URLParam(r, "type"))
		if errors.Is(err, format.ErrUnknownPreset) {
			respond.Error(w, http.StatusNotFound, err.Error())
			return
		}

		var req formatRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormatBody)).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := validateStruct(req); err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}

		res := preset.Apply(req.Value)
		d.Metrics.FormatValidation(preset.ID, res.Valid)
		respond.JSON(w, http.StatusOK, formatResponse{Type: preset.ID, Result: res})
	}
}
