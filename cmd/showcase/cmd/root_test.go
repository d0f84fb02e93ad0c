package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/showcase/internal/format"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestFormatValid(t *testing.T) {
	out, err := execute(t, "format", "phone", "555-123-4567")
	require.NoError(t, err)
	assert.Contains(t, out, "display: (555) 123-4567")
	assert.Contains(t, out, "raw:     5551234567")
	assert.Contains(t, out, "valid:   yes")
}

func TestFormatInvalid(t *testing.T) {
	out, err := execute(t, "format", "phone", "555")
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.Contains(t, out, "valid:   no (Phone number must be 10 digits)")
}

func TestFormatJSON(t *testing.T) {
	out, err := execute(t, "format", "zipCode", "123456789", "--json")
	require.NoError(t, err)

	var res format.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "12345-6789", res.Display)
	assert.True(t, res.Valid)
}

func TestFormatUnknownType(t *testing.T) {
	_, err := execute(t, "format", "iban", "FR76")
	require.ErrorIs(t, err, format.ErrUnknownPreset)
}

func TestFormatArgs(t *testing.T) {
	_, err := execute(t, "format", "phone")
	require.Error(t, err)
}

func TestFormats(t *testing.T) {
	out, err := execute(t, "formats")
	require.NoError(t, err)
	for _, id := range format.DefaultCatalog().IDs() {
		assert.Contains(t, out, id)
	}
	assert.Contains(t, out, "Phone Number")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "showcase dev")
}
