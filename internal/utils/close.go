package utils

import (
	"io"

	"github.com/MrSnakeDoc/showcase/internal/logger"
)

// CloseLogged closes c and reports the outcome under name.
// Use on shutdown paths where a failed close should show up in the logs.
func CloseLogged(c io.Closer, name string, log logger.Logger) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		log.Warn("failed to close", logger.String("resource", name), logger.Error(err))
		return
	}
	log.Info("closed cleanly", logger.String("resource", name))
}
