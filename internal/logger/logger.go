// Package logger builds the session logger. Logs go to a file inside the
// data directory so the interactive screen stays clean.
package logger

import (
	"path/filepath"

	"go.uber.org/zap"
)

// New returns a JSON logger writing to <dir>/tempo.log. If the file
// cannot be opened the session continues with a no-op logger.
func New(dir string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{filepath.Join(dir, "tempo.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
