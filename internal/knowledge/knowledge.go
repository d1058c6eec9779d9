// Package knowledge loads the reference document appended to the system prompt.
package knowledge

import (
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"
)

// Load returns the contents of the file at path. A missing or unreadable file
// yields an empty document; the service keeps running without it.
func Load(path string, logger *zap.SugaredLogger) string {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Warnw("knowledge base file not found, continuing without it", "path", path)
		return ""
	case err != nil:
		logger.Errorw("failed to read knowledge base", "path", path, "error", err)
		return ""
	}

	logger.Infow("knowledge base loaded", "path", path, "bytes", len(raw))
	return string(raw)
}
