package audit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"coach-agent/internal/domain"
)

// FileSink appends entries to a plain-text file, creating it on first write.
type FileSink struct {
	path string
	mu   sync.Mutex
}

func NewFileSink(path string) (*FileSink, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("audit: log path must not be empty")
	}
	return &FileSink{path: path}, nil
}

func (f *FileSink) Name() string { return "file" }

func (f *FileSink) Path() string { return f.path }

func (f *FileSink) Write(_ context.Context, entry domain.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("audit: open %s: %w", f.path, err)
	}
	if _, err := file.WriteString(Format(entry)); err != nil {
		_ = file.Close()
		return fmt.Errorf("audit: append to %s: %w", f.path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("audit: close %s: %w", f.path, err)
	}
	return nil
}
