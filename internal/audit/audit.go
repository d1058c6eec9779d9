// Package audit appends one human-readable record per chat exchange to every
// configured sink.
package audit

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"coach-agent/internal/domain"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	speakerName     = "Anna"
)

// Separator terminates every entry in the plain-text log.
var Separator = strings.Repeat("=", 50)

// Sink stores formatted audit entries.
type Sink interface {
	Write(ctx context.Context, entry domain.AuditEntry) error
	Name() string
}

// Logger fans an entry out to its sinks. Sink errors are logged and dropped.
type Logger struct {
	sinks  []Sink
	logger *zap.SugaredLogger
}

func New(logger *zap.SugaredLogger, sinks ...Sink) *Logger {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	kept := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Logger{sinks: kept, logger: logger}
}

func (l *Logger) Record(ctx context.Context, entry domain.AuditEntry) {
	l.logger.Infow("interaction",
		"id", entry.ID,
		"user", entry.UserText,
		"assistant", entry.AssistantText,
		"reasoning", entry.Reasoning,
		"label", entry.Label,
		"fallback", entry.Fallback,
	)
	for _, s := range l.sinks {
		if err := s.Write(ctx, entry); err != nil {
			l.logger.Errorw("failed to write interaction log",
				"sink", s.Name(),
				"id", entry.ID,
				"error", err,
			)
		}
	}
}

// Format renders entry as a block of the interaction log.
func Format(entry domain.AuditEntry) string {
	return fmt.Sprintf("[%s] User: %s\n%s: %s\nReasoning: %s\n%s\n",
		entry.Timestamp.Format(timestampLayout),
		entry.UserText,
		speakerName,
		entry.AssistantText,
		entry.Reasoning,
		Separator,
	)
}
