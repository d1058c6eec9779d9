package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"coach-agent/internal/domain"
)

// FailureReason classifies why a completion produced no reply.
type FailureReason string

const (
	ReasonNetwork     FailureReason = "network"
	ReasonAuth        FailureReason = "auth"
	ReasonRateLimited FailureReason = "rate_limited"
	ReasonUpstream    FailureReason = "upstream"
	ReasonMalformed   FailureReason = "malformed"
	ReasonConfig      FailureReason = "config"
)

// Failure is the typed failure half of a Result.
type Failure struct {
	Reason FailureReason
	Err    error
}

func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	if f.Err == nil {
		return fmt.Sprintf("openai: %s", f.Reason)
	}
	return fmt.Sprintf("openai: %s: %v", f.Reason, f.Err)
}

func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Err
}

// Result carries either the reply text or a Failure, never both.
type Result struct {
	Text    string
	Failure *Failure
}

func (r Result) OK() bool { return r.Failure == nil }

func success(text string) Result { return Result{Text: text} }

func failure(reason FailureReason, err error) Result {
	return Result{Failure: &Failure{Reason: reason, Err: err}}
}

// Completer sends a role-tagged message list to a completion endpoint.
// Implementations report every problem through Result and never panic.
type Completer interface {
	Complete(ctx context.Context, messages []domain.ChatMessage) Result
}

// Settings are the per-process generation parameters.
type Settings struct {
	Model       string
	Temperature float64
	MaxTokens   int
	BaseURL     string
	Timeout     time.Duration
}

type httpStatusCoder interface {
	HTTPStatusCode() int
}

func reasonForStatus(code int) FailureReason {
	switch code {
	case 401, 403:
		return ReasonAuth
	case 429:
		return ReasonRateLimited
	default:
		return ReasonUpstream
	}
}

// classifyTransportError maps an error without an HTTP status.
func classifyTransportError(err error) FailureReason {
	var netErr net.Error
	var urlErr *url.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ReasonNetwork
	case errors.As(err, &netErr), errors.As(err, &urlErr):
		return ReasonNetwork
	default:
		return ReasonUpstream
	}
}
