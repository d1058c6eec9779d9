package openai

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"coach-agent/internal/domain"
)

const (
	VariantSDK    = "sdk"
	VariantLegacy = "legacy"
	VariantAuto   = "auto"
)

// DetectVariant resolves "auto" to a concrete variant. Only OpenAI itself or
// bases already ending in /v1 go to the SDK; other providers get the legacy
// client, which tolerates either response shape.
func DetectVariant(mode, baseURL string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case VariantSDK:
		return VariantSDK
	case VariantLegacy:
		return VariantLegacy
	}
	base := strings.TrimSpace(baseURL)
	if base == "" {
		return VariantSDK
	}
	u, err := url.Parse(base)
	if err != nil {
		return VariantLegacy
	}
	if u.Host == "api.openai.com" || strings.HasSuffix(strings.TrimRight(u.Path, "/"), "/v1") {
		return VariantSDK
	}
	return VariantLegacy
}

// New builds the completion variant for mode once, at startup.
func New(mode string, keys KeySource, settings Settings, logger *zap.SugaredLogger) (Completer, error) {
	variant := DetectVariant(mode, settings.BaseURL)
	var (
		c   Completer
		err error
	)
	switch variant {
	case VariantSDK:
		c, err = NewSDKClient(keys, settings)
	default:
		c, err = NewLegacyClient(keys, settings)
	}
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	logger.Infow("completion client selected", "variant", variant, "model", settings.Model)
	return &guarded{next: c, variant: variant}, nil
}

// guarded turns a panic inside a variant into an upstream failure.
type guarded struct {
	next    Completer
	variant string
}

func (g *guarded) Complete(ctx context.Context, messages []domain.ChatMessage) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failure(ReasonUpstream, fmt.Errorf("openai: %s client panicked: %v", g.variant, r))
		}
	}()
	return g.next.Complete(ctx, messages)
}
