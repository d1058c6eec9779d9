package openai

import (
	"context"
	"errors"
	"strings"

	sdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"coach-agent/internal/domain"
)

// SDKClient uses the official openai-go Chat Completions client. It reads
// the structured choice/message/content shape and, when that is empty,
// falls back to the legacy text field of the raw response.
type SDKClient struct {
	client   sdk.Client
	keys     KeySource
	settings Settings
}

func NewSDKClient(keys KeySource, settings Settings, opts ...option.RequestOption) (*SDKClient, error) {
	if keys == nil {
		return nil, errors.New("openai: key source must not be nil")
	}
	if strings.TrimSpace(settings.Model) == "" {
		return nil, errors.New("openai: model must not be empty")
	}
	base := []option.RequestOption{option.WithMaxRetries(0)}
	if settings.Timeout > 0 {
		base = append(base, option.WithRequestTimeout(settings.Timeout))
	}
	if u := strings.TrimSpace(settings.BaseURL); u != "" {
		base = append(base, option.WithBaseURL(sdkBaseURL(u)))
	}
	base = append(base, opts...)
	return &SDKClient{
		client:   sdk.NewClient(base...),
		keys:     keys,
		settings: settings,
	}, nil
}

// sdkBaseURL appends /v1 when missing. The SDK joins "chat/completions"
// onto the base verbatim, unlike chatURL.
func sdkBaseURL(baseURL string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + "/"
}

func (c *SDKClient) Complete(ctx context.Context, messages []domain.ChatMessage) Result {
	apiKey, err := c.keys.APIKey(ctx)
	if err != nil {
		return failure(ReasonConfig, err)
	}

	resp, err := c.client.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Model:       sdk.ChatModel(c.settings.Model),
		Messages:    toSDKMessages(messages),
		Temperature: sdk.Float(c.settings.Temperature),
		MaxTokens:   sdk.Int(int64(c.settings.MaxTokens)),
	}, option.WithAPIKey(apiKey))
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) {
			return failure(reasonForStatus(apiErr.StatusCode), err)
		}
		return failure(classifyTransportError(err), err)
	}
	if resp == nil {
		return failure(ReasonMalformed, errors.New("openai: empty response"))
	}

	if len(resp.Choices) > 0 {
		if text := resp.Choices[0].Message.Content; strings.TrimSpace(text) != "" {
			return success(text)
		}
	}
	if text, ok := legacyText(resp.RawJSON()); ok {
		return success(text)
	}
	return failure(ReasonMalformed, errors.New("openai: response has neither message content nor text"))
}

func toSDKMessages(messages []domain.ChatMessage) []sdk.ChatCompletionMessageParamUnion {
	out := make([]sdk.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			out = append(out, sdk.SystemMessage(m.Content))
		case domain.RoleAssistant:
			out = append(out, sdk.AssistantMessage(m.Content))
		default:
			out = append(out, sdk.UserMessage(m.Content))
		}
	}
	return out
}
