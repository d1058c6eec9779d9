package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"coach-agent/internal/domain"
)

const defaultBaseURL = "https://api.openai.com/v1"

// chatRequest is the minimal request shape for the Chat Completions endpoint.
type chatRequest struct {
	Model       string               `json:"model"`
	Messages    []domain.ChatMessage `json:"messages"`
	Temperature *float64             `json:"temperature,omitempty"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
}

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("openai: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// LegacyClient talks to any OpenAI-compatible endpoint over plain HTTP and
// reads the response dictionary-style, so it tolerates providers that answer
// with either choices[].message.content or the older choices[].text.
type LegacyClient struct {
	baseURL    string
	httpClient *http.Client
	keys       KeySource
	settings   Settings
}

type Option func(*LegacyClient)

func WithBaseURL(baseURL string) Option {
	return func(c *LegacyClient) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *LegacyClient) {
		c.httpClient = httpClient
	}
}

func NewLegacyClient(keys KeySource, settings Settings, opts ...Option) (*LegacyClient, error) {
	if keys == nil {
		return nil, errors.New("openai: key source must not be nil")
	}
	if strings.TrimSpace(settings.Model) == "" {
		return nil, errors.New("openai: model must not be empty")
	}
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &LegacyClient{
		baseURL:    settings.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		keys:       keys,
		settings:   settings,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *LegacyClient) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

func chatURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/chat/completions"
	}
	return base + "/v1/chat/completions"
}

func (c *LegacyClient) Complete(ctx context.Context, messages []domain.ChatMessage) Result {
	apiKey, err := c.keys.APIKey(ctx)
	if err != nil {
		return failure(ReasonConfig, err)
	}

	temperature := c.settings.Temperature
	body, err := json.Marshal(chatRequest{
		Model:       c.settings.Model,
		Messages:    messages,
		Temperature: &temperature,
		MaxTokens:   c.settings.MaxTokens,
	})
	if err != nil {
		return failure(ReasonConfig, fmt.Errorf("openai: marshal request: %w", err))
	}

	url := chatURL(c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return failure(ReasonConfig, fmt.Errorf("openai: create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	raw, err := c.doJSONRequest(req, url)
	if err != nil {
		var statusErr httpStatusCoder
		if errors.As(err, &statusErr) {
			return failure(reasonForStatus(statusErr.HTTPStatusCode()), err)
		}
		return failure(classifyTransportError(err), fmt.Errorf("openai: request failed: %w", err))
	}

	if !gjson.ValidBytes(raw) {
		return failure(ReasonMalformed, errors.New("openai: decode response: body is not valid JSON"))
	}
	text, ok := legacyText(string(raw))
	if !ok {
		return failure(ReasonMalformed, errors.New("openai: no usable choices in response"))
	}
	return success(text)
}

// legacyText reads choices[0].message.content, falling back to choices[0].text.
func legacyText(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	for _, path := range []string{"choices.0.message.content", "choices.0.text"} {
		v := gjson.Get(raw, path)
		if v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
			return v.String(), true
		}
	}
	return "", false
}

func (c *LegacyClient) doJSONRequest(req *http.Request, url string) ([]byte, error) {
	res, doErr := c.resolvedHTTPClient().Do(req)
	if doErr != nil {
		return nil, doErr
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}
