package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coach-agent/internal/domain"
)

func TestChatURL(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"https://api.openai.com/v1", "https://api.openai.com/v1/chat/completions"},
		{"https://api.openai.com/v1/", "https://api.openai.com/v1/chat/completions"},
		{"http://localhost:8080", "http://localhost:8080/v1/chat/completions"},
		{"", "https://api.openai.com/v1/chat/completions"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, chatURL(tc.base), "base=%q", tc.base)
	}
}

func TestNewLegacyClient_Validates(t *testing.T) {
	_, err := NewLegacyClient(nil, Settings{Model: "gpt-4"})
	require.ErrorContains(t, err, "nil")

	_, err = NewLegacyClient(StaticKey("sk"), Settings{})
	require.ErrorContains(t, err, "model")
}

func newLegacyTestClient(t *testing.T, srv *httptest.Server) *LegacyClient {
	t.Helper()
	c, err := NewLegacyClient(
		StaticKey("sk-test"),
		Settings{Model: "gpt-mock", Temperature: 0.4, MaxTokens: 1000},
		WithBaseURL(srv.URL),
		WithHTTPClient(&http.Client{Timeout: 2 * time.Second}),
	)
	require.NoError(t, err)
	return c
}

func respondWith(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

var userHi = []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}}

func TestLegacyClient_Complete_ModernShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req map[string]any
		require.NoError(t, json.Unmarshal(raw, &req))
		require.Equal(t, "gpt-mock", req["model"])
		require.InDelta(t, 0.4, req["temperature"], 1e-9)
		require.EqualValues(t, 1000, req["max_tokens"])

		respondWith(200, `{"choices":[{"index":0,"message":{"role":"assistant","content":"Hello from mock"}}]}`)(w, r)
	}))
	defer srv.Close()

	res := newLegacyTestClient(t, srv).Complete(context.Background(), userHi)
	require.True(t, res.OK(), "failure: %v", res.Failure)
	require.Equal(t, "Hello from mock", res.Text)
}

func TestLegacyClient_Complete_TextShape(t *testing.T) {
	srv := httptest.NewServer(respondWith(200, `{"choices":[{"index":0,"text":"legacy text"}]}`))
	defer srv.Close()

	res := newLegacyTestClient(t, srv).Complete(context.Background(), userHi)
	require.True(t, res.OK())
	require.Equal(t, "legacy text", res.Text)
}

func TestLegacyClient_Complete_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		reason FailureReason
	}{
		{name: "unauthorized", status: 401, body: `{"error":"bad key"}`, reason: ReasonAuth},
		{name: "forbidden", status: 403, body: `{"error":"nope"}`, reason: ReasonAuth},
		{name: "rate limited", status: 429, body: `{"error":"rate limited"}`, reason: ReasonRateLimited},
		{name: "server error", status: 500, body: `{"error":"internal"}`, reason: ReasonUpstream},
		{name: "not json", status: 200, body: `not-a-json`, reason: ReasonMalformed},
		{name: "no choices", status: 200, body: `{"choices":[]}`, reason: ReasonMalformed},
		{name: "empty content", status: 200, body: `{"choices":[{"message":{"content":"  "}}]}`, reason: ReasonMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(respondWith(tc.status, tc.body))
			defer srv.Close()

			res := newLegacyTestClient(t, srv).Complete(context.Background(), userHi)
			require.False(t, res.OK())
			require.Equal(t, tc.reason, res.Failure.Reason)
			require.Empty(t, res.Text)
		})
	}
}

func TestLegacyClient_Complete_StatusErrorIsInspectable(t *testing.T) {
	srv := httptest.NewServer(respondWith(500, `{"error":"internal server error"}`))
	defer srv.Close()

	res := newLegacyTestClient(t, srv).Complete(context.Background(), userHi)
	var statusErr *HTTPStatusError
	require.ErrorAs(t, res.Failure, &statusErr)
	require.Equal(t, 500, statusErr.StatusCode)
	require.Contains(t, res.Failure.Error(), "500")
}

func TestLegacyClient_Complete_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		respondWith(200, `{"choices":[]}`)(w, r)
	}))
	defer srv.Close()

	c := newLegacyTestClient(t, srv)
	c.httpClient = &http.Client{Timeout: 50 * time.Millisecond}
	res := c.Complete(context.Background(), userHi)
	require.False(t, res.OK())
	require.Equal(t, ReasonNetwork, res.Failure.Reason)
}

func TestLegacyClient_Complete_NetworkError(t *testing.T) {
	c, err := NewLegacyClient(StaticKey("sk-test"), Settings{Model: "gpt-mock"}, WithBaseURL("http://127.0.0.1:1"))
	require.NoError(t, err)
	c.httpClient = &http.Client{Timeout: 100 * time.Millisecond}

	res := c.Complete(context.Background(), userHi)
	require.False(t, res.OK())
	require.Equal(t, ReasonNetwork, res.Failure.Reason)
	require.Contains(t, res.Failure.Error(), "request failed")
}

func TestLegacyClient_Complete_MissingKey(t *testing.T) {
	c, err := NewLegacyClient(StaticKey(""), Settings{Model: "gpt-mock"})
	require.NoError(t, err)

	res := c.Complete(context.Background(), userHi)
	require.False(t, res.OK())
	require.Equal(t, ReasonConfig, res.Failure.Reason)
	require.ErrorIs(t, res.Failure, ErrMissingAPIKey)
}

func TestLegacyText(t *testing.T) {
	text, ok := legacyText(`{"choices":[{"message":{"content":"from message"},"text":"from text"}]}`)
	require.True(t, ok)
	require.Equal(t, "from message", text)

	text, ok = legacyText(`{"choices":[{"message":{"content":null},"text":"from text"}]}`)
	require.True(t, ok)
	require.Equal(t, "from text", text)

	_, ok = legacyText(`{"choices":[{"message":{"content":42}}]}`)
	require.False(t, ok)

	_, ok = legacyText("")
	require.False(t, ok)
}

func TestFailure_ErrorAndUnwrap(t *testing.T) {
	inner := errors.New("boom")
	f := &Failure{Reason: ReasonUpstream, Err: inner}
	require.Equal(t, "openai: upstream: boom", f.Error())
	require.ErrorIs(t, f, inner)
	require.Equal(t, "openai: auth", (&Failure{Reason: ReasonAuth}).Error())
}
