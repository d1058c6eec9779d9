package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrMissingAPIKey = errors.New("openai: API key is not configured")

// KeySource yields the API credential for a request.
type KeySource interface {
	APIKey(ctx context.Context) (string, error)
}

// StaticKey is a key taken from the environment.
type StaticKey string

func (k StaticKey) APIKey(context.Context) (string, error) {
	if strings.TrimSpace(string(k)) == "" {
		return "", ErrMissingAPIKey
	}
	return string(k), nil
}

type TokenGetter interface {
	GetToken(ctx context.Context, name string) (string, error)
}

// ParamStoreKey fetches the key from Parameter Store on first use and reuses
// it for the lifetime of the process. Failed lookups are retried on the next
// call.
type ParamStoreKey struct {
	getter TokenGetter
	name   string

	mu  sync.Mutex
	key string
}

func NewParamStoreKey(getter TokenGetter, paramPrefix string) (*ParamStoreKey, error) {
	if getter == nil {
		return nil, errors.New("openai: token getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("openai: parameter prefix must not be empty")
	}
	return &ParamStoreKey{getter: getter, name: paramPrefix + "/open-ai-token"}, nil
}

func (p *ParamStoreKey) APIKey(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.key != "" {
		return p.key, nil
	}
	key, err := p.getter.GetToken(ctx, p.name)
	if err != nil {
		return "", fmt.Errorf("openai: fetch token from paramstore: %w", err)
	}
	p.key = key
	return key, nil
}
