package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeTokenGetter struct {
	val   string
	err   error
	calls int
	names []string
}

func (f *fakeTokenGetter) GetToken(_ context.Context, name string) (string, error) {
	f.calls++
	f.names = append(f.names, name)
	return f.val, f.err
}

func TestStaticKey(t *testing.T) {
	key, err := StaticKey("sk-env").APIKey(context.Background())
	require.NoError(t, err)
	require.Equal(t, "sk-env", key)

	_, err = StaticKey("  ").APIKey(context.Background())
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewParamStoreKey_Validates(t *testing.T) {
	_, err := NewParamStoreKey(nil, "/coach")
	require.ErrorContains(t, err, "nil")

	_, err = NewParamStoreKey(&fakeTokenGetter{}, " / ")
	require.ErrorContains(t, err, "prefix")
}

func TestParamStoreKey_FetchedOnce(t *testing.T) {
	g := &fakeTokenGetter{val: "sk-from-ssm"}
	p, err := NewParamStoreKey(g, "/coach/")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		key, err := p.APIKey(context.Background())
		require.NoError(t, err)
		require.Equal(t, "sk-from-ssm", key)
	}
	require.Equal(t, 1, g.calls, "SSM must only be called once per process lifetime")
	require.Equal(t, []string{"/coach/open-ai-token"}, g.names)
}

func TestParamStoreKey_RetriesAfterFailure(t *testing.T) {
	g := &fakeTokenGetter{err: errors.New("ssm unavailable")}
	p, err := NewParamStoreKey(g, "/coach")
	require.NoError(t, err)

	_, err = p.APIKey(context.Background())
	require.ErrorContains(t, err, "ssm unavailable")

	g.err, g.val = nil, "sk-late"
	key, err := p.APIKey(context.Background())
	require.NoError(t, err)
	require.Equal(t, "sk-late", key)
	require.Equal(t, 2, g.calls)
}
