package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge_base.md")
	require.NoError(t, os.WriteFile(path, []byte("# Idea validation\nTalk to customers."), 0o600))

	core, logs := observer.New(zapcore.InfoLevel)
	got := Load(path, zap.New(core).Sugar())

	require.Equal(t, "# Idea validation\nTalk to customers.", got)
	require.Equal(t, 1, logs.FilterMessage("knowledge base loaded").Len())
}

func TestLoad_MissingFileWarnsAndReturnsEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	got := Load(filepath.Join(t.TempDir(), "absent.md"), zap.New(core).Sugar())

	require.Empty(t, got)
	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestLoad_DirectoryIsAnError(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	got := Load(t.TempDir(), zap.New(core).Sugar())

	require.Empty(t, got)
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestLoad_NilLogger(t *testing.T) {
	require.Empty(t, Load(filepath.Join(t.TempDir(), "absent.md"), nil))
}
