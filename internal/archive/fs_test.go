package archive

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSaveWritesSnapshot(t *testing.T) {
	t.Parallel()
	sink, err := NewFileSink(t.TempDir(), 1024, zap.NewNop())
	require.NoError(t, err)

	path, err := sink.Save("https://stats.example.org/teams/?page=1", []byte("<html></html>"))
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "<html></html>", string(body))
}

func TestSaveRejectsOversizedAndEmpty(t *testing.T) {
	t.Parallel()
	sink, err := NewFileSink(t.TempDir(), 4, zap.NewNop())
	require.NoError(t, err)

	_, err = sink.Save("https://stats.example.org/a", nil)
	require.Error(t, err)

	_, err = sink.Save("https://stats.example.org/a", []byte("too large"))
	require.Error(t, err)
}

func TestSafeBasenameDistinguishesPages(t *testing.T) {
	t.Parallel()
	a := safeBasename("https://stats.example.org/teams/?page=1")
	b := safeBasename("https://stats.example.org/teams/?page=2")
	require.NotEqual(t, a, b)
}
