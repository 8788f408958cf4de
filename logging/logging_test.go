package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	require.NoError(t, Init("debug", "json"))
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))

	require.NoError(t, Init("", ""))
	assert.False(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelInfo))

	assert.Error(t, Init("loud", "text"))
	assert.Error(t, Init("info", "xml"))
}
