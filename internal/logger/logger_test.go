package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("Debug level", func(t *testing.T) {
		l, err := New("debug")
		require.NoError(t, err)
		assert.True(t, l.Desugar().Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("Warn level hides info", func(t *testing.T) {
		l, err := New("warn")
		require.NoError(t, err)
		assert.False(t, l.Desugar().Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Desugar().Core().Enabled(zapcore.ErrorLevel))
	})

	t.Run("Unknown level", func(t *testing.T) {
		l, err := New("loud")
		assert.Error(t, err)
		assert.Nil(t, l)
	})
}
