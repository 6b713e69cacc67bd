package logger_test

import (
	"testing"

	"storefront/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("should honour the configured level", func(t *testing.T) {
		l, err := logger.New("warn", "production")
		require.NoError(t, err)

		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("should fall back to info on an unknown level", func(t *testing.T) {
		l, err := logger.New("loud", "development")
		require.NoError(t, err)

		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})
}

func TestFromContext(t *testing.T) {
	t.Run("should return the stored logger", func(t *testing.T) {
		l := zap.NewExample()
		ctx := logger.WithContext(t.Context(), l)

		assert.Same(t, l, logger.FromContext(ctx))
	})

	t.Run("should return a usable logger when none is stored", func(t *testing.T) {
		l := logger.FromContext(t.Context())

		require.NotNil(t, l)
		assert.NotPanics(t, func() { l.Info("dropped") })
	})
}
