package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should apply defaults without an env file", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.HTTPPort)
		assert.Equal(t, 30*time.Minute, cfg.PendingOrderTTL)
		assert.Equal(t, 3, cfg.RetryAttempts)
		assert.Empty(t, cfg.RedisAddr)
	})

	t.Run("should read the env file without overriding the environment", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(file, []byte("HTTP_PORT=9090\nJWT_SECRET=from-file\nREDIS_DB=2\n"), 0o600))
		t.Setenv("JWT_SECRET", "from-env")
		for _, key := range []string{"HTTP_PORT", "REDIS_DB"} {
			t.Setenv(key, "")
			require.NoError(t, os.Unsetenv(key))
		}

		cfg, err := LoadConfig(file)

		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.JWTSecret)
		assert.Equal(t, "9090", cfg.HTTPPort)
		assert.Equal(t, 2, cfg.RedisDB)
	})

	t.Run("should report every malformed variable", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("RETRY_ATTEMPTS", "three")
		t.Setenv("PENDING_ORDER_TTL", "soon")

		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "RETRY_ATTEMPTS")
		assert.Contains(t, err.Error(), "PENDING_ORDER_TTL")
	})

	t.Run("should require a jwt secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

		assert.ErrorContains(t, err, "JWT_SECRET")
	})
}
