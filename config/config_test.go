package config

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("GYMLOG_DSN", "sqlite::memory:")
	t.Setenv("GYMLOG_SESSION_SECRET", "0123456789abcdef")
	t.Setenv("GYMLOG_TOKEN_SECRET", "fedcba9876543210")
	t.Setenv("GYMLOG_CSRF_KEY", strings.Repeat("k", 32))
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.True(t, cfg.SecureCookies)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Empty(t, cfg.APIURL)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("GYMLOG_BASE_PATH", "/seb/gymlog/")
	t.Setenv("GYMLOG_API_TIMEOUT", "3s")
	t.Setenv("GYMLOG_SECURE_COOKIES", "false")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "/seb/gymlog", cfg.BasePath)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.False(t, cfg.SecureCookies)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing dsn", func(t *testing.T) {
		setRequired(t)
		t.Setenv("GYMLOG_DSN", "")
		_, err := Load(zerolog.Nop())
		assert.ErrorContains(t, err, "GYMLOG_DSN")
	})

	t.Run("short csrf key", func(t *testing.T) {
		setRequired(t)
		t.Setenv("GYMLOG_CSRF_KEY", "short")
		_, err := Load(zerolog.Nop())
		assert.ErrorContains(t, err, "GYMLOG_CSRF_KEY")
	})

	t.Run("bad timeout", func(t *testing.T) {
		setRequired(t)
		t.Setenv("GYMLOG_API_TIMEOUT", "soon")
		_, err := Load(zerolog.Nop())
		assert.ErrorContains(t, err, "GYMLOG_API_TIMEOUT")
	})
}

func TestMaskString(t *testing.T) {
	assert.Equal(t, "****", MaskString("short"))
	assert.Equal(t, "gyml****cret", MaskString("gymlog-secret"))
}
