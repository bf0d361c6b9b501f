package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"APP_PORT", "APP_BASE_URL", "CLIENT_URL", "JWT_TTL_HOURS", "RATE_LIMIT_MAX",
		"RATE_LIMIT_WINDOW_MINUTES", "X_REDIRECT_URL", "LLM_PROVIDER", "REDIS_URL"} {
		t.Setenv(k, "")
	}
	t.Setenv("APP_PORT", "3001")
	t.Setenv("APP_BASE_URL", "http://localhost:3001/")
	t.Setenv("LLM_PROVIDER", "gemini")

	cfg := Load()

	assert.Equal(t, "3001", cfg.App.Port)
	assert.Equal(t, 72*time.Hour, cfg.App.JwtTTL)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "gemini", cfg.Ai.LLMProvider)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_BASE_URL", "https://api.nichelens.dev/")
	t.Setenv("X_REDIRECT_URL", "")
	t.Setenv("JWT_TTL_HOURS", "1")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("RATE_LIMIT_WINDOW_MINUTES", "not-a-number")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_GEMINI_API_KEY", "legacy-key")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.App.JwtTTL)
	assert.Equal(t, 5, cfg.RateLimit.Max)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "legacy-key", cfg.Keys.GoogleGemini)
	// An explicitly empty value wins over the derived default.
	assert.Equal(t, "", cfg.OAuth.XRedirectURL)
}

func TestLoadDerivesRedirectURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_BASE_URL", "https://api.nichelens.dev/")

	t.Setenv("X_REDIRECT_URL", "")
	require.NoError(t, os.Unsetenv("X_REDIRECT_URL"))

	cfg := Load()
	assert.Equal(t, "https://api.nichelens.dev/api/auth/x/callback", cfg.OAuth.XRedirectURL)
}

func TestLoadClient(t *testing.T) {
	t.Chdir(t.TempDir())
	home := t.TempDir()
	t.Setenv("NICHELENS_HOME", home)
	t.Setenv("NICHELENS_BACKEND_URL", "http://backend:9000")
	t.Setenv("NICHELENS_SANDBOX", "true")
	t.Setenv("NO_COLOR", "1")

	cfg := LoadClient()

	assert.Equal(t, home, cfg.Home)
	assert.Equal(t, "http://backend:9000", cfg.BackendURL)
	assert.True(t, cfg.Sandbox)
	assert.True(t, cfg.NoColor)
}

func TestLoadClientDefaultsHomeUnderUserDir(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("NICHELENS_HOME", "")

	cfg := LoadClient()
	assert.Equal(t, filepath.Join(dir, ".nichelens"), cfg.Home)
}
