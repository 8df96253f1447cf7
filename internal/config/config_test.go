package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.App.Addr)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.DB.Timeout)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 2, cfg.Notify.Workers)
	assert.Equal(t, 100, cfg.Notify.QueueSize)
	assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodyBytes)
	assert.False(t, cfg.Books.OwnerOnlyMutations)
	assert.Empty(t, cfg.HTTP.AllowedOrigins)
	assert.Empty(t, cfg.HTTP.TrustedProxies)
}

func TestNew_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := New()
	assert.Error(t, err)
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ADDR", ":9000")
	t.Setenv("NOTIFY_WORKERS", "4")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("BOOK_OWNER_ONLY_MUTATIONS", "true")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.App.Addr)
	assert.Equal(t, 4, cfg.Notify.Workers)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins)
	assert.True(t, cfg.Books.OwnerOnlyMutations)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.HTTP.TrustedProxies)
}

func TestNew_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"DB_TIMEOUT":                "soon",
		"JWT_TTL":                   "forever",
		"NOTIFY_WORKERS":            "many",
		"NOTIFY_QUEUE_SIZE":         "x",
		"RATE_LIMIT_RPS":            "fast",
		"BOOK_OWNER_ONLY_MUTATIONS": "maybe",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "test-secret")
			t.Setenv(key, value)

			_, err := New()
			assert.Error(t, err)
		})
	}
}

func TestNew_ZeroWorkers(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("NOTIFY_WORKERS", "0")

	_, err := New()
	assert.Error(t, err)
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, ".env")

	require.NoError(t, os.WriteFile(p, []byte("DB_DSN=from_file\nAPP_ENV_TEST_ONLY=file\n"), 0644))

	t.Setenv("DB_DSN", "from_env")
	t.Cleanup(func() { _ = os.Unsetenv("APP_ENV_TEST_ONLY") })

	cwd, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmp))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	LoadEnvFiles()

	assert.Equal(t, "from_env", os.Getenv("DB_DSN"))
	assert.Equal(t, "file", os.Getenv("APP_ENV_TEST_ONLY"))
}
