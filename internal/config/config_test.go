package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STOREFRONT_CONFIG", "")
	t.Setenv("CART_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, CartBackendMemory, cfg.CartBackend)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
	assert.Equal(t, uint32(5), cfg.BreakerMaxFailures)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STOREFRONT_CONFIG", "")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CART_BACKEND", "redis")
	t.Setenv("BACKEND_TIMEOUT", "2s")
	t.Setenv("BREAKER_MAX_FAILURES", "9")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, CartBackendRedis, cfg.CartBackend)
	assert.Equal(t, 2*time.Second, cfg.BackendTimeout)
	assert.Equal(t, uint32(9), cfg.BreakerMaxFailures)
}

func TestLoad_YAMLOverridesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	yml := "http_port: \"7000\"\ncart_backend: sqlite\nsqlite_path: /tmp/cart.db\nbackend_timeout: 3s\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STOREFRONT_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.HTTPPort)
	assert.Equal(t, CartBackendSQLite, cfg.CartBackend)
	assert.Equal(t, "/tmp/cart.db", cfg.SQLitePath)
	assert.Equal(t, 3*time.Second, cfg.BackendTimeout)
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("STOREFRONT_CONFIG", "")
	t.Setenv("CART_BACKEND", "etcd")

	_, err := Load()
	assert.ErrorContains(t, err, "unknown cart backend")
}

func TestLoad_RejectsNonPositiveLimits(t *testing.T) {
	cases := map[string]struct{ key, value, msg string }{
		"zero ttl":          {"CART_TTL", "0s", "cart ttl"},
		"negative ttl":      {"CART_TTL", "-1h", "cart ttl"},
		"zero failures":     {"BREAKER_MAX_FAILURES", "0", "breaker max failures"},
		"negative failures": {"BREAKER_MAX_FAILURES", "-3", "breaker max failures"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("STOREFRONT_CONFIG", "")
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.ErrorContains(t, err, tc.msg)
		})
	}
}
