package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"DASHGATE_ADDR", "DASHGATE_ADMIN_TOKEN", "DASHGATE_ENV", "DATABASE_URL",
		"MODULE_CACHE_TTL", "TENANT_CACHE_TTL", "REQUEST_TIMEOUT",
		"JWT_SIGNING_KEY", "TRUSTED_PROXIES",
	} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, DefaultModuleCacheTTL, cfg.ModuleCacheTTL)
	assert.Equal(t, DefaultTenantCacheTTL, cfg.TenantCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.AdminToken)
	assert.Empty(t, cfg.TrustedProxies)
	assert.NotEmpty(t, cfg.JWTSigningKey)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DASHGATE_ADDR", ":9090")
	t.Setenv("DASHGATE_ENV", "production")
	t.Setenv("MODULE_CACHE_TTL", "90s")
	t.Setenv("TENANT_CACHE_TTL", "15s")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("JWT_SIGNING_KEY", "prod-key")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.0.0/16")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 90*time.Second, cfg.ModuleCacheTTL)
	assert.Equal(t, 15*time.Second, cfg.TenantCacheTTL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "prod-key", cfg.JWTSigningKey)
	require.Len(t, cfg.TrustedProxies, 2)
	assert.Equal(t, "10.0.0.0/8", cfg.TrustedProxies[0].String())
}

func TestFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MODULE_CACHE_TTL", "not-a-duration")
	t.Setenv("TRUSTED_PROXIES", "not-a-cidr")

	cfg := FromEnv()
	assert.Equal(t, DefaultModuleCacheTTL, cfg.ModuleCacheTTL)
	assert.Empty(t, cfg.TrustedProxies)
}
