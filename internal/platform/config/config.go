package config

import (
	"net/netip"
	"os"
	"strings"
	"time"
)

// Server captures gateway level configuration.
type Server struct {
	Addr           string
	AdminToken     string
	JWTSigningKey  string
	DatabaseURL    string
	ModuleCacheTTL time.Duration
	TenantCacheTTL time.Duration
	RequestTimeout time.Duration
	TrustedProxies []netip.Prefix
	Environment    string
}

// Cache TTL defaults. The module cache is minutes-scale; the tenant lookup
// cache is deliberately shorter and smaller.
var (
	DefaultModuleCacheTTL = 5 * time.Minute
	DefaultTenantCacheTTL = 1 * time.Minute
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:           envOr("DASHGATE_ADDR", ":8080"),
		AdminToken:     os.Getenv("DASHGATE_ADMIN_TOKEN"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		ModuleCacheTTL: DefaultModuleCacheTTL,
		TenantCacheTTL: DefaultTenantCacheTTL,
		RequestTimeout: 30 * time.Second,
		Environment:    envOr("DASHGATE_ENV", "development"),
	}

	if v := os.Getenv("MODULE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ModuleCacheTTL = d
		}
	}
	if v := os.Getenv("TENANT_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TenantCacheTTL = d
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}

	cfg.JWTSigningKey = os.Getenv("JWT_SIGNING_KEY")
	if cfg.JWTSigningKey == "" {
		// Use a default for development - should be overridden in production
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}

	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			if prefix, err := netip.ParsePrefix(strings.TrimSpace(raw)); err == nil {
				cfg.TrustedProxies = append(cfg.TrustedProxies, prefix)
			}
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
