package resolver

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// HintKind names how a request identified its tenant.
type HintKind string

const (
	HintTenantID HintKind = "tenant_id"
	HintAPIKey   HintKind = "api_key"
	HintHost     HintKind = "host"
)

// Hint is a strategy's extraction result: what to look the tenant up by.
type Hint struct {
	Kind  HintKind
	Value string
}

// cacheKey partitions the lookup cache by hint kind so an API key can never
// collide with a tenant id of the same spelling.
func (h Hint) cacheKey() string {
	return string(h.Kind) + ":" + h.Value
}

// Strategy extracts a tenant identification hint from a request.
// Strategies are pure: they read the request and never touch the store.
type Strategy interface {
	Name() string
	Identify(r *http.Request) (Hint, bool)
}

// defaultStrategies returns the resolution order: explicit header (trusted
// ops tooling), bearer token claim, API key, then host subdomain.
func defaultStrategies(jwtSigningKey []byte) []Strategy {
	return []Strategy{
		headerStrategy{},
		bearerStrategy{signingKey: jwtSigningKey},
		apiKeyStrategy{},
		hostStrategy{},
	}
}

// headerStrategy reads the X-Tenant-ID header set by internal tooling.
type headerStrategy struct{}

func (headerStrategy) Name() string { return "header" }

func (headerStrategy) Identify(r *http.Request) (Hint, bool) {
	v := strings.TrimSpace(r.Header.Get("X-Tenant-ID"))
	if v == "" {
		return Hint{}, false
	}
	return Hint{Kind: HintTenantID, Value: v}, true
}

// bearerStrategy extracts the tenant id claim ("tid") from a signed bearer token.
type bearerStrategy struct {
	signingKey []byte
}

func (bearerStrategy) Name() string { return "bearer" }

func (s bearerStrategy) Identify(r *http.Request) (Hint, bool) {
	auth := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok || len(s.signingKey) == 0 {
		return Hint{}, false
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid {
		return Hint{}, false
	}
	tid, _ := claims["tid"].(string)
	if tid == "" {
		return Hint{}, false
	}
	return Hint{Kind: HintTenantID, Value: tid}, true
}

// apiKeyStrategy reads tenant API keys from the X-API-Key header or an
// "ApiKey" authorization scheme.
type apiKeyStrategy struct{}

func (apiKeyStrategy) Name() string { return "api_key" }

func (apiKeyStrategy) Identify(r *http.Request) (Hint, bool) {
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return Hint{Kind: HintAPIKey, Value: key}, true
	}
	if key, ok := strings.CutPrefix(r.Header.Get("Authorization"), "ApiKey "); ok {
		return Hint{Kind: HintAPIKey, Value: strings.TrimSpace(key)}, true
	}
	return Hint{}, false
}

// hostStrategy maps the first host label (the tenant subdomain) to a tenant.
// "acme.dashboard.example.com" identifies as "acme"; bare hosts and IPs don't.
type hostStrategy struct{}

func (hostStrategy) Name() string { return "host" }

func (hostStrategy) Identify(r *http.Request) (Hint, bool) {
	host := r.Host
	if host == "" {
		return Hint{}, false
	}
	// Strip port, ignore bracketed IPv6 literals.
	if strings.HasPrefix(host, "[") {
		return Hint{}, false
	}
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}
	// IP addresses carry no tenant label. Checking the whole host keeps
	// digit-leading slugs like "1acme" resolvable.
	if _, err := netip.ParseAddr(host); err == nil {
		return Hint{}, false
	}
	label, rest, ok := strings.Cut(host, ".")
	if !ok || label == "" || rest == "" {
		return Hint{}, false
	}
	return Hint{Kind: HintHost, Value: label}, true
}
