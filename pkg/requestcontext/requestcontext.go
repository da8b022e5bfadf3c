// Package requestcontext provides typed accessors for request-scoped values.
// All per-request state (resolved tenant, resolved modules, client metadata)
// lives here - never in process-wide structures - so concurrent requests
// cannot observe each other's resolution results.
package requestcontext

import (
	"context"

	"dashgate/internal/module"
	"dashgate/internal/tenant/models"
)

type tenantKey struct{}
type modulesKey struct{}
type clientMetadataKey struct{}

// ClientMetadata carries transport-level client attributes extracted by the
// metadata middleware, used for logging and diagnostics.
type ClientMetadata struct {
	IP        string
	UserAgent string
	Browser   string
	Platform  string
}

// WithTenant attaches the resolved tenant to the context.
func WithTenant(ctx context.Context, t *models.Tenant) context.Context {
	return context.WithValue(ctx, tenantKey{}, t)
}

// Tenant returns the resolved tenant, or nil when the request carries no
// tenant context (anonymous/system routes).
func Tenant(ctx context.Context) *models.Tenant {
	if t, ok := ctx.Value(tenantKey{}).(*models.Tenant); ok {
		return t
	}
	return nil
}

// WithModules attaches the tenant's resolved module set to the context.
func WithModules(ctx context.Context, set *module.ResolvedSet) context.Context {
	return context.WithValue(ctx, modulesKey{}, set)
}

// Modules returns the resolved module set, or nil when no tenant was resolved.
func Modules(ctx context.Context) *module.ResolvedSet {
	if set, ok := ctx.Value(modulesKey{}).(*module.ResolvedSet); ok {
		return set
	}
	return nil
}

// WithClientMetadata attaches client transport metadata to the context.
func WithClientMetadata(ctx context.Context, meta ClientMetadata) context.Context {
	return context.WithValue(ctx, clientMetadataKey{}, meta)
}

// GetClientMetadata returns client metadata; the zero value when the
// middleware did not run.
func GetClientMetadata(ctx context.Context) ClientMetadata {
	if meta, ok := ctx.Value(clientMetadataKey{}).(ClientMetadata); ok {
		return meta
	}
	return ClientMetadata{}
}
