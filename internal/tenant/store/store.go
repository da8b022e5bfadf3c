// Package store defines the tenant lookup contract consumed by the tenant
// resolver. Implementations must return sentinel.ErrNotFound for unknown
// tenants and sentinel.ErrUnavailable (wrapped) for infrastructure failures
// so the resolver can tell the two apart.
package store

import (
	"context"

	"dashgate/internal/tenant/models"
	id "dashgate/pkg/domain"
)

// Store is the read surface the resolver needs. The management plane that
// creates tenants lives elsewhere; this core only looks them up.
type Store interface {
	// FindByID retrieves a tenant by its identifier.
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)

	// FindByHost retrieves a tenant by its registered host name
	// (the subdomain label a tenant serves under).
	FindByHost(ctx context.Context, host string) (*models.Tenant, error)

	// FindByAPIKey retrieves the tenant owning the given API key.
	// The key carries the tenant id in its prefix ("dk_<tenant>.<secret>");
	// implementations verify the secret against the stored hash.
	FindByAPIKey(ctx context.Context, key string) (*models.Tenant, error)
}
