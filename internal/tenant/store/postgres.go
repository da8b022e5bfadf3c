package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dashgate/internal/tenant/models"
	id "dashgate/pkg/domain"
	"dashgate/pkg/platform/sentinel"
	"dashgate/pkg/secrets"
)

// PostgresStore reads tenants from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed tenant store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// FindByID retrieves a tenant by its identifier.
func (s *PostgresStore) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	query := `
		SELECT id, name, client_type, status, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`
	tenant, err := scanTenant(s.db.QueryRowContext(ctx, query, tenantID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find tenant by id: %w: %w", sentinel.ErrUnavailable, err)
	}
	return tenant, nil
}

// FindByHost retrieves a tenant by its registered host label (case-insensitive).
func (s *PostgresStore) FindByHost(ctx context.Context, host string) (*models.Tenant, error) {
	query := `
		SELECT t.id, t.name, t.client_type, t.status, t.created_at, t.updated_at
		FROM tenants t
		JOIN tenant_hosts h ON h.tenant_id = t.id
		WHERE lower(h.host) = lower($1)
	`
	tenant, err := scanTenant(s.db.QueryRowContext(ctx, query, host))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find tenant by host: %w: %w", sentinel.ErrUnavailable, err)
	}
	return tenant, nil
}

// FindByAPIKey verifies a "dk_<tenant>.<secret>" key against the stored hash
// and returns the owning tenant.
func (s *PostgresStore) FindByAPIKey(ctx context.Context, key string) (*models.Tenant, error) {
	tenantID, secret, err := SplitAPIKey(key)
	if err != nil {
		return nil, err
	}

	var hash string
	query := `SELECT key_hash FROM tenant_api_keys WHERE tenant_id = $1`
	if err := s.db.QueryRowContext(ctx, query, tenantID.String()).Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find api key: %w: %w", sentinel.ErrUnavailable, err)
	}
	if err := secrets.Verify(secret, hash); err != nil {
		return nil, sentinel.ErrNotFound
	}
	return s.FindByID(ctx, tenantID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*models.Tenant, error) {
	var t models.Tenant
	var tid, clientType, status string
	if err := row.Scan(&tid, &t.Name, &clientType, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.ID = id.TenantID(tid)
	t.ClientType = models.ClientType(clientType)
	t.Status = models.TenantStatus(status)
	return &t, nil
}
