package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"dashgate/internal/module"
	id "dashgate/pkg/domain"
	"dashgate/pkg/platform/sentinel"
)

// PostgresStore reads module assignments from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed assignment store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ListAssignments returns the tenant's module assignments.
func (s *PostgresStore) ListAssignments(ctx context.Context, tenantID id.TenantID) ([]module.Assignment, error) {
	query := `
		SELECT module_id, implementation_key
		FROM module_assignments
		WHERE tenant_id = $1
		ORDER BY module_id
	`
	rows, err := s.db.QueryContext(ctx, query, tenantID.String())
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w: %w", sentinel.ErrUnavailable, err)
	}
	defer rows.Close()

	var out []module.Assignment
	for rows.Next() {
		var moduleID, implKey string
		if err := rows.Scan(&moduleID, &implKey); err != nil {
			return nil, fmt.Errorf("scan assignment: %w: %w", sentinel.ErrUnavailable, err)
		}
		out = append(out, module.Assignment{
			ModuleID:          id.ModuleID(moduleID),
			ImplementationKey: implKey,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assignments: %w: %w", sentinel.ErrUnavailable, err)
	}
	return out, nil
}

// Assign upserts a tenant's assignment for one module. Operators are
// expected to invalidate the module cache afterwards.
func (s *PostgresStore) Assign(ctx context.Context, tenantID id.TenantID, a module.Assignment) error {
	query := `
		INSERT INTO module_assignments (tenant_id, module_id, implementation_key)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, module_id)
		DO UPDATE SET implementation_key = EXCLUDED.implementation_key
	`
	if _, err := s.db.ExecContext(ctx, query, tenantID.String(), a.ModuleID.String(), a.ImplementationKey); err != nil {
		if isForeignKeyViolation(err) {
			return sentinel.ErrInvalidInput
		}
		return fmt.Errorf("assign module: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// Unassign removes a tenant's assignment for one module.
func (s *PostgresStore) Unassign(ctx context.Context, tenantID id.TenantID, moduleID id.ModuleID) error {
	query := `DELETE FROM module_assignments WHERE tenant_id = $1 AND module_id = $2`
	if _, err := s.db.ExecContext(ctx, query, tenantID.String(), moduleID.String()); err != nil {
		return fmt.Errorf("unassign module: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

// isForeignKeyViolation reports whether err is a PostgreSQL foreign key violation.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
