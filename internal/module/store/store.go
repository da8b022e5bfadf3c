// Package store defines the module assignment contract the module resolver
// queries. Implementations return sentinel.ErrUnavailable (wrapped) on
// infrastructure failure; a tenant with no assignments yields an empty slice
// and nil error - the two must stay distinguishable.
package store

import (
	"context"

	"dashgate/internal/module"
	id "dashgate/pkg/domain"
)

// AssignmentStore is the join between tenants and the modules they are
// entitled to, including which implementation variant each tenant receives.
type AssignmentStore interface {
	// ListAssignments returns the tenant's module assignments.
	// An unknown tenant has zero assignments; that is not an error.
	ListAssignments(ctx context.Context, tenantID id.TenantID) ([]module.Assignment, error)
}
