package models

import (
	"time"

	id "dashgate/pkg/domain"
	dErrors "dashgate/pkg/domain-errors"
)

// ClientType classifies a tenant and determines which implementation variant
// of a module it receives. "standard" tenants share the generic
// implementations; custom deployments carry their own named type.
type ClientType string

const (
	ClientTypeStandard ClientType = "standard"
)

// TenantStatus tracks the tenant lifecycle.
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusInactive TenantStatus = "inactive"
)

// Tenant is the organization boundary all module entitlement is scoped to.
// Created and updated by the tenant-management plane; read-only to the
// resolution core - resolvers look it up but never mutate it.
type Tenant struct {
	ID         id.TenantID  `json:"id"`
	Name       string       `json:"name"`
	ClientType ClientType   `json:"client_type"`
	Status     TenantStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// NewTenant validates and constructs a tenant record.
func NewTenant(tenantID id.TenantID, name string, clientType ClientType, now time.Time) (*Tenant, error) {
	if tenantID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant id cannot be empty")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name cannot be empty")
	}
	if len(name) > 128 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant name must be 128 characters or less")
	}
	if clientType == "" {
		clientType = ClientTypeStandard
	}
	return &Tenant{
		ID:         tenantID,
		Name:       name,
		ClientType: clientType,
		Status:     TenantStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
