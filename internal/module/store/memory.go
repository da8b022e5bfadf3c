package store

import (
	"context"
	"sync"

	"dashgate/internal/module"
	id "dashgate/pkg/domain"
)

// InMemory stores module assignments in memory for demo environments and tests.
type InMemory struct {
	mu          sync.RWMutex
	assignments map[id.TenantID][]module.Assignment
}

// NewInMemory creates an in-memory assignment store.
func NewInMemory() *InMemory {
	return &InMemory{
		assignments: make(map[id.TenantID][]module.Assignment),
	}
}

// Assign replaces a tenant's assignment for one module. Operators are
// expected to invalidate the module cache afterwards.
func (s *InMemory) Assign(tenantID id.TenantID, a module.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.assignments[tenantID] {
		if existing.ModuleID == a.ModuleID {
			s.assignments[tenantID][i] = a
			return
		}
	}
	s.assignments[tenantID] = append(s.assignments[tenantID], a)
}

// Unassign removes a tenant's assignment for one module.
func (s *InMemory) Unassign(tenantID id.TenantID, moduleID id.ModuleID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.assignments[tenantID]
	for i, existing := range rows {
		if existing.ModuleID == moduleID {
			s.assignments[tenantID] = append(rows[:i:i], rows[i+1:]...)
			return
		}
	}
}

// ListAssignments returns a copy of the tenant's assignments.
func (s *InMemory) ListAssignments(_ context.Context, tenantID id.TenantID) ([]module.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.assignments[tenantID]
	out := make([]module.Assignment, len(rows))
	copy(out, rows)
	return out, nil
}
