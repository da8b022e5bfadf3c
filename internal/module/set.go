package module

import (
	"sort"
	"time"

	id "dashgate/pkg/domain"
)

// Outcome states how a ResolvedSet came to be. It lets callers distinguish
// "this tenant is entitled to nothing" from "we could not find out" - the two
// must never be collapsed.
type Outcome string

const (
	// OutcomeResolved means the assignment store answered and every assigned
	// implementation loaded. The set's keys are exactly the tenant's
	// entitlement at resolution time.
	OutcomeResolved Outcome = "resolved"

	// OutcomeDegraded means resolution could not produce the full entitlement:
	// either the assignment store was unreachable (empty set) or some
	// implementations failed to load (partial set). Degraded sets are never
	// cached.
	OutcomeDegraded Outcome = "degraded"
)

// ResolvedSet maps a tenant's entitled module ids to ready-to-dispatch
// implementations. Built fresh per resolution, immutable once published to
// the cache, and never shared by reference across tenants.
type ResolvedSet struct {
	tenantID   id.TenantID
	outcome    Outcome
	modules    map[id.ModuleID]Module
	loadErrors map[id.ModuleID]string
	resolvedAt time.Time
}

// NewResolvedSet builds an immutable set from the loaded implementations.
// loadErrors records per-module failures so one bad module never blocks a
// tenant; a non-empty map marks the set degraded.
func NewResolvedSet(tenantID id.TenantID, modules map[id.ModuleID]Module, loadErrors map[id.ModuleID]string, now time.Time) *ResolvedSet {
	owned := make(map[id.ModuleID]Module, len(modules))
	for k, v := range modules {
		owned[k] = v
	}
	outcome := OutcomeResolved
	var ownedErrs map[id.ModuleID]string
	if len(loadErrors) > 0 {
		outcome = OutcomeDegraded
		ownedErrs = make(map[id.ModuleID]string, len(loadErrors))
		for k, v := range loadErrors {
			ownedErrs[k] = v
		}
	}
	return &ResolvedSet{
		tenantID:   tenantID,
		outcome:    outcome,
		modules:    owned,
		loadErrors: ownedErrs,
		resolvedAt: now,
	}
}

// NewDegradedSet builds the empty degraded set attached when resolution
// failed outright. It carries the tenant so module routes answer "module not
// available" instead of crashing the pipeline.
func NewDegradedSet(tenantID id.TenantID, now time.Time) *ResolvedSet {
	return &ResolvedSet{
		tenantID:   tenantID,
		outcome:    OutcomeDegraded,
		modules:    map[id.ModuleID]Module{},
		resolvedAt: now,
	}
}

// TenantID returns the tenant this set was resolved for. A set only ever
// describes one tenant; the dispatcher cross-checks this against the request
// context tenant.
func (s *ResolvedSet) TenantID() id.TenantID { return s.tenantID }

// Outcome reports whether the set reflects the full entitlement.
func (s *ResolvedSet) Outcome() Outcome { return s.outcome }

// ResolvedAt returns when the backing store was last consulted.
func (s *ResolvedSet) ResolvedAt() time.Time { return s.resolvedAt }

// Get looks up the implementation for a module id.
func (s *ResolvedSet) Get(moduleID id.ModuleID) (Module, bool) {
	m, ok := s.modules[moduleID]
	return m, ok
}

// Len returns the number of resolved modules.
func (s *ResolvedSet) Len() int { return len(s.modules) }

// IDs returns the resolved module ids in stable order.
func (s *ResolvedSet) IDs() []id.ModuleID {
	ids := make([]id.ModuleID, 0, len(s.modules))
	for mid := range s.modules {
		ids = append(ids, mid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// LoadErrors returns per-module load failure messages, keyed by module id.
// Empty for fully resolved sets.
func (s *ResolvedSet) LoadErrors() map[id.ModuleID]string {
	if len(s.loadErrors) == 0 {
		return nil
	}
	out := make(map[id.ModuleID]string, len(s.loadErrors))
	for k, v := range s.loadErrors {
		out[k] = v
	}
	return out
}
