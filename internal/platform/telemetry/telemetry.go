// Package telemetry provides the module.Telemetry collaborator used by
// feature modules to report operational stats. Production deployments back
// this with the metrics pipeline; StaticSource serves fixed snapshots for
// demo environments and tests.
package telemetry

import (
	"context"
	"sync"

	"dashgate/internal/module"
	id "dashgate/pkg/domain"
	"dashgate/pkg/platform/sentinel"
)

// StaticSource returns pre-seeded stats per (tenant, module) pair, falling
// back to a default snapshot for unseeded pairs.
type StaticSource struct {
	mu       sync.RWMutex
	snapshot map[string]module.Stats
	fallback module.Stats
}

// NewStatic creates a static telemetry source with a healthy default snapshot.
func NewStatic() *StaticSource {
	return &StaticSource{
		snapshot: make(map[string]module.Stats),
		fallback: module.Stats{Online: true},
	}
}

// Seed records a snapshot for a (tenant, module) pair.
func (s *StaticSource) Seed(tenantID id.TenantID, moduleID id.ModuleID, stats module.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot[key(tenantID, moduleID)] = stats
}

// Snapshot implements module.Telemetry.
func (s *StaticSource) Snapshot(ctx context.Context, tenantID id.TenantID, moduleID id.ModuleID) (module.Stats, error) {
	if err := ctx.Err(); err != nil {
		return module.Stats{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if stats, ok := s.snapshot[key(tenantID, moduleID)]; ok {
		return stats, nil
	}
	return s.fallback, nil
}

func key(tenantID id.TenantID, moduleID id.ModuleID) string {
	return tenantID.String() + "/" + moduleID.String()
}

var _ module.Telemetry = (*StaticSource)(nil)

// Unavailable is a telemetry source that always fails. Used in tests to
// verify modules degrade their stats sections instead of erroring the request.
type Unavailable struct{}

// Snapshot implements module.Telemetry.
func (Unavailable) Snapshot(context.Context, id.TenantID, id.ModuleID) (module.Stats, error) {
	return module.Stats{}, sentinel.ErrUnavailable
}
