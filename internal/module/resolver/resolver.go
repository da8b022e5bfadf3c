// Package resolver turns a tenant id into the tenant's concrete,
// ready-to-dispatch module map. It wraps the assignment store with a TTL
// cache and coalesces concurrent resolutions per tenant id, so resolution is
// cheap enough to run on every request.
package resolver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"dashgate/internal/module"
	"dashgate/internal/module/metrics"
	"dashgate/internal/module/store"
	"dashgate/internal/platform/tracer"
	id "dashgate/pkg/domain"
	dErrors "dashgate/pkg/domain-errors"
)

// loadConcurrency bounds parallel implementation loads per resolution.
const loadConcurrency = 4

// Catalog is the registry surface the resolver needs: construct the named
// implementation variant for a module id.
type Catalog interface {
	Load(ctx context.Context, moduleID id.ModuleID, implementationKey string, host module.Host) (module.Module, error)
}

// Config carries resolver construction parameters.
type Config struct {
	// TTL bounds how long a resolved set may be served from cache.
	TTL time.Duration

	// Clock is injectable for TTL tests; defaults to the wall clock.
	Clock clock.Clock

	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Tracer  tracer.Tracer
}

// Resolver resolves tenants to module sets.
type Resolver struct {
	assignments store.AssignmentStore
	catalog     Catalog
	host        module.Host
	cache       *setCache
	group       singleflight.Group
	clock       clock.Clock
	logger      *slog.Logger
	metrics     *metrics.Metrics
	tracer      tracer.Tracer
}

// New constructs a module resolver.
func New(assignments store.AssignmentStore, catalog Catalog, host module.Host, cfg Config) *Resolver {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = tracer.NewNoop()
	}
	return &Resolver{
		assignments: assignments,
		catalog:     catalog,
		host:        host,
		cache:       newSetCache(cfg.TTL, cfg.Clock),
		clock:       cfg.Clock,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		tracer:      cfg.Tracer,
	}
}

// ResolveModules returns the tenant's resolved module set.
//
// Cache hits return immediately with no I/O. On a miss, concurrent callers
// for the same tenant coalesce onto a single backing-store resolution; the
// winner's result is shared. A caller whose context is cancelled stops
// waiting, but the shared flight runs to completion so it can still populate
// the cache for everyone else.
//
// Store failures surface as errors for this tenant only and are never
// cached. Sets with per-module load failures come back degraded (the healthy
// modules are present) and are not cached either, so a transient load
// problem cannot stick for a full TTL.
func (r *Resolver) ResolveModules(ctx context.Context, tenantID id.TenantID) (*module.ResolvedSet, error) {
	start := r.clock.Now()
	ctx, span := r.tracer.Start(ctx, "modules.resolve",
		tracer.String("tenant.id", tenantID.String()))

	if set, ok := r.cache.get(tenantID); ok {
		span.SetAttributes(tracer.Bool("cache.hit", true))
		span.End(nil)
		if r.metrics != nil {
			r.metrics.CacheHits.Inc()
			r.metrics.ObserveResolve(start)
		}
		return set, nil
	}
	if r.metrics != nil {
		r.metrics.CacheMisses.Inc()
	}

	// Detach the flight from this caller's lifetime: cancellation of one
	// consumer must not abort a resolution other consumers are waiting on.
	flightCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(tenantID.String(), func() (any, error) {
		return r.resolve(flightCtx, tenantID)
	})

	select {
	case res := <-ch:
		if r.metrics != nil {
			if res.Shared {
				r.metrics.CoalescedWaits.Inc()
			}
			r.metrics.ObserveResolve(start)
		}
		if res.Err != nil {
			span.End(res.Err)
			return nil, res.Err
		}
		set := res.Val.(*module.ResolvedSet)
		span.SetAttributes(tracer.Int("modules.count", set.Len()))
		span.End(nil)
		return set, nil
	case <-ctx.Done():
		span.End(ctx.Err())
		return nil, ctx.Err()
	}
}

// Invalidate evicts the tenant's cached set and forgets any in-flight
// resolution, so the next caller re-reads the assignment store. A flight
// already running keeps serving its waiters but its result is discarded
// rather than cached. Operators call this (via the admin endpoint) after
// changing a tenant's assignments.
func (r *Resolver) Invalidate(tenantID id.TenantID) {
	r.cache.delete(tenantID)
	r.group.Forget(tenantID.String())
	if r.metrics != nil {
		r.metrics.Invalidations.Inc()
	}
}

// CachedTenants reports how many tenants currently have cached sets.
func (r *Resolver) CachedTenants() int {
	return r.cache.len()
}

// resolve performs the uncached resolution: query assignments, load each
// implementation, publish to cache.
func (r *Resolver) resolve(ctx context.Context, tenantID id.TenantID) (*module.ResolvedSet, error) {
	// Record the invalidation generation before touching the store. An
	// invalidation that lands while this flight is reading makes the result
	// stale; the generation check below keeps it out of the cache.
	gen := r.cache.generation(tenantID)

	assignments, err := r.assignments.ListAssignments(ctx, tenantID)
	if err != nil {
		if r.metrics != nil {
			r.metrics.ResolveFailures.Inc()
		}
		// Unreachable store is not "zero modules assigned"; fail this tenant
		// without caching anything.
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable,
			"module assignments unavailable for tenant "+tenantID.String())
	}

	var mu sync.Mutex
	loaded := make(map[id.ModuleID]module.Module, len(assignments))
	loadErrors := make(map[id.ModuleID]string)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for _, a := range assignments {
		a := a
		g.Go(func() error {
			impl, err := r.catalog.Load(gctx, a.ModuleID, a.ImplementationKey, r.host)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// One bad module must not block the tenant; record and move on.
				loadErrors[a.ModuleID] = err.Error()
				r.logger.Error("module implementation failed to load",
					"tenant_id", tenantID.String(),
					"module_id", a.ModuleID.String(),
					"implementation", a.ImplementationKey,
					"error", err,
				)
				if r.metrics != nil {
					r.metrics.ModuleLoadFailed.WithLabelValues(a.ModuleID.String()).Inc()
				}
				return nil
			}
			loaded[a.ModuleID] = impl
			return nil
		})
	}
	_ = g.Wait() // load failures are collected, never returned

	set := module.NewResolvedSet(tenantID, loaded, loadErrors, r.clock.Now())
	if set.Outcome() == module.OutcomeResolved {
		r.cache.set(tenantID, set, gen)
	}
	return set, nil
}
