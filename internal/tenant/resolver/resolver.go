// Package resolver determines which tenant an inbound request belongs to.
// Resolution is a pure lookup against the tenant store: the resolver never
// mutates tenant records, and an unidentifiable request is a valid outcome
// (nil tenant, nil error), not a failure.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"

	"dashgate/internal/platform/tracer"
	"dashgate/internal/tenant/metrics"
	"dashgate/internal/tenant/models"
	"dashgate/internal/tenant/store"
	id "dashgate/pkg/domain"
	dErrors "dashgate/pkg/domain-errors"
	"dashgate/pkg/platform/sentinel"
)

// Config carries resolver construction parameters.
type Config struct {
	// JWTSigningKey verifies bearer tokens carrying a tenant claim.
	JWTSigningKey []byte

	// CacheTTL bounds how long a tenant lookup may be served from cache.
	CacheTTL time.Duration

	// Clock is injectable for TTL tests; defaults to the wall clock.
	Clock clock.Clock

	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Tracer  tracer.Tracer
}

// Resolver resolves inbound requests to tenants via an ordered list of
// identification strategies (explicit header, bearer token, API key, host).
type Resolver struct {
	store      store.Store
	strategies []Strategy
	cache      *lookupCache
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     tracer.Tracer
}

// New constructs a tenant resolver over the given store.
func New(tenants store.Store, cfg Config) *Resolver {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = tracer.NewNoop()
	}
	return &Resolver{
		store:      tenants,
		strategies: defaultStrategies(cfg.JWTSigningKey),
		cache:      newLookupCache(cfg.CacheTTL, cfg.Clock),
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		tracer:     cfg.Tracer,
	}
}

// Resolve determines the calling tenant for the request.
//
// Returns (nil, nil) when no tenant context applies - unidentified requests,
// unknown tenants, and inactive tenants all resolve to absence. Returns an
// error only when the backing lookup itself failed; callers must not treat
// that as "no tenant".
func (r *Resolver) Resolve(req *http.Request) (*models.Tenant, error) {
	start := time.Now()
	ctx, span := r.tracer.Start(req.Context(), "tenant.resolve")

	hint, ok := r.identify(req)
	if !ok {
		span.End(nil)
		r.observe(start, "absent")
		return nil, nil
	}
	span.SetAttributes(tracer.String("tenant.hint_kind", string(hint.Kind)))

	if tenant, hit := r.cache.get(hint.cacheKey()); hit {
		span.SetAttributes(tracer.Bool("cache.hit", true))
		span.End(nil)
		if r.metrics != nil {
			r.metrics.CacheHits.Inc()
		}
		r.observe(start, "resolved")
		return tenant, nil
	}

	// Record the purge generation before touching the store, so a lookup that
	// straddles an Invalidate cannot republish the pre-purge record.
	gen := r.cache.generation()

	tenant, err := r.lookup(ctx, hint)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrInvalidInput) {
			// Unknown credential or tenant: a valid absence, not an error.
			span.End(nil)
			r.observe(start, "absent")
			return nil, nil
		}
		span.End(err)
		r.observe(start, "error")
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "tenant lookup failed")
	}
	if !tenant.IsActive() {
		span.End(nil)
		r.observe(start, "absent")
		return nil, nil
	}

	r.cache.set(hint.cacheKey(), tenant, gen)
	span.SetAttributes(tracer.String("tenant.id", tenant.ID.String()))
	span.End(nil)
	r.observe(start, "resolved")
	return tenant, nil
}

// Invalidate drops all cached lookups. Called when the management plane
// changes tenant records out from under us.
func (r *Resolver) Invalidate() {
	r.cache.purge()
}

// identify runs the strategies in order; the first producing a hint wins.
func (r *Resolver) identify(req *http.Request) (Hint, bool) {
	for _, s := range r.strategies {
		if hint, ok := s.Identify(req); ok {
			return hint, true
		}
	}
	return Hint{}, false
}

func (r *Resolver) lookup(ctx context.Context, hint Hint) (*models.Tenant, error) {
	switch hint.Kind {
	case HintTenantID:
		tenantID, err := id.ParseTenantID(hint.Value)
		if err != nil {
			return nil, sentinel.ErrInvalidInput
		}
		return r.store.FindByID(ctx, tenantID)
	case HintAPIKey:
		return r.store.FindByAPIKey(ctx, hint.Value)
	case HintHost:
		return r.store.FindByHost(ctx, hint.Value)
	default:
		return nil, sentinel.ErrInvalidInput
	}
}

func (r *Resolver) observe(start time.Time, outcome string) {
	if r.metrics != nil {
		r.metrics.ObserveResolve(start, outcome)
	}
}
