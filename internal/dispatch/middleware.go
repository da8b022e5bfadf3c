// Package dispatch injects resolved tenant state into the request pipeline
// and routes module sub-paths to the correct implementation.
package dispatch

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/benbjohnson/clock"

	"dashgate/internal/module"
	"dashgate/internal/platform/middleware"
	"dashgate/internal/tenant/models"
	id "dashgate/pkg/domain"
	"dashgate/pkg/requestcontext"
)

// TenantResolver is the tenant resolution surface the injector consumes.
type TenantResolver interface {
	Resolve(r *http.Request) (*models.Tenant, error)
}

// ModuleResolver is the module resolution surface the injector consumes.
type ModuleResolver interface {
	ResolveModules(ctx context.Context, tenantID id.TenantID) (*module.ResolvedSet, error)
}

// Injector is the pipeline stage that runs before any route handler: resolve
// tenant, resolve modules, attach both to the request context. Resolver
// failures degrade the context instead of failing the request - module routes
// then answer "module not available" rather than crashing the pipeline.
type Injector struct {
	tenants TenantResolver
	modules ModuleResolver
	logger  *slog.Logger
	clock   clock.Clock
}

// NewInjector constructs the context injector. Collaborators are passed
// explicitly; the injector never reaches into ambient state.
func NewInjector(tenants TenantResolver, modules ModuleResolver, logger *slog.Logger, clk clock.Clock) *Injector {
	if clk == nil {
		clk = clock.New()
	}
	return &Injector{tenants: tenants, modules: modules, logger: logger, clock: clk}
}

// Handler resolves tenant and modules for each request.
func (i *Injector) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tenant, err := i.tenants.Resolve(r)
		if err != nil {
			// Backing store failure: proceed anonymously, log at error level.
			i.logger.ErrorContext(ctx, "tenant resolution failed",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
				"path", r.URL.Path,
			)
			next.ServeHTTP(w, r)
			return
		}
		if tenant == nil {
			// Anonymous/system route; an empty context is a valid state.
			next.ServeHTTP(w, r)
			return
		}

		ctx = requestcontext.WithTenant(ctx, tenant)

		set, err := i.modules.ResolveModules(ctx, tenant.ID)
		if err != nil {
			// Keep the known tenant, attach an empty degraded set. Module
			// routes answer "module not available"; /modules still succeeds.
			i.logger.ErrorContext(ctx, "module resolution failed",
				"error", err,
				"tenant_id", tenant.ID.String(),
				"request_id", middleware.GetRequestID(ctx),
			)
			set = module.NewDegradedSet(tenant.ID, i.clock.Now())
		}
		ctx = requestcontext.WithModules(ctx, set)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
