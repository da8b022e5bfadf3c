package dispatch

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"dashgate/internal/module"
	"dashgate/internal/module/metrics"
	"dashgate/internal/platform/middleware"
	id "dashgate/pkg/domain"
	"dashgate/pkg/platform/httputil"
	"dashgate/pkg/requestcontext"
)

// Handler is the dynamic dispatcher: it reads the injected request context
// and forwards module sub-paths to the resolved implementation, or answers
// catalog introspection queries.
type Handler struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewHandler constructs the dispatcher.
func NewHandler(logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{logger: logger, metrics: m}
}

// Register mounts the dispatch routes. These must sit behind the Injector
// middleware; without an injected context every module route is a 404.
func (h *Handler) Register(r chi.Router) {
	r.Get("/modules", h.HandleListModules)
	r.HandleFunc("/modules/{moduleID}", h.HandleDispatch)
	r.HandleFunc("/modules/{moduleID}/*", h.HandleDispatch)
}

// HandleListModules returns the tenant's resolved module ids with each
// implementation's self-reported metadata.
func (h *Handler) HandleListModules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant := requestcontext.Tenant(ctx)
	if tenant == nil {
		httputil.WriteJSON(w, http.StatusNotFound, ModuleErrorResponse{
			Error:     "no_modules_available",
			Message:   "no tenant context for this request",
			Timestamp: h.now(),
		})
		return
	}

	set := requestcontext.Modules(ctx)
	if set == nil {
		// Injector always attaches a set alongside a tenant; treat a bare
		// tenant as a degraded empty set to stay crash-free regardless.
		httputil.WriteJSON(w, http.StatusOK, ListModulesResponse{
			Success:      true,
			Tenant:       toTenantResponse(tenant),
			Modules:      []module.Info{},
			TotalModules: 0,
			Resolution:   string(module.OutcomeDegraded),
		})
		return
	}

	infos := make([]module.Info, 0, set.Len())
	for _, mid := range set.IDs() {
		impl, _ := set.Get(mid)
		info := impl.Info()
		if info.Name == "" {
			info.Name = mid.String()
		}
		infos = append(infos, info)
	}

	var loadErrors map[string]string
	if errs := set.LoadErrors(); len(errs) > 0 {
		loadErrors = make(map[string]string, len(errs))
		for mid, msg := range errs {
			loadErrors[mid.String()] = msg
		}
	}

	httputil.WriteJSON(w, http.StatusOK, ListModulesResponse{
		Success:      true,
		Tenant:       toTenantResponse(tenant),
		Modules:      infos,
		TotalModules: len(infos),
		Resolution:   string(set.Outcome()),
		LoadErrors:   loadErrors,
	})
}

// HandleDispatch forwards /modules/{moduleID}/{rest} to the implementation
// resolved for the calling tenant. The implementation sees the rest sub-path
// as its request path.
func (h *Handler) HandleDispatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant := requestcontext.Tenant(ctx)
	set := requestcontext.Modules(ctx)

	moduleID, err := id.ParseModuleID(chi.URLParam(r, "moduleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if tenant == nil || set == nil {
		h.writeModuleNotFound(w, r, moduleID, nil)
		return
	}

	// The set is bound to exactly one tenant; a mismatch here would mean
	// cross-tenant leakage upstream, which must never reach a module.
	if set.TenantID() != tenant.ID {
		h.logger.ErrorContext(ctx, "resolved set does not match request tenant",
			"tenant_id", tenant.ID.String(),
			"set_tenant_id", set.TenantID().String(),
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteJSON(w, http.StatusInternalServerError, ModuleErrorResponse{
			Error:     "internal_error",
			Message:   "module context mismatch",
			Timestamp: h.now(),
		})
		return
	}

	impl, ok := set.Get(moduleID)
	if !ok {
		if h.metrics != nil {
			h.metrics.DispatchMisses.Inc()
		}
		tr := toTenantResponse(tenant)
		h.writeModuleNotFound(w, r, moduleID, &tr)
		return
	}

	if h.metrics != nil {
		h.metrics.ModulesDispatched.WithLabelValues(moduleID.String()).Inc()
	}

	// Rewrite the URL so the implementation sees a module-relative path.
	// Failures inside HandleRequest propagate to the shared recovery layer.
	impl.HandleRequest(w, moduleRequest(r))
}

// writeModuleNotFound answers a dispatch miss. The body names the missing
// module and the calling tenant to aid operator diagnosis, and never includes
// any other tenant's module list.
func (h *Handler) writeModuleNotFound(w http.ResponseWriter, r *http.Request, moduleID id.ModuleID, tenant *TenantResponse) {
	msg := "module " + moduleID.String() + " is not available"
	if tenant != nil {
		msg += " for tenant " + tenant.ID
	}
	httputil.WriteJSON(w, http.StatusNotFound, ModuleErrorResponse{
		Error:     "module_not_found",
		Message:   msg,
		Tenant:    tenant,
		Timestamp: h.now(),
	})
}

// moduleRequest clones the request with the path rewritten to the dispatch
// wildcard remainder, so implementations route on their own sub-paths.
func moduleRequest(r *http.Request) *http.Request {
	rest := chi.URLParam(r, "*")
	r2 := r.Clone(r.Context())
	r2.URL.Path = "/" + rest
	r2.URL.RawPath = ""
	return r2
}

func (h *Handler) now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
