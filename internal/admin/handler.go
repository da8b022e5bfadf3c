// Package admin exposes the operator surface: explicit cache invalidation
// after assignment changes, and catalog introspection. Routes are mounted
// behind the admin-token middleware.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"dashgate/internal/module"
	"dashgate/internal/platform/middleware"
	id "dashgate/pkg/domain"
	"dashgate/pkg/platform/httputil"
)

// ModuleCache is the invalidation surface of the module resolver.
type ModuleCache interface {
	Invalidate(tenantID id.TenantID)
	CachedTenants() int
}

// TenantCache is the invalidation surface of the tenant resolver.
type TenantCache interface {
	Invalidate()
}

// Catalog lists registered module descriptors.
type Catalog interface {
	Descriptors() []module.Descriptor
}

type Handler struct {
	moduleCache ModuleCache
	tenantCache TenantCache
	catalog     Catalog
	logger      *slog.Logger
}

func New(moduleCache ModuleCache, tenantCache TenantCache, catalog Catalog, logger *slog.Logger) *Handler {
	return &Handler{
		moduleCache: moduleCache,
		tenantCache: tenantCache,
		catalog:     catalog,
		logger:      logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/cache/invalidate/{tenantID}", h.HandleInvalidateTenant)
	r.Get("/admin/catalog", h.HandleCatalog)
	r.Get("/admin/cache", h.HandleCacheStats)
}

// InvalidateResponse acknowledges a cache invalidation.
type InvalidateResponse struct {
	Success  bool   `json:"success"`
	TenantID string `json:"tenant_id"`
}

// HandleInvalidateTenant drops the tenant's resolved module set (and the
// tenant lookup cache, since assignment changes often accompany tenant
// record changes). The next request re-reads the backing store.
func (h *Handler) HandleInvalidateTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, err := id.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.moduleCache.Invalidate(tenantID)
	h.tenantCache.Invalidate()

	h.logger.InfoContext(r.Context(), "cache invalidated",
		"tenant_id", tenantID.String(),
		"request_id", middleware.GetRequestID(r.Context()),
	)
	httputil.WriteJSON(w, http.StatusOK, InvalidateResponse{
		Success:  true,
		TenantID: tenantID.String(),
	})
}

// CatalogResponse lists the registered module descriptors.
type CatalogResponse struct {
	Modules []module.Descriptor `json:"modules"`
	Total   int                 `json:"total"`
}

// HandleCatalog returns every registered descriptor - the tenant-independent
// view of what modules exist. Entitlement stays per-tenant on /modules.
func (h *Handler) HandleCatalog(w http.ResponseWriter, _ *http.Request) {
	descriptors := h.catalog.Descriptors()
	httputil.WriteJSON(w, http.StatusOK, CatalogResponse{
		Modules: descriptors,
		Total:   len(descriptors),
	})
}

// CacheStatsResponse reports cache occupancy for operators.
type CacheStatsResponse struct {
	CachedTenants int `json:"cached_tenants"`
}

// HandleCacheStats reports how many tenants currently have cached module sets.
func (h *Handler) HandleCacheStats(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, CacheStatsResponse{
		CachedTenants: h.moduleCache.CachedTenants(),
	})
}
