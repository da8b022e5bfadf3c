package admin

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"dashgate/internal/module"
	id "dashgate/pkg/domain"
)

type fakeModuleCache struct {
	invalidated []id.TenantID
	cached      int
}

func (f *fakeModuleCache) Invalidate(tenantID id.TenantID) {
	f.invalidated = append(f.invalidated, tenantID)
}

func (f *fakeModuleCache) CachedTenants() int { return f.cached }

type fakeTenantCache struct {
	purges int
}

func (f *fakeTenantCache) Invalidate() { f.purges++ }

type fakeCatalog struct {
	descriptors []module.Descriptor
}

func (f *fakeCatalog) Descriptors() []module.Descriptor { return f.descriptors }

type AdminSuite struct {
	suite.Suite
	moduleCache *fakeModuleCache
	tenantCache *fakeTenantCache
	catalog     *fakeCatalog
	router      chi.Router
}

func (s *AdminSuite) SetupTest() {
	s.moduleCache = &fakeModuleCache{cached: 3}
	s.tenantCache = &fakeTenantCache{}
	s.catalog = &fakeCatalog{descriptors: []module.Descriptor{
		{ModuleID: "inventory", DisplayName: "Inventory Insights"},
		{ModuleID: "performance", DisplayName: "Performance Analytics"},
	}}

	handler := New(s.moduleCache, s.tenantCache, s.catalog,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	handler.Register(s.router)
}

func TestAdminSuite(t *testing.T) {
	suite.Run(t, new(AdminSuite))
}

func (s *AdminSuite) TestInvalidateTenant() {
	req := httptest.NewRequest(http.MethodPost, "/admin/cache/invalidate/acme", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)
	var body InvalidateResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.True(body.Success)
	s.Equal("acme", body.TenantID)

	s.Equal([]id.TenantID{"acme"}, s.moduleCache.invalidated)
	s.Equal(1, s.tenantCache.purges)
}

func (s *AdminSuite) TestInvalidateRejectsMalformedTenantID() {
	req := httptest.NewRequest(http.MethodPost, "/admin/cache/invalidate/Not%20A%20Tenant", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Empty(s.moduleCache.invalidated)
	s.Equal(0, s.tenantCache.purges)
}

func (s *AdminSuite) TestCatalog() {
	req := httptest.NewRequest(http.MethodGet, "/admin/catalog", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)
	var body CatalogResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(2, body.Total)
	require.Len(s.T(), body.Modules, 2)
	assert.Equal(s.T(), id.ModuleID("inventory"), body.Modules[0].ModuleID)
}

func (s *AdminSuite) TestCacheStats() {
	req := httptest.NewRequest(http.MethodGet, "/admin/cache", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)
	var body CacheStatsResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal(3, body.CachedTenants)
}
