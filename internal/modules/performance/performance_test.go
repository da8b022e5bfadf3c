package performance

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashgate/internal/module"
	"dashgate/internal/platform/telemetry"
	"dashgate/internal/tenant/models"
	"dashgate/pkg/requestcontext"
)

func registered(t *testing.T, source module.Telemetry) *Standard {
	t.Helper()
	impl := &Standard{}
	host := module.NewHost(slog.New(slog.NewTextHandler(io.Discard, nil)), source)
	require.NoError(t, impl.Register(host))
	return impl
}

func tenantRequest(t *testing.T, target string) *http.Request {
	t.Helper()
	tenant, err := models.NewTenant("acme", "Acme", models.ClientTypeStandard, time.Now())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return req.WithContext(requestcontext.WithTenant(req.Context(), tenant))
}

func TestRegisterIsOneShot(t *testing.T) {
	impl := registered(t, telemetry.NewStatic())
	host := module.NewHost(slog.New(slog.NewTextHandler(io.Discard, nil)), telemetry.NewStatic())
	require.Error(t, impl.Register(host))
}

func TestReportIncludesSeededStats(t *testing.T) {
	source := telemetry.NewStatic()
	source.Seed("acme", ModuleID, module.Stats{Online: true, ResponseTimeMS: 12.5, RequestsServed: 77})
	impl := registered(t, source)

	rec := httptest.NewRecorder()
	impl.HandleRequest(rec, tenantRequest(t, "/report"))

	require.Equal(t, http.StatusOK, rec.Code)
	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "performance", report.Module)
	assert.Equal(t, "acme", report.TenantID)
	assert.Equal(t, 12.5, report.Stats.ResponseTimeMS)
	assert.EqualValues(t, 77, report.Stats.RequestsServed)
}

func TestReportDegradesWhenTelemetryDown(t *testing.T) {
	// Telemetry being unreachable empties the stats section; the report
	// itself still succeeds.
	impl := registered(t, telemetry.Unavailable{})

	rec := httptest.NewRecorder()
	impl.HandleRequest(rec, tenantRequest(t, "/report"))

	require.Equal(t, http.StatusOK, rec.Code)
	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, module.Stats{}, report.Stats)
}

func TestReportRequiresTenantContext(t *testing.T) {
	impl := registered(t, telemetry.NewStatic())

	rec := httptest.NewRecorder()
	impl.HandleRequest(rec, httptest.NewRequest(http.MethodGet, "/report", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownEndpoint(t *testing.T) {
	impl := registered(t, telemetry.NewStatic())

	rec := httptest.NewRecorder()
	impl.HandleRequest(rec, tenantRequest(t, "/nope"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCustomBreakdownSections(t *testing.T) {
	source := telemetry.NewStatic()
	source.Seed("acme", ModuleID, module.Stats{Online: true, ResponseTimeMS: 10})

	impl := &Custom{}
	host := module.NewHost(slog.New(slog.NewTextHandler(io.Discard, nil)), source)
	require.NoError(t, impl.Register(host))

	rec := httptest.NewRecorder()
	impl.HandleRequest(rec, tenantRequest(t, "/breakdown"))

	require.Equal(t, http.StatusOK, rec.Code)
	var report CustomReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, ImplementationCustom, impl.Info().Implementation)
	require.Len(t, report.Sections, 2)
	assert.Equal(t, 20.0, report.Sections[1].ResponseTimeMS)
}
