// Package performance provides the performance analytics module: KPI report
// and summary endpoints over the injected telemetry collaborator.
package performance

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"dashgate/internal/module"
	id "dashgate/pkg/domain"
	dErrors "dashgate/pkg/domain-errors"
	"dashgate/pkg/platform/httputil"
	"dashgate/pkg/requestcontext"
)

// ModuleID identifies this module in the catalog.
const ModuleID id.ModuleID = "performance"

// Standard is the implementation shared by all standard-tier tenants.
type Standard struct {
	logger     *slog.Logger
	telemetry  module.Telemetry
	registered bool
}

// NewStandard is the registry factory for the standard implementation.
func NewStandard(_ context.Context) (module.Module, error) {
	return &Standard{}, nil
}

// Register wires host services. Called exactly once per instance.
func (s *Standard) Register(host module.Host) error {
	if s.registered {
		return dErrors.New(dErrors.CodeInvariantViolation, "performance module registered twice")
	}
	s.logger = host.Logger().With("module", ModuleID.String())
	s.telemetry = host.Telemetry()
	s.registered = true
	return nil
}

// Info returns the module's self-description.
func (s *Standard) Info() module.Info {
	return module.Info{
		Name:           ModuleID.String(),
		Implementation: module.ImplementationStandard,
		Version:        "1.2.0",
		Endpoints:      []string{"/report", "/summary"},
	}
}

// Report is the performance report payload.
type Report struct {
	Module      string       `json:"module"`
	TenantID    string       `json:"tenant_id"`
	Stats       module.Stats `json:"stats"`
	GeneratedAt string       `json:"generated_at"`
}

// HandleRequest routes module-relative sub-paths.
func (s *Standard) HandleRequest(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/report":
		s.handleReport(w, r)
	case "/summary":
		s.handleSummary(w, r)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown performance endpoint "+r.URL.Path))
	}
}

func (s *Standard) handleReport(w http.ResponseWriter, r *http.Request) {
	tenant := requestcontext.Tenant(r.Context())
	if tenant == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no tenant context"))
		return
	}

	stats, err := s.telemetry.Snapshot(r.Context(), tenant.ID, ModuleID)
	if err != nil {
		// Telemetry being down degrades the stats section, not the report.
		s.logger.WarnContext(r.Context(), "telemetry unavailable", "error", err, "tenant_id", tenant.ID.String())
		stats = module.Stats{}
	}

	httputil.WriteJSON(w, http.StatusOK, Report{
		Module:      ModuleID.String(),
		TenantID:    tenant.ID.String(),
		Stats:       stats,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// Summary is the condensed performance payload.
type Summary struct {
	Module string `json:"module"`
	Online bool   `json:"online"`
}

func (s *Standard) handleSummary(w http.ResponseWriter, r *http.Request) {
	tenant := requestcontext.Tenant(r.Context())
	if tenant == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no tenant context"))
		return
	}
	stats, err := s.telemetry.Snapshot(r.Context(), tenant.ID, ModuleID)
	if err != nil {
		stats = module.Stats{}
	}
	httputil.WriteJSON(w, http.StatusOK, Summary{Module: ModuleID.String(), Online: stats.Online})
}
