// Package forecast provides the demand forecast module.
package forecast

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"dashgate/internal/module"
	id "dashgate/pkg/domain"
	dErrors "dashgate/pkg/domain-errors"
	"dashgate/pkg/platform/httputil"
	"dashgate/pkg/requestcontext"
)

// ModuleID identifies this module in the catalog.
const ModuleID id.ModuleID = "forecast"

// defaultHorizonDays bounds the forecast window when the caller omits one.
const defaultHorizonDays = 30

// Standard is the generic forecast implementation.
type Standard struct {
	logger     *slog.Logger
	telemetry  module.Telemetry
	registered bool
}

// NewStandard is the registry factory for the standard implementation.
func NewStandard(_ context.Context) (module.Module, error) {
	return &Standard{}, nil
}

func (s *Standard) Register(host module.Host) error {
	if s.registered {
		return dErrors.New(dErrors.CodeInvariantViolation, "forecast module registered twice")
	}
	s.logger = host.Logger().With("module", ModuleID.String())
	s.telemetry = host.Telemetry()
	s.registered = true
	return nil
}

func (s *Standard) Info() module.Info {
	return module.Info{
		Name:           ModuleID.String(),
		Implementation: module.ImplementationStandard,
		Version:        "0.9.0",
		Endpoints:      []string{"/report"},
	}
}

// Report is the forecast payload. The projection itself comes from the
// analytics collaborators upstream; this module only frames the window.
type Report struct {
	Module      string       `json:"module"`
	TenantID    string       `json:"tenant_id"`
	HorizonDays int          `json:"horizon_days"`
	Stats       module.Stats `json:"stats"`
	GeneratedAt string       `json:"generated_at"`
}

func (s *Standard) HandleRequest(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/report" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown forecast endpoint "+r.URL.Path))
		return
	}

	tenant := requestcontext.Tenant(r.Context())
	if tenant == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no tenant context"))
		return
	}

	horizon := defaultHorizonDays
	if v := r.URL.Query().Get("horizon"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 365 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "horizon must be between 1 and 365 days"))
			return
		}
		horizon = parsed
	}

	stats, err := s.telemetry.Snapshot(r.Context(), tenant.ID, ModuleID)
	if err != nil {
		s.logger.WarnContext(r.Context(), "telemetry unavailable", "error", err, "tenant_id", tenant.ID.String())
		stats = module.Stats{}
	}

	httputil.WriteJSON(w, http.StatusOK, Report{
		Module:      ModuleID.String(),
		TenantID:    tenant.ID.String(),
		HorizonDays: horizon,
		Stats:       stats,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	})
}
