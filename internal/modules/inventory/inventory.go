// Package inventory provides the inventory analytics module.
package inventory

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
const ModuleID id.ModuleID = "inventory"

// Standard is the generic inventory implementation.
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
		return dErrors.New(dErrors.CodeInvariantViolation, "inventory module registered twice")
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
		Version:        "1.0.3",
		Endpoints:      []string{"/report", "/levels"},
	}
}

// Report is the inventory status payload.
type Report struct {
	Module      string       `json:"module"`
	TenantID    string       `json:"tenant_id"`
	Stats       module.Stats `json:"stats"`
	GeneratedAt string       `json:"generated_at"`
}

func (s *Standard) HandleRequest(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/report", "/levels":
		s.handleReport(w, r)
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown inventory endpoint "+r.URL.Path))
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
