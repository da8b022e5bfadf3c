// Package module defines the capability contract every feature module
// implementation satisfies, plus the catalog and resolution value types the
// registry, resolver and dispatcher exchange.
package module

import (
	"context"
	"log/slog"
	"net/http"

	id "dashgate/pkg/domain"
)

// Module is the contract a feature implementation satisfies. Multiple
// implementations can exist per module id - a generic "standard" one shared
// by most tenants, and bespoke variants for named custom deployments.
type Module interface {
	// Register performs one-time setup when the implementation is mounted.
	// It receives the host services (logger, telemetry) the implementation
	// may hold on to. Called exactly once per instance, before any dispatch.
	Register(host Host) error

	// Info returns the implementation's self-description, used by the
	// catalog introspection endpoint.
	Info() Info

	// HandleRequest handles a dispatched call. The request URL path has
	// already been rewritten to the module-relative sub-path.
	HandleRequest(w http.ResponseWriter, r *http.Request)
}

// Host exposes the gateway services an implementation may use.
// Passed to Register; implementations must not reach for globals.
type Host interface {
	Logger() *slog.Logger
	Telemetry() Telemetry
}

// Info is an implementation's self-reported metadata.
type Info struct {
	Name           string   `json:"name"`
	Implementation string   `json:"implementation"`
	Version        string   `json:"version"`
	Endpoints      []string `json:"endpoints"`
}

// Telemetry is the observability collaborator modules read runtime stats
// from. Real deployments back this with the metrics pipeline; tests and the
// demo environment use a static snapshot source.
type Telemetry interface {
	Snapshot(ctx context.Context, tenantID id.TenantID, moduleID id.ModuleID) (Stats, error)
}

// Stats is a point-in-time view of a module's operational state for one tenant.
type Stats struct {
	Online         bool    `json:"online"`
	ResponseTimeMS float64 `json:"response_time_ms"`
	RequestsServed int64   `json:"requests_served"`
}
