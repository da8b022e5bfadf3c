package module

import (
	"log/slog"
)

// gatewayHost is the Host handed to implementations at Register time.
type gatewayHost struct {
	logger    *slog.Logger
	telemetry Telemetry
}

// NewHost bundles the gateway services exposed to module implementations.
func NewHost(logger *slog.Logger, telemetry Telemetry) Host {
	return &gatewayHost{logger: logger, telemetry: telemetry}
}

func (h *gatewayHost) Logger() *slog.Logger { return h.logger }
func (h *gatewayHost) Telemetry() Telemetry { return h.telemetry }
