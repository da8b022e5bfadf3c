// Package catalog enumerates the built-in module catalog entries. Startup
// registers these in one data-driven loop; adding a module means adding an
// entry here, not new wiring code.
package catalog

import (
	"dashgate/internal/module"
	"dashgate/internal/module/registry"
	"dashgate/internal/modules/forecast"
	"dashgate/internal/modules/inventory"
	"dashgate/internal/modules/performance"
)

// Entries returns every built-in catalog entry with its implementation variants.
func Entries() []registry.Entry {
	return []registry.Entry{
		{
			Descriptor: module.Descriptor{
				ModuleID:     performance.ModuleID,
				DisplayName:  "Performance Analytics",
				Endpoints:    []string{"/report", "/summary"},
				Capabilities: []string{"analytics", "telemetry"},
			},
			Implementations: map[string]registry.Factory{
				module.ImplementationStandard:    performance.NewStandard,
				performance.ImplementationCustom: performance.NewCustom,
			},
		},
		{
			Descriptor: module.Descriptor{
				ModuleID:     inventory.ModuleID,
				DisplayName:  "Inventory Insights",
				Endpoints:    []string{"/report", "/levels"},
				Capabilities: []string{"analytics"},
			},
			Implementations: map[string]registry.Factory{
				module.ImplementationStandard: inventory.NewStandard,
			},
		},
		{
			Descriptor: module.Descriptor{
				ModuleID:     forecast.ModuleID,
				DisplayName:  "Demand Forecast",
				Endpoints:    []string{"/report"},
				Capabilities: []string{"analytics", "projection"},
			},
			Implementations: map[string]registry.Factory{
				module.ImplementationStandard: forecast.NewStandard,
			},
		},
	}
}
