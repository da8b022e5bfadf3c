// Package seeder populates the in-memory backing stores for the demo
// environment. Production deployments read tenants and assignments from
// PostgreSQL instead; nothing here runs when a database is configured.
package seeder

import (
	"fmt"
	"log/slog"
	"time"

	"dashgate/internal/module"
	modulestore "dashgate/internal/module/store"
	"dashgate/internal/modules/forecast"
	"dashgate/internal/modules/inventory"
	"dashgate/internal/modules/performance"
	"dashgate/internal/platform/telemetry"
	"dashgate/internal/tenant/models"
	tenantstore "dashgate/internal/tenant/store"
	id "dashgate/pkg/domain"
	"dashgate/pkg/secrets"
)

// seedTenant is one demo tenant row: who they are and what they get.
type seedTenant struct {
	id          id.TenantID
	name        string
	clientType  models.ClientType
	host        string
	assignments []module.Assignment
}

// demoTenants is the data-driven seed catalog. Adding a tenant or changing
// an entitlement is a data change here, not new registration code.
var demoTenants = []seedTenant{
	{
		id:         "acme",
		name:       "Acme Retail",
		clientType: models.ClientTypeStandard,
		host:       "acme",
		assignments: []module.Assignment{
			{ModuleID: performance.ModuleID, ImplementationKey: module.ImplementationStandard},
			{ModuleID: inventory.ModuleID, ImplementationKey: module.ImplementationStandard},
		},
	},
	{
		id:         "other-co",
		name:       "Other Co",
		clientType: "other-co-custom",
		host:       "other-co",
		assignments: []module.Assignment{
			{ModuleID: performance.ModuleID, ImplementationKey: performance.ImplementationCustom},
		},
	},
	{
		id:         "fresh-start",
		name:       "Fresh Start LLC",
		clientType: models.ClientTypeStandard,
		host:       "fresh-start",
		assignments: []module.Assignment{
			{ModuleID: forecast.ModuleID, ImplementationKey: module.ImplementationStandard},
		},
	},
}

// Seed loads the demo tenants, their module assignments, API keys, and
// telemetry snapshots. The generated API keys are logged once at startup so
// the demo environment is usable out of the box.
func Seed(tenants *tenantstore.InMemory, assignments *modulestore.InMemory, source *telemetry.StaticSource, logger *slog.Logger) error {
	now := time.Now().UTC()

	for _, seed := range demoTenants {
		tenant, err := models.NewTenant(seed.id, seed.name, seed.clientType, now)
		if err != nil {
			return fmt.Errorf("seed tenant %s: %w", seed.id, err)
		}
		if err := tenants.Add(tenant, seed.host); err != nil {
			return fmt.Errorf("seed tenant %s: %w", seed.id, err)
		}

		secret, err := secrets.Generate()
		if err != nil {
			return fmt.Errorf("seed api key for %s: %w", seed.id, err)
		}
		hash, err := secrets.Hash(secret)
		if err != nil {
			return fmt.Errorf("seed api key for %s: %w", seed.id, err)
		}
		tenants.SetAPIKeyHash(seed.id, hash)

		for _, a := range seed.assignments {
			assignments.Assign(seed.id, a)
			source.Seed(seed.id, a.ModuleID, module.Stats{
				Online:         true,
				ResponseTimeMS: 42,
				RequestsServed: 1000,
			})
		}

		logger.Info("seeded demo tenant",
			"tenant_id", seed.id.String(),
			"client_type", string(seed.clientType),
			"modules", len(seed.assignments),
			"api_key", tenantstore.APIKeyPrefix+seed.id.String()+"."+secret,
		)
	}
	return nil
}
