package module

import (
	id "dashgate/pkg/domain"
)

// ImplementationStandard is the implementation key shared by all tenants that
// have no bespoke variant assigned.
const ImplementationStandard = "standard"

// Descriptor describes what a module can do, independent of any tenant.
// Immutable once registered in the catalog.
type Descriptor struct {
	ModuleID     id.ModuleID `json:"module_id"`
	DisplayName  string      `json:"display_name"`
	Endpoints    []string    `json:"endpoints"`
	Capabilities []string    `json:"capabilities"`
}

// Assignment relates a tenant to one module it is entitled to, naming the
// implementation variant that tenant receives. This is the join row the
// module resolver queries.
type Assignment struct {
	ModuleID          id.ModuleID `json:"module_id"`
	ImplementationKey string      `json:"implementation_key"`
}
