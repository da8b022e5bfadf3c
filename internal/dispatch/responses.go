package dispatch

import (
	"dashgate/internal/module"
	"dashgate/internal/tenant/models"
)

// TenantResponse is the tenant summary embedded in dispatch responses.
type TenantResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ClientType string `json:"client_type"`
}

func toTenantResponse(t *models.Tenant) TenantResponse {
	return TenantResponse{
		ID:         t.ID.String(),
		Name:       t.Name,
		ClientType: string(t.ClientType),
	}
}

// ListModulesResponse answers the catalog introspection query.
type ListModulesResponse struct {
	Success      bool              `json:"success"`
	Tenant       TenantResponse    `json:"tenant"`
	Modules      []module.Info     `json:"modules"`
	TotalModules int               `json:"totalModules"`
	Resolution   string            `json:"resolution"`
	LoadErrors   map[string]string `json:"load_errors,omitempty"`
}

// ModuleErrorResponse is the 404 body for module routes. It names the tenant
// the request resolved to - and nothing about any other tenant.
type ModuleErrorResponse struct {
	Error     string          `json:"error"`
	Message   string          `json:"message,omitempty"`
	Tenant    *TenantResponse `json:"tenant,omitempty"`
	Timestamp string          `json:"timestamp"`
}
