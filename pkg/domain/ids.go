// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"strings"

	dErrors "dashgate/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a ModuleID where a TenantID is expected.
// Both are opaque slugs ("acme", "performance"), assigned by the management plane.
type (
	TenantID string
	ModuleID string
)

const maxIDLength = 64

// ParseTenantID validates a tenant identifier at a trust boundary.
func ParseTenantID(s string) (TenantID, error) {
	if err := validateSlug(s, "tenant ID"); err != nil {
		return "", err
	}
	return TenantID(s), nil
}

// ParseModuleID validates a module identifier at a trust boundary.
func ParseModuleID(s string) (ModuleID, error) {
	if err := validateSlug(s, "module ID"); err != nil {
		return "", err
	}
	return ModuleID(s), nil
}

func (id TenantID) String() string { return string(id) }
func (id ModuleID) String() string { return string(id) }

func (id TenantID) IsZero() bool { return id == "" }
func (id ModuleID) IsZero() bool { return id == "" }

// validateSlug enforces the identifier grammar: lowercase alphanumerics,
// dashes and underscores, no leading or trailing separator.
func validateSlug(s, what string) error {
	if s == "" {
		return dErrors.New(dErrors.CodeInvalidInput, what+" cannot be empty")
	}
	if len(s) > maxIDLength {
		return dErrors.New(dErrors.CodeInvalidInput, what+" must be 64 characters or less")
	}
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") ||
		strings.HasPrefix(s, "_") || strings.HasSuffix(s, "_") {
		return dErrors.New(dErrors.CodeInvalidInput, what+" cannot start or end with a separator")
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return dErrors.New(dErrors.CodeInvalidInput, what+" contains invalid characters")
		}
	}
	return nil
}
