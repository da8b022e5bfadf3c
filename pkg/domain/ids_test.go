package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "dashgate/pkg/domain-errors"
)

func TestParseTenantID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "acme"},
		{name: "with dash", input: "other-co"},
		{name: "with underscore", input: "fresh_start"},
		{name: "with digits", input: "tenant42"},
		{name: "max length", input: strings.Repeat("a", 64)},
		{name: "empty", input: "", wantErr: true},
		{name: "too long", input: strings.Repeat("a", 65), wantErr: true},
		{name: "uppercase", input: "Acme", wantErr: true},
		{name: "spaces", input: "ac me", wantErr: true},
		{name: "leading dash", input: "-acme", wantErr: true},
		{name: "trailing underscore", input: "acme_", wantErr: true},
		{name: "path traversal", input: "../etc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTenantID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestParseModuleID(t *testing.T) {
	got, err := ParseModuleID("performance")
	require.NoError(t, err)
	assert.Equal(t, "performance", got.String())
	assert.False(t, got.IsZero())

	_, err = ParseModuleID("Not A Module")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
