package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashgate/internal/module"
)

func TestInMemoryAssignReplacesPerModule(t *testing.T) {
	s := NewInMemory()
	s.Assign("acme", module.Assignment{ModuleID: "performance", ImplementationKey: "standard"})
	s.Assign("acme", module.Assignment{ModuleID: "inventory", ImplementationKey: "standard"})
	s.Assign("acme", module.Assignment{ModuleID: "performance", ImplementationKey: "custom"})

	rows, err := s.ListAssignments(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "custom", rows[0].ImplementationKey)
	assert.Equal(t, module.Assignment{ModuleID: "inventory", ImplementationKey: "standard"}, rows[1])
}

func TestInMemoryUnassign(t *testing.T) {
	s := NewInMemory()
	s.Assign("acme", module.Assignment{ModuleID: "performance", ImplementationKey: "standard"})
	s.Assign("acme", module.Assignment{ModuleID: "inventory", ImplementationKey: "standard"})

	s.Unassign("acme", "performance")
	s.Unassign("acme", "never-assigned")

	rows, err := s.ListAssignments(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "inventory", rows[0].ModuleID.String())
}

func TestInMemoryListUnknownTenantIsEmptyNotError(t *testing.T) {
	s := NewInMemory()
	rows, err := s.ListAssignments(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestInMemoryListReturnsCopies(t *testing.T) {
	s := NewInMemory()
	s.Assign("acme", module.Assignment{ModuleID: "performance", ImplementationKey: "standard"})

	rows, err := s.ListAssignments(context.Background(), "acme")
	require.NoError(t, err)
	rows[0].ImplementationKey = "mutated"

	again, err := s.ListAssignments(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "standard", again[0].ImplementationKey)
}
