package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashgate/internal/tenant/models"
	id "dashgate/pkg/domain"
	"dashgate/pkg/platform/sentinel"
	"dashgate/pkg/secrets"
)

func newTenant(t *testing.T, tenantID id.TenantID) *models.Tenant {
	t.Helper()
	tenant, err := models.NewTenant(tenantID, "Tenant "+tenantID.String(), models.ClientTypeStandard, time.Now())
	require.NoError(t, err)
	return tenant
}

func TestInMemoryAdd(t *testing.T) {
	s := NewInMemory()
	require.NoError(t, s.Add(newTenant(t, "acme"), "acme"))

	err := s.Add(newTenant(t, "acme"), "acme-again")
	assert.ErrorIs(t, err, sentinel.ErrConflict)
}

func TestInMemoryFindByID(t *testing.T) {
	s := NewInMemory()
	require.NoError(t, s.Add(newTenant(t, "acme"), "acme"))

	tenant, err := s.FindByID(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, id.TenantID("acme"), tenant.ID)

	_, err = s.FindByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryFindByHostIsCaseInsensitive(t *testing.T) {
	s := NewInMemory()
	require.NoError(t, s.Add(newTenant(t, "acme"), "Acme"))

	tenant, err := s.FindByHost(context.Background(), "ACME")
	require.NoError(t, err)
	assert.Equal(t, id.TenantID("acme"), tenant.ID)

	_, err = s.FindByHost(context.Background(), "ghost")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryFindByAPIKey(t *testing.T) {
	s := NewInMemory()
	require.NoError(t, s.Add(newTenant(t, "acme"), "acme"))

	secret, err := secrets.Generate()
	require.NoError(t, err)
	hash, err := secrets.Hash(secret)
	require.NoError(t, err)
	s.SetAPIKeyHash("acme", hash)

	key := APIKeyPrefix + "acme." + secret
	tenant, err := s.FindByAPIKey(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, id.TenantID("acme"), tenant.ID)

	// Wrong secret and unknown tenant are both indistinguishable not-founds.
	_, err = s.FindByAPIKey(context.Background(), APIKeyPrefix+"acme.wrong-secret")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	_, err = s.FindByAPIKey(context.Background(), APIKeyPrefix+"ghost."+secret)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestSplitAPIKey(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		wantTenant id.TenantID
		wantSecret string
		wantErr    bool
	}{
		{name: "valid", key: "dk_acme.s3cret", wantTenant: "acme", wantSecret: "s3cret"},
		{name: "secret with dot", key: "dk_acme.part.two", wantTenant: "acme", wantSecret: "part.two"},
		{name: "missing prefix", key: "acme.s3cret", wantErr: true},
		{name: "missing secret", key: "dk_acme.", wantErr: true},
		{name: "missing separator", key: "dk_acme", wantErr: true},
		{name: "invalid tenant slug", key: "dk_ACME.s3cret", wantErr: true},
		{name: "empty", key: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenantID, secret, err := SplitAPIKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, sentinel.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTenant, tenantID)
			assert.Equal(t, tt.wantSecret, secret)
		})
	}
}
