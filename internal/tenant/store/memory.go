package store

import (
	"context"
	"strings"
	"sync"

	"dashgate/internal/tenant/models"
	id "dashgate/pkg/domain"
	"dashgate/pkg/platform/sentinel"
	"dashgate/pkg/secrets"
)

// APIKeyPrefix prefixes every issued tenant API key.
const APIKeyPrefix = "dk_"

// InMemory stores tenants in memory for demo environments and tests.
type InMemory struct {
	mu      sync.RWMutex
	tenants map[id.TenantID]*models.Tenant
	hostIdx map[string]id.TenantID
	keyIdx  map[id.TenantID]string // tenant id -> bcrypt hash of key secret
}

// NewInMemory creates an in-memory tenant store.
func NewInMemory() *InMemory {
	return &InMemory{
		tenants: make(map[id.TenantID]*models.Tenant),
		hostIdx: make(map[string]id.TenantID),
		keyIdx:  make(map[id.TenantID]string),
	}
}

// Add registers a tenant under the given host name. Seeding-time helper;
// the resolution core never writes tenants at request time.
func (s *InMemory) Add(t *models.Tenant, host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tenants[t.ID]; exists {
		return sentinel.ErrConflict
	}
	s.tenants[t.ID] = t
	if host != "" {
		s.hostIdx[strings.ToLower(host)] = t.ID
	}
	return nil
}

// SetAPIKeyHash stores the bcrypt hash of a tenant's API key secret.
func (s *InMemory) SetAPIKeyHash(tenantID id.TenantID, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyIdx[tenantID] = hash
}

// FindByID retrieves a tenant by its identifier.
func (s *InMemory) FindByID(_ context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tenants[tenantID]; ok {
		return t, nil
	}
	return nil, sentinel.ErrNotFound
}

// FindByHost retrieves a tenant by its registered host label (case-insensitive).
func (s *InMemory) FindByHost(_ context.Context, host string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if tid, ok := s.hostIdx[strings.ToLower(host)]; ok {
		return s.tenants[tid], nil
	}
	return nil, sentinel.ErrNotFound
}

// FindByAPIKey parses a "dk_<tenant>.<secret>" key, verifies the secret
// against the stored hash, and returns the owning tenant.
func (s *InMemory) FindByAPIKey(ctx context.Context, key string) (*models.Tenant, error) {
	tenantID, secret, err := SplitAPIKey(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	hash, ok := s.keyIdx[tenantID]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := secrets.Verify(secret, hash); err != nil {
		return nil, sentinel.ErrNotFound
	}
	return s.FindByID(ctx, tenantID)
}

// SplitAPIKey parses the "dk_<tenant>.<secret>" wire format shared by all
// store implementations.
func SplitAPIKey(key string) (id.TenantID, string, error) {
	raw, ok := strings.CutPrefix(key, APIKeyPrefix)
	if !ok {
		return "", "", sentinel.ErrInvalidInput
	}
	tenantPart, secret, ok := strings.Cut(raw, ".")
	if !ok || secret == "" {
		return "", "", sentinel.ErrInvalidInput
	}
	tenantID, err := id.ParseTenantID(tenantPart)
	if err != nil {
		return "", "", sentinel.ErrInvalidInput
	}
	return tenantID, secret, nil
}
