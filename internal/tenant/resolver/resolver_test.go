package resolver

// Unit tests for tenant resolution: strategy ordering, the absent vs
// unavailable distinction, and lookup caching. Strategy extraction edge cases
// live in strategy_test.go.

//go:generate mockgen -source=../store/store.go -destination=../store/mocks/mocks.go -package=mocks Store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"dashgate/internal/tenant/models"
	"dashgate/internal/tenant/store/mocks"
	id "dashgate/pkg/domain"
	dErrors "dashgate/pkg/domain-errors"
	"dashgate/pkg/platform/sentinel"
)

var testSigningKey = []byte("test-signing-key")

type ResolverSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	clock    *clock.Mock
	resolver *Resolver
}

func (s *ResolverSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.clock = clock.NewMock()
	s.resolver = New(s.store, Config{
		JWTSigningKey: testSigningKey,
		CacheTTL:      time.Minute,
		Clock:         s.clock,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func (s *ResolverSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) tenant(tenantID id.TenantID) *models.Tenant {
	t, err := models.NewTenant(tenantID, "Tenant "+tenantID.String(), models.ClientTypeStandard, s.clock.Now())
	s.Require().NoError(err)
	return t
}

func (s *ResolverSuite) TestHeaderIdentifiesTenant() {
	s.store.EXPECT().
		FindByID(gomock.Any(), id.TenantID("acme")).
		Return(s.tenant("acme"), nil)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("X-Tenant-ID", "acme")

	tenant, err := s.resolver.Resolve(req)
	s.Require().NoError(err)
	s.Require().NotNil(tenant)
	s.Equal(id.TenantID("acme"), tenant.ID)
}

func (s *ResolverSuite) TestBearerTokenIdentifiesTenant() {
	s.store.EXPECT().
		FindByID(gomock.Any(), id.TenantID("acme")).
		Return(s.tenant("acme"), nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"tid": "acme"})
	signed, err := token.SignedString(testSigningKey)
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	tenant, err := s.resolver.Resolve(req)
	s.Require().NoError(err)
	s.Require().NotNil(tenant)
	s.Equal(id.TenantID("acme"), tenant.ID)
}

func (s *ResolverSuite) TestForgedBearerTokenResolvesToNothing() {
	// Wrong key: the strategy rejects the token and no later strategy applies,
	// so the store is never consulted.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"tid": "acme"})
	signed, err := token.SignedString([]byte("attacker-key"))
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	tenant, err := s.resolver.Resolve(req)
	s.Require().NoError(err)
	s.Nil(tenant)
}

func (s *ResolverSuite) TestAPIKeyIdentifiesTenant() {
	s.store.EXPECT().
		FindByAPIKey(gomock.Any(), "dk_acme.sekret").
		Return(s.tenant("acme"), nil)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("X-API-Key", "dk_acme.sekret")

	tenant, err := s.resolver.Resolve(req)
	s.Require().NoError(err)
	s.Require().NotNil(tenant)
	s.Equal(id.TenantID("acme"), tenant.ID)
}

func (s *ResolverSuite) TestHostSubdomainIdentifiesTenant() {
	s.store.EXPECT().
		FindByHost(gomock.Any(), "acme").
		Return(s.tenant("acme"), nil)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Host = "acme.dashboard.example.com"

	tenant, err := s.resolver.Resolve(req)
	s.Require().NoError(err)
	s.Require().NotNil(tenant)
	s.Equal(id.TenantID("acme"), tenant.ID)
}

func (s *ResolverSuite) TestHeaderWinsOverHost() {
	// Both hints present: the explicit header outranks the host subdomain,
	// so FindByHost must never be called.
	s.store.EXPECT().
		FindByID(gomock.Any(), id.TenantID("acme")).
		Return(s.tenant("acme"), nil)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Host = "other-co.dashboard.example.com"
	req.Header.Set("X-Tenant-ID", "acme")

	tenant, err := s.resolver.Resolve(req)
	s.Require().NoError(err)
	s.Require().NotNil(tenant)
	s.Equal(id.TenantID("acme"), tenant.ID)
}

func (s *ResolverSuite) TestUnidentifiedRequestResolvesToNothing() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Host = "dashboard.example.com"

	tenant, err := s.resolver.Resolve(req)
	s.Require().NoError(err)
	s.Nil(tenant)
}

func (s *ResolverSuite) TestUnknownTenantResolvesToNothing() {
	s.store.EXPECT().
		FindByID(gomock.Any(), id.TenantID("ghost")).
		Return(nil, sentinel.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("X-Tenant-ID", "ghost")

	tenant, err := s.resolver.Resolve(req)
	s.Require().NoError(err)
	s.Nil(tenant)
}

func (s *ResolverSuite) TestMalformedTenantIDResolvesToNothing() {
	// Invalid slug never reaches the store.
	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("X-Tenant-ID", "Not A Slug!")

	tenant, err := s.resolver.Resolve(req)
	s.Require().NoError(err)
	s.Nil(tenant)
}

func (s *ResolverSuite) TestInactiveTenantResolvesToNothing() {
	inactive := s.tenant("acme")
	inactive.Status = models.TenantStatusInactive
	s.store.EXPECT().
		FindByID(gomock.Any(), id.TenantID("acme")).
		Return(inactive, nil)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("X-Tenant-ID", "acme")

	tenant, err := s.resolver.Resolve(req)
	s.Require().NoError(err)
	s.Nil(tenant)
}

func (s *ResolverSuite) TestStoreFailureIsAnError() {
	s.store.EXPECT().
		FindByID(gomock.Any(), id.TenantID("acme")).
		Return(nil, fmt.Errorf("%w: connection refused", sentinel.ErrUnavailable))

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("X-Tenant-ID", "acme")

	tenant, err := s.resolver.Resolve(req)
	s.Require().Error(err)
	s.Nil(tenant)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *ResolverSuite) TestLookupsAreCached() {
	s.store.EXPECT().
		FindByID(gomock.Any(), id.TenantID("acme")).
		Return(s.tenant("acme"), nil).
		Times(1)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("X-Tenant-ID", "acme")

	for i := 0; i < 3; i++ {
		tenant, err := s.resolver.Resolve(req)
		s.Require().NoError(err)
		s.Require().NotNil(tenant)
	}
}

func (s *ResolverSuite) TestCacheExpiresAfterTTL() {
	s.store.EXPECT().
		FindByID(gomock.Any(), id.TenantID("acme")).
		Return(s.tenant("acme"), nil).
		Times(2)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("X-Tenant-ID", "acme")

	_, err := s.resolver.Resolve(req)
	s.Require().NoError(err)

	s.clock.Add(time.Minute + time.Second)

	_, err = s.resolver.Resolve(req)
	s.Require().NoError(err)
}

func (s *ResolverSuite) TestInvalidatePurgesAllLookups() {
	s.store.EXPECT().
		FindByID(gomock.Any(), id.TenantID("acme")).
		Return(s.tenant("acme"), nil).
		Times(2)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("X-Tenant-ID", "acme")

	_, err := s.resolver.Resolve(req)
	s.Require().NoError(err)

	s.resolver.Invalidate()

	_, err = s.resolver.Resolve(req)
	s.Require().NoError(err)
}

func (s *ResolverSuite) TestInvalidateDuringLookupDiscardsStaleResult() {
	stale := s.tenant("acme")
	renamed := s.tenant("acme")
	renamed.Name = "Acme Renamed"

	entered := make(chan struct{})
	release := make(chan struct{})
	gomock.InOrder(
		s.store.EXPECT().
			FindByID(gomock.Any(), id.TenantID("acme")).
			DoAndReturn(func(context.Context, id.TenantID) (*models.Tenant, error) {
				close(entered)
				<-release
				return stale, nil
			}),
		s.store.EXPECT().
			FindByID(gomock.Any(), id.TenantID("acme")).
			Return(renamed, nil),
	)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("X-Tenant-ID", "acme")

	done := make(chan error, 1)
	go func() {
		_, err := s.resolver.Resolve(req)
		done <- err
	}()

	// The record changes and the management plane purges while the first
	// lookup is still reading the store.
	<-entered
	s.resolver.Invalidate()
	close(release)
	s.Require().NoError(<-done)

	// The straddling lookup must not have repopulated the cache; the next
	// resolve re-reads the store and sees the updated record.
	got, err := s.resolver.Resolve(req)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("Acme Renamed", got.Name)
}

func (s *ResolverSuite) TestNegativeResultsAreNotCached() {
	// An unknown tenant today may be provisioned a minute later; every
	// resolve of an unknown id consults the store.
	s.store.EXPECT().
		FindByID(gomock.Any(), id.TenantID("ghost")).
		Return(nil, sentinel.ErrNotFound).
		Times(2)

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	req.Header.Set("X-Tenant-ID", "ghost")

	for i := 0; i < 2; i++ {
		tenant, err := s.resolver.Resolve(req)
		s.Require().NoError(err)
		s.Nil(tenant)
	}
}
