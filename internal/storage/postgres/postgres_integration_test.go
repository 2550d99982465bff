//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/leozw/domainhub/internal/config"
	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/storage"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	dsn       string
	db        *DB
	now       time.Time
	ctx       context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcpostgres.Run(s.ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("domainhub"),
		tcpostgres.WithUsername("domainhub"),
		tcpostgres.WithPassword("domainhub"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	s.dsn, err = container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.Require().NoError(Migrate(s.dsn))
	// A second run is a no-op.
	s.Require().NoError(Migrate(s.dsn))
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.container != nil {
		s.NoError(s.container.Terminate(s.ctx))
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	// Postgres keeps microseconds.
	s.now = time.Now().UTC().Truncate(time.Second)

	db, err := NewConnection(s.dsn, 5, 2)
	s.Require().NoError(err)
	s.db = db.WithClock(func() time.Time { return s.now })

	_, err = s.db.ExecContext(s.ctx, `TRUNCATE users CASCADE`)
	s.Require().NoError(err)

	cfg := &config.Config{}
	cfg.Demo.DefaultUserID = "mock-user-123"
	s.Require().NoError(storage.Seed(s.ctx, s.db, cfg, s.now))
}

func (s *PostgresStoreSuite) TearDownTest() {
	s.NoError(s.db.Close())
}

func (s *PostgresStoreSuite) TestSeedAndList() {
	user, err := s.db.GetUserByUsername(s.ctx, "demo")
	s.Require().NoError(err)
	s.Equal("mock-user-123", user.ID)

	domains, err := s.db.GetDomains(s.ctx, "mock-user-123", core.DomainFilters{})
	s.Require().NoError(err)
	s.Require().Len(domains, 5)
	s.Equal("coldemaildomain.io", domains[0].Name)
	s.Require().NotNil(domains[0].RegistrarConnection)
	s.Equal(core.RegistrarGoDaddy, domains[0].RegistrarConnection.Registrar)
	s.Equal([]string{"ns1.cloudflare.com", "ns2.cloudflare.com"}, domains[0].Nameservers)
}

func (s *PostgresStoreSuite) TestFilters() {
	domains, err := s.db.GetDomains(s.ctx, "mock-user-123", core.DomainFilters{Registrar: "namecheap"})
	s.Require().NoError(err)
	s.Len(domains, 2)

	domains, err = s.db.GetDomains(s.ctx, "mock-user-123", core.DomainFilters{Search: "SITE"})
	s.Require().NoError(err)
	s.Require().Len(domains, 1)
	s.Equal("mysite.org", domains[0].Name)

	domains, err = s.db.GetDomains(s.ctx, "mock-user-123", core.DomainFilters{Status: "expiring"})
	s.Require().NoError(err)
	s.Len(domains, 1)
}

func (s *PostgresStoreSuite) TestGetMissing() {
	_, err := s.db.GetDomain(s.ctx, "nope")
	s.ErrorIs(err, storage.ErrNotFound)

	_, err = s.db.GetRegistrarConnection(s.ctx, "nope")
	s.ErrorIs(err, storage.ErrNotFound)

	_, err = s.db.UpdateDomain(s.ctx, "nope", core.DomainPatch{})
	s.ErrorIs(err, storage.ErrNotFound)

	s.ErrorIs(s.db.DeleteRegistrarConnection(s.ctx, "nope"), storage.ErrNotFound)
}

func (s *PostgresStoreSuite) TestUpdateNameservers() {
	s.now = s.now.Add(time.Minute)

	d, err := s.db.UpdateDomainNameservers(s.ctx, "domain-1", []string{"ns1.example.net", "ns2.example.net"})
	s.Require().NoError(err)
	s.Equal([]string{"ns1.example.net", "ns2.example.net"}, d.Nameservers)
	s.True(d.LastUpdated.Equal(s.now))
	s.True(d.AutoRenew)
	s.Equal(core.DomainStatusActive, d.Status)
}

func (s *PostgresStoreSuite) TestBulkUpdateSkipsUnknown() {
	expired := core.DomainStatusExpired
	updated, err := s.db.BulkUpdateDomains(s.ctx, []string{"domain-3", "missing", "domain-1"}, core.DomainPatch{Status: &expired})
	s.Require().NoError(err)
	s.Require().Len(updated, 2)
	s.Equal("domain-3", updated[0].ID)
	s.Equal("domain-1", updated[1].ID)
	for _, d := range updated {
		s.Equal(core.DomainStatusExpired, d.Status)
	}
}

func (s *PostgresStoreSuite) TestConnectionLifecycle() {
	synced := s.now.Add(time.Hour)
	active := false
	conn, err := s.db.UpdateRegistrarConnection(s.ctx, "dynadot-conn-1", core.ConnectionPatch{
		IsActive: &active,
		LastSync: &synced,
	})
	s.Require().NoError(err)
	s.False(conn.IsActive)
	s.Require().NotNil(conn.LastSync)
	s.True(conn.LastSync.Equal(synced))

	activeConns, err := s.db.GetActiveConnections(s.ctx)
	s.Require().NoError(err)
	s.Len(activeConns, 2)

	s.ErrorIs(s.db.DeleteRegistrarConnection(s.ctx, "godaddy-conn-1"), storage.ErrInUse)
	domains, err := s.db.GetDomains(s.ctx, "mock-user-123", core.DomainFilters{})
	s.Require().NoError(err)
	s.Len(domains, 5)
}

func (s *PostgresStoreSuite) TestStats() {
	stats, err := s.db.GetDomainStats(s.ctx, "mock-user-123")
	s.Require().NoError(err)

	domains, err := s.db.GetDomains(s.ctx, "mock-user-123", core.DomainFilters{})
	s.Require().NoError(err)
	plain := make([]*core.Domain, 0, len(domains))
	for _, d := range domains {
		d := d.Domain
		plain = append(plain, &d)
	}
	s.Equal(core.ComputeStats(plain, s.now), stats)
	s.Equal(5, stats.TotalDomains)
	s.Equal(1, stats.ExpiringSoon)
	s.Equal(4, stats.ActiveDomains)
}
