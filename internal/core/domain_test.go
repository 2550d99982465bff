package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStats(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	t.Run("expiring window boundary", func(t *testing.T) {
		domains := []*Domain{
			{Name: "thirty.com", Status: DomainStatusActive, ExpirationDate: now.Add(30 * day)},
			{Name: "thirtyone.com", Status: DomainStatusActive, ExpirationDate: now.Add(31 * day)},
			{Name: "gone.com", Status: DomainStatusExpired, ExpirationDate: now.Add(-day)},
			{Name: "now.com", Status: DomainStatusActive, ExpirationDate: now},
		}

		stats := ComputeStats(domains, now)
		assert.Equal(t, 4, stats.TotalDomains)
		assert.Equal(t, 1, stats.ExpiringSoon)
		assert.Equal(t, 3, stats.ActiveDomains)
	})

	t.Run("this month uses calendar month", func(t *testing.T) {
		domains := []*Domain{
			{Name: "first.com", RegistrationDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
			{Name: "today.com", RegistrationDate: now},
			{Name: "lastmonth.com", RegistrationDate: time.Date(2026, 9, 30, 23, 59, 59, 0, time.UTC)},
			{Name: "nextmonth.com", RegistrationDate: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)},
		}

		assert.Equal(t, 2, ComputeStats(domains, now).ThisMonth)
	})

	t.Run("single active domain", func(t *testing.T) {
		domains := []*Domain{{
			Name:             "mysite.org",
			Status:           DomainStatusActive,
			ExpirationDate:   now.Add(180 * day),
			RegistrationDate: now.Add(-180 * day),
		}}

		assert.Equal(t, DomainStats{TotalDomains: 1, ActiveDomains: 1}, ComputeStats(domains, now))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, DomainStats{}, ComputeStats(nil, now))
	})
}

func TestMonthBounds(t *testing.T) {
	start, next := MonthBounds(time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), next)
}

func TestNormalizeStatus(t *testing.T) {
	tests := map[string]DomainStatus{
		"ACTIVE":              DomainStatusActive,
		"active":              DomainStatusActive,
		"":                    DomainStatusActive,
		"EXPIRED":             DomainStatusExpired,
		"CANCELLED_TRANSFER":  DomainStatusExpired,
		"redemption":          DomainStatusExpired,
		"PENDING_TRANSFER":    DomainStatusPending,
		"pending_dns_active":  DomainStatusPending,
		"expiring":            DomainStatusExpiring,
		"Parked":              DomainStatus("parked"),
		"  TRANSFERRED_OUT  ": DomainStatus("transferred_out"),
	}

	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			assert.Equal(t, want, NormalizeStatus(raw))
		})
	}
}

func TestDomainFiltersMatch(t *testing.T) {
	d := &Domain{Name: "NewsLetter-Sender.com", Registrar: RegistrarNamecheap, Status: DomainStatusActive}

	assert.True(t, DomainFilters{}.Match(d))
	assert.True(t, DomainFilters{Search: "letter"}.Match(d))
	assert.True(t, DomainFilters{Registrar: "namecheap", Status: "active"}.Match(d))
	assert.False(t, DomainFilters{Registrar: "godaddy"}.Match(d))
	assert.False(t, DomainFilters{Status: "expired"}.Match(d))
	assert.False(t, DomainFilters{Search: "coldemail"}.Match(d))
}

func TestDomainPatchApply(t *testing.T) {
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	d := &Domain{Name: "example.com", Status: DomainStatusActive, AutoRenew: true, Nameservers: []string{"a.ns.net"}}

	expired := DomainStatusExpired
	ns := []string{"b.ns.net"}
	DomainPatch{Status: &expired, Nameservers: ns}.Apply(d, now)

	assert.Equal(t, DomainStatusExpired, d.Status)
	assert.Equal(t, []string{"b.ns.net"}, d.Nameservers)
	assert.True(t, d.AutoRenew)
	assert.Equal(t, now, d.LastUpdated)

	ns[0] = "mutated"
	assert.Equal(t, "b.ns.net", d.Nameservers[0])

	assert.True(t, DomainPatch{}.Empty())
	assert.False(t, DomainPatch{Status: &expired}.Empty())
}

func TestNewDomain(t *testing.T) {
	now := time.Now()
	d := NewDomain(Domain{Name: "x.io"}, now)

	require.NotEmpty(t, d.ID)
	assert.NotNil(t, d.Nameservers)
	assert.Equal(t, now, d.LastUpdated)
	assert.False(t, d.AutoRenew)

	kept := NewDomain(Domain{ID: "domain-9"}, now)
	assert.Equal(t, "domain-9", kept.ID)
}
