package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type DomainStatus string

const (
	DomainStatusActive   DomainStatus = "active"
	DomainStatusExpiring DomainStatus = "expiring"
	DomainStatusExpired  DomainStatus = "expired"
	DomainStatusPending  DomainStatus = "pending"
)

// ExpiringWindow is how far ahead a domain counts as expiring soon.
const ExpiringWindow = 30 * 24 * time.Hour

type Domain struct {
	ID                    string       `json:"id" db:"id"`
	UserID                string       `json:"userId" db:"user_id"`
	RegistrarConnectionID string       `json:"registrarConnectionId" db:"registrar_connection_id"`
	Name                  string       `json:"name" db:"name"`
	Registrar             Registrar    `json:"registrar" db:"registrar"`
	Status                DomainStatus `json:"status" db:"status"`
	ExpirationDate        time.Time    `json:"expirationDate" db:"expiration_date"`
	RegistrationDate      time.Time    `json:"registrationDate" db:"registration_date"`
	Nameservers           []string     `json:"nameservers" db:"nameservers"`
	AutoRenew             bool         `json:"autoRenew" db:"auto_renew"`
	LastUpdated           time.Time    `json:"lastUpdated" db:"last_updated"`
	RegistrarDomainID     *string      `json:"registrarDomainId" db:"registrar_domain_id"`
}

// NewDomain fills the identity and bookkeeping fields of a domain about to be
// stored for the first time.
func NewDomain(d Domain, now time.Time) *Domain {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Nameservers == nil {
		d.Nameservers = []string{}
	}
	d.LastUpdated = now
	return &d
}

// DomainWithConnection is a domain joined with the connection that owns it.
type DomainWithConnection struct {
	Domain
	RegistrarConnection *RegistrarConnection `json:"registrarConnection,omitempty"`
}

type DomainFilters struct {
	Registrar string
	Status    string
	Search    string
}

// Match reports whether d passes every non-empty filter. Search is a
// case-insensitive substring match on the domain name.
func (f DomainFilters) Match(d *Domain) bool {
	if f.Registrar != "" && string(d.Registrar) != f.Registrar {
		return false
	}
	if f.Status != "" && string(d.Status) != f.Status {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// DomainPatch is a partial update. Nil fields are left untouched.
type DomainPatch struct {
	Status            *DomainStatus `json:"status,omitempty"`
	ExpirationDate    *time.Time    `json:"expirationDate,omitempty"`
	Nameservers       []string      `json:"nameservers,omitempty"`
	AutoRenew         *bool         `json:"autoRenew,omitempty"`
	RegistrarDomainID *string       `json:"registrarDomainId,omitempty"`
}

func (p DomainPatch) Empty() bool {
	return p.Status == nil && p.ExpirationDate == nil && p.Nameservers == nil &&
		p.AutoRenew == nil && p.RegistrarDomainID == nil
}

// Apply writes the patch onto d and refreshes LastUpdated.
func (p DomainPatch) Apply(d *Domain, now time.Time) {
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.ExpirationDate != nil {
		d.ExpirationDate = *p.ExpirationDate
	}
	if p.Nameservers != nil {
		d.Nameservers = append([]string(nil), p.Nameservers...)
	}
	if p.AutoRenew != nil {
		d.AutoRenew = *p.AutoRenew
	}
	if p.RegistrarDomainID != nil {
		id := *p.RegistrarDomainID
		d.RegistrarDomainID = &id
	}
	d.LastUpdated = now
}

type DomainStats struct {
	TotalDomains  int `json:"totalDomains"`
	ExpiringSoon  int `json:"expiringSoon"`
	ActiveDomains int `json:"activeDomains"`
	ThisMonth     int `json:"thisMonth"`
}

// ComputeStats derives dashboard counters from the live domain set.
//
// A domain is expiring soon when now < expiration <= now+30d. ThisMonth counts
// registrations inside the calendar month of now, in now's location.
func ComputeStats(domains []*Domain, now time.Time) DomainStats {
	horizon := now.Add(ExpiringWindow)
	monthStart, nextMonth := MonthBounds(now)

	var stats DomainStats
	for _, d := range domains {
		stats.TotalDomains++
		if d.ExpirationDate.After(now) && !d.ExpirationDate.After(horizon) {
			stats.ExpiringSoon++
		}
		if d.Status == DomainStatusActive {
			stats.ActiveDomains++
		}
		if !d.RegistrationDate.Before(monthStart) && d.RegistrationDate.Before(nextMonth) {
			stats.ThisMonth++
		}
	}
	return stats
}

// MonthBounds returns the first instant of now's calendar month and of the
// month after it.
func MonthBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

// NormalizeStatus folds the status vocabularies of the supported registrars
// into the four local statuses. Values it does not recognise are returned
// lower-cased.
func NormalizeStatus(raw string) DomainStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return DomainStatusActive
	case s == "active", s == "ok", s == "registered":
		return DomainStatusActive
	case s == "expiring", s == "expiring_soon":
		return DomainStatusExpiring
	case s == "expired", strings.HasPrefix(s, "cancelled"), strings.HasPrefix(s, "redemption"),
		s == "deleted", s == "suspended":
		return DomainStatusExpired
	case strings.HasPrefix(s, "pending"), s == "awaiting", s == "transferring", s == "locked_registrar":
		return DomainStatusPending
	}
	return DomainStatus(s)
}
