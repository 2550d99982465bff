// Package domains holds the user-facing operations on stored domains and
// registrar connections. Every registrar-side change is made before the
// matching local write.
package domains

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/lookup"
	"github.com/leozw/domainhub/internal/registrar"
	"github.com/leozw/domainhub/internal/storage"
)

var (
	ErrNotFound           = storage.ErrNotFound
	ErrInvalidCredentials = errors.New("invalid registrar credentials")
	ErrRegistrarRejected  = errors.New("registrar rejected the update")
)

type Resolver interface {
	LookupNS(ctx context.Context, domain string) ([]string, error)
}

type WhoisLookup interface {
	Lookup(ctx context.Context, domain string) (*lookup.WhoisInfo, error)
}

// BulkPatch is the subset of fields a bulk update may change.
type BulkPatch struct {
	Status    *core.DomainStatus `json:"status,omitempty"`
	AutoRenew *bool              `json:"autoRenew,omitempty"`
}

type Service struct {
	store    storage.Store
	clients  registrar.Factory
	resolver Resolver
	whois    WhoisLookup
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(store storage.Store, clients registrar.Factory, resolver Resolver, whois WhoisLookup, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		clients:  clients,
		resolver: resolver,
		whois:    whois,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context, userID string, filters core.DomainFilters) ([]*core.DomainWithConnection, error) {
	return s.store.GetDomains(ctx, userID, filters)
}

// Get returns the domain only when userID owns it.
func (s *Service) Get(ctx context.Context, userID, id string) (*core.DomainWithConnection, error) {
	d, err := s.store.GetDomain(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, fmt.Errorf("domain %s: %w", id, ErrNotFound)
	}
	return d, nil
}

func (s *Service) Stats(ctx context.Context, userID string) (core.DomainStats, error) {
	return s.store.GetDomainStats(ctx, userID)
}

// UpdateNameservers validates the set, pushes it to the owning registrar and
// stores it once the registrar accepted it.
func (s *Service) UpdateNameservers(ctx context.Context, userID, id string, nameservers []string) (*core.Domain, error) {
	ns, err := core.ValidateNameservers(nameservers)
	if err != nil {
		return nil, err
	}

	d, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	conn := d.RegistrarConnection
	if conn == nil {
		if conn, err = s.store.GetRegistrarConnection(ctx, d.RegistrarConnectionID); err != nil {
			return nil, err
		}
	}

	client, err := s.clients(conn)
	if err != nil {
		return nil, err
	}

	ok, err := client.UpdateNameservers(ctx, d.Name, ns)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", registrar.ErrUpstream, err)
	}
	if !ok {
		s.logger.Warn("Nameserver update rejected",
			zap.String("domain", d.Name),
			zap.String("registrar", string(conn.Registrar)),
		)
		return nil, fmt.Errorf("%s: %w", d.Name, ErrRegistrarRejected)
	}

	updated, err := s.store.UpdateDomainNameservers(ctx, d.ID, ns)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Nameservers updated",
		zap.String("domain", d.Name),
		zap.Strings("nameservers", ns),
	)
	return updated, nil
}

// BulkUpdate changes local fields only. IDs the user does not own are
// skipped like unknown ones.
func (s *Service) BulkUpdate(ctx context.Context, userID string, ids []string, patch BulkPatch) ([]*core.Domain, error) {
	if len(ids) == 0 {
		return nil, &core.ValidationError{Field: "domainIds", Message: "at least one domain id required"}
	}
	if patch.Status == nil && patch.AutoRenew == nil {
		return nil, &core.ValidationError{Field: "updates", Message: "nothing to update"}
	}
	if patch.Status != nil && !validStatus(*patch.Status) {
		return nil, &core.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", *patch.Status)}
	}

	owned := make([]string, 0, len(ids))
	for _, id := range ids {
		d, err := s.store.GetDomain(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if d.UserID == userID {
			owned = append(owned, id)
		}
	}

	return s.store.BulkUpdateDomains(ctx, owned, core.DomainPatch{Status: patch.Status, AutoRenew: patch.AutoRenew})
}

func validStatus(st core.DomainStatus) bool {
	switch st {
	case core.DomainStatusActive, core.DomainStatusExpiring, core.DomainStatusExpired, core.DomainStatusPending:
		return true
	}
	return false
}

// Delegation compares the stored nameservers with what public DNS serves.
func (s *Service) Delegation(ctx context.Context, userID, id string) (*lookup.Delegation, error) {
	d, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	actual, err := s.resolver.LookupNS(ctx, d.Name)
	if err != nil {
		return nil, err
	}
	return lookup.CompareDelegation(d.Name, d.Nameservers, actual), nil
}

// WhoisReport is the registry's view of a domain next to the stored one.
type WhoisReport struct {
	*lookup.WhoisInfo
	StoredExpiry time.Time `json:"storedExpiry"`
	ExpiryDrift  bool      `json:"expiryDrift"`
}

func (s *Service) Whois(ctx context.Context, userID, id string) (*WhoisReport, error) {
	d, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	info, err := s.whois.Lookup(ctx, d.Name)
	if err != nil {
		return nil, err
	}

	report := &WhoisReport{WhoisInfo: info, StoredExpiry: d.ExpirationDate}
	if info.ExpiryDate != nil {
		// Registries and registrars round differently; a day apart is the same date.
		diff := info.ExpiryDate.Sub(d.ExpirationDate)
		report.ExpiryDrift = diff > 24*time.Hour || diff < -24*time.Hour
	}
	return report, nil
}
