// Package memory is a map-backed storage.Store. It is the default backend
// when no database URL is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/storage"
)

type Store struct {
	mu          sync.RWMutex
	users       map[string]*core.User
	connections map[string]*core.RegistrarConnection
	domains     map[string]*core.Domain

	now func() time.Time
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:       make(map[string]*core.User),
		connections: make(map[string]*core.RegistrarConnection),
		domains:     make(map[string]*core.Domain),
		now:         time.Now,
	}
}

// WithClock replaces the time source used for LastUpdated and stats.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) GetUser(ctx context.Context, id string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, storage.ErrNotFound)
}

func (s *Store) CreateUser(ctx context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("user %s already exists", user.ID)
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *Store) GetRegistrarConnections(ctx context.Context, userID string) ([]*core.RegistrarConnection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*core.RegistrarConnection{}
	for _, c := range s.connections {
		if c.UserID == userID {
			out = append(out, copyConnection(c))
		}
	}
	sortConnections(out)
	return out, nil
}

func (s *Store) GetActiveConnections(ctx context.Context) ([]*core.RegistrarConnection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*core.RegistrarConnection{}
	for _, c := range s.connections {
		if c.IsActive {
			out = append(out, copyConnection(c))
		}
	}
	sortConnections(out)
	return out, nil
}

func (s *Store) GetRegistrarConnection(ctx context.Context, id string) (*core.RegistrarConnection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.connections[id]
	if !ok {
		return nil, fmt.Errorf("connection %s: %w", id, storage.ErrNotFound)
	}
	return copyConnection(c), nil
}

func (s *Store) CreateRegistrarConnection(ctx context.Context, conn *core.RegistrarConnection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.connections[conn.ID]; ok {
		return fmt.Errorf("connection %s already exists", conn.ID)
	}
	s.connections[conn.ID] = copyConnection(conn)
	return nil
}

func (s *Store) UpdateRegistrarConnection(ctx context.Context, id string, patch core.ConnectionPatch) (*core.RegistrarConnection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.connections[id]
	if !ok {
		return nil, fmt.Errorf("connection %s: %w", id, storage.ErrNotFound)
	}
	patch.Apply(c)
	return copyConnection(c), nil
}

func (s *Store) DeleteRegistrarConnection(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.connections[id]; !ok {
		return fmt.Errorf("connection %s: %w", id, storage.ErrNotFound)
	}
	for _, d := range s.domains {
		if d.RegistrarConnectionID == id {
			return fmt.Errorf("connection %s has domains: %w", id, storage.ErrInUse)
		}
	}
	delete(s.connections, id)
	return nil
}

func (s *Store) GetDomains(ctx context.Context, userID string, filters core.DomainFilters) ([]*core.DomainWithConnection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*core.DomainWithConnection{}
	for _, d := range s.domains {
		if d.UserID != userID || !filters.Match(d) {
			continue
		}
		out = append(out, s.withConnection(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetDomain(ctx context.Context, id string) (*core.DomainWithConnection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.domains[id]
	if !ok {
		return nil, fmt.Errorf("domain %s: %w", id, storage.ErrNotFound)
	}
	return s.withConnection(d), nil
}

func (s *Store) CreateDomain(ctx context.Context, domain *core.Domain) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.domains[domain.ID]; ok {
		return fmt.Errorf("domain %s already exists", domain.ID)
	}
	s.domains[domain.ID] = copyDomain(domain)
	return nil
}

func (s *Store) UpdateDomain(ctx context.Context, id string, patch core.DomainPatch) (*core.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.domains[id]
	if !ok {
		return nil, fmt.Errorf("domain %s: %w", id, storage.ErrNotFound)
	}
	patch.Apply(d, s.now())
	return copyDomain(d), nil
}

func (s *Store) UpdateDomainNameservers(ctx context.Context, id string, nameservers []string) (*core.Domain, error) {
	return s.UpdateDomain(ctx, id, core.DomainPatch{Nameservers: nameservers})
}

func (s *Store) BulkUpdateDomains(ctx context.Context, ids []string, patch core.DomainPatch) ([]*core.Domain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := []*core.Domain{}
	for _, id := range ids {
		d, ok := s.domains[id]
		if !ok {
			continue
		}
		patch.Apply(d, now)
		out = append(out, copyDomain(d))
	}
	return out, nil
}

func (s *Store) GetDomainStats(ctx context.Context, userID string) (core.DomainStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var owned []*core.Domain
	for _, d := range s.domains {
		if d.UserID == userID {
			owned = append(owned, d)
		}
	}
	return core.ComputeStats(owned, s.now()), nil
}

// withConnection must be called with s.mu held.
func (s *Store) withConnection(d *core.Domain) *core.DomainWithConnection {
	out := &core.DomainWithConnection{Domain: *copyDomain(d)}
	if c, ok := s.connections[d.RegistrarConnectionID]; ok {
		out.RegistrarConnection = copyConnection(c)
	}
	return out
}

func copyDomain(d *core.Domain) *core.Domain {
	cp := *d
	cp.Nameservers = append([]string{}, d.Nameservers...)
	if d.RegistrarDomainID != nil {
		id := *d.RegistrarDomainID
		cp.RegistrarDomainID = &id
	}
	return &cp
}

func copyConnection(c *core.RegistrarConnection) *core.RegistrarConnection {
	cp := *c
	if c.APISecret != nil {
		s := *c.APISecret
		cp.APISecret = &s
	}
	if c.LastSync != nil {
		t := *c.LastSync
		cp.LastSync = &t
	}
	return &cp
}

func sortConnections(cs []*core.RegistrarConnection) {
	sort.Slice(cs, func(i, j int) bool {
		if !cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].CreatedAt.Before(cs[j].CreatedAt)
		}
		return cs[i].ID < cs[j].ID
	})
}
