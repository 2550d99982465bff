// Package syncer pulls each registrar's inventory and reconciles it into the
// store by domain name.
package syncer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/registrar"
	"github.com/leozw/domainhub/internal/storage"
)

// Recorder receives one observation per finished sync. *metrics.Collector
// implements it.
type Recorder interface {
	RecordSync(registrar, connectionID string, created, updated int, err error)
}

type Result struct {
	ConnectionID string         `json:"connectionId"`
	Registrar    core.Registrar `json:"registrar"`
	SyncedCount  int            `json:"syncedCount"`
	Created      int            `json:"created"`
	Updated      int            `json:"updated"`
}

// ConnectionResult is one entry of SyncAll. Exactly one of Result and Error
// is set.
type ConnectionResult struct {
	ConnectionID string         `json:"connectionId"`
	Registrar    core.Registrar `json:"registrar"`
	Result       *Result        `json:"result,omitempty"`
	Error        string         `json:"error,omitempty"`
}

type Service struct {
	store       storage.Store
	clients     registrar.Factory
	logger      *zap.Logger
	recorder    Recorder
	now         func() time.Time
	concurrency int
}

func NewService(store storage.Store, clients registrar.Factory, logger *zap.Logger, recorder Recorder) *Service {
	return &Service{
		store:       store,
		clients:     clients,
		logger:      logger,
		recorder:    recorder,
		now:         time.Now,
		concurrency: 4,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Sync reconciles one connection. Remote domains are matched to the owner's
// local domains by exact name; matches have their registrar-owned fields
// refreshed and the rest are created. Local domains missing remotely are left
// alone. lastSync is set once every remote domain has been written.
func (s *Service) Sync(ctx context.Context, connectionID string) (*Result, error) {
	conn, err := s.store.GetRegistrarConnection(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	logger := s.logger.With(
		zap.String("connection_id", conn.ID),
		zap.String("registrar", string(conn.Registrar)),
	)

	result, err := s.reconcile(ctx, conn, logger)
	if s.recorder != nil {
		var created, updated int
		if result != nil {
			created, updated = result.Created, result.Updated
		}
		s.recorder.RecordSync(string(conn.Registrar), conn.ID, created, updated, err)
	}
	if err != nil {
		logger.Error("Sync failed", zap.Error(err))
		return nil, err
	}

	logger.Info("Sync completed",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
	)
	return result, nil
}

func (s *Service) reconcile(ctx context.Context, conn *core.RegistrarConnection, logger *zap.Logger) (*Result, error) {
	client, err := s.clients(conn)
	if err != nil {
		return nil, err
	}

	remote, err := client.GetDomains(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", registrar.ErrUpstream, err)
	}

	local, err := s.store.GetDomains(ctx, conn.UserID, core.DomainFilters{})
	if err != nil {
		return nil, fmt.Errorf("load local domains: %w", err)
	}
	byName := make(map[string]*core.Domain, len(local))
	for _, d := range local {
		d := d.Domain
		byName[d.Name] = &d
	}

	result := &Result{ConnectionID: conn.ID, Registrar: conn.Registrar}
	for _, rd := range remote {
		patch := remotePatch(rd)

		if existing, ok := byName[rd.Name]; ok {
			if existing.RegistrarConnectionID != conn.ID {
				logger.Warn("Domain claimed by another connection",
					zap.String("domain", rd.Name),
					zap.String("owner_connection_id", existing.RegistrarConnectionID),
				)
			}
			updated, err := s.store.UpdateDomain(ctx, existing.ID, patch)
			if err != nil {
				return nil, fmt.Errorf("update %s: %w", rd.Name, err)
			}
			byName[rd.Name] = updated
			result.Updated++
			continue
		}

		d := core.NewDomain(core.Domain{
			UserID:                conn.UserID,
			RegistrarConnectionID: conn.ID,
			Name:                  rd.Name,
			Registrar:             conn.Registrar,
		}, s.now())
		patch.Apply(d, s.now())

		if err := s.store.CreateDomain(ctx, d); err != nil {
			return nil, fmt.Errorf("create %s: %w", rd.Name, err)
		}
		byName[rd.Name] = d
		result.Created++
	}
	result.SyncedCount = result.Created + result.Updated

	now := s.now()
	if _, err := s.store.UpdateRegistrarConnection(ctx, conn.ID, core.ConnectionPatch{LastSync: &now}); err != nil {
		return nil, fmt.Errorf("update last sync: %w", err)
	}
	return result, nil
}

func remotePatch(rd core.RemoteDomain) core.DomainPatch {
	status := core.NormalizeStatus(rd.Status)
	expires := rd.ExpirationDate
	ns := rd.Nameservers
	if ns == nil {
		ns = []string{}
	}

	patch := core.DomainPatch{
		Status:         &status,
		ExpirationDate: &expires,
		Nameservers:    ns,
	}
	if rd.RegistrarDomainID != "" {
		id := rd.RegistrarDomainID
		patch.RegistrarDomainID = &id
	}
	return patch
}

// SyncAll syncs every active connection of userID concurrently. A failing
// connection is reported in its entry and does not stop the others.
func (s *Service) SyncAll(ctx context.Context, userID string) ([]ConnectionResult, error) {
	conns, err := s.store.GetRegistrarConnections(ctx, userID)
	if err != nil {
		return nil, err
	}

	var active []*core.RegistrarConnection
	for _, c := range conns {
		if c.IsActive {
			active = append(active, c)
		}
	}

	results := make([]ConnectionResult, len(active))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, c := range active {
		g.Go(func() error {
			entry := ConnectionResult{ConnectionID: c.ID, Registrar: c.Registrar}
			res, err := s.Sync(ctx, c.ID)
			if err != nil {
				entry.Error = err.Error()
			} else {
				entry.Result = res
			}
			results[i] = entry
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}
