// Package search asks every connected registrar whether names are available
// and folds their answers into one result shape.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leozw/domainhub/internal/cache"
	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/registrar"
	"github.com/leozw/domainhub/internal/storage"
)

// MaxBulkNames bounds a bulk request.
const MaxBulkNames = 500

type Recorder interface {
	RecordSearchResult(registrar, available string)
	RecordCacheEvent(hit bool)
}

type Request struct {
	DomainName string
	Registrar  core.Registrar
	ShowPrice  bool
	Currency   string
}

type BulkRequest struct {
	DomainNames []string
	Registrar   core.Registrar
}

type Service struct {
	store       storage.Store
	clients     registrar.Factory
	cache       cache.Cache
	ttl         time.Duration
	concurrency int
	logger      *zap.Logger
	recorder    Recorder
}

type Options struct {
	Cache       cache.Cache
	CacheTTL    time.Duration
	Concurrency int
	Recorder    Recorder
}

func NewService(store storage.Store, clients registrar.Factory, logger *zap.Logger, opts Options) *Service {
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Service{
		store:       store,
		clients:     clients,
		cache:       opts.Cache,
		ttl:         opts.CacheTTL,
		concurrency: opts.Concurrency,
		logger:      logger,
		recorder:    opts.Recorder,
	}
}

// Search checks one name. With a registrar filter it asks only the user's
// active connection for that registrar and fails with storage.ErrNotFound
// when there is none. Without a filter every active connection is asked
// concurrently and each one yields exactly one entry; a failing registrar
// yields an "error" entry instead of failing the call.
func (s *Service) Search(ctx context.Context, userID string, req Request) ([]core.SearchResult, error) {
	name, err := core.NormalizeDomainName(req.DomainName)
	if err != nil {
		return nil, &core.ValidationError{Field: "domainName", Message: err.Error()}
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}

	conns, err := s.connections(ctx, userID, req.Registrar)
	if err != nil {
		return nil, err
	}

	results := make([]core.SearchResult, len(conns))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, conn := range conns {
		g.Go(func() error {
			results[i] = core.SearchResult{
				Registrar: conn.Registrar,
				Result:    s.searchOne(ctx, conn, name, req),
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// BulkSearch checks several names with the same fan-out and isolation as
// Search. Registrars without a native batch endpoint are asked one name at a
// time and a failing name only marks its own entry.
func (s *Service) BulkSearch(ctx context.Context, userID string, req BulkRequest) ([]core.BulkSearchResult, error) {
	if len(req.DomainNames) == 0 {
		return nil, &core.ValidationError{Field: "domainNames", Message: "at least one domain name required"}
	}
	if len(req.DomainNames) > MaxBulkNames {
		return nil, &core.ValidationError{
			Field:   "domainNames",
			Message: fmt.Sprintf("at most %d domain names allowed", MaxBulkNames),
		}
	}

	names := make([]string, 0, len(req.DomainNames))
	for i, raw := range req.DomainNames {
		name, err := core.NormalizeDomainName(raw)
		if err != nil {
			return nil, &core.ValidationError{Field: fmt.Sprintf("domainNames[%d]", i), Message: err.Error()}
		}
		names = append(names, name)
	}

	conns, err := s.connections(ctx, userID, req.Registrar)
	if err != nil {
		return nil, err
	}

	results := make([]core.BulkSearchResult, len(conns))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, conn := range conns {
		g.Go(func() error {
			results[i] = core.BulkSearchResult{
				Registrar: conn.Registrar,
				Results:   s.bulkOne(ctx, conn, names),
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (s *Service) connections(ctx context.Context, userID string, filter core.Registrar) ([]*core.RegistrarConnection, error) {
	all, err := s.store.GetRegistrarConnections(ctx, userID)
	if err != nil {
		return nil, err
	}

	var out []*core.RegistrarConnection
	for _, c := range all {
		if !c.IsActive {
			continue
		}
		if filter == "" {
			out = append(out, c)
			continue
		}
		if c.Registrar == filter {
			return []*core.RegistrarConnection{c}, nil
		}
	}

	if filter != "" {
		return nil, fmt.Errorf("no active %s connection found: %w", filter, storage.ErrNotFound)
	}
	return out, nil
}

func (s *Service) searchOne(ctx context.Context, conn *core.RegistrarConnection, name string, req Request) core.DomainResult {
	key := fmt.Sprintf("search:%s:%s:%t:%s", conn.ID, name, req.ShowPrice, strings.ToUpper(req.Currency))

	var cached core.DomainResult
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.logger.Warn("Search cache read failed", zap.Error(err))
	} else {
		s.recordCache(hit)
		if hit {
			return cached
		}
	}

	result, err := s.query(ctx, conn, name, req)
	if err != nil {
		s.logger.Warn("Search failed",
			zap.String("registrar", string(conn.Registrar)),
			zap.String("connection_id", conn.ID),
			zap.String("domain", name),
			zap.Error(err),
		)
		result = failed(name, err)
	}
	s.record(conn.Registrar, result)

	if result.Available != core.AvailableError && s.ttl > 0 {
		if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
			s.logger.Warn("Search cache write failed", zap.Error(err))
		}
	}
	return result
}

func (s *Service) query(ctx context.Context, conn *core.RegistrarConnection, name string, req Request) (core.DomainResult, error) {
	client, err := s.clients(conn)
	if err != nil {
		return core.DomainResult{}, err
	}

	if searcher, ok := registrar.AsSearcher(client); ok {
		a, err := searcher.SearchDomain(ctx, name, registrar.SearchOptions{ShowPrice: req.ShowPrice, Currency: req.Currency})
		if err != nil {
			return core.DomainResult{}, err
		}
		return normalize(name, a), nil
	}
	if checker, ok := registrar.AsAvailabilityChecker(client); ok {
		a, err := checker.CheckDomainAvailability(ctx, name)
		if err != nil {
			return core.DomainResult{}, err
		}
		return normalize(name, a), nil
	}
	return unsupported(name, conn.Registrar), nil
}

func (s *Service) bulkOne(ctx context.Context, conn *core.RegistrarConnection, names []string) []core.DomainResult {
	results, err := s.bulkQuery(ctx, conn, names)
	if err != nil {
		s.logger.Warn("Bulk search failed",
			zap.String("registrar", string(conn.Registrar)),
			zap.String("connection_id", conn.ID),
			zap.Error(err),
		)
		results = make([]core.DomainResult, len(names))
		for i, name := range names {
			results[i] = failed(name, err)
		}
	}
	for _, r := range results {
		s.record(conn.Registrar, r)
	}
	return results
}

func (s *Service) bulkQuery(ctx context.Context, conn *core.RegistrarConnection, names []string) ([]core.DomainResult, error) {
	client, err := s.clients(conn)
	if err != nil {
		return nil, err
	}

	if bulk, ok := registrar.AsBulkSearcher(client); ok {
		answers, err := bulk.BulkSearchDomains(ctx, names, registrar.SearchOptions{})
		if err != nil {
			return nil, err
		}
		return align(names, answers), nil
	}
	if bulk, ok := registrar.AsBulkAvailabilityChecker(client); ok {
		answers, err := bulk.BulkCheckAvailability(ctx, names)
		if err != nil {
			return nil, err
		}
		return align(names, answers), nil
	}

	var single func(context.Context, string) (*registrar.Availability, error)
	if searcher, ok := registrar.AsSearcher(client); ok {
		single = func(ctx context.Context, name string) (*registrar.Availability, error) {
			return searcher.SearchDomain(ctx, name, registrar.SearchOptions{})
		}
	} else if checker, ok := registrar.AsAvailabilityChecker(client); ok {
		single = checker.CheckDomainAvailability
	}

	out := make([]core.DomainResult, len(names))
	for i, name := range names {
		if single == nil {
			out[i] = unsupported(name, conn.Registrar)
			continue
		}
		a, err := single(ctx, name)
		if err != nil {
			out[i] = failed(name, err)
			continue
		}
		out[i] = normalize(name, a)
	}
	return out, nil
}

// align orders answers by the requested names. A name the registrar left out
// is reported as unknown.
func align(names []string, answers []registrar.Availability) []core.DomainResult {
	byName := make(map[string]*registrar.Availability, len(answers))
	for i := range answers {
		byName[strings.ToLower(answers[i].Domain)] = &answers[i]
	}

	out := make([]core.DomainResult, len(names))
	for i, name := range names {
		a, ok := byName[name]
		if !ok {
			out[i] = core.DomainResult{DomainName: name, Available: core.AvailableUnknown, Message: "no result returned"}
			continue
		}
		out[i] = normalize(name, a)
	}
	return out
}

func (s *Service) record(reg core.Registrar, r core.DomainResult) {
	if s.recorder != nil {
		s.recorder.RecordSearchResult(string(reg), string(r.Available))
	}
}

func (s *Service) recordCache(hit bool) {
	if s.recorder != nil {
		s.recorder.RecordCacheEvent(hit)
	}
}
