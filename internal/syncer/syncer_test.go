package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/registrar"
	"github.com/leozw/domainhub/internal/registrar/mocks"
	"github.com/leozw/domainhub/internal/storage"
	"github.com/leozw/domainhub/internal/storage/memory"
)

const userID = "user-1"

type fakeRecorder struct {
	mu    sync.Mutex
	calls []error
}

func (r *fakeRecorder) RecordSync(_, _ string, _, _ int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, err)
}

type fixture struct {
	store   *memory.Store
	clients map[string]registrar.Client
	svc     *Service
	rec     *fakeRecorder
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   memory.New(),
		clients: map[string]registrar.Client{},
		rec:     &fakeRecorder{},
		now:     time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
	}
	f.store.WithClock(func() time.Time { return f.now })

	factory := func(conn *core.RegistrarConnection) (registrar.Client, error) {
		c, ok := f.clients[conn.ID]
		if !ok {
			return nil, registrar.ErrUnsupportedRegistrar
		}
		return c, nil
	}
	f.svc = NewService(f.store, factory, zap.NewNop(), f.rec).WithClock(func() time.Time { return f.now })

	ctx := context.Background()
	require.NoError(t, f.store.CreateUser(ctx, &core.User{ID: userID, Username: "u"}))
	return f
}

func (f *fixture) addConnection(t *testing.T, id string, reg core.Registrar, client registrar.Client) {
	t.Helper()
	require.NoError(t, f.store.CreateRegistrarConnection(context.Background(), &core.RegistrarConnection{
		ID: id, UserID: userID, Registrar: reg, APIKey: "k", IsActive: true, CreatedAt: f.now,
	}))
	f.clients[id] = client
}

func remoteExample(status string) core.RemoteDomain {
	return core.RemoteDomain{
		Name:              "example.com",
		Status:            status,
		ExpirationDate:    time.Date(2027, 5, 1, 0, 0, 0, 0, time.UTC),
		RegistrationDate:  time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC),
		Nameservers:       []string{"ns1.example.net", "ns2.example.net"},
		RegistrarDomainID: "123",
	}
}

func TestSyncCreatesDomains(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	client.EXPECT().GetDomains(gomock.Any()).Return([]core.RemoteDomain{remoteExample("ACTIVE")}, nil)
	f.addConnection(t, "conn-1", core.RegistrarGoDaddy, client)

	res, err := f.svc.Sync(context.Background(), "conn-1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.SyncedCount)
	assert.Equal(t, 1, res.Created)

	domains, err := f.store.GetDomains(context.Background(), userID, core.DomainFilters{})
	require.NoError(t, err)
	require.Len(t, domains, 1)
	d := domains[0]
	assert.Equal(t, "conn-1", d.RegistrarConnectionID)
	assert.Equal(t, core.RegistrarGoDaddy, d.Registrar)
	assert.Equal(t, core.DomainStatusActive, d.Status)
	assert.False(t, d.AutoRenew)
	require.NotNil(t, d.RegistrarDomainID)
	assert.Equal(t, "123", *d.RegistrarDomainID)

	conn, err := f.store.GetRegistrarConnection(context.Background(), "conn-1")
	require.NoError(t, err)
	require.NotNil(t, conn.LastSync)
	assert.True(t, conn.LastSync.Equal(f.now))
	assert.Len(t, f.rec.calls, 1)
}

func TestSyncIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	client.EXPECT().GetDomains(gomock.Any()).Return([]core.RemoteDomain{remoteExample("active")}, nil).Times(2)
	f.addConnection(t, "conn-1", core.RegistrarDynadot, client)
	ctx := context.Background()

	_, err := f.svc.Sync(ctx, "conn-1")
	require.NoError(t, err)
	first, err := f.store.GetDomains(ctx, userID, core.DomainFilters{})
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	res, err := f.svc.Sync(ctx, "conn-1")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Updated)

	second, err := f.store.GetDomains(ctx, userID, core.DomainFilters{})
	require.NoError(t, err)
	require.Len(t, second, 1)

	a, b := first[0], second[0]
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, a.Name, b.Name)
	assert.Equal(t, a.Status, b.Status)
	assert.True(t, a.ExpirationDate.Equal(b.ExpirationDate))
	assert.Equal(t, a.Nameservers, b.Nameservers)
	assert.True(t, b.LastUpdated.After(a.LastUpdated))
}

func TestSyncReconcilesByName(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	client.EXPECT().GetDomains(gomock.Any()).Return([]core.RemoteDomain{remoteExample("EXPIRED")}, nil)
	f.addConnection(t, "conn-1", core.RegistrarGoDaddy, client)
	ctx := context.Background()

	existing := core.NewDomain(core.Domain{
		ID: "domain-1", UserID: userID, RegistrarConnectionID: "conn-1", Name: "example.com",
		Registrar: core.RegistrarGoDaddy, Status: core.DomainStatusActive, AutoRenew: true,
	}, f.now)
	require.NoError(t, f.store.CreateDomain(ctx, existing))

	res, err := f.svc.Sync(ctx, "conn-1")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 0, res.Created)

	domains, err := f.store.GetDomains(ctx, userID, core.DomainFilters{})
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, "domain-1", domains[0].ID)
	assert.Equal(t, core.DomainStatusExpired, domains[0].Status)
	assert.True(t, domains[0].AutoRenew)
	assert.Equal(t, []string{"ns1.example.net", "ns2.example.net"}, domains[0].Nameservers)
}

func TestSyncSetsLastSyncWithoutChanges(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	client.EXPECT().GetDomains(gomock.Any()).Return([]core.RemoteDomain{}, nil)
	f.addConnection(t, "conn-1", core.RegistrarNamecheap, client)

	res, err := f.svc.Sync(context.Background(), "conn-1")
	require.NoError(t, err)
	assert.Equal(t, 0, res.SyncedCount)

	conn, err := f.store.GetRegistrarConnection(context.Background(), "conn-1")
	require.NoError(t, err)
	require.NotNil(t, conn.LastSync)
}

func TestSyncUpstreamFailure(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	client := mocks.NewMockClient(ctrl)
	authErr := registrar.NewError(registrar.CategoryAuth, core.RegistrarGoDaddy, "get_domains", "http 401", nil)
	client.EXPECT().GetDomains(gomock.Any()).Return(nil, authErr)
	f.addConnection(t, "conn-1", core.RegistrarGoDaddy, client)

	_, err := f.svc.Sync(context.Background(), "conn-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, registrar.ErrUpstream)
	assert.Equal(t, registrar.CategoryAuth, registrar.CategoryOf(err))

	conn, err := f.store.GetRegistrarConnection(context.Background(), "conn-1")
	require.NoError(t, err)
	assert.Nil(t, conn.LastSync)
	require.Len(t, f.rec.calls, 1)
	assert.Error(t, f.rec.calls[0])
}

func TestSyncUnknownConnection(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Sync(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSyncCrossConnectionCollision(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	first := mocks.NewMockClient(ctrl)
	first.EXPECT().GetDomains(gomock.Any()).Return([]core.RemoteDomain{remoteExample("active")}, nil)
	f.addConnection(t, "conn-1", core.RegistrarGoDaddy, first)

	later := remoteExample("expired")
	later.Nameservers = []string{"dns1.registrar-servers.com"}
	second := mocks.NewMockClient(ctrl)
	second.EXPECT().GetDomains(gomock.Any()).Return([]core.RemoteDomain{later}, nil)
	f.addConnection(t, "conn-2", core.RegistrarNamecheap, second)

	_, err := f.svc.Sync(ctx, "conn-1")
	require.NoError(t, err)
	res, err := f.svc.Sync(ctx, "conn-2")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	domains, err := f.store.GetDomains(ctx, userID, core.DomainFilters{})
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, core.DomainStatusExpired, domains[0].Status)
	assert.Equal(t, []string{"dns1.registrar-servers.com"}, domains[0].Nameservers)
	assert.Equal(t, "conn-1", domains[0].RegistrarConnectionID)
}

func TestSyncAllIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	ok := mocks.NewMockClient(ctrl)
	ok.EXPECT().GetDomains(gomock.Any()).Return([]core.RemoteDomain{remoteExample("active")}, nil)
	f.addConnection(t, "conn-1", core.RegistrarGoDaddy, ok)

	failing := mocks.NewMockClient(ctrl)
	failing.EXPECT().GetDomains(gomock.Any()).Return(nil, errors.New("boom"))
	f.addConnection(t, "conn-2", core.RegistrarDynadot, failing)

	inactive := false
	f.addConnection(t, "conn-3", core.RegistrarNamecheap, mocks.NewMockClient(ctrl))
	_, err := f.store.UpdateRegistrarConnection(ctx, "conn-3", core.ConnectionPatch{IsActive: &inactive})
	require.NoError(t, err)

	results, err := f.svc.SyncAll(ctx, userID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byID := map[string]ConnectionResult{}
	for _, r := range results {
		byID[r.ConnectionID] = r
	}
	require.NotNil(t, byID["conn-1"].Result)
	assert.Equal(t, 1, byID["conn-1"].Result.Created)
	assert.Nil(t, byID["conn-2"].Result)
	assert.Contains(t, byID["conn-2"].Error, "failed to communicate with registrar")
}
