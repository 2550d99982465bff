package registrar

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/leozw/domainhub/internal/core"
)

// DemoKeyPrefix marks placeholder credentials. Clients built from such keys
// answer from canned data and never reach the registrar.
const DemoKeyPrefix = "demo-"

func IsDemoKey(key string) bool {
	return strings.HasPrefix(key, DemoKeyPrefix)
}

type demoClient struct {
	inner Client
}

// WithDemoMode wraps c so that every call returns canned results without
// network access. The capability set of c is preserved through Unwrap.
func WithDemoMode(c Client) Client {
	return &demoClient{inner: c}
}

func (d *demoClient) Unwrap() Client { return d.inner }

func (d *demoClient) Registrar() core.Registrar { return d.inner.Registrar() }

func (d *demoClient) TestConnection(ctx context.Context) (bool, error) {
	return true, nil
}

func (d *demoClient) GetDomains(ctx context.Context) ([]core.RemoteDomain, error) {
	return []core.RemoteDomain{}, nil
}

func (d *demoClient) UpdateNameservers(ctx context.Context, domain string, nameservers []string) (bool, error) {
	return true, nil
}

func (d *demoClient) SearchDomain(ctx context.Context, name string, opts SearchOptions) (*Availability, error) {
	a := demoAvailable(name)
	return &a, nil
}

func (d *demoClient) CheckDomainAvailability(ctx context.Context, name string) (*Availability, error) {
	a := demoAvailable(name)
	return &a, nil
}

func (d *demoClient) BulkSearchDomains(ctx context.Context, names []string, opts SearchOptions) ([]Availability, error) {
	return demoBulk(names), nil
}

func (d *demoClient) BulkCheckAvailability(ctx context.Context, names []string) ([]Availability, error) {
	return demoBulk(names), nil
}

// demoAvailable decides availability by a hash of the name, so single and
// bulk lookups of one name always agree.
func demoAvailable(name string) Availability {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(name)))
	premium := false
	return Availability{Domain: name, Available: h.Sum32()%2 == 0, Premium: &premium}
}

func demoBulk(names []string) []Availability {
	out := make([]Availability, 0, len(names))
	for _, name := range names {
		out = append(out, demoAvailable(name))
	}
	return out
}
