// Package registrar defines the contract every registrar integration meets,
// the optional capabilities some of them add, and the decorators applied on
// top of a concrete client.
package registrar

import (
	"context"

	"github.com/leozw/domainhub/internal/core"
)

// Client is the capability set every registrar supports.
type Client interface {
	Registrar() core.Registrar

	// TestConnection performs a lightweight authenticated call. It never
	// mutates remote state.
	TestConnection(ctx context.Context) (bool, error)

	// GetDomains lists every domain on the account. Entries the registrar
	// returns in a shape that cannot be mapped are skipped.
	GetDomains(ctx context.Context) ([]core.RemoteDomain, error)

	// UpdateNameservers replaces the delegated nameserver set. A non-success
	// answer from the registrar is reported as false with a nil error.
	UpdateNameservers(ctx context.Context, domain string, nameservers []string) (bool, error)
}

type SearchOptions struct {
	ShowPrice bool
	Currency  string
}

// Searcher is a registrar-native search that can return pricing.
type Searcher interface {
	SearchDomain(ctx context.Context, name string, opts SearchOptions) (*Availability, error)
}

type BulkSearcher interface {
	BulkSearchDomains(ctx context.Context, names []string, opts SearchOptions) ([]Availability, error)
}

// AvailabilityChecker answers a plain availability question for one name.
type AvailabilityChecker interface {
	CheckDomainAvailability(ctx context.Context, name string) (*Availability, error)
}

type BulkAvailabilityChecker interface {
	BulkCheckAvailability(ctx context.Context, names []string) ([]Availability, error)
}

// Availability is a registrar's answer in its own terms. Available holds
// whatever the registrar reported: a bool, a string such as "yes", or nil.
// Price is the raw figure; PriceMicros marks prices expressed in millionths
// of the currency unit.
type Availability struct {
	Domain      string
	Available   any
	Premium     *bool
	Price       string
	PriceMicros bool
	Currency    string
	Message     string
}

// Wrapper is implemented by decorators around a Client.
type Wrapper interface {
	Unwrap() Client
}

// Base follows the Unwrap chain down to the concrete registrar client.
func Base(c Client) Client {
	for {
		w, ok := c.(Wrapper)
		if !ok {
			return c
		}
		c = w.Unwrap()
	}
}

// AsSearcher reports whether the concrete client behind c supports native
// search and returns c's view of it, so decorators stay in the call path.
func AsSearcher(c Client) (Searcher, bool) {
	if _, ok := Base(c).(Searcher); !ok {
		return nil, false
	}
	s, ok := c.(Searcher)
	return s, ok
}

func AsBulkSearcher(c Client) (BulkSearcher, bool) {
	if _, ok := Base(c).(BulkSearcher); !ok {
		return nil, false
	}
	s, ok := c.(BulkSearcher)
	return s, ok
}

func AsAvailabilityChecker(c Client) (AvailabilityChecker, bool) {
	if _, ok := Base(c).(AvailabilityChecker); !ok {
		return nil, false
	}
	a, ok := c.(AvailabilityChecker)
	return a, ok
}

func AsBulkAvailabilityChecker(c Client) (BulkAvailabilityChecker, bool) {
	if _, ok := Base(c).(BulkAvailabilityChecker); !ok {
		return nil, false
	}
	a, ok := c.(BulkAvailabilityChecker)
	return a, ok
}

// Factory builds a client for a stored connection.
type Factory func(conn *core.RegistrarConnection) (Client, error)
