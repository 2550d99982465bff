// Package lookup asks public infrastructure, rather than the registrar, what
// it currently says about a domain.
package lookup

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const DefaultNameserver = "8.8.8.8:53"

type NSResolver struct {
	client *dns.Client
	server string
}

// NewNSResolver queries server (host:port). An empty server uses Google DNS.
func NewNSResolver(server string, timeout time.Duration) *NSResolver {
	if server == "" {
		server = DefaultNameserver
	}
	c := new(dns.Client)
	c.Timeout = timeout
	return &NSResolver{client: c, server: server}
}

// LookupNS returns the delegated nameservers of domain, lower-cased without
// the trailing dot and sorted.
func (r *NSResolver) LookupNS(ctx context.Context, domain string) ([]string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(domain), dns.TypeNS)

	resp, _, err := r.client.ExchangeContext(ctx, m, r.server)
	if err != nil {
		return nil, fmt.Errorf("DNS query failed: %w", err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("DNS query failed with code: %s", dns.RcodeToString[resp.Rcode])
	}

	var out []string
	for _, ans := range resp.Answer {
		if ns, ok := ans.(*dns.NS); ok {
			out = append(out, normalizeHost(ns.Ns))
		}
	}
	sort.Strings(out)
	return out, nil
}

func normalizeHost(h string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(h)), ".")
}

// Delegation compares the nameservers stored for a domain with the ones
// public DNS serves.
type Delegation struct {
	Domain   string   `json:"domain"`
	Expected []string `json:"expected"`
	Actual   []string `json:"actual"`
	Missing  []string `json:"missing"`
	Extra    []string `json:"extra"`
	InSync   bool     `json:"inSync"`
}

func CompareDelegation(domain string, expected, actual []string) *Delegation {
	exp := make(map[string]bool, len(expected))
	for _, e := range expected {
		exp[normalizeHost(e)] = true
	}
	act := make(map[string]bool, len(actual))
	for _, a := range actual {
		act[normalizeHost(a)] = true
	}

	d := &Delegation{
		Domain:   domain,
		Expected: expected,
		Actual:   actual,
		Missing:  []string{},
		Extra:    []string{},
	}
	for e := range exp {
		if !act[e] {
			d.Missing = append(d.Missing, e)
		}
	}
	for a := range act {
		if !exp[a] {
			d.Extra = append(d.Extra, a)
		}
	}
	sort.Strings(d.Missing)
	sort.Strings(d.Extra)
	d.InSync = len(d.Missing) == 0 && len(d.Extra) == 0
	return d
}
