package lookup

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startDNS(t *testing.T, handler dns.HandlerFunc) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("dns server did not start")
	}
	return pc.LocalAddr().String()
}

func TestLookupNS(t *testing.T) {
	addr := startDNS(t, func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		if r.Question[0].Name == "example.com." {
			for _, ns := range []string{"NS2.Example.net.", "ns1.example.net."} {
				m.Answer = append(m.Answer, &dns.NS{
					Hdr: dns.RR_Header{Name: "example.com.", Rrtype: dns.TypeNS, Class: dns.ClassINET, Ttl: 300},
					Ns:  ns,
				})
			}
		} else {
			m.Rcode = dns.RcodeNameError
		}
		_ = w.WriteMsg(m)
	})

	r := NewNSResolver(addr, time.Second)

	ns, err := r.LookupNS(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"ns1.example.net", "ns2.example.net"}, ns)

	_, err = r.LookupNS(context.Background(), "missing.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NXDOMAIN")
}

func TestCompareDelegation(t *testing.T) {
	d := CompareDelegation("example.com",
		[]string{"ns1.example.net", "NS2.example.net."},
		[]string{"ns2.example.net", "ns3.example.net"},
	)
	assert.False(t, d.InSync)
	assert.Equal(t, []string{"ns1.example.net"}, d.Missing)
	assert.Equal(t, []string{"ns3.example.net"}, d.Extra)

	same := CompareDelegation("example.com", []string{"a.net", "b.net"}, []string{"b.net", "a.net"})
	assert.True(t, same.InSync)
	assert.Empty(t, same.Missing)
}

const exampleWhois = `Domain Name: EXAMPLE.COM
Registry Domain ID: 2336799_DOMAIN_COM-VRSN
Registrar WHOIS Server: whois.iana.org
Updated Date: 2024-08-14T07:01:34Z
Creation Date: 1995-08-14T04:00:00Z
Registry Expiry Date: 2026-08-13T04:00:00Z
Registrar: RESERVED-Internet Assigned Numbers Authority
Registrar IANA ID: 376
Domain Status: clientDeleteProhibited https://icann.org/epp#clientDeleteProhibited
Name Server: A.IANA-SERVERS.NET
Name Server: B.IANA-SERVERS.NET
DNSSEC: signedDelegation
`

func TestParseWhois(t *testing.T) {
	now := time.Date(2026, 7, 14, 4, 0, 0, 0, time.UTC)

	info, err := parseWhois("example.com", exampleWhois, now)
	require.NoError(t, err)
	require.NotNil(t, info.ExpiryDate)
	assert.Equal(t, time.Date(2026, 8, 13, 4, 0, 0, 0, time.UTC), info.ExpiryDate.UTC())
	assert.Equal(t, 30, info.DaysToExpiry)
	require.NotNil(t, info.CreatedDate)
	assert.Equal(t, 1995, info.CreatedDate.Year())
}

func TestParseWhoisDate(t *testing.T) {
	for _, s := range []string{"2026-08-13T04:00:00Z", "2026-08-13", "13-Aug-2026", "2026/08/13"} {
		d, err := parseWhoisDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, 13, d.Day(), s)
	}

	_, err := parseWhoisDate("soon")
	assert.Error(t, err)
}
