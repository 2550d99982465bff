package dynadot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leozw/domainhub/internal/registrar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient("token", Options{BaseURL: srv.URL})
}

func TestClient_TestConnection(t *testing.T) {
	t.Parallel()

	t.Run("numeric response code", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "token", r.URL.Query().Get("key"))
			assert.Equal(t, "account_info", r.URL.Query().Get("command"))
			_, _ = w.Write([]byte(`{"AccountInfoResponse":{"ResponseCode":0,"AccountInfo":{}}}`))
		})

		ok, err := c.TestConnection(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("string response code", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"AccountInfoResponse":{"ResponseCode":"0"}}`))
		})

		ok, err := c.TestConnection(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("invalid key", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"Response":{"ResponseCode":"-1","Error":"invalid key"}}`))
		})

		ok, err := c.TestConnection(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("not json", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>maintenance</html>`))
		})

		_, err := c.TestConnection(context.Background())
		require.Error(t, err)
		assert.Equal(t, registrar.CategoryBadData, registrar.CategoryOf(err))
	})
}

func TestClient_GetDomains(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "list_domain", r.URL.Query().Get("command"))
		_, _ = w.Write([]byte(`{"ListDomainInfoResponse":{"ResponseCode":0,"Status":"success","MainDomains":[
			{"Name":"mysite.org","DomainId":"5501","Expiration":1830297600000,"Registration":1577836800000,"Status":"Active",
			 "NameServerSettings":{"Type":"Name Servers","NameServers":[{"ServerId":1,"ServerName":"NS1.DYNADOT.COM"},{"ServerId":2,"ServerName":"ns2.dynadot.com"},{"ServerId":3,"ServerName":""}]}},
			{"Name":"","Expiration":1830297600000,"Registration":1577836800000},
			{"Name":"nodates.net"}
		]}}`))
	})

	domains, err := c.GetDomains(context.Background())
	require.NoError(t, err)
	require.Len(t, domains, 1)

	d := domains[0]
	assert.Equal(t, "mysite.org", d.Name)
	assert.Equal(t, "active", d.Status)
	assert.Equal(t, "5501", d.RegistrarDomainID)
	assert.Equal(t, time.UnixMilli(1830297600000).UTC(), d.ExpirationDate)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), d.RegistrationDate)
	assert.Equal(t, []string{"ns1.dynadot.com", "ns2.dynadot.com"}, d.Nameservers)
}

func TestClient_GetDomainsAPIError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ListDomainInfoResponse":{"ResponseCode":"-1","Error":"too many requests"}}`))
	})

	_, err := c.GetDomains(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many requests")
}

func TestClient_UpdateNameservers(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "set_ns", q.Get("command"))
			assert.Equal(t, "mysite.org", q.Get("domain"))
			assert.Equal(t, "ns1.host.net", q.Get("ns0"))
			assert.Equal(t, "ns2.host.net", q.Get("ns1"))
			_, _ = w.Write([]byte(`{"SetNsResponse":{"ResponseCode":0,"Status":"success"}}`))
		})

		ok, err := c.UpdateNameservers(context.Background(), "mysite.org", []string{"ns1.host.net", "ns2.host.net"})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("refused", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"SetNsResponse":{"ResponseCode":"-1","Status":"error","Error":"domain not found"}}`))
		})

		ok, err := c.UpdateNameservers(context.Background(), "other.org", []string{"ns1.host.net"})
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestClient_BulkSearchDomains(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "search", q.Get("command"))
		assert.Equal(t, "free.com", q.Get("domain0"))
		assert.Equal(t, "taken.com", q.Get("domain1"))
		assert.Equal(t, "1", q.Get("show_price"))
		assert.Equal(t, "eur", q.Get("currency"))
		_, _ = w.Write([]byte(`{"SearchResponse":{"ResponseCode":"0","SearchResults":[
			{"DomainName":"free.com","Available":"yes","Price":"9.99 in EUR"},
			{"DomainName":"taken.com","Available":"no"}
		]}}`))
	})

	out, err := c.BulkSearchDomains(context.Background(), []string{"free.com", "taken.com"},
		registrar.SearchOptions{ShowPrice: true, Currency: "EUR"})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "yes", out[0].Available)
	assert.Equal(t, "9.99", out[0].Price)
	assert.Equal(t, "EUR", out[0].Currency)
	assert.Equal(t, "no", out[1].Available)
	assert.Empty(t, out[1].Price)
}

func TestClient_SearchDomainWithoutPrice(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("show_price"))
		_, _ = w.Write([]byte(`{"SearchResponse":{"ResponseCode":0,"SearchResults":[{"DomainName":"x.io","Available":"yes"}]}}`))
	})

	a, err := c.SearchDomain(context.Background(), "x.io", registrar.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "x.io", a.Domain)
	assert.Equal(t, "yes", a.Available)
}
