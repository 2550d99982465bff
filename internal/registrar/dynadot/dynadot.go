// Package dynadot talks to the Dynadot api3.json interface.
package dynadot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/registrar"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "https://api.dynadot.com/api3.json"

	maxNameservers = 13
	searchBatch    = 100
)

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	apiKey string
	opts   Options
	http   *http.Client
}

func NewClient(apiKey string, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		opts:   opts,
		http:   hc,
	}
}

func (c *Client) Registrar() core.Registrar { return core.RegistrarDynadot }

// envelope is the single "<Command>Response" object every answer is wrapped in.
type envelope struct {
	gjson.Result
}

func (e envelope) ok() bool {
	code := e.Get("ResponseCode")
	if code.Exists() && code.String() == "0" {
		return true
	}
	return strings.EqualFold(e.Get("Status").String(), "success")
}

func (e envelope) errorMessage() string {
	if msg := e.Get("Error").String(); msg != "" {
		return msg
	}
	return fmt.Sprintf("response code %s", e.Get("ResponseCode").String())
}

func (c *Client) TestConnection(ctx context.Context) (bool, error) {
	env, err := c.call(ctx, "test_connection", "account_info", nil)
	if err != nil {
		return false, err
	}
	return env.ok(), nil
}

func (c *Client) GetDomains(ctx context.Context) ([]core.RemoteDomain, error) {
	env, err := c.call(ctx, "get_domains", "list_domain", nil)
	if err != nil {
		return nil, err
	}
	if !env.ok() {
		return nil, registrar.NewError(registrar.CategoryAPI, core.RegistrarDynadot, "get_domains", env.errorMessage(), nil)
	}

	out := []core.RemoteDomain{}
	env.Get("MainDomains").ForEach(func(_, d gjson.Result) bool {
		if rd, ok := toRemote(d); ok {
			out = append(out, rd)
		}
		return true
	})
	return out, nil
}

func toRemote(d gjson.Result) (core.RemoteDomain, bool) {
	name := strings.ToLower(strings.TrimSpace(d.Get("Name").String()))
	if name == "" {
		return core.RemoteDomain{}, false
	}

	expires := d.Get("Expiration").Int()
	registered := d.Get("Registration").Int()
	if expires <= 0 || registered <= 0 {
		return core.RemoteDomain{}, false
	}

	ns := []string{}
	d.Get("NameServerSettings.NameServers").ForEach(func(_, s gjson.Result) bool {
		if host := strings.ToLower(strings.TrimSpace(s.Get("ServerName").String())); host != "" {
			ns = append(ns, host)
		}
		return true
	})

	return core.RemoteDomain{
		Name:              name,
		Status:            strings.ToLower(d.Get("Status").String()),
		ExpirationDate:    time.UnixMilli(expires).UTC(),
		RegistrationDate:  time.UnixMilli(registered).UTC(),
		Nameservers:       ns,
		RegistrarDomainID: d.Get("DomainId").String(),
	}, true
}

func (c *Client) UpdateNameservers(ctx context.Context, domain string, nameservers []string) (bool, error) {
	if len(nameservers) > maxNameservers {
		return false, nil
	}

	params := url.Values{"domain": {domain}}
	for i, ns := range nameservers {
		params.Set("ns"+strconv.Itoa(i), ns)
	}

	env, err := c.call(ctx, "update_nameservers", "set_ns", params)
	if err != nil {
		return false, err
	}
	return env.ok(), nil
}

func (c *Client) SearchDomain(ctx context.Context, name string, opts registrar.SearchOptions) (*registrar.Availability, error) {
	out, err := c.search(ctx, "search_domain", []string{name}, opts)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return &registrar.Availability{Domain: name, Message: "no result returned"}, nil
	}
	return &out[0], nil
}

func (c *Client) BulkSearchDomains(ctx context.Context, names []string, opts registrar.SearchOptions) ([]registrar.Availability, error) {
	out := make([]registrar.Availability, 0, len(names))
	for start := 0; start < len(names); start += searchBatch {
		end := min(start+searchBatch, len(names))
		batch, err := c.search(ctx, "bulk_search_domains", names[start:end], opts)
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (c *Client) search(ctx context.Context, op string, names []string, opts registrar.SearchOptions) ([]registrar.Availability, error) {
	params := url.Values{}
	for i, n := range names {
		params.Set("domain"+strconv.Itoa(i), n)
	}
	if opts.ShowPrice {
		params.Set("show_price", "1")
		currency := opts.Currency
		if currency == "" {
			currency = "USD"
		}
		params.Set("currency", strings.ToLower(currency))
	}

	env, err := c.call(ctx, op, "search", params)
	if err != nil {
		return nil, err
	}
	if !env.ok() {
		return nil, registrar.NewError(registrar.CategoryAPI, core.RegistrarDynadot, op, env.errorMessage(), nil)
	}

	var out []registrar.Availability
	env.Get("SearchResults").ForEach(func(_, r gjson.Result) bool {
		a := registrar.Availability{Domain: r.Get("DomainName").String()}

		switch v := r.Get("Available"); v.Type {
		case gjson.True, gjson.False:
			a.Available = v.Bool()
		case gjson.String:
			a.Available = v.String()
		}

		if price := r.Get("Price").String(); price != "" {
			a.Price, a.Currency = splitPrice(price)
		}
		if msg := r.Get("Error").String(); msg != "" {
			a.Message = msg
		}
		out = append(out, a)
		return true
	})
	return out, nil
}

// splitPrice reads Dynadot's "77.00 in USD" price strings.
func splitPrice(s string) (string, string) {
	amount, currency, found := strings.Cut(s, " in ")
	if !found {
		return strings.TrimSpace(s), ""
	}
	return strings.TrimSpace(amount), strings.ToUpper(strings.TrimSpace(currency))
}

func (c *Client) call(ctx context.Context, op, command string, params url.Values) (envelope, error) {
	q := url.Values{
		"key":     {c.apiKey},
		"command": {command},
	}
	for k, v := range params {
		q[k] = v
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return envelope{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return envelope{}, registrar.TransportError(core.RegistrarDynadot, op, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return envelope{}, registrar.TransportError(core.RegistrarDynadot, op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return envelope{}, registrar.StatusError(core.RegistrarDynadot, op, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if !gjson.ValidBytes(b) {
		return envelope{}, registrar.NewError(registrar.CategoryBadData, core.RegistrarDynadot, op, "invalid json", nil)
	}

	var env envelope
	gjson.ParseBytes(b).ForEach(func(key, value gjson.Result) bool {
		if strings.HasSuffix(key.String(), "Response") && value.IsObject() {
			env = envelope{value}
			return false
		}
		return true
	})
	if !env.Exists() {
		return envelope{}, registrar.NewError(registrar.CategoryBadData, core.RegistrarDynadot, op, "missing response envelope", nil)
	}
	return env, nil
}
