// Package namecheap talks to the Namecheap XML API.
package namecheap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/registrar"
	"golang.org/x/net/publicsuffix"
)

const (
	DefaultBaseURL = "https://api.namecheap.com/xml.response"
	SandboxBaseURL = "https://api.sandbox.namecheap.com/xml.response"

	pageSize   = 100
	checkBatch = 50
	dateLayout = "01/02/2006"
)

type Options struct {
	BaseURL    string
	ClientIP   string
	HTTPClient *http.Client
}

type Client struct {
	apiKey   string
	username string
	opts     Options
	http     *http.Client
}

// NewClient builds a client. Namecheap identifies the API user and the
// account by the same username.
func NewClient(apiKey, username string, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.ClientIP == "" {
		opts.ClientIP = "127.0.0.1"
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	return &Client{
		apiKey:   strings.TrimSpace(apiKey),
		username: strings.TrimSpace(username),
		opts:     opts,
		http:     hc,
	}
}

func (c *Client) Registrar() core.Registrar { return core.RegistrarNamecheap }

type apiResponse struct {
	XMLName xml.Name `xml:"ApiResponse"`
	Status  string   `xml:"Status,attr"`
	Errors  []struct {
		Number  string `xml:"Number,attr"`
		Message string `xml:",chardata"`
	} `xml:"Errors>Error"`
	CommandResponse commandResponse `xml:"CommandResponse"`
}

func (r *apiResponse) ok() bool {
	return strings.EqualFold(r.Status, "OK")
}

func (r *apiResponse) errorMessage() string {
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s %s", e.Number, strings.TrimSpace(e.Message)))
	}
	if len(parts) == 0 {
		return "status " + r.Status
	}
	return strings.Join(parts, "; ")
}

type commandResponse struct {
	Domains []struct {
		ID        string `xml:"ID,attr"`
		Name      string `xml:"Name,attr"`
		Created   string `xml:"Created,attr"`
		Expires   string `xml:"Expires,attr"`
		IsExpired string `xml:"IsExpired,attr"`
		IsLocked  string `xml:"IsLocked,attr"`
		AutoRenew string `xml:"AutoRenew,attr"`
	} `xml:"DomainGetListResult>Domain"`
	Paging struct {
		TotalItems  int `xml:"TotalItems"`
		CurrentPage int `xml:"CurrentPage"`
		PageSize    int `xml:"PageSize"`
	} `xml:"Paging"`
	DNSList struct {
		Nameservers []string `xml:"Nameserver"`
	} `xml:"DomainDNSGetListResult"`
	SetCustom struct {
		Updated string `xml:"Updated,attr"`
	} `xml:"DomainDNSSetCustomResult"`
	Checks []struct {
		Domain                   string `xml:"Domain,attr"`
		Available                string `xml:"Available,attr"`
		ErrorNo                  string `xml:"ErrorNo,attr"`
		Description              string `xml:"Description,attr"`
		IsPremiumName            string `xml:"IsPremiumName,attr"`
		PremiumRegistrationPrice string `xml:"PremiumRegistrationPrice,attr"`
	} `xml:"DomainCheckResult"`
}

// TestConnection asks for the first page of domains. An ERROR status
// (bad key, unlisted client IP) yields false.
func (c *Client) TestConnection(ctx context.Context) (bool, error) {
	resp, err := c.call(ctx, "test_connection", "namecheap.domains.getList", url.Values{
		"Page":     {"1"},
		"PageSize": {"10"},
	})
	if err != nil {
		return false, err
	}
	return resp.ok(), nil
}

// GetDomains pages through the account and then fetches nameservers one
// domain at a time. A failed nameserver lookup leaves that domain with an
// empty list.
func (c *Client) GetDomains(ctx context.Context) ([]core.RemoteDomain, error) {
	out := []core.RemoteDomain{}

	for page := 1; ; page++ {
		resp, err := c.call(ctx, "get_domains", "namecheap.domains.getList", url.Values{
			"Page":     {strconv.Itoa(page)},
			"PageSize": {strconv.Itoa(pageSize)},
		})
		if err != nil {
			return nil, err
		}
		if !resp.ok() {
			return nil, registrar.NewError(registrar.CategoryAPI, core.RegistrarNamecheap, "get_domains", resp.errorMessage(), nil)
		}

		for _, d := range resp.CommandResponse.Domains {
			name := strings.ToLower(strings.TrimSpace(d.Name))
			if name == "" {
				continue
			}
			expires, err := time.Parse(dateLayout, d.Expires)
			if err != nil {
				continue
			}
			created, err := time.Parse(dateLayout, d.Created)
			if err != nil {
				continue
			}

			status := "active"
			if expired, _ := strconv.ParseBool(d.IsExpired); expired {
				status = "expired"
			}

			out = append(out, core.RemoteDomain{
				Name:              name,
				Status:            status,
				ExpirationDate:    expires,
				RegistrationDate:  created,
				RegistrarDomainID: d.ID,
			})
		}

		p := resp.CommandResponse.Paging
		if len(resp.CommandResponse.Domains) == 0 || p.TotalItems <= page*pageSize {
			break
		}
	}

	for i := range out {
		ns, err := c.nameservers(ctx, out[i].Name)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			ns = []string{}
		}
		out[i].Nameservers = ns
	}

	return out, nil
}

func (c *Client) nameservers(ctx context.Context, domain string) ([]string, error) {
	sld, tld, err := splitDomain(domain)
	if err != nil {
		return nil, err
	}

	resp, err := c.call(ctx, "get_nameservers", "namecheap.domains.dns.getList", url.Values{
		"SLD": {sld},
		"TLD": {tld},
	})
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, registrar.NewError(registrar.CategoryAPI, core.RegistrarNamecheap, "get_nameservers", resp.errorMessage(), nil)
	}

	ns := make([]string, 0, len(resp.CommandResponse.DNSList.Nameservers))
	for _, n := range resp.CommandResponse.DNSList.Nameservers {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			ns = append(ns, n)
		}
	}
	return ns, nil
}

func (c *Client) UpdateNameservers(ctx context.Context, domain string, nameservers []string) (bool, error) {
	sld, tld, err := splitDomain(domain)
	if err != nil {
		return false, err
	}

	resp, err := c.call(ctx, "update_nameservers", "namecheap.domains.dns.setCustom", url.Values{
		"SLD":         {sld},
		"TLD":         {tld},
		"Nameservers": {strings.Join(nameservers, ",")},
	})
	if err != nil {
		return false, err
	}
	if !resp.ok() {
		return false, nil
	}
	updated, err := strconv.ParseBool(resp.CommandResponse.SetCustom.Updated)
	return err == nil && updated, nil
}

func (c *Client) CheckDomainAvailability(ctx context.Context, name string) (*registrar.Availability, error) {
	out, err := c.check(ctx, "check_availability", []string{name})
	if err != nil {
		return nil, err
	}
	for i := range out {
		if strings.EqualFold(out[i].Domain, name) {
			return &out[i], nil
		}
	}
	return &registrar.Availability{Domain: name, Message: "no result returned"}, nil
}

// BulkCheckAvailability checks names in batches of 50, the most Namecheap
// accepts per call.
func (c *Client) BulkCheckAvailability(ctx context.Context, names []string) ([]registrar.Availability, error) {
	out := make([]registrar.Availability, 0, len(names))
	for start := 0; start < len(names); start += checkBatch {
		end := min(start+checkBatch, len(names))
		batch, err := c.check(ctx, "bulk_check_availability", names[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

func (c *Client) check(ctx context.Context, op string, names []string) ([]registrar.Availability, error) {
	resp, err := c.call(ctx, op, "namecheap.domains.check", url.Values{
		"DomainList": {strings.Join(names, ",")},
	})
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, registrar.NewError(registrar.CategoryAPI, core.RegistrarNamecheap, op, resp.errorMessage(), nil)
	}

	out := make([]registrar.Availability, 0, len(resp.CommandResponse.Checks))
	for _, r := range resp.CommandResponse.Checks {
		a := registrar.Availability{Domain: r.Domain, Currency: "USD"}

		if v, err := strconv.ParseBool(r.Available); err == nil {
			a.Available = v
		} else if r.Available != "" {
			a.Available = r.Available
		}
		if premium, err := strconv.ParseBool(r.IsPremiumName); err == nil {
			a.Premium = &premium
			if premium {
				if p, err := strconv.ParseFloat(r.PremiumRegistrationPrice, 64); err == nil && p > 0 {
					a.Price = r.PremiumRegistrationPrice
				}
			}
		}
		if r.ErrorNo != "" && r.ErrorNo != "0" {
			a.Message = strings.TrimSpace(r.Description)
		}
		out = append(out, a)
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, op, command string, params url.Values) (*apiResponse, error) {
	q := url.Values{
		"ApiUser":  {c.username},
		"ApiKey":   {c.apiKey},
		"UserName": {c.username},
		"ClientIp": {c.opts.ClientIP},
		"Command":  {command},
	}
	for k, v := range params {
		q[k] = v
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, registrar.TransportError(core.RegistrarNamecheap, op, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, registrar.TransportError(core.RegistrarNamecheap, op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, registrar.StatusError(core.RegistrarNamecheap, op, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var decoded apiResponse
	if err := xml.Unmarshal(b, &decoded); err != nil {
		return nil, registrar.NewError(registrar.CategoryBadData, core.RegistrarNamecheap, op, "decode xml", err)
	}
	return &decoded, nil
}

// splitDomain separates the registrable label from its public suffix, so
// "shop.example.co.uk" becomes ("example", "co.uk").
func splitDomain(domain string) (string, string, error) {
	domain = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(domain), "."))
	etld1, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return "", "", fmt.Errorf("namecheap: split %q: %w", domain, err)
	}
	tld, _ := publicsuffix.PublicSuffix(etld1)
	return strings.TrimSuffix(etld1, "."+tld), tld, nil
}
