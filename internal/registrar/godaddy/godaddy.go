// Package godaddy talks to the GoDaddy Domains REST API.
package godaddy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/registrar"
)

const (
	DefaultBaseURL = "https://api.godaddy.com"
	OTEBaseURL     = "https://api.ote-godaddy.com"

	pageSize = 1000
)

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

type Client struct {
	apiKey    string
	apiSecret string
	opts      Options
	http      *http.Client
}

func NewClient(apiKey, apiSecret string, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.UserAgent == "" {
		opts.UserAgent = "domainhub/registrar-godaddy"
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	return &Client{
		apiKey:    strings.TrimSpace(apiKey),
		apiSecret: strings.TrimSpace(apiSecret),
		opts:      opts,
		http:      hc,
	}
}

func (c *Client) Registrar() core.Registrar { return core.RegistrarGoDaddy }

// TestConnection lists a single domain. Rejected credentials yield false.
func (c *Client) TestConnection(ctx context.Context) (bool, error) {
	q := url.Values{"limit": {"1"}}
	_, status, err := c.do(ctx, "test_connection", http.MethodGet, "/v1/domains", q, nil)
	if err != nil {
		return false, err
	}

	switch {
	case status == http.StatusOK:
		return true, nil
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return false, nil
	}
	return false, registrar.StatusError(core.RegistrarGoDaddy, "test_connection", status, "")
}

type domainSummary struct {
	Domain      string   `json:"domain"`
	DomainID    int64    `json:"domainId"`
	Status      string   `json:"status"`
	Expires     string   `json:"expires"`
	CreatedAt   string   `json:"createdAt"`
	NameServers []string `json:"nameServers"`
}

func (c *Client) GetDomains(ctx context.Context) ([]core.RemoteDomain, error) {
	var out []core.RemoteDomain
	marker := ""

	for {
		q := url.Values{
			"limit":    {strconv.Itoa(pageSize)},
			"includes": {"nameServers"},
		}
		if marker != "" {
			q.Set("marker", marker)
		}

		body, status, err := c.do(ctx, "get_domains", http.MethodGet, "/v1/domains", q, nil)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, registrar.StatusError(core.RegistrarGoDaddy, "get_domains", status, trim(body))
		}

		var page []json.RawMessage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, registrar.NewError(registrar.CategoryBadData, core.RegistrarGoDaddy, "get_domains", "decode domain list", err)
		}

		for _, raw := range page {
			if d, ok := toRemote(raw); ok {
				out = append(out, d)
			}
		}

		if len(page) < pageSize {
			break
		}
		var last domainSummary
		if err := json.Unmarshal(page[len(page)-1], &last); err != nil || last.Domain == "" {
			break
		}
		marker = last.Domain
	}

	if out == nil {
		out = []core.RemoteDomain{}
	}
	return out, nil
}

func toRemote(raw json.RawMessage) (core.RemoteDomain, bool) {
	var s domainSummary
	if err := json.Unmarshal(raw, &s); err != nil || s.Domain == "" {
		return core.RemoteDomain{}, false
	}

	expires, err := time.Parse(time.RFC3339, s.Expires)
	if err != nil {
		return core.RemoteDomain{}, false
	}
	created, err := time.Parse(time.RFC3339, s.CreatedAt)
	if err != nil {
		return core.RemoteDomain{}, false
	}

	ns := make([]string, 0, len(s.NameServers))
	for _, n := range s.NameServers {
		ns = append(ns, strings.ToLower(n))
	}

	var id string
	if s.DomainID != 0 {
		id = strconv.FormatInt(s.DomainID, 10)
	}

	return core.RemoteDomain{
		Name:              strings.ToLower(s.Domain),
		Status:            strings.ToLower(s.Status),
		ExpirationDate:    expires,
		RegistrationDate:  created,
		Nameservers:       ns,
		RegistrarDomainID: id,
	}, true
}

// UpdateNameservers patches the domain. GoDaddy answers 204 on success; a
// validation refusal is reported as false.
func (c *Client) UpdateNameservers(ctx context.Context, domain string, nameservers []string) (bool, error) {
	payload, err := json.Marshal(map[string][]string{"nameServers": nameservers})
	if err != nil {
		return false, err
	}

	body, status, err := c.do(ctx, "update_nameservers", http.MethodPatch, "/v1/domains/"+url.PathEscape(domain), nil, payload)
	if err != nil {
		return false, err
	}
	if status/100 == 2 {
		return true, nil
	}
	return false, refusal(status, body)
}

type availableResponse struct {
	Available  bool   `json:"available"`
	Domain     string `json:"domain"`
	Definitive bool   `json:"definitive"`
	Price      *int64 `json:"price"`
	Currency   string `json:"currency"`
	Period     int    `json:"period"`
}

type bulkAvailableResponse struct {
	Domains []availableResponse `json:"domains"`
	Errors  []struct {
		Domain  string `json:"domain"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) CheckDomainAvailability(ctx context.Context, name string) (*registrar.Availability, error) {
	q := url.Values{
		"domain":      {name},
		"checkType":   {"FAST"},
		"forTransfer": {"false"},
	}
	body, status, err := c.do(ctx, "check_availability", http.MethodGet, "/v1/domains/available", q, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, registrar.StatusError(core.RegistrarGoDaddy, "check_availability", status, trim(body))
	}

	var r availableResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, registrar.NewError(registrar.CategoryBadData, core.RegistrarGoDaddy, "check_availability", "decode availability", err)
	}
	if r.Domain == "" {
		r.Domain = name
	}
	a := toAvailability(r)
	return &a, nil
}

func (c *Client) BulkCheckAvailability(ctx context.Context, names []string) ([]registrar.Availability, error) {
	payload, err := json.Marshal(names)
	if err != nil {
		return nil, err
	}

	q := url.Values{"checkType": {"FAST"}}
	body, status, err := c.do(ctx, "bulk_check_availability", http.MethodPost, "/v1/domains/available", q, payload)
	if err != nil {
		return nil, err
	}
	// 203 is returned when some names could not be checked.
	if status != http.StatusOK && status != http.StatusNonAuthoritativeInfo {
		return nil, registrar.StatusError(core.RegistrarGoDaddy, "bulk_check_availability", status, trim(body))
	}

	var r bulkAvailableResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, registrar.NewError(registrar.CategoryBadData, core.RegistrarGoDaddy, "bulk_check_availability", "decode availability", err)
	}

	out := make([]registrar.Availability, 0, len(r.Domains)+len(r.Errors))
	for _, d := range r.Domains {
		out = append(out, toAvailability(d))
	}
	for _, e := range r.Errors {
		out = append(out, registrar.Availability{
			Domain:  e.Domain,
			Message: strings.TrimSpace(e.Code + " " + e.Message),
		})
	}
	return out, nil
}

func toAvailability(r availableResponse) registrar.Availability {
	a := registrar.Availability{
		Domain:      r.Domain,
		Available:   r.Available,
		Currency:    r.Currency,
		PriceMicros: true,
	}
	if r.Price != nil {
		a.Price = strconv.FormatInt(*r.Price, 10)
	}
	return a
}

func (c *Client) do(ctx context.Context, op, method, path string, q url.Values, payload []byte) ([]byte, int, error) {
	u := c.opts.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", fmt.Sprintf("sso-key %s:%s", c.apiKey, c.apiSecret))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, registrar.TransportError(core.RegistrarGoDaddy, op, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, 0, registrar.TransportError(core.RegistrarGoDaddy, op, err)
	}
	return b, resp.StatusCode, nil
}

// refusal decides whether a failed update is a plain refusal (nil error)
// or something the caller must see as an error.
func refusal(status int, body []byte) error {
	err := registrar.StatusError(core.RegistrarGoDaddy, "update_nameservers", status, trim(body))
	if err.Category == registrar.CategoryAPI {
		return nil
	}
	return err
}

func trim(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 512 {
		s = s[:512]
	}
	return s
}
