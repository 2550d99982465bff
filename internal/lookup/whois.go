package lookup

import (
	"context"
	"fmt"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
)

// WhoisInfo is the part of a registry record the inventory cares about.
type WhoisInfo struct {
	Domain       string     `json:"domain"`
	Registrar    string     `json:"registrar,omitempty"`
	CreatedDate  *time.Time `json:"createdDate,omitempty"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
	DaysToExpiry int        `json:"daysToExpiry"`
}

type WhoisClient struct {
	client *whois.Client
	now    func() time.Time
}

func NewWhoisClient(timeout time.Duration) *WhoisClient {
	c := whois.NewClient()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &WhoisClient{client: c, now: time.Now}
}

func (w *WhoisClient) Lookup(ctx context.Context, domain string) (*WhoisInfo, error) {
	type answer struct {
		raw string
		err error
	}
	done := make(chan answer, 1)
	go func() {
		raw, err := w.client.Whois(domain)
		done <- answer{raw, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case a := <-done:
		if a.err != nil {
			return nil, fmt.Errorf("whois lookup failed: %w", a.err)
		}
		return parseWhois(domain, a.raw, w.now())
	}
}

func parseWhois(domain, raw string, now time.Time) (*WhoisInfo, error) {
	result, err := whoisparser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("whois parse failed: %w", err)
	}

	info := &WhoisInfo{Domain: domain}
	if result.Registrar != nil {
		info.Registrar = result.Registrar.Name
	}
	if result.Domain == nil {
		return info, nil
	}

	if result.Domain.CreatedDate != "" {
		if t, err := parseWhoisDate(result.Domain.CreatedDate); err == nil {
			info.CreatedDate = &t
		}
	}
	if result.Domain.ExpirationDate != "" {
		if t, err := parseWhoisDate(result.Domain.ExpirationDate); err == nil {
			info.ExpiryDate = &t
			info.DaysToExpiry = int(t.Sub(now).Hours() / 24)
		}
	}
	return info, nil
}

func parseWhoisDate(dateStr string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05.0Z",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"02-Jan-2006",
		"2006.01.02 15:04:05",
		"2006/01/02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
