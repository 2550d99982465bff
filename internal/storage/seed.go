package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leozw/domainhub/internal/config"
	"github.com/leozw/domainhub/internal/core"
)

const day = 24 * time.Hour

// Seed loads the demo account: one user, one connection per registrar and
// five domains. Credentials from cfg replace the demo keys when present.
// Seeding an account that already exists is a no-op.
func Seed(ctx context.Context, s Store, cfg *config.Config, now time.Time) error {
	userID := cfg.Demo.DefaultUserID
	if _, err := s.GetUser(ctx, userID); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if err := s.CreateUser(ctx, &core.User{ID: userID, Username: "demo", Password: "demo123"}); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	lastSync := now.Add(-time.Hour)
	r := cfg.Registrars
	conns := []*core.RegistrarConnection{
		{
			ID:        "godaddy-conn-1",
			Registrar: core.RegistrarGoDaddy,
			APIKey:    or(r.GoDaddy.APIKey, "demo-godaddy-key"),
			APISecret: strPtr(or(r.GoDaddy.APISecret, "demo-godaddy-secret")),
		},
		{
			ID:        "namecheap-conn-1",
			Registrar: core.RegistrarNamecheap,
			APIKey:    or(r.Namecheap.APIKey, "demo-namecheap-key"),
			APISecret: strPtr(or(r.Namecheap.Username, "demo-user")),
		},
		{
			ID:        "dynadot-conn-1",
			Registrar: core.RegistrarDynadot,
			APIKey:    or(r.Dynadot.APIKey, "demo-dynadot-key"),
		},
	}
	for _, c := range conns {
		c.UserID = userID
		c.IsActive = true
		c.LastSync = &lastSync
		c.CreatedAt = now
		if err := s.CreateRegistrarConnection(ctx, c); err != nil {
			return fmt.Errorf("seed connection %s: %w", c.ID, err)
		}
	}

	domains := []core.Domain{
		{
			ID: "domain-1", RegistrarConnectionID: "godaddy-conn-1", Name: "example.com",
			Registrar: core.RegistrarGoDaddy, Status: core.DomainStatusActive,
			ExpirationDate: now.Add(365 * day), RegistrationDate: now.Add(-2 * 365 * day),
			Nameservers: []string{"ns1.godaddy.com", "ns2.godaddy.com"}, AutoRenew: true,
			RegistrarDomainID: strPtr("12345"),
		},
		{
			ID: "domain-2", RegistrarConnectionID: "namecheap-conn-1", Name: "testdomain.net",
			Registrar: core.RegistrarNamecheap, Status: core.DomainStatusExpiring,
			ExpirationDate: now.Add(15 * day), RegistrationDate: now.Add(-340 * day),
			Nameservers:       []string{"dns1.registrar-servers.com", "dns2.registrar-servers.com"},
			RegistrarDomainID: strPtr("nc-67890"),
		},
		{
			ID: "domain-3", RegistrarConnectionID: "dynadot-conn-1", Name: "mysite.org",
			Registrar: core.RegistrarDynadot, Status: core.DomainStatusActive,
			ExpirationDate: now.Add(180 * day), RegistrationDate: now.Add(-180 * day),
			Nameservers: []string{"ns1.dynadot.com", "ns2.dynadot.com"}, AutoRenew: true,
			RegistrarDomainID: strPtr("dyn-abc123"),
		},
		{
			ID: "domain-4", RegistrarConnectionID: "godaddy-conn-1", Name: "coldemaildomain.io",
			Registrar: core.RegistrarGoDaddy, Status: core.DomainStatusActive,
			ExpirationDate: now.Add(300 * day), RegistrationDate: now.Add(-60 * day),
			Nameservers:       []string{"ns1.cloudflare.com", "ns2.cloudflare.com"},
			RegistrarDomainID: strPtr("gd-456789"),
		},
		{
			ID: "domain-5", RegistrarConnectionID: "namecheap-conn-1", Name: "newsletter-sender.com",
			Registrar: core.RegistrarNamecheap, Status: core.DomainStatusActive,
			ExpirationDate: now.Add(250 * day), RegistrationDate: now.Add(-30 * day),
			Nameservers: []string{"ns1.digitalocean.com", "ns2.digitalocean.com"}, AutoRenew: true,
			RegistrarDomainID: strPtr("nc-111222"),
		},
	}
	for _, d := range domains {
		d.UserID = userID
		if err := s.CreateDomain(ctx, core.NewDomain(d, now)); err != nil {
			return fmt.Errorf("seed domain %s: %w", d.Name, err)
		}
	}

	return nil
}

// Bootstrap creates connections for the default user from registrar
// credentials found in cfg. It does nothing when the user already has
// connections. The default user is created when missing.
func Bootstrap(ctx context.Context, s Store, cfg *config.Config, now time.Time) (int, error) {
	userID := cfg.Demo.DefaultUserID
	if _, err := s.GetUser(ctx, userID); errors.Is(err, ErrNotFound) {
		if err := s.CreateUser(ctx, &core.User{ID: userID, Username: userID}); err != nil {
			return 0, fmt.Errorf("bootstrap user: %w", err)
		}
	} else if err != nil {
		return 0, err
	}

	existing, err := s.GetRegistrarConnections(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	r := cfg.Registrars
	var inputs []core.NewConnectionInput
	if r.GoDaddy.APIKey != "" && r.GoDaddy.APISecret != "" {
		inputs = append(inputs, core.NewConnectionInput{
			Registrar: core.RegistrarGoDaddy, APIKey: r.GoDaddy.APIKey, APISecret: strPtr(r.GoDaddy.APISecret),
		})
	}
	if r.Namecheap.APIKey != "" && r.Namecheap.Username != "" {
		inputs = append(inputs, core.NewConnectionInput{
			Registrar: core.RegistrarNamecheap, APIKey: r.Namecheap.APIKey, APISecret: strPtr(r.Namecheap.Username),
		})
	}
	if r.Dynadot.APIKey != "" {
		inputs = append(inputs, core.NewConnectionInput{
			Registrar: core.RegistrarDynadot, APIKey: r.Dynadot.APIKey,
		})
	}

	for _, in := range inputs {
		in.UserID = userID
		if err := s.CreateRegistrarConnection(ctx, in.Connection(now)); err != nil {
			return 0, fmt.Errorf("bootstrap %s connection: %w", in.Registrar, err)
		}
	}
	return len(inputs), nil
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func strPtr(s string) *string { return &s }
