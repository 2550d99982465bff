// Package factory turns stored registrar connections into ready clients.
package factory

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/leozw/domainhub/internal/config"
	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/registrar"
	"github.com/leozw/domainhub/internal/registrar/dynadot"
	"github.com/leozw/domainhub/internal/registrar/godaddy"
	"github.com/leozw/domainhub/internal/registrar/namecheap"
	"golang.org/x/time/rate"
)

type Options struct {
	GoDaddyBaseURL   string
	NamecheapBaseURL string
	NamecheapIP      string
	DynadotBaseURL   string
	HTTPClient       *http.Client
	Policy           registrar.Policy
	Recorder         registrar.Recorder
}

// OptionsFromConfig maps the registrars config section.
func OptionsFromConfig(cfg config.RegistrarsConfig, rec registrar.Recorder) Options {
	return Options{
		GoDaddyBaseURL:   cfg.GoDaddy.BaseURL,
		NamecheapBaseURL: cfg.Namecheap.BaseURL,
		NamecheapIP:      cfg.Namecheap.ClientIP,
		DynadotBaseURL:   cfg.Dynadot.BaseURL,
		Policy: registrar.Policy{
			Timeout:     cfg.Timeout,
			MaxAttempts: cfg.MaxRetries,
			Backoff:     cfg.Backoff,
			RateLimit:   rate.Limit(cfg.RateLimit),
			RateBurst:   cfg.RateBurst,
		},
		Recorder: rec,
	}
}

// NewClient builds the client for conn with a limiter of its own. Demo keys
// get the demo decorator and never reach the network; everything else talks
// through a registrar.Transport carrying opts.Policy.
func NewClient(conn *core.RegistrarConnection, opts Options) (registrar.Client, error) {
	return newClient(conn, opts, registrar.NewLimiter(opts.Policy))
}

// New binds opts into a registrar.Factory. Clients built for the same
// registrar account share one limiter, so pacing holds across the sync
// worker, search requests and nameserver updates.
func New(opts Options) registrar.Factory {
	var limiters sync.Map

	return func(conn *core.RegistrarConnection) (registrar.Client, error) {
		key := string(conn.Registrar) + ":" + conn.APIKey
		l, ok := limiters.Load(key)
		if !ok {
			l, _ = limiters.LoadOrStore(key, registrar.NewLimiter(opts.Policy))
		}
		return newClient(conn, opts, l.(*rate.Limiter))
	}
}

func newClient(conn *core.RegistrarConnection, opts Options, limiter *rate.Limiter) (registrar.Client, error) {
	if registrar.IsDemoKey(conn.APIKey) {
		c, err := variant(conn, opts, nil)
		if err != nil {
			return nil, err
		}
		return registrar.WithDemoMode(c), nil
	}

	c, err := variant(conn, opts, &registrar.Transport{
		Base:      baseTransport(opts.HTTPClient),
		Limiter:   limiter,
		Policy:    opts.Policy,
		Registrar: conn.Registrar,
		Recorder:  opts.Recorder,
	})
	if err != nil {
		return nil, err
	}
	return registrar.WithInstrumentation(c, opts.Recorder), nil
}

func variant(conn *core.RegistrarConnection, opts Options, rt http.RoundTripper) (registrar.Client, error) {
	hc := &http.Client{}
	if opts.HTTPClient != nil {
		cp := *opts.HTTPClient
		hc = &cp
	}
	if rt != nil {
		hc.Transport = rt
	}

	switch conn.Registrar {
	case core.RegistrarGoDaddy:
		return godaddy.NewClient(conn.APIKey, conn.Secret(), godaddy.Options{
			BaseURL:    opts.GoDaddyBaseURL,
			HTTPClient: hc,
		}), nil
	case core.RegistrarNamecheap:
		return namecheap.NewClient(conn.APIKey, conn.Secret(), namecheap.Options{
			BaseURL:    opts.NamecheapBaseURL,
			ClientIP:   opts.NamecheapIP,
			HTTPClient: hc,
		}), nil
	case core.RegistrarDynadot:
		return dynadot.NewClient(conn.APIKey, dynadot.Options{
			BaseURL:    opts.DynadotBaseURL,
			HTTPClient: hc,
		}), nil
	}
	return nil, fmt.Errorf("%w: %q", registrar.ErrUnsupportedRegistrar, conn.Registrar)
}

func baseTransport(hc *http.Client) http.RoundTripper {
	if hc != nil && hc.Transport != nil {
		return hc.Transport
	}
	return http.DefaultTransport
}
