package registrar

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/leozw/domainhub/internal/core"
	"golang.org/x/time/rate"
)

// Recorder receives per-call telemetry. *metrics.Collector implements it.
type Recorder interface {
	ObserveRegistrarCall(registrar, operation, outcome string, d time.Duration)
	RecordRetry(registrar, operation string)
}

// Policy bounds individual outbound requests. Timeout, MaxAttempts and
// Backoff apply to each HTTP round trip, never to a whole operation, so a
// listing that fans out into many requests is not cut short by its size.
type Policy struct {
	Timeout     time.Duration
	MaxAttempts int
	Backoff     time.Duration
	RateLimit   rate.Limit
	RateBurst   int
}

func DefaultPolicy() Policy {
	return Policy{
		Timeout:     30 * time.Second,
		MaxAttempts: 3,
		Backoff:     500 * time.Millisecond,
		RateLimit:   5,
		RateBurst:   5,
	}
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.Timeout <= 0 {
		p.Timeout = def.Timeout
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.Backoff <= 0 {
		p.Backoff = def.Backoff
	}
	if p.RateLimit <= 0 {
		p.RateLimit = rate.Inf
	}
	if p.RateBurst <= 0 {
		p.RateBurst = 1
	}
	return p
}

// NewLimiter returns the token bucket described by p. A non-positive
// RateLimit means unlimited.
func NewLimiter(p Policy) *rate.Limiter {
	p = p.withDefaults()
	return rate.NewLimiter(p.RateLimit, p.RateBurst)
}

// Transport applies a Policy to every outbound registrar request. Each round
// trip waits on Limiter, runs under its own Policy.Timeout and is retried
// with exponential backoff on transport failures, 408, 429 and 5xx. Requests
// whose body cannot be replayed are sent once.
type Transport struct {
	Base      http.RoundTripper
	Limiter   *rate.Limiter
	Policy    Policy
	Registrar core.Registrar
	Recorder  Recorder
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	p := t.Policy.withDefaults()
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	ctx := req.Context()
	replayable := req.Body == nil || req.Body == http.NoBody || req.GetBody != nil

	for attempt := 1; ; attempt++ {
		if t.Limiter != nil {
			if err := t.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, p.Timeout)
		r := req.Clone(attemptCtx)
		if attempt > 1 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				cancel()
				return nil, err
			}
			r.Body = body
		}

		resp, err := base.RoundTrip(r)
		last := !replayable || attempt >= p.MaxAttempts || ctx.Err() != nil

		switch {
		case err != nil:
			cancel()
			if last {
				return nil, err
			}
		case !retryableStatus(resp.StatusCode) || last:
			resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
			return resp, nil
		default:
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
			resp.Body.Close()
			cancel()
		}

		if t.Recorder != nil {
			t.Recorder.RecordRetry(string(t.Registrar), req.Method)
		}

		timer := time.NewTimer(p.Backoff << (attempt - 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func retryableStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= http.StatusInternalServerError
}

// cancelBody keeps the attempt context alive until the caller has read the
// response.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

type instrumentedClient struct {
	inner    Client
	recorder Recorder
}

// WithInstrumentation records the outcome and duration of every operation on
// c. Pacing, timeouts and retries live in Transport, below the operation.
func WithInstrumentation(c Client, rec Recorder) Client {
	return &instrumentedClient{inner: c, recorder: rec}
}

func (r *instrumentedClient) Unwrap() Client { return r.inner }

func (r *instrumentedClient) Registrar() core.Registrar { return r.inner.Registrar() }

func (r *instrumentedClient) TestConnection(ctx context.Context) (bool, error) {
	return call(ctx, r, "test_connection", r.inner.TestConnection)
}

func (r *instrumentedClient) GetDomains(ctx context.Context) ([]core.RemoteDomain, error) {
	return call(ctx, r, "get_domains", r.inner.GetDomains)
}

func (r *instrumentedClient) UpdateNameservers(ctx context.Context, domain string, nameservers []string) (bool, error) {
	return call(ctx, r, "update_nameservers", func(ctx context.Context) (bool, error) {
		return r.inner.UpdateNameservers(ctx, domain, nameservers)
	})
}

func (r *instrumentedClient) SearchDomain(ctx context.Context, name string, opts SearchOptions) (*Availability, error) {
	s, ok := AsSearcher(r.inner)
	if !ok {
		return nil, ErrUnsupportedRegistrar
	}
	return call(ctx, r, "search_domain", func(ctx context.Context) (*Availability, error) {
		return s.SearchDomain(ctx, name, opts)
	})
}

func (r *instrumentedClient) BulkSearchDomains(ctx context.Context, names []string, opts SearchOptions) ([]Availability, error) {
	s, ok := AsBulkSearcher(r.inner)
	if !ok {
		return nil, ErrUnsupportedRegistrar
	}
	return call(ctx, r, "bulk_search_domains", func(ctx context.Context) ([]Availability, error) {
		return s.BulkSearchDomains(ctx, names, opts)
	})
}

func (r *instrumentedClient) CheckDomainAvailability(ctx context.Context, name string) (*Availability, error) {
	a, ok := AsAvailabilityChecker(r.inner)
	if !ok {
		return nil, ErrUnsupportedRegistrar
	}
	return call(ctx, r, "check_availability", func(ctx context.Context) (*Availability, error) {
		return a.CheckDomainAvailability(ctx, name)
	})
}

func (r *instrumentedClient) BulkCheckAvailability(ctx context.Context, names []string) ([]Availability, error) {
	a, ok := AsBulkAvailabilityChecker(r.inner)
	if !ok {
		return nil, ErrUnsupportedRegistrar
	}
	return call(ctx, r, "bulk_check_availability", func(ctx context.Context) ([]Availability, error) {
		return a.BulkCheckAvailability(ctx, names)
	})
}

func call[T any](ctx context.Context, r *instrumentedClient, op string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	v, err := fn(ctx)
	r.observe(op, err, time.Since(start))
	return v, err
}

func (r *instrumentedClient) observe(op string, err error, d time.Duration) {
	if r.recorder == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(CategoryOf(err))
	}
	r.recorder.ObserveRegistrarCall(string(r.inner.Registrar()), op, outcome, d)
}
