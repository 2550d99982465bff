package metrics

import (
	"time"

	"github.com/leozw/domainhub/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collector struct {
	config   *config.MimirConfig
	gatherer prometheus.Gatherer

	// Registrar calls
	registrarCallDuration *prometheus.HistogramVec
	registrarCallsTotal   *prometheus.CounterVec
	registrarRetriesTotal *prometheus.CounterVec

	// Sync
	syncsTotal      *prometheus.CounterVec
	syncedDomains   *prometheus.CounterVec
	lastSyncSuccess *prometheus.GaugeVec

	// Search
	searchesTotal     *prometheus.CounterVec
	searchCacheEvents *prometheus.CounterVec

	// Queue
	jobsQueued    prometheus.Gauge
	jobsProcessed *prometheus.CounterVec
}

// NewCollector registers every metric on reg. Passing a fresh registry keeps
// tests independent of the process-wide default.
func NewCollector(cfg config.MimirConfig, reg *prometheus.Registry) *Collector {
	f := promauto.With(reg)

	return &Collector{
		config:   &cfg,
		gatherer: reg,

		registrarCallDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "domainhub_registrar_call_duration_seconds",
				Help:    "Duration of registrar API calls in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"registrar", "operation"},
		),

		registrarCallsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domainhub_registrar_calls_total",
				Help: "Total registrar API calls by outcome",
			},
			[]string{"registrar", "operation", "outcome"},
		),

		registrarRetriesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domainhub_registrar_retries_total",
				Help: "Total retried registrar API calls",
			},
			[]string{"registrar", "operation"},
		),

		syncsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domainhub_syncs_total",
				Help: "Total connection syncs by status",
			},
			[]string{"registrar", "status"},
		),

		syncedDomains: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domainhub_synced_domains_total",
				Help: "Domains created or updated by sync",
			},
			[]string{"registrar", "action"},
		),

		lastSyncSuccess: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "domainhub_last_sync_success_timestamp",
				Help: "Unix time of the last successful sync of a connection",
			},
			[]string{"registrar", "connection_id"},
		),

		searchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domainhub_search_results_total",
				Help: "Availability results by registrar and answer",
			},
			[]string{"registrar", "available"},
		),

		searchCacheEvents: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domainhub_search_cache_events_total",
				Help: "Search cache hits and misses",
			},
			[]string{"event"},
		),

		jobsQueued: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "domainhub_sync_jobs_queued",
				Help: "Current size of the sync job queue",
			},
		),

		jobsProcessed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domainhub_sync_jobs_processed_total",
				Help: "Sync jobs processed by workers",
			},
			[]string{"status"},
		),
	}
}

func (c *Collector) ObserveRegistrarCall(registrar, operation, outcome string, d time.Duration) {
	c.registrarCallDuration.With(prometheus.Labels{
		"registrar": registrar,
		"operation": operation,
	}).Observe(d.Seconds())

	c.registrarCallsTotal.With(prometheus.Labels{
		"registrar": registrar,
		"operation": operation,
		"outcome":   outcome,
	}).Inc()
}

func (c *Collector) RecordRetry(registrar, operation string) {
	c.registrarRetriesTotal.With(prometheus.Labels{
		"registrar": registrar,
		"operation": operation,
	}).Inc()
}

// RecordSync records one finished sync. A nil error marks it successful.
func (c *Collector) RecordSync(registrar, connectionID string, created, updated int, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	c.syncsTotal.With(prometheus.Labels{"registrar": registrar, "status": status}).Inc()
	if err != nil {
		return
	}

	c.syncedDomains.With(prometheus.Labels{"registrar": registrar, "action": "created"}).Add(float64(created))
	c.syncedDomains.With(prometheus.Labels{"registrar": registrar, "action": "updated"}).Add(float64(updated))
	c.lastSyncSuccess.With(prometheus.Labels{
		"registrar":     registrar,
		"connection_id": connectionID,
	}).SetToCurrentTime()
}

func (c *Collector) RecordSearchResult(registrar, available string) {
	c.searchesTotal.With(prometheus.Labels{"registrar": registrar, "available": available}).Inc()
}

func (c *Collector) RecordCacheEvent(hit bool) {
	event := "miss"
	if hit {
		event = "hit"
	}
	c.searchCacheEvents.With(prometheus.Labels{"event": event}).Inc()
}

// RecordWorkerMetrics records the queue depth seen by the worker pool.
func (c *Collector) RecordWorkerMetrics(queueSize int64) {
	c.jobsQueued.Set(float64(queueSize))
}

func (c *Collector) RecordJob(success bool) {
	status := "success"
	if !success {
		status = "failed"
	}
	c.jobsProcessed.With(prometheus.Labels{"status": status}).Inc()
}
