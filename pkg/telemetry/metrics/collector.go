package metrics

import (
	"sync"
	"time"

	"configserver/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the orchestrator for all Prometheus metrics exposed by the
// configuration server. It manages metric registration and provides a
// unified recording interface for the git synchronization layer and the
// encryption service.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	gitOpDuration   *prometheus.HistogramVec
	gitOpTotal      *prometheus.CounterVec
	gitPullOutcome  *prometheus.CounterVec
	lastCommitGauge *prometheus.GaugeVec

	encryptOpTotal *prometheus.CounterVec
	keyInstalled   prometheus.Gauge

	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "configserver"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "git"
	}
	if len(cfg.GitOpDurationBuckets) == 0 {
		cfg.GitOpDurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30}
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(10000),
	}

	c.gitOpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "operation_duration_seconds",
		Help:      "Duration of git operations (clone, fetch, checkout, reset).",
		Buckets:   cfg.GitOpDurationBuckets,
	}, []string{"operation"})

	c.gitOpTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "operation_total",
		Help:      "Count of git operations by outcome.",
	}, []string{"operation", "outcome"})

	c.gitPullOutcome = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "pull_total",
		Help:      "Count of refresh pulls by outcome.",
	}, []string{"outcome"})

	c.lastCommitGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "last_refresh_timestamp_seconds",
		Help:      "Unix timestamp of the last successful refresh, per repository URI.",
	}, []string{"uri"})

	c.encryptOpTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: "encrypt",
		Name:      "operation_total",
		Help:      "Count of encryption service operations by kind and outcome.",
	}, []string{"operation", "outcome"})

	c.keyInstalled = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: "encrypt",
		Name:      "key_installed",
		Help:      "1 if an encryption key is currently installed, 0 otherwise.",
	})

	registry.MustRegister(
		c.gitOpDuration,
		c.gitOpTotal,
		c.gitPullOutcome,
		c.lastCommitGauge,
		c.encryptOpTotal,
		c.keyInstalled,
	)

	return c
}

// RecordGitOperation records the duration and outcome of a git operation
// such as "clone", "fetch", "checkout", or "reset".
func (c *Collector) RecordGitOperation(operation string, duration time.Duration, err error) {
	if !c.config.Enabled {
		return
	}
	c.gitOpDuration.WithLabelValues(operation).Observe(duration.Seconds())
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.gitOpTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordPull records the outcome of a debounce-gated refresh pull:
// "updated", "unchanged", "skipped" (debounced), or "error".
func (c *Collector) RecordPull(outcome string) {
	if !c.config.Enabled {
		return
	}
	c.gitPullOutcome.WithLabelValues(outcome).Inc()
}

// RecordRefresh stamps the last successful refresh time for a repository
// URI, used as a staleness gauge.
func (c *Collector) RecordRefresh(uri string, at time.Time) {
	if !c.config.Enabled {
		return
	}
	labelSet := "refresh:" + uri
	if !c.cardinalityLimiter.Allow(labelSet) {
		uri = "other"
	}
	c.lastCommitGauge.WithLabelValues(uri).Set(float64(at.Unix()))
}

// RecordEncryptOperation records an encrypt/decrypt/key-status operation
// by kind ("encrypt", "decrypt", "key", "status", "install_key") and
// outcome ("success" or the domain error's status token).
func (c *Collector) RecordEncryptOperation(operation, outcome string) {
	if !c.config.Enabled {
		return
	}
	c.encryptOpTotal.WithLabelValues(operation, outcome).Inc()
}

// SetKeyInstalled reports whether the encryption service currently holds
// an active key.
func (c *Collector) SetKeyInstalled(installed bool) {
	if !c.config.Enabled {
		return
	}
	if installed {
		c.keyInstalled.Set(1)
	} else {
		c.keyInstalled.Set(0)
	}
}

// Registry returns the Prometheus registry used by this collector, for
// mounting a promhttp handler on the /metrics endpoint.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations tracked per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a cardinality limiter with the given cap.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether labelSet is already tracked or room remains under
// the cardinality cap; it records labelSet as tracked when allowing a new
// one.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
