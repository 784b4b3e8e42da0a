package solrq

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// Randomizer picks the order in which replicas are tried.
type Randomizer interface {
	Perm(n int) []int
}

type clientConfig struct {
	urls          []string
	core          string
	httpClient    *http.Client
	timeout       time.Duration
	defaultRows   int
	randomizer    Randomizer
	postThreshold int
	readiness     bool

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithURLs sets the server base URLs. Several URLs are replicas of the same
// index; a replica is skipped only when it cannot be reached.
func WithURLs(urls ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.urls = append(c.urls, urls...)
	})
}

// WithCore appends the core (collection) name to every base URL.
func WithCore(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.core = name
	})
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithTimeout sets the per-request timeout of the default HTTP client.
// Ignored when WithHTTPClient is used. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithDefaultRows sets the row count sent when a query does not set one.
// Default: 100000000.
func WithDefaultRows(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultRows = n
	})
}

// WithRandomizer replaces the source used to order replicas.
func WithRandomizer(r Randomizer) Option {
	return optionFunc(func(c *clientConfig) {
		c.randomizer = r
	})
}

// WithPostThreshold sends queries whose encoded form is longer than n bytes
// as a form POST. Zero (default) always uses GET.
func WithPostThreshold(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.postThreshold = n
	})
}

// WithReadinessCheck makes New ping the server before returning.
func WithReadinessCheck() Option {
	return optionFunc(func(c *clientConfig) {
		c.readiness = true
	})
}

// WithCache caches raw responses in Redis or Valkey for ttl.
// Concurrent identical queries share one request to the search server.
func WithCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations,
// server requests, cache lookups) on the given registerer. Pass nil to
// disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
