package solrq

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/solrq/internal/db"
	dbRedis "github.com/kailas-cloud/solrq/internal/db/redis"
	"github.com/kailas-cloud/solrq/internal/domain"
	"github.com/kailas-cloud/solrq/internal/metrics"
	"github.com/kailas-cloud/solrq/internal/repository/respcache"
	"github.com/kailas-cloud/solrq/internal/transport/solrhttp"
	searchuc "github.com/kailas-cloud/solrq/internal/usecase/search"
)

const (
	defaultTimeout          = 10 * time.Second
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = time.Minute
)

// pinger checks that the search server answers.
type pinger interface {
	Ping(ctx context.Context) error
}

// Client is the solrq SDK entry point. It is safe for concurrent use.
type Client struct {
	sender      searchuc.Transport
	pinger      pinger
	store       db.Store
	defaultRows int
	obs         *observer
}

// New creates a Client for one index.
// The provided context is used for the optional readiness checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		timeout:     defaultTimeout,
		defaultRows: searchuc.DefaultRows,
		cacheTTL:    defaultCacheTTL,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.urls) == 0 {
		return nil, fmt.Errorf("solrq: %w (use WithURLs)", domain.ErrNoReplicas)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	var solrMetrics *metrics.Solr
	if cfg.metricsReg != nil {
		if solrMetrics, err = metrics.NewSolr(cfg.metricsReg); err != nil {
			return nil, fmt.Errorf("solrq: register metrics: %w", err)
		}
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}
	tr, err := solrhttp.New(solrhttp.Config{
		URLs:          coreURLs(cfg.urls, cfg.core),
		Client:        hc,
		PostThreshold: cfg.postThreshold,
		Randomizer:    cfg.randomizer,
		Metrics:       solrMetrics,
	})
	if err != nil {
		return nil, fmt.Errorf("solrq: create transport: %w", err)
	}

	c := newClient(tr, tr, cfg, obs)

	if len(cfg.cacheAddrs) > 0 {
		if err := c.attachCache(ctx, cfg, solrMetrics); err != nil {
			return nil, err
		}
	}

	if cfg.readiness {
		if err := c.Ping(ctx); err != nil {
			c.Close()
			return nil, fmt.Errorf("solrq: server not ready: %w", err)
		}
	}
	return c, nil
}

func newClient(sender searchuc.Transport, p pinger, cfg *clientConfig, obs *observer) *Client {
	return &Client{
		sender:      sender,
		pinger:      p,
		defaultRows: cfg.defaultRows,
		obs:         obs,
	}
}

func (c *Client) attachCache(ctx context.Context, cfg *clientConfig, m *metrics.Solr) error {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.cacheAddrs,
		Password:   cfg.cachePassword,
		Standalone: true,
	})
	if err != nil {
		return fmt.Errorf("solrq: create cache store: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return fmt.Errorf("solrq: cache store not ready: %w", err)
	}

	var cacheTotal *prometheus.CounterVec
	if m != nil {
		cacheTotal = m.CacheTotal
	}
	c.store = store
	c.sender = respcache.New(c.sender, store, cfg.cacheTTL, cacheTotal, nil).
		WithCallTimeout(cfg.timeout)
	return nil
}

// coreURLs joins the core name onto every base URL.
func coreURLs(urls []string, core string) []string {
	out := make([]string, len(urls))
	for i, u := range urls {
		u = strings.TrimRight(u, "/")
		if core != "" {
			u += "/" + strings.Trim(core, "/")
		}
		out[i] = u
	}
	return out
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks that the search server answers its health handler.
func (c *Client) Ping(ctx context.Context) error {
	start := time.Now()
	err := c.pinger.Ping(ctx)
	c.obs.observe("ping", start, err)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
