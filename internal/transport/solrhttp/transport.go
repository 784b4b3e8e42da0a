// Package solrhttp sends encoded search requests to a Solr core over HTTP.
package solrhttp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/solrq/internal/domain"
	"github.com/kailas-cloud/solrq/internal/metrics"
	"github.com/kailas-cloud/solrq/internal/params"
	"github.com/kailas-cloud/solrq/internal/version"
)

const (
	// DefaultWriter is the response writer type requested from the server.
	DefaultWriter = "json"
	// PingPath is the core health handler.
	PingPath = "/admin/ping"

	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
	formMediaType  = "application/x-www-form-urlencoded; charset=UTF-8"
)

// Randomizer picks the order in which replicas are tried.
type Randomizer interface {
	Perm(n int) []int
}

type defaultRandomizer struct{}

func (defaultRandomizer) Perm(n int) []int { return rand.Perm(n) }

// Config configures a Transport.
type Config struct {
	// URLs are core base URLs. More than one URL means replicas of one core.
	URLs []string
	// Client defaults to an http.Client with a 10s timeout.
	Client *http.Client
	// Writer is sent as wt after all other parameters. Defaults to json.
	Writer string
	// PostThreshold switches to a form POST once the encoded query is longer.
	// Zero keeps every request a GET.
	PostThreshold int
	Randomizer    Randomizer
	Logger        *zap.Logger
	Metrics       *metrics.Solr
}

// Transport implements the search transport over net/http.
type Transport struct {
	urls          []string
	client        *http.Client
	writer        string
	postThreshold int
	rnd           Randomizer
	logger        *zap.Logger
	metrics       *metrics.Solr
}

// New validates cfg and creates a Transport.
func New(cfg Config) (*Transport, error) {
	if len(cfg.URLs) == 0 {
		return nil, domain.ErrNoReplicas
	}
	urls := make([]string, 0, len(cfg.URLs))
	for _, u := range cfg.URLs {
		u = strings.TrimRight(strings.TrimSpace(u), "/")
		if u == "" {
			return nil, fmt.Errorf("solrhttp: empty base URL")
		}
		urls = append(urls, u)
	}

	t := &Transport{
		urls:          urls,
		client:        cfg.Client,
		writer:        cfg.Writer,
		postThreshold: cfg.PostThreshold,
		rnd:           cfg.Randomizer,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
	}
	if t.client == nil {
		t.client = &http.Client{Timeout: defaultTimeout}
	}
	if t.writer == "" {
		t.writer = DefaultWriter
	}
	if t.rnd == nil {
		t.rnd = defaultRandomizer{}
	}
	if t.logger == nil {
		t.logger = zap.NewNop()
	}
	return t, nil
}

// URLs returns the configured base URLs.
func (t *Transport) URLs() []string {
	out := make([]string, len(t.urls))
	copy(out, t.urls)
	return out
}

// Get sends p to path on one of the replicas and returns the raw body.
// Another replica is tried only when no response arrived at all; a
// non-success status fails immediately with a *domain.TransportError.
func (t *Transport) Get(ctx context.Context, path string, p params.Params) (string, error) {
	encoded := params.New(p.Pairs()...).Add("wt", t.writer).Encode()
	method := http.MethodGet
	if t.postThreshold > 0 && len(encoded) > t.postThreshold {
		method = http.MethodPost
	}

	var lastErr error
	for _, i := range t.rnd.Perm(len(t.urls)) {
		base := t.urls[i]
		body, err := t.do(ctx, method, base, path, encoded)
		if err == nil {
			return body, nil
		}

		var te *domain.TransportError
		if errors.As(err, &te) || ctx.Err() != nil {
			return "", err
		}
		t.logger.Warn("Replica unreachable",
			zap.String("url", base),
			zap.String("path", path),
			zap.Error(err),
		)
		lastErr = err
	}
	return "", &domain.TransportError{Method: method, Path: path, Err: lastErr}
}

// Ping checks the core health handler.
func (t *Transport) Ping(ctx context.Context) error {
	_, err := t.Get(ctx, PingPath, params.Params{})
	return err
}

// do performs a single attempt. A returned *domain.TransportError means the
// server answered; any other error means the connection failed.
func (t *Transport) do(ctx context.Context, method, base, path, encoded string) (string, error) {
	start := time.Now()
	req, err := t.newRequest(ctx, method, base+path, encoded)
	if err != nil {
		return "", &domain.TransportError{Method: method, Path: path, Err: err}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		t.observe(path, "error", start)
		if ctx.Err() != nil {
			return "", &domain.TransportError{Method: method, Path: path, Err: ctx.Err()}
		}
		return "", fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	t.observe(path, strconv.Itoa(resp.StatusCode), start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		t.logger.Debug("Search server returned an error status",
			zap.String("url", base),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return "", domain.NewServerError(method, path, resp.StatusCode, string(snippet))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &domain.TransportError{Method: method, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	return string(data), nil
}

func (t *Transport) newRequest(ctx context.Context, method, target, encoded string) (*http.Request, error) {
	var (
		req *http.Request
		err error
	)
	if method == http.MethodPost {
		req, err = http.NewRequestWithContext(ctx, method, target, strings.NewReader(encoded))
		if err == nil {
			req.Header.Set("Content-Type", formMediaType)
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, method, target+"?"+encoded, http.NoBody)
	}
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())
	return req, nil
}

func (t *Transport) observe(path, status string, start time.Time) {
	if t.metrics == nil {
		return
	}
	t.metrics.RequestsTotal.WithLabelValues(path, status).Inc()
	t.metrics.RequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
}
