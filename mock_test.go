package solrq

import (
	"context"
	"testing"

	"github.com/kailas-cloud/solrq/internal/params"
	searchuc "github.com/kailas-cloud/solrq/internal/usecase/search"
)

// --- transport mock ---

type mockSender struct {
	getFn    func(ctx context.Context, path string, p params.Params) (string, error)
	pingFn   func(ctx context.Context) error
	lastPath string
	last     params.Params
}

func (m *mockSender) Get(ctx context.Context, path string, p params.Params) (string, error) {
	m.lastPath = path
	m.last = p
	if m.getFn != nil {
		return m.getFn(ctx, path, p)
	}
	return `{"responseHeader":{"status":0},"response":{"numFound":0,"start":0,"docs":[]}}`, nil
}

func (m *mockSender) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func newTestClient(t *testing.T, m *mockSender, opts ...Option) *Client {
	t.Helper()
	cfg := &clientConfig{defaultRows: searchuc.DefaultRows}
	for _, o := range opts {
		o.apply(cfg)
	}
	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	return newClient(m, m, cfg, obs)
}
