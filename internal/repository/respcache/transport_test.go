package respcache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/solrq/internal/domain"
	"github.com/kailas-cloud/solrq/internal/params"
)

var testParams = params.New(params.Pair{Key: "q", Value: "*:*"}, params.Pair{Key: "rows", Value: "10"})

func TestGet_CacheMiss(t *testing.T) {
	inner := &mockTransport{resp: `{"response":{}}`}
	ct, ms := newTestCachedTransport(t, inner)

	var (
		setKey string
		setVal []byte
		setTTL time.Duration
	)
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		setKey, setVal, setTTL = key, value, ttl
		return nil
	}

	raw, err := ct.Get(context.Background(), "/select", testParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != `{"response":{}}` {
		t.Errorf("raw = %q", raw)
	}
	if setKey != Key("/select", testParams) || string(setVal) != raw || setTTL != time.Minute {
		t.Errorf("SET key=%q val=%q ttl=%v", setKey, setVal, setTTL)
	}
	if inner.callCount() != 1 {
		t.Errorf("inner calls = %d, want 1", inner.callCount())
	}
}

func TestGet_CacheHit(t *testing.T) {
	inner := &mockTransport{resp: "fresh"}
	ct, ms := newTestCachedTransport(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("cached"), nil
	}

	raw, err := ct.Get(context.Background(), "/select", testParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != "cached" {
		t.Errorf("raw = %q, want cached", raw)
	}
	if inner.callCount() != 0 {
		t.Error("inner transport must not be called on a hit")
	}
}

func TestGet_InnerErrorNotCached(t *testing.T) {
	sent := domain.NewServerError("GET", "/select", 503, "unavailable")
	inner := &mockTransport{err: sent}
	ct, ms := newTestCachedTransport(t, inner)

	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		t.Error("failed responses must not be cached")
		return nil
	}

	_, err := ct.Get(context.Background(), "/select", testParams)
	if err != sent {
		t.Fatalf("expected inner error unchanged, got %v", err)
	}
}

func TestGet_StoreErrorsBypassed(t *testing.T) {
	inner := &mockTransport{resp: "fresh"}
	ct, ms := newTestCachedTransport(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("connection refused")
	}

	raw, err := ct.Get(context.Background(), "/select", testParams)
	if err != nil {
		t.Fatalf("store failures must not fail the request: %v", err)
	}
	if raw != "fresh" {
		t.Errorf("raw = %q", raw)
	}
}

func TestGet_EmptyCachedValueIsMiss(t *testing.T) {
	inner := &mockTransport{resp: "fresh"}
	ct, ms := newTestCachedTransport(t, inner)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte{}, nil
	}

	raw, err := ct.Get(context.Background(), "/select", testParams)
	if err != nil || raw != "fresh" {
		t.Fatalf("raw=%q err=%v", raw, err)
	}
}

func TestGet_ConcurrentRequestsShareOneCall(t *testing.T) {
	inner := &mockTransport{resp: "fresh", gate: make(chan struct{})}
	ct, _ := newTestCachedTransport(t, inner)

	var wg sync.WaitGroup
	results := make([]string, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = ct.Get(context.Background(), "/select", testParams)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(inner.gate)
	wg.Wait()

	if inner.callCount() != 1 {
		t.Errorf("inner calls = %d, want 1", inner.callCount())
	}
	for i, r := range results {
		if r != "fresh" {
			t.Errorf("results[%d] = %q", i, r)
		}
	}
}

func TestGet_CanceledCallerDoesNotFailOthers(t *testing.T) {
	inner := &mockTransport{resp: "fresh", gate: make(chan struct{})}
	ct, _ := newTestCachedTransport(t, inner)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := ct.Get(leaderCtx, "/select", testParams)
		leaderErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	type outcome struct {
		raw string
		err error
	}
	follower := make(chan outcome, 1)
	go func() {
		raw, err := ct.Get(context.Background(), "/select", testParams)
		follower <- outcome{raw, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	select {
	case err := <-leaderErr:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("leader err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("leader did not return after cancel")
	}

	close(inner.gate)
	got := <-follower
	if got.err != nil || got.raw != "fresh" {
		t.Errorf("follower raw=%q err=%v", got.raw, got.err)
	}
	if inner.callCount() != 1 {
		t.Errorf("inner calls = %d, want 1", inner.callCount())
	}
}

func TestGet_CallTimeout(t *testing.T) {
	inner := &mockTransport{resp: "fresh", gate: make(chan struct{})}
	defer close(inner.gate)
	ct, _ := newTestCachedTransport(t, inner)
	ct.WithCallTimeout(20 * time.Millisecond)

	_, err := ct.Get(context.Background(), "/select", testParams)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestGet_Metrics(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
	inner := &mockTransport{resp: "fresh"}
	ms := &mockKVStore{}
	ct := New(inner, ms, 0, counter, zap.NewNop())

	if _, err := ct.Get(context.Background(), "/select", testParams); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) { return []byte("x"), nil }
	if _, err := ct.Get(context.Background(), "/select", testParams); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("miss = %v, want 1", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 1 {
		t.Errorf("hit = %v, want 1", got)
	}
}

func TestKey(t *testing.T) {
	a := Key("/select", testParams)
	if !strings.HasPrefix(a, KeyPrefix) || len(a) != len(KeyPrefix)+64 {
		t.Errorf("key = %q", a)
	}
	if a != Key("/select", testParams) {
		t.Error("key must be deterministic")
	}
	if a == Key("/browse", testParams) {
		t.Error("path must be part of the key")
	}
	reordered := params.New(params.Pair{Key: "rows", Value: "10"}, params.Pair{Key: "q", Value: "*:*"})
	if a == Key("/select", reordered) {
		t.Error("parameter order must be part of the key")
	}
}
