package solrhttp

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/solrq/internal/domain"
	"github.com/kailas-cloud/solrq/internal/metrics"
	"github.com/kailas-cloud/solrq/internal/params"
)

type fixedOrder []int

func (f fixedOrder) Perm(n int) []int {
	out := make([]int, 0, n)
	for _, i := range f {
		if i < n {
			out = append(out, i)
		}
	}
	return out
}

func testParams() params.Params {
	return params.New(
		params.Pair{Key: "q", Value: "id:[1 TO 5]"},
		params.Pair{Key: "fq", Value: "a"},
		params.Pair{Key: "fq", Value: "b"},
	)
}

// deadURL returns a base URL nothing listens on.
func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{}); !errors.Is(err, domain.ErrNoReplicas) {
		t.Errorf("expected ErrNoReplicas, got %v", err)
	}
	if _, err := New(Config{URLs: []string{"  "}}); err == nil {
		t.Error("expected error for blank URL")
	}
	tr, err := New(Config{URLs: []string{"http://solr:8983/solr/core/"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.URLs()[0] != "http://solr:8983/solr/core" {
		t.Errorf("trailing slash not trimmed: %v", tr.URLs())
	}
}

func TestGet_EncodesInOrderWithWriterLast(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		_, _ = io.WriteString(w, `{"response":{}}`)
	}))
	defer srv.Close()

	tr, err := New(Config{URLs: []string{srv.URL + "/solr/books"}})
	if err != nil {
		t.Fatal(err)
	}
	body, err := tr.Get(context.Background(), "/select", testParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != `{"response":{}}` {
		t.Errorf("body = %q", body)
	}
	if gotPath != "/solr/books/select" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "q=id%3A%5B1+TO+5%5D&fq=a&fq=b&wt=json" {
		t.Errorf("query = %q", gotQuery)
	}
	if !strings.HasPrefix(gotUA, "solrq/") {
		t.Errorf("user agent = %q", gotUA)
	}
}

func TestGet_CustomWriter(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
	}))
	defer srv.Close()

	tr, _ := New(Config{URLs: []string{srv.URL}, Writer: "xml"})
	if _, err := tr.Get(context.Background(), "/select", params.Params{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "wt=xml" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestGet_DoesNotModifyParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	tr, _ := New(Config{URLs: []string{srv.URL}})
	p := testParams()
	if _, err := tr.Get(context.Background(), "/select", p); err != nil {
		t.Fatal(err)
	}
	if p.Len() != 3 || p.Has("wt") {
		t.Errorf("params modified: %s", p)
	}
}

func TestGet_ServerErrorNotRetried(t *testing.T) {
	var hits atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"msg":"undefined field foo"}}`)
	})
	a := httptest.NewServer(handler)
	defer a.Close()
	b := httptest.NewServer(handler)
	defer b.Close()

	tr, _ := New(Config{URLs: []string{a.URL, b.URL}, Randomizer: fixedOrder{0, 1}})
	_, err := tr.Get(context.Background(), "/select", testParams())

	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
	if te.Status != http.StatusBadRequest || !strings.Contains(te.Body, "undefined field") {
		t.Errorf("status=%d body=%q", te.Status, te.Body)
	}
	if !errors.Is(err, domain.ErrServer) {
		t.Error("expected ErrServer")
	}
	if hits.Load() != 1 {
		t.Errorf("hits = %d, want 1", hits.Load())
	}
}

func TestGet_FailsOverOnConnectionError(t *testing.T) {
	live := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	defer live.Close()

	tr, _ := New(Config{URLs: []string{deadURL(t), live.URL}, Randomizer: fixedOrder{0, 1}})
	body, err := tr.Get(context.Background(), "/select", testParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "ok" {
		t.Errorf("body = %q", body)
	}
}

func TestGet_AllReplicasDown(t *testing.T) {
	tr, _ := New(Config{URLs: []string{deadURL(t), deadURL(t)}})
	_, err := tr.Get(context.Background(), "/select", testParams())

	var te *domain.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %T", err)
	}
	if te.Status != 0 || te.Path != "/select" {
		t.Errorf("te = %+v", te)
	}
	if errors.Is(err, domain.ErrServer) {
		t.Error("connection failure must not match ErrServer")
	}
}

func TestGet_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	tr, _ := New(Config{URLs: []string{srv.URL}})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := tr.Get(ctx, "/select", testParams())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !errors.Is(err, domain.ErrTransport) {
		t.Error("expected ErrTransport")
	}
}

func TestGet_PostAboveThreshold(t *testing.T) {
	var gotMethod, gotType, gotBody, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotQuery = r.URL.RawQuery
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
	}))
	defer srv.Close()

	tr, _ := New(Config{URLs: []string{srv.URL}, PostThreshold: 10})
	if _, err := tr.Get(context.Background(), "/select", testParams()); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if !strings.HasPrefix(gotType, "application/x-www-form-urlencoded") {
		t.Errorf("content type = %q", gotType)
	}
	if gotBody != "q=id%3A%5B1+TO+5%5D&fq=a&fq=b&wt=json" || gotQuery != "" {
		t.Errorf("body=%q query=%q", gotBody, gotQuery)
	}
}

func TestGet_GetBelowThreshold(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
	}))
	defer srv.Close()

	tr, _ := New(Config{URLs: []string{srv.URL}, PostThreshold: 4096})
	if _, err := tr.Get(context.Background(), "/select", testParams()); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodGet {
		t.Errorf("method = %s, want GET", gotMethod)
	}
}

func TestPing(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `{"status":"OK"}`)
	}))
	defer srv.Close()

	tr, _ := New(Config{URLs: []string{srv.URL + "/solr/books"}})
	if err := tr.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/solr/books/admin/ping" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestGet_Metrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	m, err := metrics.NewSolr(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	tr, _ := New(Config{URLs: []string{srv.URL}, Metrics: m})
	_, _ = tr.Get(context.Background(), "/select", testParams())
	_, _ = tr.Get(context.Background(), "/missing", testParams())

	if v := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/select", "200")); v != 1 {
		t.Errorf("select/200 = %f", v)
	}
	if v := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/missing", "404")); v != 1 {
		t.Errorf("missing/404 = %f", v)
	}
}
