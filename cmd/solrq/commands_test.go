package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	app := newApp()
	app.Writer = &buf
	app.ErrWriter = io.Discard
	err := app.Run(context.Background(), append([]string{"solrq"}, args...))
	return buf.String(), err
}

func TestQuery_DryRun(t *testing.T) {
	out, err := run(t, "query",
		"-q", "name:ipod",
		"--rows", "5",
		"--start", "10",
		"--sort", "price:desc", "--sort", "id",
		"--fl", "id", "--fl", "name",
		"--facet-field", "cat",
		"--facet-query", "price:[0 TO 100]",
		"--fq", "inStock:true",
		"--hl-fl", "name",
		"--dry-run",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := strings.Join([]string{
		"q=name:ipod",
		"rows=5",
		"start=10",
		"sort=price desc,id asc",
		"fl=id,name",
		"facet=true",
		"facet.field=cat",
		"facet.query=price:[0 TO 100]",
		"hl=true",
		"hl.fl=name",
		"fq=inStock:true",
	}, "\n") + "\n"
	if out != want {
		t.Errorf("output:\n%s\nwant:\n%s", out, want)
	}
}

func TestQuery_DryRunDefaults(t *testing.T) {
	out, err := run(t, "query", "--dry-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "q=*:*\nrows=100000000\n" {
		t.Errorf("output = %q", out)
	}
}

func TestQuery_BadSort(t *testing.T) {
	if _, err := run(t, "query", "--sort", "price:up", "--dry-run"); err == nil {
		t.Fatal("expected error for bad sort direction")
	}
}

func TestQuery_AgainstServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/solr/books/select" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"responseHeader":{"status":0,"QTime":2},
			"response":{"numFound":1,"start":0,"docs":[{"id":"1","title":"Go"}]}}`)
	}))
	defer srv.Close()

	out, err := run(t, "--url", srv.URL+"/solr", "--core", "books", "query", "-q", "title:go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got output
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.NumFound != 1 || got.QTime != 2 || got.Docs[0]["title"] != "Go" {
		t.Errorf("output = %+v", got)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"status":"OK"}`)
	}))
	defer srv.Close()

	out, err := run(t, "--url", srv.URL, "ping")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "OK\n" {
		t.Errorf("output = %q", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "solrq dev") {
		t.Errorf("output = %q", out)
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"id", "id asc", false},
		{"price:desc", "price desc", false},
		{"price:DESC", "price desc", false},
		{"name:asc", "name asc", false},
		{":asc", "", true},
		{"x:sideways", "", true},
	}
	for _, tc := range tests {
		got, err := parseSort(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("parseSort(%q) err = %v", tc.in, err)
			continue
		}
		if !tc.wantErr && got.String() != tc.want {
			t.Errorf("parseSort(%q) = %q, want %q", tc.in, got.String(), tc.want)
		}
	}
}
