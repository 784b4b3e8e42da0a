package solrq

import (
	"context"
	"errors"
	"time"

	"github.com/kailas-cloud/solrq/internal/parser"
	searchuc "github.com/kailas-cloud/solrq/internal/usecase/search"
)

const defaultUniqueKey = "id"

// UniqueKeyer is implemented by document types whose unique key field is
// not "id". It is called once, on the zero value, by NewIndex.
type UniqueKeyer interface {
	UniqueKeyField() string
}

// IndexOption configures an Index.
type IndexOption func(*indexConfig)

type indexConfig struct {
	uniqueKey string
	handler   string
}

// WithUniqueKey sets the field holding each document's unique key.
// It takes precedence over UniqueKeyer.
func WithUniqueKey(field string) IndexOption {
	return func(c *indexConfig) {
		c.uniqueKey = field
	}
}

// WithHandler sets the request handler path. Default: /select.
func WithHandler(path string) IndexOption {
	return func(c *indexConfig) {
		c.handler = path
	}
}

// Index runs typed queries against one index. Documents are decoded into T
// with encoding/json.
type Index[T any] struct {
	client   *Client
	exec     *searchuc.Executer[T]
	keyField string
}

// NewIndex creates a typed index handle. The unique key field is resolved
// once: WithUniqueKey, then T's UniqueKeyer, then "id".
func NewIndex[T any](client *Client, opts ...IndexOption) (*Index[T], error) {
	if client == nil {
		return nil, errors.New("solrq: client is required")
	}
	cfg := &indexConfig{}
	for _, o := range opts {
		o(cfg)
	}

	key := resolveUniqueKey[T](cfg.uniqueKey)
	exec := searchuc.New[T](client.sender, parser.NewJSON[T](key)).
		WithDefaultRows(client.defaultRows).
		WithPath(cfg.handler)

	return &Index[T]{client: client, exec: exec, keyField: key}, nil
}

func resolveUniqueKey[T any](explicit string) string {
	if explicit != "" {
		return explicit
	}
	var zero T
	if k, ok := any(zero).(UniqueKeyer); ok && k.UniqueKeyField() != "" {
		return k.UniqueKeyField()
	}
	if k, ok := any(&zero).(UniqueKeyer); ok && k.UniqueKeyField() != "" {
		return k.UniqueKeyField()
	}
	return defaultUniqueKey
}

// KeyField returns the unique key field used to attach highlighting.
func (idx *Index[T]) KeyField() string { return idx.keyField }

// Query sends q with opts and decodes the response. A nil opts requests no
// optional feature. Failures are *TransportError or *ParseError.
func (idx *Index[T]) Query(ctx context.Context, q Query, opts *QueryOptions) (*ResultSet[T], error) {
	start := time.Now()
	set, err := idx.exec.Execute(ctx, q, opts)
	idx.client.obs.observe("query", start, err, "q", q.String())
	if err != nil {
		return nil, err //nolint:wrapcheck // typed errors are part of the API
	}
	return set, nil
}

// Params returns the request parameters Query would send, without sending.
func (idx *Index[T]) Params(q Query, opts *QueryOptions) Params {
	return idx.exec.Params(q, opts)
}

// Search returns a fluent query builder for this index.
func (idx *Index[T]) Search() *QueryBuilder[T] {
	return &QueryBuilder[T]{idx: idx, q: All}
}
