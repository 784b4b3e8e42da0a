package search

import (
	"context"

	"github.com/kailas-cloud/solrq/internal/domain/result"
	"github.com/kailas-cloud/solrq/internal/params"
)

// Transport sends one request and returns the raw response body.
// Parameters must go on the wire in the given order, repeats included.
type Transport interface {
	Get(ctx context.Context, path string, p params.Params) (string, error)
}

// ResultParser decodes a raw response into a typed result set.
type ResultParser[T any] interface {
	Parse(raw string) (*result.Set[T], error)
}
