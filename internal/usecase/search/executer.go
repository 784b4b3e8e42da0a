package search

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/solrq/internal/domain"
	"github.com/kailas-cloud/solrq/internal/domain/query"
	"github.com/kailas-cloud/solrq/internal/domain/result"
	"github.com/kailas-cloud/solrq/internal/encoder"
	"github.com/kailas-cloud/solrq/internal/params"
)

// DefaultRows is used when neither the executer nor the options set a row count.
const DefaultRows = 100000000

// SelectPath is the request handler path of the search endpoint.
const SelectPath = "/select"

// Executer turns a query and its options into one request and a typed result.
// It holds no per-call state and is safe for concurrent use.
type Executer[T any] struct {
	transport   Transport
	parser      ResultParser[T]
	defaultRows int
	path        string
	logger      *zap.Logger
}

// New creates an executer with DefaultRows and SelectPath.
func New[T any](transport Transport, parser ResultParser[T]) *Executer[T] {
	return &Executer[T]{
		transport:   transport,
		parser:      parser,
		defaultRows: DefaultRows,
		path:        SelectPath,
		logger:      zap.NewNop(),
	}
}

// WithDefaultRows sets the row count used when the options leave it unset.
// Call before the executer is shared.
func (e *Executer[T]) WithDefaultRows(n int) *Executer[T] {
	e.defaultRows = n
	return e
}

// WithPath overrides the request handler path.
func (e *Executer[T]) WithPath(path string) *Executer[T] {
	if path != "" {
		e.path = path
	}
	return e
}

// WithLogger sets the logger; nil keeps the no-op logger.
func (e *Executer[T]) WithLogger(l *zap.Logger) *Executer[T] {
	if l != nil {
		e.logger = l
	}
	return e
}

// DefaultRowCount returns the configured default row count.
func (e *Executer[T]) DefaultRowCount() int { return e.defaultRows }

// Params builds the wire parameters without sending anything.
// A nil opts requests no optional feature.
func (e *Executer[T]) Params(q query.Query, opts *query.Options) params.Params {
	if opts == nil {
		opts = &query.Options{}
	}
	p := params.Params{}.Add(encoder.ParamQuery, q.String())
	return encoder.Default(e.defaultRows)(p, opts)
}

// Execute sends the query once and returns the parser's result unchanged.
// Transport failures come back as *domain.TransportError and parser
// failures as *domain.ParseError. Nothing is retried.
func (e *Executer[T]) Execute(
	ctx context.Context, q query.Query, opts *query.Options,
) (*result.Set[T], error) {
	p := e.Params(q, opts)

	start := time.Now()
	raw, err := e.transport.Get(ctx, e.path, p)
	if err != nil {
		e.logger.Warn("Search request failed",
			zap.String("path", e.path),
			zap.Int("params", p.Len()),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, asTransportError(e.path, err)
	}

	set, err := e.parser.Parse(raw)
	if err != nil {
		e.logger.Warn("Failed to parse search response",
			zap.String("path", e.path),
			zap.Int("response_bytes", len(raw)),
			zap.Error(err),
		)
		return nil, asParseError(err)
	}

	e.logger.Debug("Search executed",
		zap.String("path", e.path),
		zap.Int("params", p.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	return set, nil
}

func asTransportError(path string, err error) error {
	var te *domain.TransportError
	if errors.As(err, &te) {
		return err
	}
	return &domain.TransportError{Path: path, Err: err}
}

func asParseError(err error) error {
	var pe *domain.ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &domain.ParseError{Err: err}
}
