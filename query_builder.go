package solrq

import (
	"context"
	"slices"
)

// QueryBuilder is a fluent builder for typed queries.
// It starts from All and is not safe for concurrent use.
type QueryBuilder[T any] struct {
	idx  *Index[T]
	q    Query
	opts QueryOptions
}

// Query sets the main query.
func (b *QueryBuilder[T]) Query(q Query) *QueryBuilder[T] {
	b.q = q
	return b
}

// Start sets the offset of the first returned document.
func (b *QueryBuilder[T]) Start(n int) *QueryBuilder[T] {
	b.opts.Start = Int(n)
	return b
}

// Rows sets the maximum number of returned documents.
func (b *QueryBuilder[T]) Rows(n int) *QueryBuilder[T] {
	b.opts.Rows = Int(n)
	return b
}

// OrderBy appends a sort key, ascending unless a direction is given.
func (b *QueryBuilder[T]) OrderBy(field string, order ...Order) *QueryBuilder[T] {
	b.opts.OrderBy = append(b.opts.OrderBy, Sort(field, order...))
	return b
}

// Fields appends to the returned field list.
func (b *QueryBuilder[T]) Fields(names ...string) *QueryBuilder[T] {
	b.opts.Fields = append(b.opts.Fields, names...)
	return b
}

// FacetField requests term counts for a field.
func (b *QueryBuilder[T]) FacetField(field string) *QueryBuilder[T] {
	return b.Facet(FacetField(field))
}

// FacetQuery requests the count of documents matching q.
func (b *QueryBuilder[T]) FacetQuery(q Query) *QueryBuilder[T] {
	return b.Facet(FacetOn(q))
}

// Facet appends a facet request, keeping the order of calls.
func (b *QueryBuilder[T]) Facet(f FacetQuery) *QueryBuilder[T] {
	b.opts.FacetQueries = append(b.opts.FacetQueries, f)
	return b
}

// Highlight sets the highlighting bundle.
func (b *QueryBuilder[T]) Highlight(h *HighlightingParameters) *QueryBuilder[T] {
	b.opts.Highlight = h
	return b
}

// Filter appends a filter query.
func (b *QueryBuilder[T]) Filter(q Query) *QueryBuilder[T] {
	b.opts.FilterQueries = append(b.opts.FilterQueries, q)
	return b
}

// Param appends a raw parameter after all encoded ones.
func (b *QueryBuilder[T]) Param(key, value string) *QueryBuilder[T] {
	b.opts.Extra = append(b.opts.Extra, Pair{Key: key, Value: value})
	return b
}

// Options returns a copy of the options built so far.
func (b *QueryBuilder[T]) Options() *QueryOptions {
	o := b.opts
	o.OrderBy = slices.Clone(o.OrderBy)
	o.Fields = slices.Clone(o.Fields)
	o.FacetQueries = slices.Clone(o.FacetQueries)
	o.FilterQueries = slices.Clone(o.FilterQueries)
	o.Extra = slices.Clone(o.Extra)
	return &o
}

// Params returns the request parameters Do would send.
func (b *QueryBuilder[T]) Params() Params {
	return b.idx.Params(b.q, b.Options())
}

// Do executes the query.
func (b *QueryBuilder[T]) Do(ctx context.Context) (*ResultSet[T], error) {
	return b.idx.Query(ctx, b.q, b.Options())
}
