package solrq

import (
	"github.com/kailas-cloud/solrq/internal/domain/query"
	"github.com/kailas-cloud/solrq/internal/domain/result"
	"github.com/kailas-cloud/solrq/internal/params"
)

// Query types.
type (
	Query                  = query.Query
	QueryOptions           = query.Options
	SortOrder              = query.SortOrder
	Order                  = query.Order
	FacetQuery             = query.FacetQuery
	FieldFacet             = query.FieldFacet
	QueryFacet             = query.QueryFacet
	HighlightingParameters = query.HighlightingParameters
	RegexFragmenter        = query.RegexFragmenter
)

// Sort directions.
const (
	Asc  = query.Asc
	Desc = query.Desc
)

// All matches every document.
var All = query.All

// Wire parameter types.
type (
	Params = params.Params
	Pair   = params.Pair
)

// Result types.
type (
	ResultSet[T any] = result.Set[T]
	FacetCount       = result.FacetCount
	Snippets         = result.Snippets
)

// NewQuery wraps a raw query string. It is not parsed or validated.
func NewQuery(s string) Query { return query.New(s) }

// Field builds field:value, quoting the value when needed.
func Field(field, value string) Query { return query.Field(field, value) }

// Range builds field:[from TO to]; empty bounds are open.
func Range(field, from, to string) Query { return query.Range(field, from, to) }

// Sort orders by field, ascending unless a direction is given.
func Sort(field string, order ...Order) SortOrder { return query.Sort(field, order...) }

// FacetField counts terms of a field.
func FacetField(field string) *FieldFacet { return query.FacetField(field) }

// FacetOn counts documents matching q.
func FacetOn(q Query) *QueryFacet { return query.FacetOn(q) }

// Int returns a pointer to n, for optional integer settings.
func Int(n int) *int { return query.Int(n) }

// Float returns a pointer to f, for optional decimal settings.
func Float(f float64) *float64 { return query.Float(f) }
