package query

import "github.com/kailas-cloud/solrq/internal/params"

// Options bundles the optional query features. The zero value requests
// nothing beyond the query itself and the default row count.
type Options struct {
	Start         *int
	Rows          *int
	OrderBy       []SortOrder
	Fields        []string
	FacetQueries  []FacetQuery // nil entries are ignored
	Highlight     *HighlightingParameters
	FilterQueries []Query

	// Extra is appended after every other parameter, verbatim.
	Extra []params.Pair
}

// Int returns a pointer to n, for the optional numeric settings.
func Int(n int) *int { return &n }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }
