// Package encoder translates query options into wire parameters.
//
// Each Encoder handles one feature and only appends; a feature that was not
// requested appends nothing. Pipeline composes encoders in a fixed order.
package encoder

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/solrq/internal/domain/query"
	"github.com/kailas-cloud/solrq/internal/params"
)

// Wire parameter names.
const (
	ParamQuery  = "q"
	ParamRows   = "rows"
	ParamStart  = "start"
	ParamSort   = "sort"
	ParamFields = "fl"
	ParamFilter = "fq"

	ParamFacet      = "facet"
	ParamFacetField = "facet.field"
	ParamFacetQuery = "facet.query"

	ParamHighlight              = "hl"
	ParamHighlightFields        = "hl.fl"
	ParamHighlightSnippets      = "hl.snippets"
	ParamHighlightFragsize      = "hl.fragsize"
	ParamHighlightRequireMatch  = "hl.requireFieldMatch"
	ParamHighlightAlternate     = "hl.alternateField"
	ParamHighlightPre           = "hl.simple.pre"
	ParamHighlightPost          = "hl.simple.post"
	ParamHighlightRegexSlop     = "hl.regex.slop"
	ParamHighlightRegexPattern  = "hl.regex.pattern"
	ParamHighlightRegexMaxChars = "hl.regex.maxAnalyzedChars"
)

const flagTrue = "true"

// Encoder appends the parameters of one feature.
type Encoder func(p params.Params, opts *query.Options) params.Params

// Pipeline runs encoders in order.
func Pipeline(encs ...Encoder) Encoder {
	return func(p params.Params, opts *query.Options) params.Params {
		for _, enc := range encs {
			p = enc(p, opts)
		}
		return p
	}
}

// Default is the fixed request order: paging, sort, fields, facets,
// highlighting, filter queries, then extra parameters.
func Default(defaultRows int) Encoder {
	return Pipeline(
		Paging(defaultRows),
		Sort,
		Fields,
		Facets,
		Highlight,
		FilterQueries,
		Extra,
	)
}

// Paging always emits rows (the option or defaultRows) and start when set.
func Paging(defaultRows int) Encoder {
	return func(p params.Params, opts *query.Options) params.Params {
		rows := defaultRows
		if opts.Rows != nil {
			rows = *opts.Rows
		}
		p = p.Add(ParamRows, strconv.Itoa(rows))
		if opts.Start != nil {
			p = p.Add(ParamStart, strconv.Itoa(*opts.Start))
		}
		return p
	}
}

// Sort emits a single comma-joined sort parameter.
func Sort(p params.Params, opts *query.Options) params.Params {
	if len(opts.OrderBy) == 0 {
		return p
	}
	parts := make([]string, len(opts.OrderBy))
	for i, s := range opts.OrderBy {
		parts[i] = s.String()
	}
	return p.Add(ParamSort, strings.Join(parts, ","))
}

// Fields emits the field list.
func Fields(p params.Params, opts *query.Options) params.Params {
	if len(opts.Fields) == 0 {
		return p
	}
	return p.Add(ParamFields, strings.Join(opts.Fields, ","))
}

// FilterQueries emits one fq per filter, in order.
func FilterQueries(p params.Params, opts *query.Options) params.Params {
	for _, fq := range opts.FilterQueries {
		p = p.Add(ParamFilter, fq.String())
	}
	return p
}

// Extra appends caller-supplied pairs verbatim.
func Extra(p params.Params, opts *query.Options) params.Params {
	for _, kv := range opts.Extra {
		p = p.Add(kv.Key, kv.Value)
	}
	return p
}
