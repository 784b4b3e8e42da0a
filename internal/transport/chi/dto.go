package chi

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/solrq/internal/domain/query"
	"github.com/kailas-cloud/solrq/internal/domain/result"
	"github.com/kailas-cloud/solrq/internal/params"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest          = "bad_request"
	codeValidationFailed    = "validation_failed"
	codeUnauthorized        = "unauthorized"
	codeUpstreamError       = "upstream_error"
	codeUpstreamUnavailable = "upstream_unavailable"
	codeUpstreamTimeout     = "upstream_timeout"
	codeBadUpstreamResponse = "bad_upstream_response"
	codeInternalError       = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

// SearchRequest is the body of POST /v1/search.
type SearchRequest struct {
	Q         string            `json:"q"`
	Start     *int              `json:"start,omitempty"`
	Rows      *int              `json:"rows,omitempty"`
	Sort      []SortItem        `json:"sort,omitempty"`
	Fields    []string          `json:"fl,omitempty"`
	Facets    []FacetItem       `json:"facets,omitempty"`
	Highlight *HighlightRequest `json:"highlight,omitempty"`
	Filters   []string          `json:"fq,omitempty"`
	Params    []ParamItem       `json:"params,omitempty"`
	DryRun    bool              `json:"dry_run,omitempty"`
}

// SortItem is one sort key.
type SortItem struct {
	Field string `json:"field"`
	Order string `json:"order,omitempty"` // asc (default) or desc
}

// FacetItem is either a field facet or a query facet.
type FacetItem struct {
	Field    string `json:"field,omitempty"`
	Query    string `json:"query,omitempty"`
	Prefix   string `json:"prefix,omitempty"`
	Sort     string `json:"sort,omitempty"`
	Limit    *int   `json:"limit,omitempty"`
	Offset   *int   `json:"offset,omitempty"`
	MinCount *int   `json:"mincount,omitempty"`
	Missing  bool   `json:"missing,omitempty"`
}

// HighlightRequest mirrors the highlighting parameters.
type HighlightRequest struct {
	Fields            []string      `json:"fields,omitempty"`
	BeforeTerm        string        `json:"before_term,omitempty"`
	AfterTerm         string        `json:"after_term,omitempty"`
	Snippets          *int          `json:"snippets,omitempty"`
	Fragsize          *int          `json:"fragsize,omitempty"`
	RequireFieldMatch bool          `json:"require_field_match,omitempty"`
	AlternateField    string        `json:"alternate_field,omitempty"`
	Regex             *RegexRequest `json:"regex,omitempty"`
}

// RegexRequest mirrors the regex fragmenter settings.
type RegexRequest struct {
	Slop             *float64 `json:"slop,omitempty"`
	Pattern          string   `json:"pattern,omitempty"`
	MaxAnalyzedChars *int     `json:"max_analyzed_chars,omitempty"`
}

// ParamItem is one raw wire parameter.
type ParamItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DryRunResponse lists the parameters a search would send.
type DryRunResponse struct {
	Params []ParamItem `json:"params"`
}

// FacetCountItem is one facet value and its count.
type FacetCountItem struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	NumFound     int                            `json:"num_found"`
	Start        int                            `json:"start"`
	MaxScore     float64                        `json:"max_score,omitempty"`
	QTime        int                            `json:"qtime"`
	Docs         []Document                     `json:"docs"`
	Keys         []string                       `json:"keys"`
	FacetFields  map[string][]FacetCountItem    `json:"facet_fields,omitempty"`
	FacetQueries map[string]int                 `json:"facet_queries,omitempty"`
	Highlighting map[string]map[string][]string `json:"highlighting,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (r *SearchRequest) toDomain() (query.Query, *query.Options, error) {
	opts := &query.Options{
		Start:  r.Start,
		Rows:   r.Rows,
		Fields: r.Fields,
	}

	for i, s := range r.Sort {
		if s.Field == "" {
			return query.Query{}, nil, fmt.Errorf("sort[%d].field is required", i)
		}
		switch query.Order(s.Order) {
		case "", query.Asc, query.Desc:
		default:
			return query.Query{}, nil, fmt.Errorf("sort[%d].order must be \"asc\" or \"desc\", got %q", i, s.Order)
		}
		opts.OrderBy = append(opts.OrderBy, query.SortOrder{Field: s.Field, Order: query.Order(s.Order)})
	}

	for i, f := range r.Facets {
		fq, err := f.toDomain()
		if err != nil {
			return query.Query{}, nil, fmt.Errorf("facets[%d]: %w", i, err)
		}
		opts.FacetQueries = append(opts.FacetQueries, fq)
	}

	if h := r.Highlight; h != nil {
		opts.Highlight = &query.HighlightingParameters{
			Fields:            h.Fields,
			BeforeTerm:        h.BeforeTerm,
			AfterTerm:         h.AfterTerm,
			Snippets:          h.Snippets,
			Fragsize:          h.Fragsize,
			RequireFieldMatch: h.RequireFieldMatch,
			AlternateField:    h.AlternateField,
		}
		if h.Regex != nil {
			opts.Highlight.Regex = &query.RegexFragmenter{
				Slop:             h.Regex.Slop,
				Pattern:          h.Regex.Pattern,
				MaxAnalyzedChars: h.Regex.MaxAnalyzedChars,
			}
		}
	}

	for _, f := range r.Filters {
		opts.FilterQueries = append(opts.FilterQueries, query.New(f))
	}
	for i, p := range r.Params {
		if p.Key == "" {
			return query.Query{}, nil, fmt.Errorf("params[%d].key is required", i)
		}
		opts.Extra = append(opts.Extra, params.Pair{Key: p.Key, Value: p.Value})
	}

	return query.New(r.Q), opts, nil
}

func (f FacetItem) toDomain() (query.FacetQuery, error) {
	switch {
	case f.Field != "" && f.Query != "":
		return nil, errors.New("field and query are mutually exclusive")
	case f.Field != "":
		return &query.FieldFacet{
			Field:    f.Field,
			Prefix:   f.Prefix,
			Sort:     f.Sort,
			Limit:    f.Limit,
			Offset:   f.Offset,
			MinCount: f.MinCount,
			Missing:  f.Missing,
		}, nil
	case f.Query != "":
		return query.FacetOn(query.New(f.Query)), nil
	default:
		return nil, errors.New("field or query is required")
	}
}

func pairsToGen(p params.Params) []ParamItem {
	out := make([]ParamItem, 0, p.Len())
	for k, v := range p.All() {
		out = append(out, ParamItem{Key: k, Value: v})
	}
	return out
}

func resultToGen(set *result.Set[Document]) SearchResponse {
	resp := SearchResponse{
		NumFound:     set.NumFound,
		Start:        set.Start,
		MaxScore:     set.MaxScore,
		QTime:        set.QTime,
		Docs:         set.Documents,
		Keys:         set.Keys,
		FacetQueries: set.FacetQueries,
	}
	if resp.Docs == nil {
		resp.Docs = []Document{}
	}
	if resp.Keys == nil {
		resp.Keys = []string{}
	}
	if len(set.FacetFields) > 0 {
		resp.FacetFields = make(map[string][]FacetCountItem, len(set.FacetFields))
		for field, counts := range set.FacetFields {
			items := make([]FacetCountItem, len(counts))
			for i, c := range counts {
				items[i] = FacetCountItem{Value: c.Value, Count: c.Count}
			}
			resp.FacetFields[field] = items
		}
	}
	if len(set.Highlights) > 0 {
		resp.Highlighting = make(map[string]map[string][]string, len(set.Highlights))
		for key, snippets := range set.Highlights {
			resp.Highlighting[key] = snippets
		}
	}
	return resp
}
