package encoder

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/solrq/internal/domain/query"
	"github.com/kailas-cloud/solrq/internal/params"
)

// Highlight emits hl=true and every highlighting setting that is set.
func Highlight(p params.Params, opts *query.Options) params.Params {
	h := opts.Highlight
	if h == nil {
		return p
	}
	p = p.Add(ParamHighlight, flagTrue)
	if len(h.Fields) > 0 {
		p = p.Add(ParamHighlightFields, strings.Join(h.Fields, ","))
	}
	if h.Snippets != nil {
		p = p.Add(ParamHighlightSnippets, strconv.Itoa(*h.Snippets))
	}
	if h.Fragsize != nil {
		p = p.Add(ParamHighlightFragsize, strconv.Itoa(*h.Fragsize))
	}
	if h.RequireFieldMatch {
		p = p.Add(ParamHighlightRequireMatch, flagTrue)
	}
	if h.AlternateField != "" {
		p = p.Add(ParamHighlightAlternate, h.AlternateField)
	}
	if h.BeforeTerm != "" {
		p = p.Add(ParamHighlightPre, h.BeforeTerm)
	}
	if h.AfterTerm != "" {
		p = p.Add(ParamHighlightPost, h.AfterTerm)
	}
	if r := h.Regex; r != nil {
		if r.Slop != nil {
			p = p.Add(ParamHighlightRegexSlop, formatDecimal(*r.Slop))
		}
		if r.Pattern != "" {
			p = p.Add(ParamHighlightRegexPattern, r.Pattern)
		}
		if r.MaxAnalyzedChars != nil {
			p = p.Add(ParamHighlightRegexMaxChars, strconv.Itoa(*r.MaxAnalyzedChars))
		}
	}
	return p
}

// formatDecimal renders the shortest exact decimal form: 4.12 -> "4.12",
// 1 -> "1". Never uses exponent notation or grouping.
func formatDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
