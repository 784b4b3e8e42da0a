package encoder

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/solrq/internal/domain/query"
	"github.com/kailas-cloud/solrq/internal/params"
)

// Facets emits facet=true followed by one pair per facet query, in input order.
// Per-field settings of a FieldFacet follow its facet.field pair. Nil entries
// are skipped; a list holding only nils requests no faceting.
func Facets(p params.Params, opts *query.Options) params.Params {
	started := false
	for _, fq := range opts.FacetQueries {
		if isNilFacet(fq) {
			continue
		}
		if !started {
			p = p.Add(ParamFacet, flagTrue)
			started = true
		}
		switch f := fq.(type) {
		case *query.FieldFacet:
			p = fieldFacet(p, f)
		case *query.QueryFacet:
			p = p.Add(ParamFacetQuery, f.Query.String())
		default:
			panic(fmt.Sprintf("encoder: unknown facet query type %T", fq))
		}
	}
	return p
}

func isNilFacet(fq query.FacetQuery) bool {
	switch f := fq.(type) {
	case nil:
		return true
	case *query.FieldFacet:
		return f == nil
	case *query.QueryFacet:
		return f == nil
	}
	return false
}

func fieldFacet(p params.Params, f *query.FieldFacet) params.Params {
	p = p.Add(ParamFacetField, f.Field)

	prefix := "f." + f.Field + ".facet."
	if f.Prefix != "" {
		p = p.Add(prefix+"prefix", f.Prefix)
	}
	if f.Sort != "" {
		p = p.Add(prefix+"sort", f.Sort)
	}
	if f.Limit != nil {
		p = p.Add(prefix+"limit", strconv.Itoa(*f.Limit))
	}
	if f.Offset != nil {
		p = p.Add(prefix+"offset", strconv.Itoa(*f.Offset))
	}
	if f.MinCount != nil {
		p = p.Add(prefix+"mincount", strconv.Itoa(*f.MinCount))
	}
	if f.Missing {
		p = p.Add(prefix+"missing", flagTrue)
	}
	return p
}
