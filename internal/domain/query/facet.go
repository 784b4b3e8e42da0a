package query

// FacetQuery is one requested facet: either a *FieldFacet or a *QueryFacet.
// The set is closed; encoders switch over both cases.
type FacetQuery interface {
	isFacetQuery()
}

// FieldFacet counts documents per distinct value of a field.
// The optional settings are sent as per-field overrides (f.<field>.facet.*).
type FieldFacet struct {
	Field    string
	Prefix   string
	Sort     string // "count" or "index"
	Limit    *int
	Offset   *int
	MinCount *int
	Missing  bool
}

// QueryFacet counts documents matching an arbitrary query.
type QueryFacet struct {
	Query Query
}

func (*FieldFacet) isFacetQuery() {}
func (*QueryFacet) isFacetQuery() {}

// FacetField creates a field facet with no per-field settings.
func FacetField(field string) *FieldFacet {
	return &FieldFacet{Field: field}
}

// FacetOn creates a query facet.
func FacetOn(q Query) *QueryFacet {
	return &QueryFacet{Query: q}
}
