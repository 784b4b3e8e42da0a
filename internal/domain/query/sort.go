package query

// Order is a sort direction.
type Order string

// Sort directions.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// SortOrder sorts results by one field.
type SortOrder struct {
	Field string
	Order Order // empty means Asc
}

// Sort creates an ascending SortOrder, or uses the given direction.
func Sort(field string, order ...Order) SortOrder {
	s := SortOrder{Field: field, Order: Asc}
	if len(order) > 0 && order[0] != "" {
		s.Order = order[0]
	}
	return s
}

// String renders the wire form "<field> <asc|desc>".
func (s SortOrder) String() string {
	o := s.Order
	if o == "" {
		o = Asc
	}
	return s.Field + " " + string(o)
}
