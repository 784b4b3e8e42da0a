// Package result holds the typed result set reconstructed from a response.
package result

// FacetCount is one value bucket of a field facet.
type FacetCount struct {
	Value string
	Count int
}

// Snippets maps a highlighted field to its fragments.
type Snippets map[string][]string

// Set is a typed result set. Keys[i] is the unique-key value of Documents[i].
type Set[T any] struct {
	Documents []T
	Keys      []string

	NumFound int
	Start    int
	MaxScore float64
	QTime    int

	// FacetFields keeps buckets in server order.
	FacetFields  map[string][]FacetCount
	FacetQueries map[string]int

	// Highlights is keyed by unique-key value.
	Highlights map[string]Snippets
}

// Len returns the number of documents in this page.
func (s *Set[T]) Len() int { return len(s.Documents) }

// HighlightsFor returns highlighting for the i-th document, nil if none.
func (s *Set[T]) HighlightsFor(i int) Snippets {
	if i < 0 || i >= len(s.Keys) || s.Highlights == nil {
		return nil
	}
	return s.Highlights[s.Keys[i]]
}

// Facet returns the buckets of a field facet, nil if it was not returned.
func (s *Set[T]) Facet(field string) []FacetCount {
	return s.FacetFields[field]
}
