package result

import "testing"

type doc struct{ ID string }

func TestHighlightsFor(t *testing.T) {
	s := &Set[doc]{
		Documents: []doc{{ID: "a"}, {ID: "b"}},
		Keys:      []string{"a", "b"},
		Highlights: map[string]Snippets{
			"b": {"title": {"<em>x</em>"}},
		},
	}

	if got := s.HighlightsFor(0); got != nil {
		t.Errorf("HighlightsFor(0) = %v, want nil", got)
	}
	got := s.HighlightsFor(1)
	if len(got["title"]) != 1 || got["title"][0] != "<em>x</em>" {
		t.Errorf("HighlightsFor(1) = %v", got)
	}
	if s.HighlightsFor(5) != nil || s.HighlightsFor(-1) != nil {
		t.Error("out of range index must return nil")
	}
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestFacet(t *testing.T) {
	s := &Set[doc]{FacetFields: map[string][]FacetCount{
		"cat": {{Value: "book", Count: 3}, {Value: "cd", Count: 1}},
	}}
	f := s.Facet("cat")
	if len(f) != 2 || f[0].Value != "book" || f[1].Count != 1 {
		t.Errorf("Facet(cat) = %v", f)
	}
	if s.Facet("missing") != nil {
		t.Error("expected nil for missing facet")
	}
}
