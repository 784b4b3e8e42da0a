package query

// HighlightingParameters requests highlighted snippets.
// Unset fields (nil pointers, empty strings, false) emit no parameter.
type HighlightingParameters struct {
	Fields            []string
	BeforeTerm        string
	AfterTerm         string
	Snippets          *int
	Fragsize          *int
	RequireFieldMatch bool
	AlternateField    string
	Regex             *RegexFragmenter
}

// RegexFragmenter configures the regex-based fragmenter.
// It is accepted with or without highlight fields.
type RegexFragmenter struct {
	Slop             *float64
	Pattern          string
	MaxAnalyzedChars *int
}
