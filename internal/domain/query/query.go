// Package query defines the typed query description: the query expression
// itself and the optional per-feature settings that accompany it.
package query

import "strings"

// Query is an opaque query expression. The empty query is allowed.
type Query struct {
	text string
}

// All matches every document.
var All = New("*:*")

// New creates a query from its textual form.
func New(text string) Query {
	return Query{text: text}
}

// String returns the textual form sent on the wire.
func (q Query) String() string { return q.text }

// IsEmpty reports whether the query has no text.
func (q Query) IsEmpty() bool { return q.text == "" }

// Field builds `field:value` with the value quoted when it contains
// whitespace or query syntax characters.
func Field(field, value string) Query {
	return New(field + ":" + quote(value))
}

// Range builds `field:[from TO to]`. Empty bounds become `*`.
func Range(field, from, to string) Query {
	if from == "" {
		from = "*"
	}
	if to == "" {
		to = "*"
	}
	return New(field + ":[" + from + " TO " + to + "]")
}

const specialChars = `+-&|!(){}[]^"~*?:\/ `

func quote(v string) string {
	if v == "" {
		return `""`
	}
	if !strings.ContainsAny(v, specialChars) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(v) + `"`
}
