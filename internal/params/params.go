// Package params holds the ordered, repetition-permitting key/value list
// that is sent to the search server.
package params

import (
	"iter"
	"net/url"
	"strings"
)

// Pair is a single wire parameter.
type Pair struct {
	Key   string
	Value string
}

// Params is an ordered multimap of wire parameters.
// Keys may repeat; insertion order is preserved exactly.
//
// Add has append semantics: it returns the extended list and the result
// must be used, the receiver is not updated.
type Params struct {
	pairs []Pair
}

// New creates a Params from the given pairs in order.
func New(pairs ...Pair) Params {
	if len(pairs) == 0 {
		return Params{}
	}
	out := make([]Pair, len(pairs))
	copy(out, pairs)
	return Params{pairs: out}
}

// Add returns p extended by one pair. p itself and values previously derived
// from it are left untouched.
func (p Params) Add(key, value string) Params {
	n := len(p.pairs)
	p.pairs = append(p.pairs[:n:n], Pair{Key: key, Value: value})
	return p
}

// Len returns the number of pairs.
func (p Params) Len() int { return len(p.pairs) }

// Pairs returns a copy of the pairs in insertion order.
func (p Params) Pairs() []Pair {
	out := make([]Pair, len(p.pairs))
	copy(out, p.pairs)
	return out
}

// All iterates pairs in insertion order.
func (p Params) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, kv := range p.pairs {
			if !yield(kv.Key, kv.Value) {
				return
			}
		}
	}
}

// Get returns every value stored under key, in insertion order.
func (p Params) Get(key string) []string {
	var out []string
	for _, kv := range p.pairs {
		if kv.Key == key {
			out = append(out, kv.Value)
		}
	}
	return out
}

// Has reports whether key occurs at least once.
func (p Params) Has(key string) bool {
	for _, kv := range p.pairs {
		if kv.Key == key {
			return true
		}
	}
	return false
}

// Equal compares two parameter lists by sequence content.
func (p Params) Equal(other Params) bool {
	if len(p.pairs) != len(other.pairs) {
		return false
	}
	for i := range p.pairs {
		if p.pairs[i] != other.pairs[i] {
			return false
		}
	}
	return true
}

// Encode renders the list as a URL query string, keeping order and repeats.
// url.Values is not used because it sorts keys and groups repeats.
func (p Params) Encode() string {
	var sb strings.Builder
	for i, kv := range p.pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(kv.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv.Value))
	}
	return sb.String()
}

// String returns a debug representation: key=value pairs unescaped.
func (p Params) String() string {
	parts := make([]string, len(p.pairs))
	for i, kv := range p.pairs {
		parts[i] = kv.Key + "=" + kv.Value
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
