// Package parser decodes search server responses (wt=json) into typed result sets.
package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/solrq/internal/domain"
	"github.com/kailas-cloud/solrq/internal/domain/result"
)

// DefaultKeyField is the unique-key field used when none is declared.
const DefaultKeyField = "id"

type responseHeader struct {
	Status int `json:"status"`
	QTime  int `json:"QTime"`
}

type responseDocuments struct {
	NumFound int               `json:"numFound"`
	Start    int               `json:"start"`
	MaxScore *float64          `json:"maxScore"`
	Docs     []json.RawMessage `json:"docs"`
}

type facetCounts struct {
	FacetQueries map[string]int               `json:"facet_queries"`
	FacetFields  map[string][]json.RawMessage `json:"facet_fields"`
}

type responseError struct {
	Msg  string `json:"msg"`
	Code int    `json:"code"`
}

type response struct {
	ResponseHeader responseHeader                 `json:"responseHeader"`
	Response       *responseDocuments             `json:"response"`
	FacetCounts    *facetCounts                   `json:"facet_counts"`
	Highlighting   map[string]map[string][]string `json:"highlighting"`
	Error          *responseError                 `json:"error"`
}

// JSON decodes responses into documents of type T with encoding/json.
// The key field is fixed at construction and used to associate
// highlighting entries with documents.
type JSON[T any] struct {
	keyField string
}

// NewJSON creates a parser. An empty keyField falls back to DefaultKeyField.
func NewJSON[T any](keyField string) *JSON[T] {
	if keyField == "" {
		keyField = DefaultKeyField
	}
	return &JSON[T]{keyField: keyField}
}

// KeyField returns the unique-key field name.
func (p *JSON[T]) KeyField() string { return p.keyField }

// Parse implements the result parser contract. Every failure is a *domain.ParseError.
func (p *JSON[T]) Parse(raw string) (*result.Set[T], error) {
	set, err := p.parse([]byte(raw))
	if err != nil {
		return nil, &domain.ParseError{Err: err}
	}
	return set, nil
}

func (p *JSON[T]) parse(raw []byte) (*result.Set[T], error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("empty response body")
	}

	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("server reported error %d: %s", resp.Error.Code, resp.Error.Msg)
	}
	if resp.ResponseHeader.Status != 0 {
		return nil, fmt.Errorf("response status %d", resp.ResponseHeader.Status)
	}
	if resp.Response == nil {
		return nil, errors.New("response section missing")
	}

	set := &result.Set[T]{
		NumFound:   resp.Response.NumFound,
		Start:      resp.Response.Start,
		QTime:      resp.ResponseHeader.QTime,
		Highlights: toSnippets(resp.Highlighting),
	}
	if resp.Response.MaxScore != nil {
		set.MaxScore = *resp.Response.MaxScore
	}

	set.Documents = make([]T, len(resp.Response.Docs))
	set.Keys = make([]string, len(resp.Response.Docs))
	for i, doc := range resp.Response.Docs {
		if err := decodeDocument(doc, &set.Documents[i]); err != nil {
			return nil, fmt.Errorf("decode document %d: %w", i, err)
		}
		key, err := p.extractKey(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		set.Keys[i] = key
	}

	if fc := resp.FacetCounts; fc != nil {
		set.FacetQueries = fc.FacetQueries
		fields, err := toFacetFields(fc.FacetFields)
		if err != nil {
			return nil, err
		}
		set.FacetFields = fields
	}
	return set, nil
}

// extractKey returns the key field value rendered as a string.
// Documents without the key field (e.g. restricted by fl) get "".
func (p *JSON[T]) extractKey(doc json.RawMessage) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return "", fmt.Errorf("decode fields: %w", err)
	}
	v, ok := fields[p.keyField]
	if !ok {
		return "", nil
	}
	return scalarString(v)
}

// toFacetFields converts the flat [value, count, value, count, ...] lists.
func toFacetFields(in map[string][]json.RawMessage) (map[string][]result.FacetCount, error) {
	if in == nil {
		return nil, nil
	}
	out := make(map[string][]result.FacetCount, len(in))
	for field, flat := range in {
		if len(flat)%2 != 0 {
			return nil, fmt.Errorf("facet field %q: odd list length %d", field, len(flat))
		}
		counts := make([]result.FacetCount, 0, len(flat)/2)
		for i := 0; i < len(flat); i += 2 {
			val, err := scalarString(flat[i])
			if err != nil {
				return nil, fmt.Errorf("facet field %q value: %w", field, err)
			}
			var n int
			if err := json.Unmarshal(flat[i+1], &n); err != nil {
				return nil, fmt.Errorf("facet field %q count: %w", field, err)
			}
			counts = append(counts, result.FacetCount{Value: val, Count: n})
		}
		out[field] = counts
	}
	return out, nil
}

func toSnippets(in map[string]map[string][]string) map[string]result.Snippets {
	if in == nil {
		return nil
	}
	out := make(map[string]result.Snippets, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// decodeDocument keeps untyped numbers as json.Number so long integers
// such as _version_ survive decoding into maps.
func decodeDocument[T any](doc json.RawMessage, dst *T) error {
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.UseNumber()
	return dec.Decode(dst) //nolint:wrapcheck // wrapped by the caller
}

// scalarString renders a JSON string, number, bool or null as text.
func scalarString(v json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, nil
	}
	dec := json.NewDecoder(bytes.NewReader(v))
	dec.UseNumber()
	var anyv any
	if err := dec.Decode(&anyv); err != nil {
		return "", fmt.Errorf("decode scalar: %w", err)
	}
	switch x := anyv.(type) {
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported key type %T", anyv)
	}
}
