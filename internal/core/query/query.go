// Package query builds the archive selection query and evaluates it in memory
package query

import (
	"encoding/json"
	"time"

	"apmarchive/internal/core/window"
	perr "apmarchive/internal/platform/errors"
)

const (
	// FieldECS is the timestamp field of APM documents
	FieldECS = "@timestamp"
	// FieldML is the timestamp field of ML result and config documents
	FieldML = "timestamp"
)

// Query is one clause of an Elasticsearch-style query DSL; exactly one member is set
type Query struct {
	Bool   *Bool            `json:"bool,omitempty"`
	Range  map[string]Range `json:"range,omitempty"`
	Exists *Exists          `json:"exists,omitempty"`
}

// Bool combines clauses
type Bool struct {
	Should             []Query `json:"should,omitempty"`
	MustNot            []Query `json:"must_not,omitempty"`
	MinimumShouldMatch int     `json:"minimum_should_match,omitempty"`
}

// Range bounds a field to [GTE, LT)
type Range struct {
	GTE string `json:"gte,omitempty"`
	LT  string `json:"lt,omitempty"`
}

// Exists matches documents with a non-null value for Field
type Exists struct {
	Field string `json:"field"`
}

// ForWindow selects documents whose ECS or ML timestamp falls in w, plus
// timeless documents that have neither field
func ForWindow(w window.Window) Query {
	rng := Range{GTE: w.GTE(), LT: w.LT()}
	return Query{Bool: &Bool{
		Should: []Query{
			{Range: map[string]Range{FieldECS: rng}},
			{Range: map[string]Range{FieldML: rng}},
			{Bool: &Bool{MustNot: []Query{
				{Exists: &Exists{Field: FieldECS}},
				{Exists: &Exists{Field: FieldML}},
			}}},
		},
		MinimumShouldMatch: 1,
	}}
}

// JSON returns the compact serialized query
func (q Query) JSON() (string, error) {
	b, err := json.Marshal(q)
	if err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeJSON, "marshal query")
	}
	return string(b), nil
}

// Matches evaluates q against a flat document. Timestamps may be RFC 3339
// strings or time.Time values; anything else never satisfies a range
func (q Query) Matches(doc map[string]any) bool {
	switch {
	case q.Bool != nil:
		return q.Bool.matches(doc)
	case q.Exists != nil:
		v, ok := doc[q.Exists.Field]
		return ok && v != nil
	case len(q.Range) > 0:
		for field, r := range q.Range {
			if !r.matches(doc[field]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (b *Bool) matches(doc map[string]any) bool {
	for _, c := range b.MustNot {
		if c.Matches(doc) {
			return false
		}
	}
	if len(b.Should) == 0 {
		return true
	}
	// without must/filter clauses at least one should clause has to match
	need := max(b.MinimumShouldMatch, 1)
	hits := 0
	for _, c := range b.Should {
		if c.Matches(doc) {
			hits++
			if hits >= need {
				return true
			}
		}
	}
	return false
}

func (r Range) matches(v any) bool {
	t, ok := asTime(v)
	if !ok {
		return false
	}
	if r.GTE != "" {
		lo, err := window.Parse(r.GTE)
		if err != nil || t.Before(lo) {
			return false
		}
	}
	if r.LT != "" {
		hi, err := window.Parse(r.LT)
		if err != nil || !t.Before(hi) {
			return false
		}
	}
	return true
}

func asTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		t, err := window.Parse(x)
		return t, err == nil
	default:
		return time.Time{}, false
	}
}
