// Package collection implements the client-side sortable view over
// fetched records. Sorting is pure: the caller owns the active key and
// direction, re-sorts on every render, and the input slice is never
// touched.
package collection

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Direction is a sort direction.
type Direction string

const (
	// Ascending sorts smallest first.
	Ascending Direction = "asc"
	// Descending sorts largest first.
	Descending Direction = "desc"
)

// Sort returns a new slice of records stably ordered by the value at
// the dot-path key. Records where the path is absent sort last
// regardless of direction, so toggling never buries rows with missing
// data. An empty key returns the records in their original order.
func Sort[T any](records []T, key string, dir Direction) []T {
	out := append([]T(nil), records...)
	if key == "" {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		va, oka := Lookup(out[i], key)
		vb, okb := Lookup(out[j], key)
		if !oka || !okb {
			// Present before absent in both directions.
			return oka && !okb
		}
		c := compareValues(va, vb)
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})

	return out
}

// State tracks the caller-owned sort selection.
type State struct {
	Key       string
	Direction Direction
}

// Toggle applies the column-header click semantics: selecting the
// active key flips direction, selecting a new key resets to ascending.
func (s *State) Toggle(key string) {
	if s.Key == key {
		if s.Direction == Ascending {
			s.Direction = Descending
		} else {
			s.Direction = Ascending
		}
		return
	}
	s.Key = key
	s.Direction = Ascending
}

// compareValues orders two present values. Numbers (and numeric
// strings, which is how decimal measurements travel) compare
// numerically, timestamps chronologically, and everything else by
// locale-insensitive string comparison after coercion. ISO-8601 date
// strings need no special case: lexicographic order is chronological
// order for them. Never panics.
func compareValues(a, b any) int {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}

	return strings.Compare(coerceString(a), coerceString(b))
}

// toFloat extracts a numeric value from numbers of any width and from
// string types that parse fully as numbers.
func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		s := strings.TrimSpace(rv.String())
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// coerceString renders any value for the comparison fallback.
func coerceString(v any) string {
	rv := reflect.ValueOf(v)
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.String()
	}
	return fmt.Sprint(v)
}
