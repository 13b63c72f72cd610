// Package models defines the wire types for every laboratory resource
// exposed by the LIMS API, along with the create and update payload
// shapes used by write operations.
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Decimal is a fixed-precision numeric value carried as its wire string.
// Measurement fields keep the exact decimal representation the API
// returns and are parsed to float64 only for display or comparison, so
// round-tripping a record never perturbs stored values.
type Decimal string

// Float64 parses d for computation or display. The second return is
// false when d is empty or not a valid number.
func (d Decimal) Float64() (float64, bool) {
	s := strings.TrimSpace(string(d))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IsZero reports whether d is unset.
func (d Decimal) IsZero() bool {
	return strings.TrimSpace(string(d)) == ""
}

// String returns the wire representation unchanged.
func (d Decimal) String() string {
	return string(d)
}

// Format renders d with the given number of fraction digits for
// display. Values that do not parse are returned verbatim so malformed
// server data still shows up instead of disappearing.
func (d Decimal) Format(prec int) string {
	f, ok := d.Float64()
	if !ok {
		return string(d)
	}
	return strconv.FormatFloat(f, 'f', prec, 64)
}

// DecimalFromFloat converts a computed value back to its wire form
// using the shortest representation that round-trips.
func DecimalFromFloat(f float64) Decimal {
	return Decimal(strconv.FormatFloat(f, 'f', -1, 64))
}

// MarshalJSON always emits the decimal as a JSON string.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(d))
}

// UnmarshalJSON accepts both JSON strings and bare JSON numbers. The
// API serializes decimals as strings, but older records created before
// that convention contain raw numbers; both forms are preserved
// byte-for-byte as the canonical value.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*d = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Decimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*d = Decimal(n.String())
	return nil
}
