// utils/numbers.go
package utils

import (
	"bytes"
	"math"
	"strconv"
)

// Numeric is a JSON field that tolerates the loose numeric shapes the
// dashboard sends: a number, a numeric string, an empty string, or null.
// Anything non-numeric unmarshals as absent rather than failing the request.
type Numeric struct {
	Value *float64
}

func (n *Numeric) UnmarshalJSON(b []byte) error {
	n.Value = nil

	s := string(bytes.TrimSpace(b))
	if s == "null" || s == `""` {
		return nil
	}

	// Numeric string, e.g. "42.5"
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	n.Value = &v
	return nil
}

// Float returns the value, degrading to 0 when absent.
func (n Numeric) Float() float64 {
	if n.Value == nil {
		return 0
	}
	return *n.Value
}

// Ptr returns the value as a nullable pointer, nil when absent.
func (n Numeric) Ptr() *float64 {
	if n.Value == nil {
		return nil
	}
	v := *n.Value
	return &v
}

// ClampPercent restricts a percent input to the closed interval [0, 100].
// Absent stays absent.
func ClampPercent(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return &v
}
