package dataset

import (
	"encoding/json"
	"math"
	"strconv"
)

// Measure is a representative numeric value that may be absent. The zero
// value is absent.
type Measure struct {
	value float64
	ok    bool
}

// Known returns a present measure. Non-finite values are coerced to absent.
func Known(v float64) Measure {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Measure{}
	}
	return Measure{value: v, ok: true}
}

// Absent returns the marker for a value that could not be determined.
func Absent() Measure { return Measure{} }

// Get returns the value and whether it is present.
func (m Measure) Get() (float64, bool) { return m.value, m.ok }

// IsAbsent reports whether the measure carries no value.
func (m Measure) IsAbsent() bool { return !m.ok }

// Within reports whether the value lies in [lo, hi]. Absent never matches.
func (m Measure) Within(lo, hi float64) bool {
	return m.ok && m.value >= lo && m.value <= hi
}

// String renders the value the way the CSV export writes it: empty when
// absent, integral values with a trailing ".0".
func (m Measure) String() string {
	if !m.ok {
		return ""
	}
	s := strconv.FormatFloat(m.value, 'f', -1, 64)
	if m.value == math.Trunc(m.value) {
		s += ".0"
	}
	return s
}

// MarshalJSON encodes absent as null.
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.ok {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}
