package ratio

import (
	"encoding/json"
	"math"
)

// Verification is the outcome of re-deriving the n-th term from a ratio
type Verification struct {
	Recomputed float64
	Difference float64
	Match      bool
}

// Verify recomputes a1 * r^(n-1) and compares it with the query's n-th term.
// It is a display-side sanity check; Solve does not depend on it.
// A recomputed term that overflows never matches.
func Verify(q Query, r float64) Verification {
	recomputed := q.FirstTerm * math.Pow(r, float64(q.Index-1))
	diff := math.Abs(recomputed - q.NthTerm)
	v := Verification{Recomputed: recomputed, Difference: diff}
	v.Match = v.Finite() && diff < VerifyTolerance
	return v
}

// Finite reports whether the recomputed term and its difference are real numbers
func (v Verification) Finite() bool {
	return isFinite(v.Recomputed) && isFinite(v.Difference)
}

// MarshalJSON omits values JSON cannot represent
func (v Verification) MarshalJSON() ([]byte, error) {
	out := struct {
		Recomputed *float64 `json:"recomputed,omitempty"`
		Difference *float64 `json:"difference,omitempty"`
		Match      bool     `json:"match"`
	}{Match: v.Match}
	if isFinite(v.Recomputed) {
		out.Recomputed = &v.Recomputed
	}
	if isFinite(v.Difference) {
		out.Difference = &v.Difference
	}
	return json.Marshal(out)
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
