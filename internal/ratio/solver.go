package ratio

import (
	"fmt"
	"math"
)

const (
	// SnapThreshold is the magnitude below which a computed ratio is reported as exactly zero
	SnapThreshold = 1e-9

	// VerifyTolerance is the absolute tolerance used when re-deriving the n-th term
	VerifyTolerance = 1e-6
)

const (
	msgInvalidIndex    = "index must be an integer greater than 1."
	msgUnderdetermined = "the ratio cannot be determined when both the first term and the n-th term are zero."
	msgZeroFirstTerm   = "the first term cannot be zero: no ratio turns a zero first term into a non-zero n-th term."
	msgNoRealRoot      = "an even root of a negative number has no real common ratio (the ratio would be complex)."
	msgDivisionByZero  = "division by zero while computing the ratio, check the inputs."
	msgOverflow        = "result too large to represent, reduce input magnitude."
)

// Solve finds the common ratio r such that a1 * r^(n-1) = an.
//
// Rules are checked in order and the first match wins: an index below 2,
// both terms zero, a zero first term, then an even root of a negative
// quotient. A zero n-th term gives r = 0. Otherwise r is the (n-1)-th root
// of an/a1, snapped to zero when its magnitude is below SnapThreshold.
func Solve(q Query) Result {
	if q.Index <= 1 {
		return Failure(InvalidIndex, msgInvalidIndex)
	}
	if q.FirstTerm == 0 && q.NthTerm == 0 {
		return Failure(Underdetermined, msgUnderdetermined)
	}
	if q.FirstTerm == 0 {
		return Failure(ZeroFirstTerm, msgZeroFirstTerm)
	}

	degree := q.Index - 1
	if q.NthTerm/q.FirstTerm < 0 && degree%2 == 0 {
		return Failure(NoRealRoot, msgNoRealRoot)
	}
	if q.NthTerm == 0 {
		return Ratio(0)
	}

	raw, err := root(q.NthTerm, q.FirstTerm, degree)
	if err != nil {
		return Result{err: err}
	}
	if math.Abs(raw) < SnapThreshold {
		return Ratio(0)
	}
	return Ratio(raw)
}

// root computes (num/den)^(1/degree), taking the real root for a negative
// quotient. Callers have already rejected even roots of negatives.
func root(num, den float64, degree int) (float64, *Error) {
	if den == 0 {
		return 0, &Error{Kind: DivisionByZero, Message: msgDivisionByZero}
	}

	quotient := num / den
	if math.IsInf(quotient, 0) {
		return 0, &Error{Kind: Overflow, Message: msgOverflow}
	}

	var raw float64
	switch {
	case degree == 1:
		raw = quotient
	case quotient < 0:
		raw = -math.Pow(-quotient, 1/float64(degree))
	default:
		raw = math.Pow(quotient, 1/float64(degree))
	}

	switch {
	case math.IsInf(raw, 0):
		return 0, &Error{Kind: Overflow, Message: msgOverflow}
	case math.IsNaN(raw):
		return 0, &Error{
			Kind:    Unknown,
			Message: fmt.Sprintf("unknown error while computing the ratio: result is not a real number (%g / %g)", num, den),
		}
	}
	return raw, nil
}
