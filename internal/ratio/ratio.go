package ratio

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a query has no ratio
type ErrorKind int

const (
	InvalidIndex ErrorKind = iota + 1
	Underdetermined
	ZeroFirstTerm
	NoRealRoot
	DivisionByZero
	Overflow
	Unknown
)

var kindNames = map[ErrorKind]string{
	InvalidIndex:    "invalid_index",
	Underdetermined: "underdetermined",
	ZeroFirstTerm:   "zero_first_term",
	NoRealRoot:      "no_real_root",
	DivisionByZero:  "division_by_zero",
	Overflow:        "overflow",
	Unknown:         "unknown",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Query is one geometric sequence question: given a1, an and n, find r
type Query struct {
	FirstTerm float64
	NthTerm   float64
	Index     int
}

// Error is a classified solver failure
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsKind reports whether err is a solver error of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// Result holds either a ratio or a classified error, never both
type Result struct {
	value float64
	err   *Error
}

// Ratio builds a successful result
func Ratio(v float64) Result {
	return Result{value: v}
}

// Failure builds an error result
func Failure(kind ErrorKind, message string) Result {
	return Result{err: &Error{Kind: kind, Message: message}}
}

// Value returns the ratio and true, or 0 and false for an error result
func (r Result) Value() (float64, bool) {
	if r.err != nil {
		return 0, false
	}
	return r.value, true
}

// Err returns the classified error, or nil for a ratio result
func (r Result) Err() *Error {
	return r.err
}

// IsError reports whether the result is an error
func (r Result) IsError() bool {
	return r.err != nil
}

// Unpack converts the result to the usual (value, error) pair
func (r Result) Unpack() (float64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return r.value, nil
}

func (r Result) String() string {
	if r.err != nil {
		return fmt.Sprintf("Error(%s: %s)", r.err.Kind, r.err.Message)
	}
	return fmt.Sprintf("Ratio(%g)", r.value)
}
