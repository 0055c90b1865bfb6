package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/kartoza/ratio-calculator/internal/ratio"
)

func TestObserveSolveCountsOutcomes(t *testing.T) {
	okBefore := testutil.ToFloat64(solveTotal.WithLabelValues("ok"))
	rootBefore := testutil.ToFloat64(solveTotal.WithLabelValues("no_real_root"))

	q := ratio.Query{FirstTerm: 1, NthTerm: 2, Index: 2}
	ObserveSolve(q, ratio.Solve(q))

	q = ratio.Query{FirstTerm: 4, NthTerm: -4, Index: 3}
	ObserveSolve(q, ratio.Solve(q))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(solveTotal.WithLabelValues("ok")))
	assert.Equal(t, rootBefore+1, testutil.ToFloat64(solveTotal.WithLabelValues("no_real_root")))
}

func TestObserveSolveCountsMismatch(t *testing.T) {
	before := testutil.ToFloat64(verifyMismatch)

	ObserveSolve(ratio.Query{FirstTerm: 3, NthTerm: 24, Index: 4}, ratio.Ratio(3))

	assert.Equal(t, before+1, testutil.ToFloat64(verifyMismatch))
}

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("/api/solve", "200"))
	ObserveRequest("/api/solve", 200)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("/api/solve", "200")))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(ratio.Ratio(1)))
	assert.Equal(t, "overflow", Outcome(ratio.Failure(ratio.Overflow, "big")))
}
