package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kartoza/ratio-calculator/internal/ratio"
)

const namespace = "ratio_calculator"

var (
	solveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solver",
			Name:      "solves_total",
			Help:      "The total number of ratio solves by outcome (ok or the error kind).",
		},
		[]string{"outcome"},
	)
	verifyMismatch = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "solver",
		Name:      "verify_mismatches_total",
		Help:      "The total number of solved ratios whose rebuilt n-th term missed the tolerance.",
	})
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "The total number of HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)
)

func init() {
	prometheus.MustRegister(solveTotal)
	prometheus.MustRegister(verifyMismatch)
	prometheus.MustRegister(httpRequests)
}

// Outcome is the label value recorded for a result
func Outcome(res ratio.Result) string {
	if se := res.Err(); se != nil {
		return se.Kind.String()
	}
	return "ok"
}

// ObserveSolve records a solve and, for ratios, whether it verified
func ObserveSolve(q ratio.Query, res ratio.Result) {
	solveTotal.WithLabelValues(Outcome(res)).Inc()
	if r, ok := res.Value(); ok && !ratio.Verify(q, r).Match {
		verifyMismatch.Inc()
	}
}

// ObserveRequest counts one served HTTP request
func ObserveRequest(route string, code int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
