package models

import "github.com/kartoza/ratio-calculator/internal/ratio"

// SolveRequest is the JSON body accepted by the solve and report endpoints
type SolveRequest struct {
	FirstTerm *float64 `json:"first_term"`
	NthTerm   *float64 `json:"nth_term"`
	Index     *int     `json:"index"`
}

// Query converts the request into a solver query. Missing fields are reported
// by name.
func (r SolveRequest) Query() (ratio.Query, []string) {
	var missing []string
	if r.FirstTerm == nil {
		missing = append(missing, "first_term")
	}
	if r.NthTerm == nil {
		missing = append(missing, "nth_term")
	}
	if r.Index == nil {
		missing = append(missing, "index")
	}
	if len(missing) > 0 {
		return ratio.Query{}, missing
	}
	return ratio.Query{FirstTerm: *r.FirstTerm, NthTerm: *r.NthTerm, Index: *r.Index}, nil
}

// SolveResponse contains a solved ratio
type SolveResponse struct {
	Ratio        float64            `json:"ratio"`
	Formatted    string             `json:"formatted"`
	Verification ratio.Verification `json:"verification"`
}

// ErrorResponse is returned when the solver classifies the query as unsolvable
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// InfoResponse describes the running server
type InfoResponse struct {
	Version   string  `json:"version"`
	Precision int     `json:"precision"`
	Tolerance float64 `json:"tolerance"`
}
