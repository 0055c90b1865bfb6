package server

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kartoza/ratio-calculator/internal/metrics"
	"github.com/kartoza/ratio-calculator/internal/ratio"
	"github.com/kartoza/ratio-calculator/internal/report"
)

// Initial form values
const (
	defaultFirstTerm = "1.0"
	defaultNthTerm   = "2.0"
	defaultIndex     = "2"
)

// formPage is the data rendered into templates/index.html
type formPage struct {
	FirstTerm string
	NthTerm   string
	Index     string
	Result    template.HTML
	Footer    template.HTML
	Version   string
}

// handleForm serves the empty form with default values
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, formPage{
		FirstTerm: defaultFirstTerm,
		NthTerm:   defaultNthTerm,
		Index:     defaultIndex,
	}, report.Report{})
}

// handleSubmit solves the submitted form and renders the report below it
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	page := formPage{
		FirstTerm: strings.TrimSpace(r.PostFormValue("first_term")),
		NthTerm:   strings.TrimSpace(r.PostFormValue("nth_term")),
		Index:     strings.TrimSpace(r.PostFormValue("index")),
	}

	q, err := parseQuery(page)
	if err != nil {
		s.renderPage(w, http.StatusBadRequest, page, report.Report{Blocks: []report.Block{{
			Level:    report.LevelError,
			Markdown: "Error: " + err.Error(),
		}}})
		return
	}

	res := ratio.Solve(q)
	metrics.ObserveSolve(q, res)
	s.logger.Debug("Form solved",
		zap.Float64("first_term", q.FirstTerm),
		zap.Float64("nth_term", q.NthTerm),
		zap.Int("index", q.Index),
		zap.Stringer("result", res))

	s.renderPage(w, http.StatusOK, page, report.Build(q, res, s.cfg.Precision))
}

// parseQuery converts the raw form fields into a solver query
func parseQuery(p formPage) (ratio.Query, error) {
	a1, err := parseTerm("first term", p.FirstTerm)
	if err != nil {
		return ratio.Query{}, err
	}
	an, err := parseTerm("n-th term", p.NthTerm)
	if err != nil {
		return ratio.Query{}, err
	}
	n, err := strconv.Atoi(p.Index)
	if err != nil {
		return ratio.Query{}, fmt.Errorf("n %q is not an integer", p.Index)
	}
	return ratio.Query{FirstTerm: a1, NthTerm: an, Index: n}, nil
}

// parseTerm parses a finite real number. ParseFloat also accepts "Inf" and
// "NaN", which are not terms of any sequence.
func parseTerm(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", name, raw)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%s %q must be a finite number", name, raw)
	}
	return v, nil
}

// renderPage renders the report and footer into the page template. The page
// is buffered so a template failure can still produce a 500.
func (s *Server) renderPage(w http.ResponseWriter, status int, page formPage, rep report.Report) {
	var err error
	if len(rep.Blocks) > 0 {
		if page.Result, err = rep.HTML(); err != nil {
			s.logger.Error("Error rendering report", zap.Error(err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}
	footer := report.Report{Blocks: []report.Block{report.Formulas()}}
	if page.Footer, err = footer.HTML(); err != nil {
		s.logger.Error("Error rendering footer", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	page.Version = s.cfg.Version

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, page); err != nil {
		s.logger.Error("Error executing page template", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("Error writing response", zap.Error(err))
	}
}
