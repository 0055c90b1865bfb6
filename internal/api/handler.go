package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kartoza/ratio-calculator/internal/config"
	"github.com/kartoza/ratio-calculator/internal/httputil"
	"github.com/kartoza/ratio-calculator/internal/metrics"
	"github.com/kartoza/ratio-calculator/internal/models"
	"github.com/kartoza/ratio-calculator/internal/ratio"
	"github.com/kartoza/ratio-calculator/internal/report"
)

// maxBodyBytes caps request bodies; a query is three numbers
const maxBodyBytes = 4 << 10

// Handler provides HTTP API endpoints
type Handler struct {
	cfg    config.Config
	logger *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(cfg config.Config, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{cfg: cfg, logger: logger}
}

// RegisterRoutes sets up all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.handleHealth).Methods("GET")
	r.HandleFunc("/info", h.handleInfo).Methods("GET")

	r.HandleFunc("/solve", h.handleSolve).Methods("POST")
	r.HandleFunc("/report", h.handleReport).Methods("POST")
}

// handleHealth returns server health status
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleInfo returns server information
func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, models.InfoResponse{
		Version:   h.cfg.Version,
		Precision: h.cfg.Precision,
		Tolerance: ratio.VerifyTolerance,
	})
}

// handleSolve solves one query and returns the ratio with its verification
func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	q, ok := h.decodeQuery(w, r)
	if !ok {
		return
	}

	res := ratio.Solve(q)
	metrics.ObserveSolve(q, res)

	if se := res.Err(); se != nil {
		h.logger.Debug("Query not solvable",
			zap.Stringer("kind", se.Kind),
			zap.Float64("first_term", q.FirstTerm),
			zap.Float64("nth_term", q.NthTerm),
			zap.Int("index", q.Index))
		httputil.RespondJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: se.Message,
			Kind:  se.Kind.String(),
		})
		return
	}

	value, _ := res.Value()
	httputil.RespondJSON(w, http.StatusOK, models.SolveResponse{
		Ratio:        value,
		Formatted:    report.FormatRatio(value, h.cfg.Precision),
		Verification: ratio.Verify(q, value),
	})
}

// handleReport returns the markdown report for one query
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	q, ok := h.decodeQuery(w, r)
	if !ok {
		return
	}

	res := ratio.Solve(q)
	metrics.ObserveSolve(q, res)

	rep := report.Build(q, res, h.cfg.Precision)
	rep.Blocks = append(rep.Blocks, report.Formulas())

	status := http.StatusOK
	if rep.Failed() {
		status = http.StatusUnprocessableEntity
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(rep.Markdown())); err != nil {
		h.logger.Warn("Error writing report", zap.Error(err))
	}
}

// decodeQuery reads a SolveRequest body, writing a 400 response on failure
func (h *Handler) decodeQuery(w http.ResponseWriter, r *http.Request) (ratio.Query, bool) {
	var req models.SolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return ratio.Query{}, false
	}

	q, missing := req.Query()
	if len(missing) > 0 {
		httputil.RespondError(w, http.StatusBadRequest,
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
		return ratio.Query{}, false
	}
	return q, true
}
