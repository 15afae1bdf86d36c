// Package handlers implements the HTTP API handlers.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/nordvik/nordscreen/internal/storage"
	"github.com/nordvik/nordscreen/pkg/logger"
)

// RunStore serves stored screening runs.
type RunStore interface {
	LatestRun(ctx context.Context) (*storage.RunRecord, error)
}

// Runner triggers a new screening cycle.
type Runner interface {
	Execute(ctx context.Context) (*storage.RunRecord, error)
}

// ScreenHandler handles screening API endpoints.
type ScreenHandler struct {
	store  RunStore
	runner Runner
	topN   int
	logger *logger.Logger
}

// NewScreenHandler creates a new screening handler. topN is the default
// size of the top endpoint.
func NewScreenHandler(store RunStore, runner Runner, topN int, log *logger.Logger) *ScreenHandler {
	return &ScreenHandler{
		store:  store,
		runner: runner,
		topN:   topN,
		logger: log,
	}
}

// GetLatest returns the most recent screening run with all results
// GET /api/screen/latest
func (h *ScreenHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	run, ok := h.latestRun(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// GetLatestTop returns the top entries of the most recent run
// GET /api/screen/latest/top?n=10
func (h *ScreenHandler) GetLatestTop(w http.ResponseWriter, r *http.Request) {
	n := h.topN
	if param := r.URL.Query().Get("n"); param != "" {
		parsed, err := strconv.Atoi(param)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}

	run, ok := h.latestRun(w, r)
	if !ok {
		return
	}

	if n < len(run.Results) {
		run.Results = run.Results[:n]
	}
	respondJSON(w, http.StatusOK, run)
}

// RunResponse summarizes a triggered screening run.
type RunResponse struct {
	Status       string `json:"status"`
	RunID        int64  `json:"run_id,omitempty"`
	CompanyCount int    `json:"company_count"`
	PassedCount  int    `json:"passed_count"`
}

// Run triggers a synchronous screening cycle
// POST /api/screen/run
func (h *ScreenHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	record, err := h.runner.Execute(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Screening run failed")
		respondError(w, http.StatusInternalServerError, "Screening run failed")
		return
	}

	respondJSON(w, http.StatusOK, RunResponse{
		Status:       "completed",
		RunID:        record.ID,
		CompanyCount: record.CompanyCount,
		PassedCount:  record.PassedCount,
	})
}

func (h *ScreenHandler) latestRun(w http.ResponseWriter, r *http.Request) (*storage.RunRecord, bool) {
	run, err := h.store.LatestRun(r.Context())
	if err != nil {
		if errors.Is(err, storage.ErrNoRuns) {
			respondError(w, http.StatusNotFound, "No screening runs stored yet")
			return nil, false
		}
		h.logger.WithError(err).Error("Failed to load latest run")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve latest run")
		return nil, false
	}
	return run, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
