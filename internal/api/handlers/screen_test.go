package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvik/nordscreen/internal/contracts"
	"github.com/nordvik/nordscreen/internal/storage"
	"github.com/nordvik/nordscreen/pkg/logger"
)

type stubStore struct {
	run *storage.RunRecord
	err error
}

func (s *stubStore) LatestRun(context.Context) (*storage.RunRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.run, nil
}

type stubRunner struct {
	record *storage.RunRecord
	err    error
}

func (s *stubRunner) Execute(context.Context) (*storage.RunRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

func storedRun(n int) *storage.RunRecord {
	run := &storage.RunRecord{
		ID:           7,
		RunAt:        time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC),
		CompanyCount: n,
	}
	for i := 0; i < n; i++ {
		run.Results = append(run.Results, contracts.ScreeningResult{
			Company: contracts.Company{Ticker: string(rune('A'+i)) + ".OL"},
			Rank:    i + 1,
		})
	}
	return run
}

func TestScreenHandler_GetLatest(t *testing.T) {
	h := NewScreenHandler(&stubStore{run: storedRun(3)}, nil, 10, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/screen/latest", nil)
	rec := httptest.NewRecorder()
	h.GetLatest(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var run storage.RunRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, int64(7), run.ID)
	assert.Len(t, run.Results, 3)
}

func TestScreenHandler_GetLatestNoRuns(t *testing.T) {
	h := NewScreenHandler(&stubStore{err: storage.ErrNoRuns}, nil, 10, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/screen/latest", nil)
	rec := httptest.NewRecorder()
	h.GetLatest(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScreenHandler_GetLatestTop(t *testing.T) {
	h := NewScreenHandler(&stubStore{run: storedRun(5)}, nil, 10, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/screen/latest/top?n=2", nil)
	rec := httptest.NewRecorder()
	h.GetLatestTop(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var run storage.RunRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	require.Len(t, run.Results, 2)
	assert.Equal(t, 1, run.Results[0].Rank)
}

func TestScreenHandler_GetLatestTopBadParam(t *testing.T) {
	h := NewScreenHandler(&stubStore{run: storedRun(5)}, nil, 10, logger.NewNop())

	for _, n := range []string{"0", "-3", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/screen/latest/top?n="+n, nil)
		rec := httptest.NewRecorder()
		h.GetLatestTop(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "n=%s", n)
	}
}

func TestScreenHandler_Run(t *testing.T) {
	runner := &stubRunner{record: &storage.RunRecord{ID: 12, CompanyCount: 40, PassedCount: 3}}
	h := NewScreenHandler(&stubStore{}, runner, 10, logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/screen/run", nil)
	rec := httptest.NewRecorder()
	h.Run(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, int64(12), resp.RunID)
	assert.Equal(t, 40, resp.CompanyCount)
}

func TestScreenHandler_RunFailure(t *testing.T) {
	h := NewScreenHandler(&stubStore{}, &stubRunner{err: errors.New("universe fetch failed")}, 10, logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/screen/run", nil)
	rec := httptest.NewRecorder()
	h.Run(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
