package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/matchbox/internal/cache"
	"github.com/agenthands/matchbox/internal/core"
	"github.com/agenthands/matchbox/internal/core/model"
	"github.com/agenthands/matchbox/internal/core/solver"
	"github.com/agenthands/matchbox/internal/driver"
)

type memoryStore struct {
	seasons map[model.ID]*model.Season
}

func (m *memoryStore) LoadSeason(ctx context.Context, id model.ID) (*model.Season, error) {
	s, ok := m.seasons[id]
	if !ok {
		return nil, driver.ErrSeasonNotFound
	}
	return s, nil
}

func (m *memoryStore) SaveSeason(ctx context.Context, season *model.Season) error {
	if season.ID == "" {
		season.ID = "generated"
	}
	m.seasons[season.ID] = season
	return nil
}

// Numeric ids and German keys, as exported by the season editor.
const seasonJSON = `{
	"id": 1,
	"name": "Season 1",
	"candidates": [
		{"id": 1, "name": "Alex", "gender": "Mann"},
		{"id": 2, "name": "Ben", "gender": "Mann"},
		{"id": 3, "name": "Xenia", "gender": "Frau"},
		{"id": 4, "name": "Yara", "gender": "Frau"}
	],
	"matchingNights": [
		{"id": 10, "lights": 1, "couples": [{"mann": 1, "frau": 3}, {"mann": 2, "frau": 4}]}
	],
	"truthBooths": [
		{"id": 20, "couple": {"man": 1, "woman": 3}, "is_perfect_match": false}
	]
}`

func newTestServer(t *testing.T, store driver.SeasonStore, s *solver.Solver) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := core.NewEngine(store, cache.NewMemoryCache(16), s, time.Second, nil)
	return NewServer(engine, nil).SetupRouter()
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var body struct {
		Error APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestHealth(t *testing.T) {
	w := do(newTestServer(t, nil, nil), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSolve(t *testing.T) {
	w := do(newTestServer(t, nil, nil), http.MethodPost, "/solve", seasonJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, resp.RunID, w.Header().Get(runIDHeader))
	assert.Equal(t, model.ID("1"), resp.SeasonID)
	assert.Equal(t, solver.StatusConsistent, resp.Result.Status)
	// The booth rules out 1-3, leaving 2-4 as the night's single light.
	require.Len(t, resp.Result.Solutions, 1)
	assert.Equal(t, model.Solution{"2": "4"}, resp.Result.Solutions[0])
}

func TestSolve_SecondCallIsCached(t *testing.T) {
	r := newTestServer(t, nil, nil)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/solve", seasonJSON).Code)

	w := do(r, http.MethodPost, "/solve", seasonJSON)
	var resp SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Cached)
}

func TestAnalyze(t *testing.T) {
	w := do(newTestServer(t, nil, nil), http.MethodPost, "/analyze", seasonJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Analysis.Men["2"].CertainPartner)
	assert.Equal(t, model.ID("4"), *resp.Analysis.Men["2"].CertainPartner)
	// Alex appears in no solution.
	require.Len(t, resp.Analysis.Contradictions, 2)
	assert.Equal(t, model.ID("1"), resp.Analysis.Contradictions[0].ContestantID)
}

func TestProbabilities(t *testing.T) {
	w := do(newTestServer(t, nil, nil), http.MethodPost, "/probabilities", seasonJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ProbabilitiesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Solutions)
	require.Len(t, resp.Probabilities, 2)
	assert.Equal(t, model.PairKey{Man: "2", Woman: "4"}, resp.Probabilities[0].Pair)
	assert.Equal(t, 100.0, resp.Probabilities[0].Probability)
	assert.Equal(t, 0.0, resp.Probabilities[1].Probability)
}

func TestSolve_InvalidJSON(t *testing.T) {
	w := do(newTestServer(t, nil, nil), http.MethodPost, "/solve", `{"candidates": [`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrCodeBadRequest, decodeError(t, w).Code)
}

func TestSolve_MalformedEvidence(t *testing.T) {
	body := `{
		"candidates": [{"id": "a", "gender": "Mann"}, {"id": "x", "gender": "Frau"}],
		"matchingNights": [{"lights": 1, "couples": [{"mann": "a", "frau": "ghost"}]}]
	}`
	w := do(newTestServer(t, nil, nil), http.MethodPost, "/solve", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	apiErr := decodeError(t, w)
	assert.Equal(t, ErrCodeMalformedEvidence, apiErr.Code)
	assert.Equal(t, string(solver.KindUnknownContestant), apiErr.Details)
}

func TestSolve_TooManyAssignments(t *testing.T) {
	r := newTestServer(t, nil, solver.New(solver.WithMaxAssignments(1)))
	w := do(r, http.MethodPost, "/solve", `{
		"candidates": [
			{"id": "a", "gender": "Mann"}, {"id": "b", "gender": "Mann"},
			{"id": "x", "gender": "Frau"}, {"id": "y", "gender": "Frau"}
		],
		"matchingNights": [{"lights": 1, "couples": [{"mann": "a", "frau": "x"}, {"mann": "b", "frau": "y"}]}]
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, ErrCodeTooManyPairings, decodeError(t, w).Code)
}

func TestStoredSeason(t *testing.T) {
	store := &memoryStore{seasons: map[model.ID]*model.Season{}}
	r := newTestServer(t, store, nil)

	w := do(r, http.MethodPost, "/seasons", seasonJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":"1"}`, w.Body.String())

	w = do(r, http.MethodGet, "/seasons/1/solve", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/seasons/1/analysis", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/seasons/99/solve", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrCodeNotFound, decodeError(t, w).Code)
}

func TestStoredSeason_NoStore(t *testing.T) {
	r := newTestServer(t, nil, nil)

	w := do(r, http.MethodGet, "/seasons/1/solve", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, ErrCodeStoreUnavailable, decodeError(t, w).Code)

	w = do(r, http.MethodPost, "/seasons", seasonJSON)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestServer(t, nil, nil)
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/solve", seasonJSON).Code)

	w := do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "matchbox_solve_total")
}
