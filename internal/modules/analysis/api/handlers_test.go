package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/equity-advisor/internal/database"
	"github.com/finsight/equity-advisor/internal/domain"
	"github.com/finsight/equity-advisor/internal/modules/analysis"
	"github.com/finsight/equity-advisor/internal/modules/history"
	"github.com/finsight/equity-advisor/internal/modules/recommendation"
)

// MockFetcher stands in for the market-data client.
type MockFetcher struct {
	snapshot   *domain.FinancialSnapshot
	shouldFail bool
}

func (m *MockFetcher) GetSnapshot(symbol string) (*domain.FinancialSnapshot, error) {
	if m.shouldFail {
		return nil, fmt.Errorf("mock fetch error")
	}
	return m.snapshot, nil
}

func floatPtr(f float64) *float64 { return &f }

func testSnapshot() *domain.FinancialSnapshot {
	return &domain.FinancialSnapshot{
		Symbol:           "TEST",
		CurrentPrice:     100,
		EarningsPerShare: floatPtr(5.0),
		ReturnOnEquity:   floatPtr(0.20),
		DebtToEquity:     floatPtr(0.3),
	}
}

func setupHandlers(t *testing.T, fetcher SnapshotFetcher) *Handlers {
	t.Helper()

	db, err := database.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())

	return NewHandlers(Config{
		Service:     analysis.NewService(zerolog.Nop()),
		Repo:        history.NewRepository(db, zerolog.Nop()),
		Fetcher:     fetcher,
		Defaults:    domain.DefaultScoringConfig(),
		DefaultTier: recommendation.TierBasic,
		Log:         zerolog.Nop(),
	})
}

func TestHandleAnalyze_WithSnapshot(t *testing.T) {
	handlers := setupHandlers(t, nil)

	body, err := json.Marshal(AnalyzeRequest{Snapshot: testSnapshot()})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/analysis/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handlers.HandleAnalyze(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp AnalyzeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Report)
	assert.False(t, resp.Cached)
	assert.Equal(t, "TEST", resp.Report.Symbol)
	assert.NotEmpty(t, resp.Report.Recommendation.Factors)
}

func TestHandleAnalyze_CacheHit(t *testing.T) {
	handlers := setupHandlers(t, nil)

	body, err := json.Marshal(AnalyzeRequest{Snapshot: testSnapshot()})
	require.NoError(t, err)

	// First call computes and stores
	req := httptest.NewRequest("POST", "/api/analysis/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handlers.HandleAnalyze(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Second identical call is served from the cache
	req = httptest.NewRequest("POST", "/api/analysis/", bytes.NewReader(body))
	w = httptest.NewRecorder()
	handlers.HandleAnalyze(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Cached)
	assert.Equal(t, "TEST", resp.Report.Symbol)
}

func TestHandleAnalyze_NoCacheFlag(t *testing.T) {
	handlers := setupHandlers(t, nil)

	body, err := json.Marshal(AnalyzeRequest{Snapshot: testSnapshot(), NoCache: true})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/api/analysis/", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handlers.HandleAnalyze(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp AnalyzeResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.False(t, resp.Cached)
	}
}

func TestHandleAnalyze_SymbolViaFetcher(t *testing.T) {
	handlers := setupHandlers(t, &MockFetcher{snapshot: testSnapshot()})

	body, err := json.Marshal(AnalyzeRequest{Symbol: "TEST"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/analysis/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handlers.HandleAnalyze(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "TEST", resp.Report.Symbol)
}

func TestHandleAnalyze_FetchFailure(t *testing.T) {
	handlers := setupHandlers(t, &MockFetcher{shouldFail: true})

	body, err := json.Marshal(AnalyzeRequest{Symbol: "TEST"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/analysis/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handlers.HandleAnalyze(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandleAnalyze_MissingInput(t *testing.T) {
	handlers := setupHandlers(t, nil)

	req := httptest.NewRequest("POST", "/api/analysis/", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	handlers.HandleAnalyze(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAnalyze_InvalidBody(t *testing.T) {
	handlers := setupHandlers(t, nil)

	req := httptest.NewRequest("POST", "/api/analysis/", bytes.NewReader([]byte(`{broken`)))
	w := httptest.NewRecorder()
	handlers.HandleAnalyze(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAnalyze_TierSelection(t *testing.T) {
	handlers := setupHandlers(t, nil)

	body, err := json.Marshal(AnalyzeRequest{Snapshot: testSnapshot(), Tier: "ultimate"})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/analysis/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handlers.HandleAnalyze(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, recommendation.TierUltimate, resp.Report.Recommendation.Tier)
}

func TestHandleHistory(t *testing.T) {
	handlers := setupHandlers(t, nil)

	// Populate the cache through the analyze endpoint
	body, err := json.Marshal(AnalyzeRequest{Snapshot: testSnapshot()})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/analysis/", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handlers.HandleAnalyze(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	router := chi.NewRouter()
	router.Get("/api/analysis/history/{symbol}", handlers.HandleHistory)

	req = httptest.NewRequest("GET", "/api/analysis/history/TEST", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Entries []history.Entry `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "TEST", resp.Entries[0].Symbol)
}

func TestHandleHistory_Empty(t *testing.T) {
	handlers := setupHandlers(t, nil)

	router := chi.NewRouter()
	router.Get("/api/analysis/history/{symbol}", handlers.HandleHistory)

	req := httptest.NewRequest("GET", "/api/analysis/history/NONE", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
