package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/finsight/equity-advisor/internal/domain"
	"github.com/finsight/equity-advisor/internal/modules/analysis"
	"github.com/finsight/equity-advisor/internal/modules/history"
	"github.com/finsight/equity-advisor/internal/modules/recommendation"
)

// SnapshotFetcher supplies normalized snapshots for a ticker symbol.
// It is the external data-collaborator boundary: fetch failures surface
// here, before the analysis core ever runs.
type SnapshotFetcher interface {
	GetSnapshot(symbol string) (*domain.FinancialSnapshot, error)
}

// Handlers provides HTTP handlers for the analysis module.
type Handlers struct {
	service     *analysis.Service
	repo        *history.Repository
	fetcher     SnapshotFetcher
	defaults    domain.ScoringConfig
	defaultTier recommendation.Tier
	log         zerolog.Logger
}

// Config bundles the handler dependencies.
type Config struct {
	Service     *analysis.Service
	Repo        *history.Repository
	Fetcher     SnapshotFetcher
	Defaults    domain.ScoringConfig
	DefaultTier recommendation.Tier
	Log         zerolog.Logger
}

// NewHandlers creates a new analysis handlers instance.
func NewHandlers(cfg Config) *Handlers {
	return &Handlers{
		service:     cfg.Service,
		repo:        cfg.Repo,
		fetcher:     cfg.Fetcher,
		defaults:    cfg.Defaults,
		defaultTier: cfg.DefaultTier,
		log:         cfg.Log.With().Str("module", "analysis_handlers").Logger(),
	}
}

// AnalyzeRequest is the request body for POST /api/analysis.
// Either a full snapshot or a symbol (resolved through the fetcher) must
// be supplied. Config overrides and external factors are optional.
type AnalyzeRequest struct {
	Symbol   string                         `json:"symbol,omitempty"`
	Snapshot *domain.FinancialSnapshot      `json:"snapshot,omitempty"`
	Tier     string                         `json:"tier,omitempty"`
	Config   *domain.ScoringConfig          `json:"config,omitempty"`
	Factors  recommendation.ExternalFactors `json:"factors,omitempty"`
	NoCache  bool                           `json:"no_cache,omitempty"`
}

// AnalyzeResponse is the response body for POST /api/analysis.
type AnalyzeResponse struct {
	Report *analysis.Report `json:"report"`
	Cached bool             `json:"cached"`
}

// HandleAnalyze handles POST /api/analysis.
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode analyze request")
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	snap := req.Snapshot
	if snap == nil {
		if req.Symbol == "" {
			h.writeError(w, "Either snapshot or symbol is required", http.StatusBadRequest)
			return
		}
		if h.fetcher == nil {
			h.writeError(w, "No data source configured, supply a snapshot", http.StatusBadRequest)
			return
		}

		fetched, err := h.fetcher.GetSnapshot(req.Symbol)
		if err != nil {
			h.log.Error().Err(err).Str("symbol", req.Symbol).Msg("Snapshot fetch failed")
			h.writeError(w, "Failed to fetch data for symbol", http.StatusBadGateway)
			return
		}
		snap = fetched
	}

	cfg := h.defaults
	if req.Config != nil {
		cfg = *req.Config
	}

	tier := h.defaultTier
	if req.Tier != "" {
		tier = recommendation.ParseTier(req.Tier)
	}

	fingerprint := analysis.Fingerprint(snap, cfg, tier, req.Factors)

	if h.repo != nil && !req.NoCache {
		if cached, err := h.repo.Find(fingerprint); err != nil {
			h.log.Warn().Err(err).Msg("History lookup failed")
		} else if cached != nil {
			h.writeJSON(w, AnalyzeResponse{Report: cached, Cached: true}, http.StatusOK)
			return
		}
	}

	report := h.service.Analyze(snap, cfg, tier, req.Factors)

	if h.repo != nil {
		if err := h.repo.Save(fingerprint, report); err != nil {
			h.log.Warn().Err(err).Msg("Failed to save report to history")
		}
	}

	h.writeJSON(w, AnalyzeResponse{Report: report}, http.StatusOK)
}

// HandleHistory handles GET /api/analysis/history/{symbol}.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		h.writeError(w, "History is not enabled", http.StatusNotFound)
		return
	}

	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		h.writeError(w, "Symbol is required", http.StatusBadRequest)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.repo.ListBySymbol(symbol, limit)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to list history")
		h.writeError(w, "Failed to list history", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{"entries": entries}, http.StatusOK)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, payload interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, map[string]string{"error": message}, status)
}
