package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/finsight/equity-advisor/internal/database"
	"github.com/finsight/equity-advisor/internal/modules/analysis"
	"github.com/rs/zerolog"
)

// Entry is one stored analysis report.
type Entry struct {
	ID          int64            `json:"id"`
	Fingerprint string           `json:"fingerprint"`
	Symbol      string           `json:"symbol"`
	Tier        string           `json:"tier"`
	Report      *analysis.Report `json:"report"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Repository persists analysis reports keyed by their fingerprint.
// Reports are immutable, so a fingerprint hit can be served verbatim
// instead of recomputing the analysis.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates a new history repository.
func NewRepository(db *database.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("module", "history").Logger(),
	}
}

// Save stores a report under its fingerprint. Saving the same fingerprint
// again refreshes the timestamp and keeps the stored report unchanged in
// content (identical inputs produce identical reports).
func (r *Repository) Save(fingerprint string, report *analysis.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO analysis_history (fingerprint, symbol, tier, report, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (fingerprint) DO UPDATE SET created_at = excluded.created_at`,
		fingerprint, report.Symbol, string(report.Recommendation.Tier), string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// Find returns the cached report for a fingerprint, or nil when absent.
func (r *Repository) Find(fingerprint string) (*analysis.Report, error) {
	var payload string
	err := r.db.QueryRow(
		`SELECT report FROM analysis_history WHERE fingerprint = ?`,
		fingerprint,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up report: %w", err)
	}

	var report analysis.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("failed to decode stored report: %w", err)
	}

	return &report, nil
}

// ListBySymbol returns up to limit stored entries for a symbol, newest first.
func (r *Repository) ListBySymbol(symbol string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT id, fingerprint, symbol, tier, report, created_at
		FROM analysis_history
		WHERE symbol = ?
		ORDER BY created_at DESC
		LIMIT ?`,
		symbol, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var payload string
		if err := rows.Scan(&entry.ID, &entry.Fingerprint, &entry.Symbol, &entry.Tier, &payload, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}

		var report analysis.Report
		if err := json.Unmarshal([]byte(payload), &report); err != nil {
			r.log.Warn().Err(err).Int64("id", entry.ID).Msg("Skipping undecodable history entry")
			continue
		}
		entry.Report = &report
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// PruneOlderThan removes entries created before the cutoff and returns
// the number deleted.
func (r *Repository) PruneOlderThan(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(
		`DELETE FROM analysis_history WHERE created_at < ?`,
		cutoff.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}

	return res.RowsAffected()
}
