package history

import (
	"testing"
	"time"

	"github.com/finsight/equity-advisor/internal/database"
	"github.com/finsight/equity-advisor/internal/modules/analysis"
	"github.com/finsight/equity-advisor/internal/modules/recommendation"
	"github.com/finsight/equity-advisor/pkg/logger"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.NewInMemory()
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return NewRepository(db, logger.New(logger.Config{Level: "error", Pretty: false}))
}

func testReport(symbol string) *analysis.Report {
	return &analysis.Report{
		Symbol: symbol,
		Recommendation: recommendation.Result{
			Label:      recommendation.Buy,
			Score:      2,
			Confidence: 0.4,
			Tier:       recommendation.TierBasic,
			Factors: []recommendation.FactorContribution{
				{Name: "pe_ratio", ScoreDelta: 1, Rationale: "Reasonable P/E ratio: 15.0"},
			},
		},
	}
}

func TestSaveAndFind(t *testing.T) {
	repo := newTestRepository(t)

	report := testReport("AAPL")
	if err := repo.Save("fp-1", report); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	found, err := repo.Find("fp-1")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if found == nil {
		t.Fatal("Expected a cached report, got nil")
	}
	if found.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", found.Symbol)
	}
	if found.Recommendation.Label != recommendation.Buy {
		t.Errorf("Label = %v, want BUY", found.Recommendation.Label)
	}
	if len(found.Recommendation.Factors) != 1 {
		t.Errorf("Factors = %d, want 1", len(found.Recommendation.Factors))
	}
}

func TestFindMissing(t *testing.T) {
	repo := newTestRepository(t)

	found, err := repo.Find("absent")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if found != nil {
		t.Error("Expected nil for an unknown fingerprint")
	}
}

func TestSaveSameFingerprintTwice(t *testing.T) {
	repo := newTestRepository(t)

	report := testReport("MSFT")
	if err := repo.Save("fp-dup", report); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if err := repo.Save("fp-dup", report); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	entries, err := repo.ListBySymbol("MSFT", 10)
	if err != nil {
		t.Fatalf("ListBySymbol failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Entries = %d, want a single row per fingerprint", len(entries))
	}
}

func TestListBySymbol(t *testing.T) {
	repo := newTestRepository(t)

	if err := repo.Save("fp-a", testReport("GOOG")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.Save("fp-b", testReport("GOOG")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.Save("fp-c", testReport("AMZN")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := repo.ListBySymbol("GOOG", 10)
	if err != nil {
		t.Fatalf("ListBySymbol failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Symbol != "GOOG" {
			t.Errorf("Symbol = %q, want GOOG", e.Symbol)
		}
		if e.Report == nil {
			t.Error("Expected a decoded report on each entry")
		}
	}

	limited, err := repo.ListBySymbol("GOOG", 1)
	if err != nil {
		t.Fatalf("ListBySymbol failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Entries = %d, want the limit honored", len(limited))
	}
}

func TestPruneOlderThan(t *testing.T) {
	repo := newTestRepository(t)

	if err := repo.Save("fp-old", testReport("IBM")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Run("Past cutoff keeps fresh rows", func(t *testing.T) {
		deleted, err := repo.PruneOlderThan(time.Now().Add(-24 * time.Hour))
		if err != nil {
			t.Fatalf("Prune failed: %v", err)
		}
		if deleted != 0 {
			t.Errorf("Deleted = %d, want 0", deleted)
		}
	})

	t.Run("Future cutoff removes everything", func(t *testing.T) {
		deleted, err := repo.PruneOlderThan(time.Now().Add(24 * time.Hour))
		if err != nil {
			t.Fatalf("Prune failed: %v", err)
		}
		if deleted != 1 {
			t.Errorf("Deleted = %d, want 1", deleted)
		}

		found, err := repo.Find("fp-old")
		if err != nil {
			t.Fatalf("Find failed: %v", err)
		}
		if found != nil {
			t.Error("Expected the pruned row to be gone")
		}
	})
}

func TestCleanupJob(t *testing.T) {
	repo := newTestRepository(t)

	if err := repo.Save("fp-job", testReport("NVDA")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	job := NewCleanupJob(repo, 30, logger.New(logger.Config{Level: "error", Pretty: false}))
	if job.Name() != "history_cleanup" {
		t.Errorf("Name = %q, want history_cleanup", job.Name())
	}

	if err := job.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The row is fresh, a 30-day retention must keep it
	found, err := repo.Find("fp-job")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if found == nil {
		t.Error("Expected the fresh row to survive cleanup")
	}
}
