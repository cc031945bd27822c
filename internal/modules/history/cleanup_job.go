package history

import (
	"time"

	"github.com/rs/zerolog"
)

// CleanupJob prunes stale cached reports on a schedule.
type CleanupJob struct {
	repo      *Repository
	retention time.Duration
	log       zerolog.Logger
}

// NewCleanupJob creates a cleanup job keeping entries for retentionDays.
func NewCleanupJob(repo *Repository, retentionDays int, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		repo:      repo,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		log:       log.With().Str("job", "history_cleanup").Logger(),
	}
}

// Name implements scheduler.Job.
func (j *CleanupJob) Name() string {
	return "history_cleanup"
}

// Run implements scheduler.Job.
func (j *CleanupJob) Run() error {
	cutoff := time.Now().Add(-j.retention)

	deleted, err := j.repo.PruneOlderThan(cutoff)
	if err != nil {
		return err
	}

	if deleted > 0 {
		j.log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("Pruned stale analysis history")
	}

	return nil
}
