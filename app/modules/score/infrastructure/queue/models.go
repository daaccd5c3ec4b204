package scorequeue

import "time"

// PrunePendingJob removes pending scores older than the configured TTL.
type PrunePendingJob struct {
	// TTL is captured when the job is enqueued so a config change only
	// affects jobs scheduled after it.
	TTL time.Duration `json:"ttl"`
}

// Kind returns the job type identifier for River
func (PrunePendingJob) Kind() string { return "prune_pending_scores" }
