package classificationqueue

import (
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
)

// QueueName is the dedicated River queue for classification jobs. Bounding
// its workers bounds how many recomputes run concurrently.
const QueueName = "classification"

// RecomputeJobArgs is a request to rebuild the classification of one scope.
// Args are the whole payload on purpose: uniqueness by args means one queued
// job per scope no matter how many change events fired.
type RecomputeJobArgs struct {
	Scope classificationdomain.Scope `json:"scope"`
}

// Kind returns the job type identifier for River.
func (RecomputeJobArgs) Kind() string { return "classification_recompute" }

// InsertOpts de-duplicates queued jobs per scope. Running is excluded from
// the unique states so a change arriving mid-recompute still gets exactly one
// follow-up run instead of being swallowed.
func (RecomputeJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       QueueName,
		MaxAttempts: 5,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}

// JobInfo describes a queued or running job, for the debug surface.
type JobInfo struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	Scope       string `json:"scope"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduled_at"`
	CreatedAt   string `json:"created_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
