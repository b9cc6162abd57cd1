package events

import (
	"time"

	"importsvc/domain/jobs"
)

// JobCompletedEvent represents an import job that has completed successfully.
type JobCompletedEvent struct {
	Job       *jobs.Job
	Timestamp time.Time
}

// JobFailedEvent represents an import job that has failed. Error carries the
// text recorded on the job record; ItemsRolledBack is the number of items
// removed by the compensating delete.
type JobFailedEvent struct {
	Job             *jobs.Job
	Error           string
	ItemsRolledBack int64
	Timestamp       time.Time
}
