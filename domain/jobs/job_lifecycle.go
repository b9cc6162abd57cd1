package jobs

import (
	"fmt"
	"time"
)

// JobLifecycle manages job state transitions and business rules. A job moves
// Pending -> Running -> Completed|Failed; terminal states admit no further
// transitions.
type JobLifecycle struct{}

// Start transitions a job to running status with validation.
func (jl *JobLifecycle) Start(job *Job) error {
	if job.Status != JobStatusPending {
		return fmt.Errorf("cannot start job in status: %s", job.Status)
	}

	job.Status = JobStatusRunning
	job.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete transitions a running job to completed status.
func (jl *JobLifecycle) Complete(job *Job) error {
	if job.Status != JobStatusRunning {
		return fmt.Errorf("cannot complete job in status: %s", job.Status)
	}

	job.Status = JobStatusCompleted
	job.UpdatedAt = time.Now().UTC()
	return nil
}

// Fail transitions an active job to failed status with error details.
func (jl *JobLifecycle) Fail(job *Job, errorMsg string) error {
	if !job.IsActive() {
		return fmt.Errorf("cannot fail job in status: %s", job.Status)
	}

	job.Status = JobStatusFailed
	job.ErrorMessage = errorMsg
	job.UpdatedAt = time.Now().UTC()
	return nil
}
