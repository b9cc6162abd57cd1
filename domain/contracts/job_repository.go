package contracts

import (
	"context"

	"importsvc/domain/jobs"
)

// MaxListLimit bounds the page size for job listings.
const MaxListLimit = 100

// JobRepository defines durable operations for import job records.
type JobRepository interface {
	// CreateJob persists a new job with status Pending and returns it with
	// its assigned identity and timestamps.
	CreateJob(ctx context.Context, ownerID int64, sources []jobs.Source, credentials jobs.Credentials) (*jobs.Job, error)

	// GetJob retrieves a single job by ID. Returns nil without error when the
	// job does not exist.
	GetJob(ctx context.Context, jobID int64) (*jobs.Job, error)

	// ListJobs retrieves an owner's jobs, newest-created first. offset must be
	// >= 0 and limit is clamped to [1, MaxListLimit].
	ListJobs(ctx context.Context, ownerID int64, offset, limit int) ([]*jobs.Job, error)

	// UpdateStatus sets the job status and optional error text and bumps
	// updated_at. It is a no-op when the job no longer exists.
	UpdateStatus(ctx context.Context, jobID int64, status jobs.JobStatus, errorMessage string) error

	// CountJobs and CountJobsByStatus count an owner's jobs.
	CountJobs(ctx context.Context, ownerID int64) (int64, error)
	CountJobsByStatus(ctx context.Context, ownerID int64, status jobs.JobStatus) (int64, error)

	// DeleteJob removes a job and, via explicit cascade, all of its items.
	DeleteJob(ctx context.Context, jobID int64) error
}
