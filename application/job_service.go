package application

import (
	"context"
	"fmt"

	"importsvc/domain/contracts"
	"importsvc/domain/jobs"
	"importsvc/logging"
)

// JobStarter launches a job's single background run. Implemented by
// ImportRunner; handlers depend on this interface so tests can assert the
// handoff without running real imports.
type JobStarter interface {
	Start(jobID int64)
}

// JobService coordinates import job operations for the API layer. All reads
// are scoped to the requesting owner.
type JobService interface {
	// CreateJob validates the request and persists a Pending job. It does
	// not launch the run; that is the caller's responsibility. Returns
	// ErrInvalidSource or ErrMissingCredentials on validation failure.
	CreateJob(ctx context.Context, ownerID int64, sources []string, credentials jobs.Credentials) (*jobs.Job, error)

	// GetJob retrieves one job. Returns ErrNotFound when the job does not
	// exist and ErrForbidden when it belongs to another owner.
	GetJob(ctx context.Context, ownerID, jobID int64) (*jobs.Job, error)

	// ListJobs retrieves the owner's jobs, newest first.
	ListJobs(ctx context.Context, ownerID int64, skip, limit int) ([]*jobs.Job, error)

	// ProgressFor derives the per-source progress view for a job.
	ProgressFor(ctx context.Context, job *jobs.Job) (map[jobs.Source]jobs.SourceProgress, error)
}

type jobService struct {
	jobRepo  contracts.JobRepository
	itemRepo contracts.ItemRepository
	targets  jobs.SourceTargets
	logger   *logging.Logger
}

// NewJobService creates the job service.
func NewJobService(
	jobRepo contracts.JobRepository,
	itemRepo contracts.ItemRepository,
	targets jobs.SourceTargets,
	logger *logging.Logger,
) JobService {
	return &jobService{
		jobRepo:  jobRepo,
		itemRepo: itemRepo,
		targets:  targets,
		logger:   logger.WithComponent("job_service"),
	}
}

func (s *jobService) CreateJob(ctx context.Context, ownerID int64, sources []string, credentials jobs.Credentials) (*jobs.Job, error) {
	selected, err := validateSources(sources)
	if err != nil {
		return nil, err
	}
	if err := validateCredentials(selected, credentials); err != nil {
		return nil, err
	}

	job, err := s.jobRepo.CreateJob(ctx, ownerID, selected, credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Import("Job created", job.ID, "owner_id", ownerID, "sources", selected)

	return job, nil
}

func (s *jobService) GetJob(ctx context.Context, ownerID, jobID int64) (*jobs.Job, error) {
	job, err := s.jobRepo.GetJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job == nil {
		return nil, contracts.ErrNotFound
	}
	if job.OwnerID != ownerID {
		return nil, contracts.ErrForbidden
	}
	return job, nil
}

func (s *jobService) ListJobs(ctx context.Context, ownerID int64, skip, limit int) ([]*jobs.Job, error) {
	listed, err := s.jobRepo.ListJobs(ctx, ownerID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return listed, nil
}

func (s *jobService) ProgressFor(ctx context.Context, job *jobs.Job) (map[jobs.Source]jobs.SourceProgress, error) {
	completed := make(map[jobs.Source]int64, len(job.Sources))
	for _, source := range job.Sources {
		count, err := s.itemRepo.CountItems(ctx, job.ID, source)
		if err != nil {
			return nil, fmt.Errorf("failed to count items for %s: %w", source, err)
		}
		completed[source] = count
	}
	return jobs.ComputeProgress(job.Status, job.Sources, completed, s.targets), nil
}

// validateSources checks the fixed vocabulary, rejects empty selections, and
// rejects a source selected twice in one request.
func validateSources(raw []string) ([]jobs.Source, error) {
	if len(raw) == 0 {
		return nil, contracts.ErrInvalidSource
	}

	seen := make(map[jobs.Source]bool, len(raw))
	selected := make([]jobs.Source, 0, len(raw))
	for _, name := range raw {
		source := jobs.Source(name)
		if !source.IsValid() {
			return nil, contracts.ErrInvalidSource
		}
		if seen[source] {
			return nil, contracts.ErrInvalidSource
		}
		seen[source] = true
		selected = append(selected, source)
	}
	return selected, nil
}

// validateCredentials requires a non-empty credential bundle for every
// selected source. The values are stored with the job but never forwarded:
// the public catalog needs no authentication, so they are held for a future
// authenticated upstream.
func validateCredentials(selected []jobs.Source, credentials jobs.Credentials) error {
	if len(credentials) == 0 {
		return contracts.ErrMissingCredentials
	}
	for _, source := range selected {
		if len(credentials[source]) == 0 {
			return contracts.ErrMissingCredentials
		}
	}
	return nil
}
