package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"importsvc/domain/contracts"
	"importsvc/domain/events"
	"importsvc/domain/jobs"
	"importsvc/infrastructure/config"
	"importsvc/logging"
)

// ErrSimulatedFailure is the synthetic failure injected into a fraction of
// runs to exercise the rollback path end to end.
var ErrSimulatedFailure = errors.New("simulated import failure")

// FailureDecider decides per run whether to inject the synthetic failure.
// Injectable so tests can force either outcome.
type FailureDecider interface {
	ShouldFail() bool
}

type randomFailureDecider struct {
	mu   sync.Mutex
	rate float64
	rng  *rand.Rand
}

// NewRandomFailureDecider returns a decider that fails a run with the given
// probability (0.1 means one in ten).
func NewRandomFailureDecider(rate float64) FailureDecider {
	return &randomFailureDecider{
		rate: rate,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (d *randomFailureDecider) ShouldFail() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Float64() < d.rate
}

// ImportRunner executes import jobs in the background. Each created job gets
// exactly one detached run: the run fetches the selected sources from the
// catalog, persists items one at a time so progress is observable, and drives
// the job record to a terminal status. There is no cancellation path; a
// started run always reaches Completed or Failed on its own.
type ImportRunner struct {
	jobRepo   contracts.JobRepository
	itemRepo  contracts.ItemRepository
	catalog   contracts.CatalogClient
	publisher events.JobEventPublisher
	decider   FailureDecider
	targets   jobs.SourceTargets
	lifecycle jobs.JobLifecycle
	cfg       *config.ImportConfig
	logger    *logging.Logger

	wg sync.WaitGroup
}

// NewImportRunner creates an import runner.
func NewImportRunner(
	jobRepo contracts.JobRepository,
	itemRepo contracts.ItemRepository,
	catalog contracts.CatalogClient,
	publisher events.JobEventPublisher,
	decider FailureDecider,
	targets jobs.SourceTargets,
	cfg *config.ImportConfig,
	logger *logging.Logger,
) *ImportRunner {
	return &ImportRunner{
		jobRepo:   jobRepo,
		itemRepo:  itemRepo,
		catalog:   catalog,
		publisher: publisher,
		decider:   decider,
		targets:   targets,
		cfg:       cfg,
		logger:    logger.WithComponent("import_runner"),
	}
}

// Start launches the job's single run on a detached goroutine and returns
// immediately. The run uses its own background context so it is not tied to
// the HTTP request that triggered it.
func (r *ImportRunner) Start(jobID int64) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.Run(context.Background(), jobID)
	}()
}

// Wait blocks until all in-flight runs have finished. Used during shutdown.
func (r *ImportRunner) Wait() {
	r.wg.Wait()
}

// Run executes one import run synchronously. A missing job is logged and
// skipped; everything else ends with the job in a terminal status.
func (r *ImportRunner) Run(ctx context.Context, jobID int64) {
	job, err := r.jobRepo.GetJob(ctx, jobID)
	if err != nil {
		r.logger.ImportError("Failed to load job for run", err, jobID)
		return
	}
	if job == nil {
		r.logger.Import("Job vanished before run started", jobID)
		return
	}

	if err := r.lifecycle.Start(job); err != nil {
		r.logger.ImportError("Refusing to run job", err, jobID, "status", job.Status)
		return
	}
	if err := r.jobRepo.UpdateStatus(ctx, job.ID, jobs.JobStatusRunning, ""); err != nil {
		r.logger.ImportError("Failed to mark job running", err, jobID)
		return
	}

	r.logger.Import("Import run started", jobID, "sources", job.Sources)
	started := time.Now()

	if err := r.execute(ctx, job); err != nil {
		r.fail(ctx, job, err)
		return
	}

	if err := r.jobRepo.UpdateStatus(ctx, job.ID, jobs.JobStatusCompleted, ""); err != nil {
		r.logger.ImportError("Failed to mark job completed", err, jobID)
		return
	}
	job.Status = jobs.JobStatusCompleted

	r.logger.Performance("import_run", time.Since(started), "job_id", jobID)
	r.logger.Import("Import run completed", jobID)

	r.publisher.PublishJobCompleted(events.JobCompletedEvent{
		Job:       job,
		Timestamp: time.Now().UTC(),
	})
}

// execute performs the fetch-and-store work for every selected source, in the
// order the sources were selected at creation.
func (r *ImportRunner) execute(ctx context.Context, job *jobs.Job) error {
	failThisRun := r.decider.ShouldFail()

	// The startup delay keeps the job observable in Running state before any
	// items land. It applies to doomed runs too, so a synthetic failure looks
	// like a real mid-flight one.
	if err := r.sleep(ctx, r.cfg.StartupDelay); err != nil {
		return err
	}

	if failThisRun {
		return ErrSimulatedFailure
	}

	for _, source := range job.Sources {
		if err := r.importSource(ctx, job, source); err != nil {
			return err
		}
	}
	return nil
}

func (r *ImportRunner) importSource(ctx context.Context, job *jobs.Job, source jobs.Source) error {
	target := r.targets.For(source)

	var (
		records []contracts.CatalogRecord
		err     error
	)
	switch source {
	case jobs.SourceProducts:
		records, err = r.catalog.FetchProducts(ctx, target)
	case jobs.SourceCarts:
		records, err = r.catalog.FetchCarts(ctx, target)
	default:
		return fmt.Errorf("unknown source %q", source)
	}
	if err != nil {
		return fmt.Errorf("fetching %s: %w", source, err)
	}

	for _, record := range records {
		if _, err := r.itemRepo.CreateItem(ctx, job.ID, source, record.RemoteID, record.Payload); err != nil {
			return fmt.Errorf("storing %s item %d: %w", source, record.RemoteID, err)
		}
		if err := r.sleep(ctx, r.cfg.PerItemDelay); err != nil {
			return err
		}
	}

	r.logger.Import("Source import finished", job.ID, "source", source, "items", len(records))
	return nil
}

// fail rolls back every item the run stored, records the failure on the job,
// and publishes the failure event. Rollback before status update: a job is
// never visible as Failed while partial items remain.
func (r *ImportRunner) fail(ctx context.Context, job *jobs.Job, runErr error) {
	r.logger.ImportError("Import run failed, rolling back", runErr, job.ID)

	rolledBack, err := r.itemRepo.DeleteItems(ctx, job.ID)
	if err != nil {
		r.logger.ImportError("Rollback failed", err, job.ID)
	}

	if err := r.jobRepo.UpdateStatus(ctx, job.ID, jobs.JobStatusFailed, runErr.Error()); err != nil {
		r.logger.ImportError("Failed to mark job failed", err, job.ID)
		return
	}
	job.Status = jobs.JobStatusFailed
	job.ErrorMessage = runErr.Error()

	r.publisher.PublishJobFailed(events.JobFailedEvent{
		Job:             job,
		Error:           runErr.Error(),
		ItemsRolledBack: rolledBack,
		Timestamp:       time.Now().UTC(),
	})
}

// sleep waits for d unless the context ends first.
func (r *ImportRunner) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
