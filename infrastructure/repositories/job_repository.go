package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"importsvc/database"
	"importsvc/domain/contracts"
	"importsvc/domain/jobs"
)

// SQLJobRepository implements contracts.JobRepository with read/write
// database separation. The selected sources and credentials are stored as
// JSON text columns.
type SQLJobRepository struct {
	*BaseRepository
}

// NewSQLJobRepository creates a new job repository.
func NewSQLJobRepository(db *database.Database) contracts.JobRepository {
	return &SQLJobRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// CreateJob persists a new job with status Pending.
func (r *SQLJobRepository) CreateJob(ctx context.Context, ownerID int64, sources []jobs.Source, credentials jobs.Credentials) (*jobs.Job, error) {
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sources: %w", err)
	}

	credentialsJSON, err := json.Marshal(credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	now := time.Now().UTC()

	res, err := r.WriteDB().ExecContext(ctx, `
		INSERT INTO import_jobs (user_id, status, selected_sources, credentials, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ownerID, string(jobs.JobStatusPending), string(sourcesJSON), string(credentialsJSON), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read job id: %w", err)
	}

	return &jobs.Job{
		ID:          id,
		OwnerID:     ownerID,
		Sources:     sources,
		Credentials: credentials,
		Status:      jobs.JobStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetJob retrieves a single job by ID. Returns nil when the job does not exist.
func (r *SQLJobRepository) GetJob(ctx context.Context, jobID int64) (*jobs.Job, error) {
	row := r.ReadDB().QueryRowContext(ctx, `
		SELECT id, user_id, status, selected_sources, credentials, error_message, created_at, updated_at
		FROM import_jobs
		WHERE id = ?`,
		jobID,
	)

	job, err := r.scanJob(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return job, nil
}

// ListJobs retrieves an owner's jobs, newest-created first.
func (r *SQLJobRepository) ListJobs(ctx context.Context, ownerID int64, offset, limit int) ([]*jobs.Job, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 1
	}
	if limit > contracts.MaxListLimit {
		limit = contracts.MaxListLimit
	}

	rows, err := r.ReadDB().QueryContext(ctx, `
		SELECT id, user_id, status, selected_sources, credentials, error_message, created_at, updated_at
		FROM import_jobs
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var result []*jobs.Job
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, job)
	}

	return result, rows.Err()
}

// UpdateStatus sets the job status and optional error text and bumps
// updated_at. Calling it for a job that no longer exists is a no-op.
func (r *SQLJobRepository) UpdateStatus(ctx context.Context, jobID int64, status jobs.JobStatus, errorMessage string) error {
	_, err := r.WriteDB().ExecContext(ctx, `
		UPDATE import_jobs
		SET status = ?, error_message = ?, updated_at = ?
		WHERE id = ?`,
		string(status), r.ToNullString(errorMessage), time.Now().UTC(), jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return nil
}

// CountJobs counts all jobs for an owner.
func (r *SQLJobRepository) CountJobs(ctx context.Context, ownerID int64) (int64, error) {
	var count int64
	err := r.ReadDB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM import_jobs WHERE user_id = ?`, ownerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

// CountJobsByStatus counts an owner's jobs in a given status.
func (r *SQLJobRepository) CountJobsByStatus(ctx context.Context, ownerID int64, status jobs.JobStatus) (int64, error) {
	var count int64
	err := r.ReadDB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM import_jobs WHERE user_id = ? AND status = ?`, ownerID, string(status),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs by status: %w", err)
	}
	return count, nil
}

// DeleteJob removes a job and all of its items. The item delete is explicit
// rather than relying on the schema's cascade, so the ownership rule holds
// even with foreign keys disabled.
func (r *SQLJobRepository) DeleteJob(ctx context.Context, jobID int64) error {
	return r.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM imported_items WHERE job_id = ?`, jobID); err != nil {
			return fmt.Errorf("failed to delete job items: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM import_jobs WHERE id = ?`, jobID); err != nil {
			return fmt.Errorf("failed to delete job: %w", err)
		}
		return nil
	})
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLJobRepository) scanJob(row rowScanner) (*jobs.Job, error) {
	var (
		job             jobs.Job
		status          string
		sourcesJSON     string
		credentialsJSON sql.NullString
		errorMessage    sql.NullString
	)

	err := row.Scan(
		&job.ID,
		&job.OwnerID,
		&status,
		&sourcesJSON,
		&credentialsJSON,
		&errorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Status = jobs.JobStatus(status)
	job.ErrorMessage = r.FromNullString(errorMessage)

	if err := json.Unmarshal([]byte(sourcesJSON), &job.Sources); err != nil {
		return nil, fmt.Errorf("failed to decode sources for job %d: %w", job.ID, err)
	}

	if credentialsJSON.Valid && credentialsJSON.String != "" {
		if err := json.Unmarshal([]byte(credentialsJSON.String), &job.Credentials); err != nil {
			return nil, fmt.Errorf("failed to decode credentials for job %d: %w", job.ID, err)
		}
	}

	return &job, nil
}
