package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"importsvc/database"
	"importsvc/domain/contracts"
	"importsvc/domain/jobs"
)

// SQLItemRepository implements contracts.ItemRepository. Item payloads are
// stored as raw JSON text exactly as fetched from the catalog.
type SQLItemRepository struct {
	*BaseRepository
}

// NewSQLItemRepository creates a new imported-item repository.
func NewSQLItemRepository(db *database.Database) contracts.ItemRepository {
	return &SQLItemRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// CreateItem persists a single imported record. Each call is its own write
// so progress counts advance as the import runs.
func (r *SQLItemRepository) CreateItem(ctx context.Context, jobID int64, source jobs.Source, remoteID int64, payload json.RawMessage) (*jobs.ImportedItem, error) {
	now := time.Now().UTC()

	res, err := r.WriteDB().ExecContext(ctx, `
		INSERT INTO imported_items (job_id, source, remote_id, payload, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		jobID, string(source), remoteID, string(payload), string(jobs.ItemStatusSuccess), now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read item id: %w", err)
	}

	return &jobs.ImportedItem{
		ID:        id,
		JobID:     jobID,
		Source:    source,
		RemoteID:  remoteID,
		Payload:   payload,
		Status:    jobs.ItemStatusSuccess,
		CreatedAt: now,
	}, nil
}

// CountItems counts a job's items for one source.
func (r *SQLItemRepository) CountItems(ctx context.Context, jobID int64, source jobs.Source) (int64, error) {
	var count int64
	err := r.ReadDB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM imported_items WHERE job_id = ? AND source = ?`,
		jobID, string(source),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// CountItemsByJob counts all items belonging to a job.
func (r *SQLItemRepository) CountItemsByJob(ctx context.Context, jobID int64) (int64, error) {
	var count int64
	err := r.ReadDB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM imported_items WHERE job_id = ?`, jobID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count job items: %w", err)
	}
	return count, nil
}

// CountItemsBySourceForOwner counts items of one source across all of an
// owner's jobs.
func (r *SQLItemRepository) CountItemsBySourceForOwner(ctx context.Context, ownerID int64, source jobs.Source) (int64, error) {
	var count int64
	err := r.ReadDB().QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM imported_items i
		JOIN import_jobs j ON j.id = i.job_id
		WHERE j.user_id = ? AND i.source = ?`,
		ownerID, string(source),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count owner items: %w", err)
	}
	return count, nil
}

// RecentItems returns the most recently imported items across all of an
// owner's jobs, newest first.
func (r *SQLItemRepository) RecentItems(ctx context.Context, ownerID int64, limit int) ([]*jobs.ImportedItem, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > contracts.MaxListLimit {
		limit = contracts.MaxListLimit
	}

	rows, err := r.ReadDB().QueryContext(ctx, `
		SELECT i.id, i.job_id, i.source, i.remote_id, i.payload, i.status, i.created_at
		FROM imported_items i
		JOIN import_jobs j ON j.id = i.job_id
		WHERE j.user_id = ?
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT ?`,
		ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent items: %w", err)
	}
	defer rows.Close()

	var result []*jobs.ImportedItem
	for rows.Next() {
		var (
			item    jobs.ImportedItem
			source  string
			payload string
			status  string
		)
		if err := rows.Scan(&item.ID, &item.JobID, &source, &item.RemoteID, &payload, &status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Source = jobs.Source(source)
		item.Payload = json.RawMessage(payload)
		item.Status = jobs.ItemStatus(status)
		result = append(result, &item)
	}

	return result, rows.Err()
}

// DeleteItems removes every item belonging to a job and reports how many
// rows were removed. Used to roll back a failed import.
func (r *SQLItemRepository) DeleteItems(ctx context.Context, jobID int64) (int64, error) {
	res, err := r.WriteDB().ExecContext(ctx, `DELETE FROM imported_items WHERE job_id = ?`, jobID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete job items: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted row count: %w", err)
	}
	return deleted, nil
}
