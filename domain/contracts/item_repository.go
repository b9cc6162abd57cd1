package contracts

import (
	"context"
	"encoding/json"

	"importsvc/domain/jobs"
)

// ItemRepository defines durable operations for imported item records.
type ItemRepository interface {
	// CreateItem appends one imported item for a job. Each insert commits
	// individually so concurrent readers observe progress incrementally.
	CreateItem(ctx context.Context, jobID int64, source jobs.Source, remoteID int64, payload json.RawMessage) (*jobs.ImportedItem, error)

	// CountItems counts the items stored for a (job, source) pair.
	CountItems(ctx context.Context, jobID int64, source jobs.Source) (int64, error)

	// CountItemsByJob counts all items stored for a job across sources.
	CountItemsByJob(ctx context.Context, jobID int64) (int64, error)

	// CountItemsBySourceForOwner counts an owner's items for a source across
	// all of their jobs.
	CountItemsBySourceForOwner(ctx context.Context, ownerID int64, source jobs.Source) (int64, error)

	// RecentItems returns an owner's most recently created items across all
	// of their jobs, newest first.
	RecentItems(ctx context.Context, ownerID int64, limit int) ([]*jobs.ImportedItem, error)

	// DeleteItems removes all items for a job and reports how many rows were
	// removed. Used for the failure rollback: a failed job never exposes
	// partially imported data.
	DeleteItems(ctx context.Context, jobID int64) (int64, error)
}
