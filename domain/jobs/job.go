package jobs

import (
	"encoding/json"
	"time"
)

// JobStatus represents the status of an import job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "Pending"
	JobStatusRunning   JobStatus = "Running"
	JobStatusCompleted JobStatus = "Completed"
	JobStatusFailed    JobStatus = "Failed"
)

// Source is a named external data category that can be imported.
type Source string

const (
	SourceProducts Source = "products"
	SourceCarts    Source = "carts"
)

// ValidSources lists the fixed source vocabulary.
var ValidSources = []Source{SourceProducts, SourceCarts}

// IsValid reports whether the source is part of the fixed vocabulary.
func (s Source) IsValid() bool {
	for _, v := range ValidSources {
		if s == v {
			return true
		}
	}
	return false
}

// SourceTargets holds the fixed page size fetched per source. The same value
// drives both the catalog fetch and the progress totals, so they cannot drift.
type SourceTargets struct {
	Products int
	Carts    int
}

// DefaultSourceTargets returns the standard per-source fetch targets.
func DefaultSourceTargets() SourceTargets {
	return SourceTargets{
		Products: 30,
		Carts:    20,
	}
}

// For returns the target item count for a source, or 0 for an unknown source.
func (t SourceTargets) For(source Source) int {
	switch source {
	case SourceProducts:
		return t.Products
	case SourceCarts:
		return t.Carts
	default:
		return 0
	}
}

// Credentials maps a source to an opaque key/value credential bundle.
type Credentials map[Source]map[string]string

// Job represents one user-initiated import request spanning one or more
// sources, tracked to a terminal status. The selected sources never change
// after creation and exactly one execution run is permitted per job.
type Job struct {
	ID           int64
	OwnerID      int64
	Sources      []Source
	Credentials  Credentials
	Status       JobStatus
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive returns true if the job is still pending or running.
func (j *Job) IsActive() bool {
	return j.Status == JobStatusPending || j.Status == JobStatusRunning
}

// IsTerminal returns true if the job has reached a final state.
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// HasSource reports whether the job selected the given source.
func (j *Job) HasSource(source Source) bool {
	for _, s := range j.Sources {
		if s == source {
			return true
		}
	}
	return false
}

// ItemStatus represents the status of an imported item. Failed items are
// never persisted: any failure aborts the whole job and rolls its items back.
type ItemStatus string

const ItemStatusSuccess ItemStatus = "Success"

// ImportedItem is one record fetched from a source during a job's run,
// persisted with its remote identifier and verbatim payload.
type ImportedItem struct {
	ID        int64
	JobID     int64
	Source    Source
	RemoteID  int64
	Payload   json.RawMessage
	Status    ItemStatus
	CreatedAt time.Time
}
