package jobs

// SourceProgress is the derived per-source view of an import job: how many
// items have been stored so far against the fixed target, plus a sub-status.
type SourceProgress struct {
	Completed int64
	Total     int64
	Status    JobStatus
}

// ComputeProgress derives the per-source progress view from the job status and
// the stored item counts. It is a pure read-only derivation: identical inputs
// always yield identical output.
//
// The sub-status mirrors the job's terminal state when there is one; otherwise
// a source counts as Running once its first item has landed and Pending before
// that.
func ComputeProgress(status JobStatus, sources []Source, completed map[Source]int64, targets SourceTargets) map[Source]SourceProgress {
	progress := make(map[Source]SourceProgress, len(sources))

	for _, source := range sources {
		done := completed[source]

		var sourceStatus JobStatus
		switch {
		case status == JobStatusCompleted:
			sourceStatus = JobStatusCompleted
		case status == JobStatusFailed:
			sourceStatus = JobStatusFailed
		case done > 0:
			sourceStatus = JobStatusRunning
		default:
			sourceStatus = JobStatusPending
		}

		progress[source] = SourceProgress{
			Completed: done,
			Total:     int64(targets.For(source)),
			Status:    sourceStatus,
		}
	}

	return progress
}
