package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeProgress_RunningJob(t *testing.T) {
	sources := []Source{SourceProducts, SourceCarts}
	completed := map[Source]int64{
		SourceProducts: 12,
		SourceCarts:    0,
	}

	progress := ComputeProgress(JobStatusRunning, sources, completed, DefaultSourceTargets())
	require.Len(t, progress, 2)

	// A source with items underway reads Running; an untouched one Pending.
	assert.Equal(t, SourceProgress{Completed: 12, Total: 30, Status: JobStatusRunning}, progress[SourceProducts])
	assert.Equal(t, SourceProgress{Completed: 0, Total: 20, Status: JobStatusPending}, progress[SourceCarts])
}

func TestComputeProgress_TerminalStatusWins(t *testing.T) {
	sources := []Source{SourceProducts}

	completed := ComputeProgress(JobStatusCompleted, sources, map[Source]int64{SourceProducts: 30}, DefaultSourceTargets())
	assert.Equal(t, JobStatusCompleted, completed[SourceProducts].Status)
	assert.Equal(t, int64(30), completed[SourceProducts].Completed)

	// Rollback runs before the Failed transition, so counts read zero.
	failed := ComputeProgress(JobStatusFailed, sources, map[Source]int64{}, DefaultSourceTargets())
	assert.Equal(t, JobStatusFailed, failed[SourceProducts].Status)
	assert.Equal(t, int64(0), failed[SourceProducts].Completed)
}

func TestComputeProgress_PendingJobHasNoProgress(t *testing.T) {
	sources := []Source{SourceProducts, SourceCarts}

	progress := ComputeProgress(JobStatusPending, sources, map[Source]int64{}, DefaultSourceTargets())
	for _, source := range sources {
		assert.Equal(t, JobStatusPending, progress[source].Status)
		assert.Equal(t, int64(0), progress[source].Completed)
	}
}

func TestComputeProgress_Deterministic(t *testing.T) {
	sources := []Source{SourceProducts, SourceCarts}
	completed := map[Source]int64{SourceProducts: 7, SourceCarts: 3}

	first := ComputeProgress(JobStatusRunning, sources, completed, DefaultSourceTargets())
	second := ComputeProgress(JobStatusRunning, sources, completed, DefaultSourceTargets())
	assert.Equal(t, first, second)
}

func TestComputeProgress_OnlySelectedSources(t *testing.T) {
	progress := ComputeProgress(JobStatusRunning, []Source{SourceCarts}, map[Source]int64{SourceCarts: 5}, DefaultSourceTargets())
	require.Len(t, progress, 1)
	_, hasProducts := progress[SourceProducts]
	assert.False(t, hasProducts)
}
