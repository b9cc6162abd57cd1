package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"importsvc/domain/contracts"
	"importsvc/domain/jobs"
)

func createTestJob(t *testing.T, repo contracts.JobRepository, ownerID int64) *jobs.Job {
	t.Helper()
	job, err := repo.CreateJob(context.Background(), ownerID,
		[]jobs.Source{jobs.SourceProducts, jobs.SourceCarts},
		jobs.Credentials{
			jobs.SourceProducts: {"api_key": "k"},
			jobs.SourceCarts:    {"api_key": "k"},
		})
	require.NoError(t, err)
	return job
}

func TestItemRepository_CreateAndCount(t *testing.T) {
	db := newTestDatabase(t)
	jobRepo := NewSQLJobRepository(db)
	itemRepo := NewSQLItemRepository(db)
	ctx := context.Background()

	job := createTestJob(t, jobRepo, 1)

	for i := 1; i <= 3; i++ {
		item, err := itemRepo.CreateItem(ctx, job.ID, jobs.SourceProducts, int64(i), []byte(fmt.Sprintf(`{"id":%d}`, i)))
		require.NoError(t, err)
		assert.Greater(t, item.ID, int64(0))
		assert.Equal(t, jobs.ItemStatusSuccess, item.Status)
	}
	_, err := itemRepo.CreateItem(ctx, job.ID, jobs.SourceCarts, 1, []byte(`{"id":1}`))
	require.NoError(t, err)

	products, err := itemRepo.CountItems(ctx, job.ID, jobs.SourceProducts)
	require.NoError(t, err)
	assert.Equal(t, int64(3), products)

	carts, err := itemRepo.CountItems(ctx, job.ID, jobs.SourceCarts)
	require.NoError(t, err)
	assert.Equal(t, int64(1), carts)

	total, err := itemRepo.CountItemsByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestItemRepository_CountItemsBySourceForOwner(t *testing.T) {
	db := newTestDatabase(t)
	jobRepo := NewSQLJobRepository(db)
	itemRepo := NewSQLItemRepository(db)
	ctx := context.Background()

	mine := createTestJob(t, jobRepo, 1)
	theirs := createTestJob(t, jobRepo, 2)

	_, err := itemRepo.CreateItem(ctx, mine.ID, jobs.SourceProducts, 1, []byte(`{"id":1}`))
	require.NoError(t, err)
	_, err = itemRepo.CreateItem(ctx, mine.ID, jobs.SourceProducts, 2, []byte(`{"id":2}`))
	require.NoError(t, err)
	_, err = itemRepo.CreateItem(ctx, theirs.ID, jobs.SourceProducts, 3, []byte(`{"id":3}`))
	require.NoError(t, err)

	count, err := itemRepo.CountItemsBySourceForOwner(ctx, 1, jobs.SourceProducts)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	carts, err := itemRepo.CountItemsBySourceForOwner(ctx, 1, jobs.SourceCarts)
	require.NoError(t, err)
	assert.Equal(t, int64(0), carts)
}

func TestItemRepository_RecentItems(t *testing.T) {
	db := newTestDatabase(t)
	jobRepo := NewSQLJobRepository(db)
	itemRepo := NewSQLItemRepository(db)
	ctx := context.Background()

	job := createTestJob(t, jobRepo, 1)
	other := createTestJob(t, jobRepo, 2)

	for i := 1; i <= 5; i++ {
		_, err := itemRepo.CreateItem(ctx, job.ID, jobs.SourceProducts, int64(i), []byte(fmt.Sprintf(`{"id":%d}`, i)))
		require.NoError(t, err)
	}
	_, err := itemRepo.CreateItem(ctx, other.ID, jobs.SourceCarts, 99, []byte(`{"id":99}`))
	require.NoError(t, err)

	recent, err := itemRepo.RecentItems(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	// Newest first, and only the requesting owner's items.
	assert.Equal(t, int64(5), recent[0].RemoteID)
	assert.Equal(t, int64(4), recent[1].RemoteID)
	assert.Equal(t, int64(3), recent[2].RemoteID)
	for _, item := range recent {
		assert.Equal(t, job.ID, item.JobID)
	}
}

func TestItemRepository_DeleteItems(t *testing.T) {
	db := newTestDatabase(t)
	jobRepo := NewSQLJobRepository(db)
	itemRepo := NewSQLItemRepository(db)
	ctx := context.Background()

	job := createTestJob(t, jobRepo, 1)

	for i := 1; i <= 4; i++ {
		_, err := itemRepo.CreateItem(ctx, job.ID, jobs.SourceProducts, int64(i), []byte(fmt.Sprintf(`{"id":%d}`, i)))
		require.NoError(t, err)
	}

	deleted, err := itemRepo.DeleteItems(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)

	count, err := itemRepo.CountItemsByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Deleting again removes nothing.
	deleted, err = itemRepo.DeleteItems(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}
