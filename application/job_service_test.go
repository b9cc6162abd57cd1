package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"importsvc/domain/contracts"
	"importsvc/domain/jobs"
	"importsvc/logging"
	"importsvc/test/mocks"
)

func newJobServiceFixture() (JobService, *mocks.MockJobRepository, *mocks.MockItemRepository) {
	jobRepo := &mocks.MockJobRepository{}
	itemRepo := &mocks.MockItemRepository{}
	logger := logging.NewLogger(&logging.Config{Level: "error", Format: "text", Output: "stderr"})
	svc := NewJobService(jobRepo, itemRepo, jobs.DefaultSourceTargets(), logger)
	return svc, jobRepo, itemRepo
}

func validCredentials() jobs.Credentials {
	return jobs.Credentials{
		jobs.SourceProducts: {"api_key": "k1"},
		jobs.SourceCarts:    {"api_key": "k2"},
	}
}

func TestJobService_CreateJobPersistsPending(t *testing.T) {
	svc, jobRepo, _ := newJobServiceFixture()
	ctx := context.Background()

	created := &jobs.Job{
		ID:      7,
		OwnerID: 1,
		Sources: []jobs.Source{jobs.SourceProducts, jobs.SourceCarts},
		Status:  jobs.JobStatusPending,
	}
	jobRepo.On("CreateJob", mock.Anything, int64(1),
		[]jobs.Source{jobs.SourceProducts, jobs.SourceCarts}, validCredentials()).Return(created, nil)

	job, err := svc.CreateJob(ctx, 1, []string{"products", "carts"}, validCredentials())
	require.NoError(t, err)
	assert.Equal(t, int64(7), job.ID)
	assert.Equal(t, jobs.JobStatusPending, job.Status)

	jobRepo.AssertExpectations(t)
}

func TestJobService_CreateJobValidation(t *testing.T) {
	tests := []struct {
		name        string
		sources     []string
		credentials jobs.Credentials
		wantErr     error
	}{
		{
			name:        "no sources",
			sources:     []string{},
			credentials: validCredentials(),
			wantErr:     contracts.ErrInvalidSource,
		},
		{
			name:        "unknown source",
			sources:     []string{"products", "orders"},
			credentials: validCredentials(),
			wantErr:     contracts.ErrInvalidSource,
		},
		{
			name:        "duplicate source",
			sources:     []string{"products", "products"},
			credentials: validCredentials(),
			wantErr:     contracts.ErrInvalidSource,
		},
		{
			name:        "nil credentials",
			sources:     []string{"products"},
			credentials: nil,
			wantErr:     contracts.ErrMissingCredentials,
		},
		{
			name:    "credentials missing a selected source",
			sources: []string{"products", "carts"},
			credentials: jobs.Credentials{
				jobs.SourceProducts: {"api_key": "k"},
			},
			wantErr: contracts.ErrMissingCredentials,
		},
		{
			name:    "empty credential bundle for source",
			sources: []string{"products"},
			credentials: jobs.Credentials{
				jobs.SourceProducts: {},
			},
			wantErr: contracts.ErrMissingCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, jobRepo, _ := newJobServiceFixture()

			_, err := svc.CreateJob(context.Background(), 1, tt.sources, tt.credentials)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			// Nothing persisted.
			jobRepo.AssertNotCalled(t, "CreateJob", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestJobService_GetJob(t *testing.T) {
	svc, jobRepo, _ := newJobServiceFixture()
	ctx := context.Background()

	owned := &jobs.Job{ID: 1, OwnerID: 1, Status: jobs.JobStatusRunning}
	jobRepo.On("GetJob", mock.Anything, int64(1)).Return(owned, nil)
	jobRepo.On("GetJob", mock.Anything, int64(2)).Return(nil, nil)
	jobRepo.On("GetJob", mock.Anything, int64(3)).Return(&jobs.Job{ID: 3, OwnerID: 99}, nil)

	job, err := svc.GetJob(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), job.ID)

	_, err = svc.GetJob(ctx, 1, 2)
	assert.True(t, errors.Is(err, contracts.ErrNotFound))

	_, err = svc.GetJob(ctx, 1, 3)
	assert.True(t, errors.Is(err, contracts.ErrForbidden))
}

func TestJobService_ListJobs(t *testing.T) {
	svc, jobRepo, _ := newJobServiceFixture()

	listed := []*jobs.Job{
		{ID: 2, OwnerID: 1},
		{ID: 1, OwnerID: 1},
	}
	jobRepo.On("ListJobs", mock.Anything, int64(1), 0, 20).Return(listed, nil)

	got, err := svc.ListJobs(context.Background(), 1, 0, 20)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	jobRepo.AssertExpectations(t)
}

func TestJobService_ProgressFor(t *testing.T) {
	svc, _, itemRepo := newJobServiceFixture()

	job := &jobs.Job{
		ID:        5,
		OwnerID:   1,
		Sources:   []jobs.Source{jobs.SourceProducts, jobs.SourceCarts},
		Status:    jobs.JobStatusRunning,
		CreatedAt: time.Now().UTC(),
	}
	itemRepo.On("CountItems", mock.Anything, int64(5), jobs.SourceProducts).Return(int64(12), nil)
	itemRepo.On("CountItems", mock.Anything, int64(5), jobs.SourceCarts).Return(int64(0), nil)

	progress, err := svc.ProgressFor(context.Background(), job)
	require.NoError(t, err)
	require.Len(t, progress, 2)

	assert.Equal(t, int64(12), progress[jobs.SourceProducts].Completed)
	assert.Equal(t, int64(30), progress[jobs.SourceProducts].Total)
	assert.Equal(t, jobs.JobStatusRunning, progress[jobs.SourceProducts].Status)

	assert.Equal(t, int64(0), progress[jobs.SourceCarts].Completed)
	assert.Equal(t, int64(20), progress[jobs.SourceCarts].Total)
	assert.Equal(t, jobs.JobStatusPending, progress[jobs.SourceCarts].Status)
}
