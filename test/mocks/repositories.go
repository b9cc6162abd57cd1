package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"importsvc/domain/contracts"
	"importsvc/domain/jobs"
	"importsvc/domain/users"
)

// MockJobRepository implements JobRepository for testing
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) CreateJob(ctx context.Context, ownerID int64, sources []jobs.Source, credentials jobs.Credentials) (*jobs.Job, error) {
	args := m.Called(ctx, ownerID, sources, credentials)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.Job), args.Error(1)
}

func (m *MockJobRepository) GetJob(ctx context.Context, jobID int64) (*jobs.Job, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.Job), args.Error(1)
}

func (m *MockJobRepository) ListJobs(ctx context.Context, ownerID int64, offset, limit int) ([]*jobs.Job, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*jobs.Job), args.Error(1)
}

func (m *MockJobRepository) UpdateStatus(ctx context.Context, jobID int64, status jobs.JobStatus, errorMessage string) error {
	args := m.Called(ctx, jobID, status, errorMessage)
	return args.Error(0)
}

func (m *MockJobRepository) CountJobs(ctx context.Context, ownerID int64) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepository) CountJobsByStatus(ctx context.Context, ownerID int64, status jobs.JobStatus) (int64, error) {
	args := m.Called(ctx, ownerID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJobRepository) DeleteJob(ctx context.Context, jobID int64) error {
	args := m.Called(ctx, jobID)
	return args.Error(0)
}

// MockItemRepository implements ItemRepository for testing
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) CreateItem(ctx context.Context, jobID int64, source jobs.Source, remoteID int64, payload json.RawMessage) (*jobs.ImportedItem, error) {
	args := m.Called(ctx, jobID, source, remoteID, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jobs.ImportedItem), args.Error(1)
}

func (m *MockItemRepository) CountItems(ctx context.Context, jobID int64, source jobs.Source) (int64, error) {
	args := m.Called(ctx, jobID, source)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) CountItemsByJob(ctx context.Context, jobID int64) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) CountItemsBySourceForOwner(ctx context.Context, ownerID int64, source jobs.Source) (int64, error) {
	args := m.Called(ctx, ownerID, source)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) RecentItems(ctx context.Context, ownerID int64, limit int) ([]*jobs.ImportedItem, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*jobs.ImportedItem), args.Error(1)
}

func (m *MockItemRepository) DeleteItems(ctx context.Context, jobID int64) (int64, error) {
	args := m.Called(ctx, jobID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, email, username, hashedPassword string) (*users.User, error) {
	args := m.Called(ctx, email, username, hashedPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID int64) (*users.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockCatalogClient implements CatalogClient for testing
type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) FetchProducts(ctx context.Context, limit int) ([]contracts.CatalogRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contracts.CatalogRecord), args.Error(1)
}

func (m *MockCatalogClient) FetchCarts(ctx context.Context, limit int) ([]contracts.CatalogRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]contracts.CatalogRecord), args.Error(1)
}
