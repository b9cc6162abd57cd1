package application

import (
	"context"
	"fmt"

	"importsvc/domain/contracts"
	"importsvc/domain/jobs"
)

// recentItemsLimit bounds the recent-item feed on the dashboard.
const recentItemsLimit = 50

// DashboardStats is the aggregate view of an owner's import history.
type DashboardStats struct {
	TotalJobs     int64
	CompletedJobs int64
	FailedJobs    int64
	TotalProducts int64
	TotalCarts    int64
	RecentItems   []*jobs.ImportedItem
}

// DashboardService aggregates per-owner import statistics.
type DashboardService interface {
	Stats(ctx context.Context, ownerID int64) (*DashboardStats, error)
}

type dashboardService struct {
	jobRepo  contracts.JobRepository
	itemRepo contracts.ItemRepository
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(jobRepo contracts.JobRepository, itemRepo contracts.ItemRepository) DashboardService {
	return &dashboardService{
		jobRepo:  jobRepo,
		itemRepo: itemRepo,
	}
}

func (s *dashboardService) Stats(ctx context.Context, ownerID int64) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalJobs, err = s.jobRepo.CountJobs(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}
	if stats.CompletedJobs, err = s.jobRepo.CountJobsByStatus(ctx, ownerID, jobs.JobStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to count completed jobs: %w", err)
	}
	if stats.FailedJobs, err = s.jobRepo.CountJobsByStatus(ctx, ownerID, jobs.JobStatusFailed); err != nil {
		return nil, fmt.Errorf("failed to count failed jobs: %w", err)
	}
	if stats.TotalProducts, err = s.itemRepo.CountItemsBySourceForOwner(ctx, ownerID, jobs.SourceProducts); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if stats.TotalCarts, err = s.itemRepo.CountItemsBySourceForOwner(ctx, ownerID, jobs.SourceCarts); err != nil {
		return nil, fmt.Errorf("failed to count carts: %w", err)
	}
	if stats.RecentItems, err = s.itemRepo.RecentItems(ctx, ownerID, recentItemsLimit); err != nil {
		return nil, fmt.Errorf("failed to load recent items: %w", err)
	}

	return stats, nil
}
