package handlers

import (
	"net/http"
	"time"

	"importsvc/application"
	"importsvc/domain/jobs"
	"importsvc/logging"
)

// DashboardHandlers serves the per-user import statistics endpoint.
type DashboardHandlers struct {
	dashboardService application.DashboardService
	logger           *logging.Logger
}

// NewDashboardHandlers creates the dashboard handler set.
func NewDashboardHandlers(dashboardService application.DashboardService, logger *logging.Logger) *DashboardHandlers {
	return &DashboardHandlers{
		dashboardService: dashboardService,
		logger:           logger.WithComponent("dashboard_handlers"),
	}
}

type recentItemResponse struct {
	ID        int64     `json:"id"`
	JobID     int64     `json:"jobId"`
	Source    string    `json:"source"`
	RemoteID  int64     `json:"remoteId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type dashboardResponse struct {
	TotalJobs     int64                `json:"totalJobs"`
	CompletedJobs int64                `json:"completedJobs"`
	FailedJobs    int64                `json:"failedJobs"`
	TotalProducts int64                `json:"totalProducts"`
	TotalCarts    int64                `json:"totalCarts"`
	RecentItems   []recentItemResponse `json:"recentItems"`
}

// Stats handles GET /dashboard.
func (h *DashboardHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	stats, err := h.dashboardService.Stats(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toDashboardResponse(stats))
}

func toDashboardResponse(stats *application.DashboardStats) dashboardResponse {
	items := make([]recentItemResponse, 0, len(stats.RecentItems))
	for _, item := range stats.RecentItems {
		items = append(items, toRecentItemResponse(item))
	}
	return dashboardResponse{
		TotalJobs:     stats.TotalJobs,
		CompletedJobs: stats.CompletedJobs,
		FailedJobs:    stats.FailedJobs,
		TotalProducts: stats.TotalProducts,
		TotalCarts:    stats.TotalCarts,
		RecentItems:   items,
	}
}

func toRecentItemResponse(item *jobs.ImportedItem) recentItemResponse {
	return recentItemResponse{
		ID:        item.ID,
		JobID:     item.JobID,
		Source:    string(item.Source),
		RemoteID:  item.RemoteID,
		Status:    string(item.Status),
		CreatedAt: item.CreatedAt,
	}
}
