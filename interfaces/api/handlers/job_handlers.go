package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"importsvc/application"
	"importsvc/domain/jobs"
	"importsvc/logging"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// JobHandlers serves the import job endpoints.
type JobHandlers struct {
	jobService application.JobService
	starter    application.JobStarter
	logger     *logging.Logger
}

// NewJobHandlers creates the job handler set. The starter launches the
// detached run for each job created through Create.
func NewJobHandlers(jobService application.JobService, starter application.JobStarter, logger *logging.Logger) *JobHandlers {
	return &JobHandlers{
		jobService: jobService,
		starter:    starter,
		logger:     logger.WithComponent("job_handlers"),
	}
}

type createJobRequest struct {
	Sources     []string                     `json:"sources"`
	Credentials map[string]map[string]string `json:"credentials"`
}

type sourceProgressResponse struct {
	Completed int64  `json:"completed"`
	Total     int64  `json:"total"`
	Status    string `json:"status"`
}

type jobResponse struct {
	JobID           int64                             `json:"jobId"`
	Status          string                            `json:"status"`
	SelectedSources []string                          `json:"selectedSources"`
	CreatedAt       time.Time                         `json:"createdAt"`
	UpdatedAt       time.Time                         `json:"updatedAt"`
	Error           string                            `json:"error,omitempty"`
	Progress        map[string]sourceProgressResponse `json:"progress,omitempty"`
}

// Create handles POST /import_jobs: validate, persist, launch the background run,
// and return 201 with the Pending job.
func (h *JobHandlers) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	credentials := make(jobs.Credentials, len(req.Credentials))
	for source, bundle := range req.Credentials {
		credentials[jobs.Source(source)] = bundle
	}

	job, err := h.jobService.CreateJob(r.Context(), user.ID, req.Sources, credentials)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// The run is detached: creation returns Pending immediately and the
	// client polls for progress.
	h.starter.Start(job.ID)

	writeJSON(w, http.StatusCreated, toJobResponse(job, nil))
}

// Get handles GET /import_jobs/{jobID}: the job with its per-source progress.
func (h *JobHandlers) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	jobID, err := strconv.ParseInt(chi.URLParam(r, "jobID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := h.jobService.GetJob(r.Context(), user.ID, jobID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	progress, err := h.jobService.ProgressFor(r.Context(), job)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(job, progress))
}

// List handles GET /import_jobs with skip/limit pagination. Each listed job
// carries the same per-source progress view as Get.
func (h *JobHandlers) List(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	skip := parseQueryInt(r, "skip", 0)
	limit := parseQueryInt(r, "limit", defaultListLimit)
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	listed, err := h.jobService.ListJobs(r.Context(), user.ID, skip, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	responses := make([]jobResponse, 0, len(listed))
	for _, job := range listed {
		progress, err := h.jobService.ProgressFor(r.Context(), job)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		responses = append(responses, toJobResponse(job, progress))
	}
	writeJSON(w, http.StatusOK, responses)
}

func toJobResponse(job *jobs.Job, progress map[jobs.Source]jobs.SourceProgress) jobResponse {
	sources := make([]string, 0, len(job.Sources))
	for _, s := range job.Sources {
		sources = append(sources, string(s))
	}

	resp := jobResponse{
		JobID:           job.ID,
		Status:          string(job.Status),
		SelectedSources: sources,
		CreatedAt:       job.CreatedAt,
		UpdatedAt:       job.UpdatedAt,
		Error:           job.ErrorMessage,
	}

	if progress != nil {
		resp.Progress = make(map[string]sourceProgressResponse, len(progress))
		for source, p := range progress {
			resp.Progress[string(source)] = sourceProgressResponse{
				Completed: p.Completed,
				Total:     p.Total,
				Status:    string(p.Status),
			}
		}
	}

	return resp
}

func parseQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
