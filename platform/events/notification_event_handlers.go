package events

import (
	"importsvc/domain/events"
	"importsvc/logging"
)

// NotificationEventHandlers handles job events and records their outcomes on
// the application log. Keeping these on the event bus rather than inline in
// the runner means future subscribers (webhooks, metrics) plug in without
// touching the import path.
type NotificationEventHandlers struct {
	logger *logging.Logger
}

// NewNotificationEventHandlers creates event handlers for notifications
func NewNotificationEventHandlers() *NotificationEventHandlers {
	return &NotificationEventHandlers{
		logger: logging.Default().WithComponent("notification_events"),
	}
}

// RegisterHandlers registers all notification event handlers with the event bus
func (h *NotificationEventHandlers) RegisterHandlers(eventBus *JobEventBus) {
	eventBus.OnJobCompleted(h.handleJobCompleted)
	eventBus.OnJobFailed(h.handleJobFailed)
}

// Event handler implementations

func (h *NotificationEventHandlers) handleJobCompleted(event events.JobCompletedEvent) {
	var jobID int64
	if event.Job != nil {
		jobID = event.Job.ID
	}
	h.logger.Info("Import job completed",
		"job_id", jobID,
		"sources", sourceNames(event))
}

func (h *NotificationEventHandlers) handleJobFailed(event events.JobFailedEvent) {
	var jobID int64
	if event.Job != nil {
		jobID = event.Job.ID
	}
	h.logger.Info("Import job failed",
		"job_id", jobID,
		"error", event.Error,
		"items_rolled_back", event.ItemsRolledBack)
}

func sourceNames(event events.JobCompletedEvent) []string {
	if event.Job == nil {
		return nil
	}
	names := make([]string, 0, len(event.Job.Sources))
	for _, s := range event.Job.Sources {
		names = append(names, string(s))
	}
	return names
}
