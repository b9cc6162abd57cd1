package events

import (
	"sync"

	"importsvc/domain/events"
	"importsvc/logging"
)

// JobEventBus provides type-safe event publishing and subscription for job-related events
type JobEventBus struct {
	mu     sync.RWMutex
	logger *logging.Logger

	// Event handler slices for each event type
	jobCompletedHandlers []func(events.JobCompletedEvent)
	jobFailedHandlers    []func(events.JobFailedEvent)
}

// NewJobEventBus creates a new typed job event bus
func NewJobEventBus() *JobEventBus {
	return &JobEventBus{
		logger:               logging.Default().WithComponent("job_event_bus"),
		jobCompletedHandlers: make([]func(events.JobCompletedEvent), 0),
		jobFailedHandlers:    make([]func(events.JobFailedEvent), 0),
	}
}

// Subscribe methods for each event type

func (bus *JobEventBus) OnJobCompleted(handler func(events.JobCompletedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.jobCompletedHandlers = append(bus.jobCompletedHandlers, handler)
}

func (bus *JobEventBus) OnJobFailed(handler func(events.JobFailedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.jobFailedHandlers = append(bus.jobFailedHandlers, handler)
}

// Publish methods for each event type

func (bus *JobEventBus) PublishJobCompleted(event events.JobCompletedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.JobCompletedEvent), len(bus.jobCompletedHandlers))
	copy(handlers, bus.jobCompletedHandlers)
	bus.mu.RUnlock()

	// Execute handlers asynchronously to avoid blocking the publisher
	for _, handler := range handlers {
		go func(h func(events.JobCompletedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in JobCompleted",
						"job_id", event.Job.ID,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}

func (bus *JobEventBus) PublishJobFailed(event events.JobFailedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.JobFailedEvent), len(bus.jobFailedHandlers))
	copy(handlers, bus.jobFailedHandlers)
	bus.mu.RUnlock()

	// Execute handlers asynchronously to avoid blocking the publisher
	for _, handler := range handlers {
		go func(h func(events.JobFailedEvent)) {
			defer func() {
				if r := recover(); r != nil {
					bus.logger.Error("Event handler panicked in JobFailed",
						"job_id", event.Job.ID,
						"panic", r)
				}
			}()
			h(event)
		}(handler)
	}
}
