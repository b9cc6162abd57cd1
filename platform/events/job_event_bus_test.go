package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"importsvc/domain/events"
	"importsvc/domain/jobs"
)

func createTestJob(jobID int64, status jobs.JobStatus) *jobs.Job {
	now := time.Now().UTC()
	return &jobs.Job{
		ID:      jobID,
		OwnerID: 1,
		Sources: []jobs.Source{jobs.SourceProducts},
		Credentials: jobs.Credentials{
			jobs.SourceProducts: {"api_key": "k"},
		},
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestJobEventBus_PublishJobCompleted_Success(t *testing.T) {
	// Arrange
	eventBus := NewJobEventBus()
	job := createTestJob(1, jobs.JobStatusCompleted)

	done := make(chan events.JobCompletedEvent, 1)

	// Subscribe to the event
	eventBus.OnJobCompleted(func(event events.JobCompletedEvent) {
		done <- event
	})

	// Act
	testEvent := events.JobCompletedEvent{
		Job:       job,
		Timestamp: time.Now(),
	}
	eventBus.PublishJobCompleted(testEvent)

	// Assert
	select {
	case receivedEvent := <-done:
		assert.Equal(t, testEvent.Job.ID, receivedEvent.Job.ID)
		assert.Equal(t, testEvent.Job.Status, receivedEvent.Job.Status)
		assert.False(t, receivedEvent.Timestamp.IsZero())
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Handler was not called within timeout")
	}
}

func TestJobEventBus_PublishJobFailed_Success(t *testing.T) {
	// Arrange
	eventBus := NewJobEventBus()
	job := createTestJob(2, jobs.JobStatusFailed)

	done := make(chan events.JobFailedEvent, 1)

	eventBus.OnJobFailed(func(event events.JobFailedEvent) {
		done <- event
	})

	// Act
	testEvent := events.JobFailedEvent{
		Job:             job,
		Error:           "Test error message",
		ItemsRolledBack: 7,
		Timestamp:       time.Now(),
	}
	eventBus.PublishJobFailed(testEvent)

	// Assert
	select {
	case receivedEvent := <-done:
		assert.Equal(t, int64(2), receivedEvent.Job.ID)
		assert.Equal(t, "Test error message", receivedEvent.Error)
		assert.Equal(t, int64(7), receivedEvent.ItemsRolledBack)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Handler was not called within timeout")
	}
}

func TestJobEventBus_MultipleHandlersAllInvoked(t *testing.T) {
	eventBus := NewJobEventBus()
	job := createTestJob(3, jobs.JobStatusCompleted)

	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		eventBus.OnJobCompleted(func(events.JobCompletedEvent) {
			wg.Done()
		})
	}

	eventBus.PublishJobCompleted(events.JobCompletedEvent{Job: job, Timestamp: time.Now()})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Not all handlers were called within timeout")
	}
}

func TestJobEventBus_PanickingHandlerDoesNotBlockOthers(t *testing.T) {
	eventBus := NewJobEventBus()
	job := createTestJob(4, jobs.JobStatusFailed)

	done := make(chan struct{}, 1)

	eventBus.OnJobFailed(func(events.JobFailedEvent) {
		panic("handler blew up")
	})
	eventBus.OnJobFailed(func(events.JobFailedEvent) {
		done <- struct{}{}
	})

	eventBus.PublishJobFailed(events.JobFailedEvent{Job: job, Error: "boom", Timestamp: time.Now()})

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Surviving handler was not called within timeout")
	}
}

func TestJobEventBus_NoHandlersIsSafe(t *testing.T) {
	eventBus := NewJobEventBus()
	job := createTestJob(5, jobs.JobStatusCompleted)

	assert.NotPanics(t, func() {
		eventBus.PublishJobCompleted(events.JobCompletedEvent{Job: job, Timestamp: time.Now()})
		eventBus.PublishJobFailed(events.JobFailedEvent{Job: job, Error: "x", Timestamp: time.Now()})
	})
}
