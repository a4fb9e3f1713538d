package orchestrator

import (
	"time"

	"github.com/aweller/maestro/pkg/models"
)

// EventType represents the type of orchestrator event.
type EventType string

const (
	// EventTaskQueued indicates a task's dependencies resolved and it joined
	// the ready set.
	EventTaskQueued EventType = "task_queued"
	// EventTaskStarted indicates a task was dispatched to its agent.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted indicates a task completed successfully.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates a task's agent call returned an error.
	EventTaskFailed EventType = "task_failed"
	// EventTaskSkipped indicates a task was failed without dispatch because
	// an upstream dependency failed.
	EventTaskSkipped EventType = "task_skipped"
	// EventTaskCancelled indicates the run was cancelled before the task ran.
	EventTaskCancelled EventType = "task_cancelled"
	// EventRunDone indicates every task reached a terminal state.
	EventRunDone EventType = "run_done"
)

// Event represents an event emitted by the orchestrator.
// The CLI consumes these to stream run progress.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// TaskID is the ID of the related task, if applicable.
	TaskID string
	// Agent is the kind of agent handling the task, if applicable.
	Agent models.AgentKind
	// Message provides additional context about the event.
	Message string
	// Error contains error details for failure events.
	Error error
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Duration is the task's elapsed execution time, for completion events.
	Duration time.Duration
}

// emitEvent delivers an event to the subscriber channel without blocking the
// scheduler. Events are dropped if the subscriber falls behind.
func (o *Orchestrator) emitEvent(ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	select {
	case o.events <- ev:
	default:
		o.logger.Log("[events] dropped %s event for task %s (subscriber behind)", ev.Type, ev.TaskID)
	}
}

// Events returns the channel carrying run progress events.
// The channel is closed when the orchestrator finishes a run.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}
