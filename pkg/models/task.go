// Package models defines the shared data model for maestro runs:
// task specs, task results, and agent kinds.
package models

import "time"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task has not been dispatched.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusRunning indicates the task has been dispatched to an agent.
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusSucceeded indicates the agent call returned a result.
	TaskStatusSucceeded TaskStatus = "succeeded"
	// TaskStatusFailed indicates the agent call returned an error, or an
	// upstream dependency failed and the task was skipped.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusCancelled indicates the run was cancelled before the task
	// could be dispatched.
	TaskStatusCancelled TaskStatus = "cancelled"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusRunning, TaskStatusSucceeded,
		TaskStatusFailed, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal returns true if the status is a final state.
// Terminal results never transition again.
func (s TaskStatus) Terminal() bool {
	switch s {
	case TaskStatusSucceeded, TaskStatusFailed, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

// TaskSpec is an immutable description of one unit of work produced by the
// planner. IDs are unique within a run; DependsOn references only IDs in the
// same plan.
type TaskSpec struct {
	// ID is the unique identifier for this task within a run.
	ID string `json:"id"`
	// Agent is the kind of agent that should execute this task.
	Agent AgentKind `json:"agent"`
	// Instruction is the free-form text payload handed to the agent.
	Instruction string `json:"instruction"`
	// DependsOn lists task IDs whose outputs this task consumes.
	DependsOn []string `json:"depends_on,omitempty"`
}

// TaskResult records the outcome of a single task.
// A result is created Pending when the graph is built, moves to Running on
// dispatch, and settles in exactly one terminal state.
type TaskResult struct {
	// TaskID is the ID of the task this result belongs to.
	TaskID string `json:"task_id"`
	// Status is the current state of the task.
	Status TaskStatus `json:"status"`
	// Output is the agent's full output text. Set only on success.
	Output string `json:"output,omitempty"`
	// Error describes why the task failed. Set only on failure.
	Error string `json:"error,omitempty"`
	// StartedAt is when the task was dispatched, if it ever ran.
	StartedAt *time.Time `json:"started_at,omitempty"`
	// CompletedAt is when the task reached a terminal state, if it has.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Succeeded returns true if the task completed successfully.
func (r *TaskResult) Succeeded() bool {
	return r.Status == TaskStatusSucceeded
}
