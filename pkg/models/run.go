package models

import "time"

// TaskOutcome pairs a task spec with its result, in planner-declared order.
type TaskOutcome struct {
	// Spec is the task as the planner declared it.
	Spec *TaskSpec `json:"spec"`
	// Result is the terminal result for the task.
	Result *TaskResult `json:"result"`
}

// RunReport is the aggregated outcome of one orchestration run.
// Outcomes appear in the planner's declared order regardless of the order in
// which tasks actually completed.
type RunReport struct {
	// RunID is the unique identifier for this run.
	RunID string `json:"run_id"`
	// Request is the original user request, if the run came from the planner.
	Request string `json:"request,omitempty"`
	// Outcomes lists every planned task with its terminal result.
	Outcomes []TaskOutcome `json:"outcomes"`
	// StartedAt is when execution began.
	StartedAt time.Time `json:"started_at"`
	// FinishedAt is when the last task reached a terminal state.
	FinishedAt time.Time `json:"finished_at"`
}

// Succeeded returns true if every task in the run succeeded.
func (r *RunReport) Succeeded() bool {
	for _, o := range r.Outcomes {
		if o.Result == nil || o.Result.Status != TaskStatusSucceeded {
			return false
		}
	}
	return true
}

// FailedCount returns the number of tasks that ended Failed or Cancelled.
func (r *RunReport) FailedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Result != nil && o.Result.Status != TaskStatusSucceeded {
			n++
		}
	}
	return n
}

// Result returns the result for the given task ID, or nil if absent.
func (r *RunReport) Result(taskID string) *TaskResult {
	for _, o := range r.Outcomes {
		if o.Spec != nil && o.Spec.ID == taskID {
			return o.Result
		}
	}
	return nil
}
