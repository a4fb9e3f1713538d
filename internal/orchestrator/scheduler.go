package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/aweller/maestro/pkg/models"
)

// completion is delivered on the scheduler's channel when a dispatched task
// finishes.
type completion struct {
	taskID string
	output string
	err    error
}

// execute runs the wave-based scheduling loop until every task is terminal.
//
// Invariants maintained here:
//   - a task dispatches only after all its dependencies succeeded;
//   - each result slot is written exactly once, by the completion (or skip)
//     that settles it, and only ever from the loop goroutine;
//   - an agent failure fails the task's transitive dependents without
//     dispatching them, and leaves independent branches untouched.
//
// Returns ctx.Err() if the run was cancelled, nil otherwise.
func (o *Orchestrator) execute(ctx context.Context, state *RunState) error {
	completions := make(chan completion)
	done := ctx.Done()
	cancelled := false

	for {
		// Dispatch everything ready, up to the parallelism bound.
		if !cancelled {
			for len(state.ready) > 0 && (o.maxParallel <= 0 || state.running < o.maxParallel) {
				id := state.ready[0]
				state.ready = state.ready[1:]
				o.dispatch(ctx, state, id, completions)
			}
		}

		// The dispatch pass drains the ready set whenever a slot is free, so
		// running==0 here means nothing is left to do.
		if state.running == 0 {
			break
		}

		select {
		case done := <-completions:
			state.running--
			o.settle(state, done)

		case <-done:
			// Nil the channel so the loop blocks on completions from here on.
			done = nil
			cancelled = true
			o.logger.Log("[scheduler] run cancelled, waiting for %d running tasks", state.running)
			o.cancelPending(state)
		}
	}

	if cancelled {
		o.cancelPending(state)
		return ctx.Err()
	}
	return nil
}

// dispatch marks a task Running, builds its context bundle, and invokes its
// agent in a goroutine.
func (o *Orchestrator) dispatch(ctx context.Context, state *RunState, taskID string, completions chan<- completion) {
	task := state.graph.Task(taskID)
	result := state.results[taskID]

	now := time.Now()
	result.Status = models.TaskStatusRunning
	result.StartedAt = &now
	state.running++

	o.logger.Log("[scheduler] dispatching task %s (%s)", taskID, task.Agent)
	o.emitEvent(Event{Type: EventTaskStarted, TaskID: taskID, Agent: task.Agent, Message: task.Instruction})

	runner, err := o.registry.Lookup(task.Agent)
	if err != nil {
		// No runner for the kind: fail the task through the normal path so
		// dependents are skipped consistently.
		go func() { completions <- completion{taskID: taskID, err: err} }()
		return
	}

	// The bundle is assembled from dependency outputs in declared dependency
	// order, reduced to the per-item budget, and discarded after dispatch.
	deps := state.graph.DependenciesOf(taskID)
	outputs := make(map[string]string, len(deps))
	for _, depID := range deps {
		outputs[depID] = state.results[depID].Output
	}

	go func() {
		taskCtx := ctx
		if o.taskTimeout > 0 {
			var cancel context.CancelFunc
			taskCtx, cancel = context.WithTimeout(ctx, o.taskTimeout)
			defer cancel()
		}

		bundle, err := o.reducer.Reduce(taskCtx, deps, outputs)
		if err != nil {
			completions <- completion{taskID: taskID, err: fmt.Errorf("build context bundle: %w", err)}
			return
		}

		output, err := runner.Invoke(taskCtx, task, bundle)
		completions <- completion{taskID: taskID, output: output, err: err}
	}()
}

// settle records a completion and updates dependents: successes release
// ready tasks, failures cascade skips.
func (o *Orchestrator) settle(state *RunState, done completion) {
	task := state.graph.Task(done.taskID)
	result := state.results[done.taskID]
	now := time.Now()
	result.CompletedAt = &now

	var elapsed time.Duration
	if result.StartedAt != nil {
		elapsed = now.Sub(*result.StartedAt)
	}

	if done.err != nil {
		result.Status = models.TaskStatusFailed
		result.Error = done.err.Error()
		o.logger.Log("[scheduler] task %s failed after %s: %v", done.taskID, elapsed, done.err)
		o.emitEvent(Event{Type: EventTaskFailed, TaskID: done.taskID, Agent: task.Agent, Error: done.err, Duration: elapsed})
		o.recordTrace(state, done.taskID)
		o.skipDependents(state, done.taskID)
		return
	}

	result.Status = models.TaskStatusSucceeded
	result.Output = done.output
	o.logger.Log("[scheduler] task %s succeeded after %s (%d bytes)", done.taskID, elapsed, len(done.output))
	o.emitEvent(Event{Type: EventTaskCompleted, TaskID: done.taskID, Agent: task.Agent, Duration: elapsed})
	o.recordTrace(state, done.taskID)

	// Release dependents whose dependencies have now all succeeded.
	for _, depID := range state.graph.DependentsOf(done.taskID) {
		state.unresolved[depID]--
		if state.unresolved[depID] > 0 {
			continue
		}
		if state.results[depID].Status != models.TaskStatusPending {
			// Already skipped by an earlier failure on another branch.
			continue
		}
		o.logger.Log("[scheduler] task %s is ready", depID)
		o.emitEvent(Event{Type: EventTaskQueued, TaskID: depID, Agent: state.graph.Task(depID).Agent})
		state.ready = append(state.ready, depID)
	}
}

// skipDependents fails every pending transitive dependent of a failed task
// without dispatching it. Failure propagates forward, never silently.
func (o *Orchestrator) skipDependents(state *RunState, failedID string) {
	queue := state.graph.DependentsOf(failedID)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		result := state.results[id]
		if result.Status != models.TaskStatusPending {
			continue
		}

		now := time.Now()
		result.Status = models.TaskStatusFailed
		result.Error = fmt.Sprintf("skipped due to upstream failure: %s", failedID)
		result.CompletedAt = &now

		task := state.graph.Task(id)
		o.logger.Log("[scheduler] task %s skipped (upstream %s failed)", id, failedID)
		o.emitEvent(Event{Type: EventTaskSkipped, TaskID: id, Agent: task.Agent,
			Message: fmt.Sprintf("upstream task %s failed", failedID)})
		o.recordTrace(state, id)

		queue = append(queue, state.graph.DependentsOf(id)...)
	}
}

// cancelPending transitions every still-pending task to the cancelled
// terminal state. Running tasks are left to finish; their completions are
// recorded as they arrive.
func (o *Orchestrator) cancelPending(state *RunState) {
	for _, task := range state.graph.Tasks() {
		result := state.results[task.ID]
		if result.Status != models.TaskStatusPending {
			continue
		}
		now := time.Now()
		result.Status = models.TaskStatusCancelled
		result.Error = "run cancelled"
		result.CompletedAt = &now
		o.emitEvent(Event{Type: EventTaskCancelled, TaskID: task.ID, Agent: task.Agent})
		o.recordTrace(state, task.ID)
	}
	state.ready = nil
}
