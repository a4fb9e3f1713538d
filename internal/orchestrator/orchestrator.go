package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aweller/maestro/internal/agent"
	"github.com/aweller/maestro/internal/graph"
	"github.com/aweller/maestro/internal/reduce"
	"github.com/aweller/maestro/pkg/models"
)

// defaultEventBuffer is the event channel capacity when not configured.
const defaultEventBuffer = 64

// Orchestrator executes a planned task list with dependency-respecting
// parallelism. It owns no global state: the agent registry is injected at
// construction and all run bookkeeping lives in a per-run RunState.
//
// An Orchestrator is built for a single Run call; create a new one per run.
type Orchestrator struct {
	registry    *agent.Registry
	reducer     *reduce.Reducer
	logger      *DebugLogger
	trace       *TraceRecorder
	maxParallel int
	taskTimeout time.Duration
	events      chan Event
}

// New creates an Orchestrator dispatching to the given agent registry.
func New(registry *agent.Registry, opts ...Option) *Orchestrator {
	options := &orchestratorOptions{
		eventBuffer: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.reducer == nil {
		options.reducer = reduce.New(0, nil)
	}
	if options.logger == nil {
		options.logger = NopLogger()
	}
	if options.eventBuffer <= 0 {
		options.eventBuffer = defaultEventBuffer
	}

	return &Orchestrator{
		registry:    registry,
		reducer:     options.reducer,
		logger:      options.logger,
		trace:       options.trace,
		maxParallel: options.maxParallel,
		taskTimeout: options.taskTimeout,
		events:      make(chan Event, options.eventBuffer),
	}
}

// RunState holds the mutable bookkeeping for one orchestration call: the
// graph, the per-task results, and the ready-set accounting. Nothing in it
// survives the run.
type RunState struct {
	graph   *graph.ExecutionGraph
	results map[string]*models.TaskResult
	// unresolved counts each task's dependencies that have not succeeded yet.
	unresolved map[string]int
	// ready holds IDs whose dependencies are all resolved, pending dispatch.
	ready []string
	// running counts dispatched tasks that have not completed.
	running int
}

func newRunState(g *graph.ExecutionGraph) *RunState {
	rs := &RunState{
		graph:      g,
		results:    make(map[string]*models.TaskResult, g.Size()),
		unresolved: g.InDegrees(),
	}
	for _, task := range g.Tasks() {
		rs.results[task.ID] = &models.TaskResult{
			TaskID: task.ID,
			Status: models.TaskStatusPending,
		}
	}
	for _, root := range g.Roots() {
		rs.ready = append(rs.ready, root.ID)
	}
	return rs
}

// Run executes the task list and returns the aggregated report.
//
// Construction errors (duplicate IDs, unknown dependencies, cycles) abort
// before any dispatch and are returned as the error. Per-task agent failures
// never surface here: they are recorded in the report, their transitive
// dependents are skipped, and independent branches keep running.
//
// If ctx is cancelled mid-run, running tasks are signaled through their
// contexts, undispatched tasks transition to Cancelled, and the report with
// all results produced so far is returned together with ctx.Err().
func (o *Orchestrator) Run(ctx context.Context, request string, tasks []*models.TaskSpec) (*models.RunReport, error) {
	defer close(o.events)

	g, err := graph.Build(tasks)
	if err != nil {
		o.logger.Log("[run] graph construction failed: %v", err)
		return nil, err
	}

	runID := uuid.New().String()
	o.logger.Log("[run] %s: executing %d tasks (%d roots)", runID, g.Size(), len(g.Roots()))

	started := time.Now()
	state := newRunState(g)
	runErr := o.execute(ctx, state)
	finished := time.Now()

	report := &models.RunReport{
		RunID:      runID,
		Request:    request,
		Outcomes:   Aggregate(g, state.results),
		StartedAt:  started,
		FinishedAt: finished,
	}

	o.emitEvent(Event{Type: EventRunDone, Message: runSummary(report)})
	o.logger.Log("[run] %s: done, %d/%d tasks succeeded", runID,
		len(report.Outcomes)-report.FailedCount(), len(report.Outcomes))

	return report, runErr
}

func runSummary(report *models.RunReport) string {
	if report.Succeeded() {
		return "run completed"
	}
	return "run completed with errors"
}
