package orchestrator

import (
	"time"

	"github.com/aweller/maestro/internal/reduce"
)

// Option configures an Orchestrator. Use With* functions to create Options.
type Option func(*orchestratorOptions)

// orchestratorOptions holds all optional configuration.
type orchestratorOptions struct {
	maxParallel int
	taskTimeout time.Duration
	reducer     *reduce.Reducer
	logger      *DebugLogger
	trace       *TraceRecorder
	eventBuffer int
}

// WithMaxParallel bounds how many tasks run concurrently.
// Zero (the default) means every ready task dispatches at once.
func WithMaxParallel(n int) Option {
	return func(o *orchestratorOptions) { o.maxParallel = n }
}

// WithTaskTimeout sets a per-task execution deadline. Zero disables the
// timeout; agent calls then run as long as the run context allows.
func WithTaskTimeout(d time.Duration) Option {
	return func(o *orchestratorOptions) { o.taskTimeout = d }
}

// WithReducer sets the context reducer applied to upstream outputs.
func WithReducer(r *reduce.Reducer) Option {
	return func(o *orchestratorOptions) { o.reducer = r }
}

// WithLogger sets the debug logger.
func WithLogger(l *DebugLogger) Option {
	return func(o *orchestratorOptions) { o.logger = l }
}

// WithTrace sets a JSONL trace recorder for per-task execution records.
func WithTrace(t *TraceRecorder) Option {
	return func(o *orchestratorOptions) { o.trace = t }
}

// WithEventBuffer sets the event channel capacity.
func WithEventBuffer(n int) Option {
	return func(o *orchestratorOptions) { o.eventBuffer = n }
}
