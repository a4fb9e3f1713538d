package orchestrator

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aweller/maestro/pkg/models"
)

// traceRecord is one line in a run trace. One record is written per task as
// it reaches a terminal state.
type traceRecord struct {
	Timestamp time.Time         `json:"timestamp"`
	TaskID    string            `json:"task_id"`
	Agent     models.AgentKind  `json:"agent"`
	Status    models.TaskStatus `json:"status"`
	DependsOn []string          `json:"depends_on,omitempty"`
	OutputLen int               `json:"output_len"`
	Error     string            `json:"error,omitempty"`
}

// TraceRecorder appends one JSON line per terminal task to a writer. It is
// safe for concurrent use; the scheduler loop is the only writer today but
// the recorder does not rely on that.
type TraceRecorder struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// NewTraceRecorder records onto an arbitrary writer.
func NewTraceRecorder(w io.Writer) *TraceRecorder {
	return &TraceRecorder{w: w}
}

// NewTraceRecorderForFile creates the trace file (and parent directories)
// and records onto it. Close flushes and closes the file.
func NewTraceRecorderForFile(path string) (*TraceRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create trace directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace file: %w", err)
	}
	return &TraceRecorder{w: f, closer: f}, nil
}

// Record writes one trace line. Encoding errors are returned but the
// scheduler treats tracing as best-effort and only logs them.
func (t *TraceRecorder) Record(rec traceRecord) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = t.w.Write(append(line, '\n'))
	return err
}

// Close closes the underlying file, if any.
func (t *TraceRecorder) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}

// recordTrace emits a trace line for a task that just reached a terminal
// state. A nil recorder disables tracing.
func (o *Orchestrator) recordTrace(state *RunState, taskID string) {
	if o.trace == nil {
		return
	}
	task := state.graph.Task(taskID)
	result := state.results[taskID]
	rec := traceRecord{
		Timestamp: time.Now(),
		TaskID:    taskID,
		Agent:     task.Agent,
		Status:    result.Status,
		DependsOn: task.DependsOn,
		OutputLen: len(result.Output),
		Error:     result.Error,
	}
	if err := o.trace.Record(rec); err != nil {
		o.logger.Log("[trace] failed to record task %s: %v", taskID, err)
	}
}
