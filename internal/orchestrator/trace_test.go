package orchestrator

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/aweller/maestro/pkg/models"
)

func TestTraceRecordsOneLinePerTask(t *testing.T) {
	var buf bytes.Buffer
	reg := newEchoRegistry()
	o := New(reg.Registry, WithTrace(NewTraceRecorder(&buf)))
	drainEvents(o)

	_, err := o.Run(context.Background(), "", []*models.TaskSpec{
		task("a"),
		task("b", "a"),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var records []traceRecord
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var rec traceRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("invalid trace line %q: %v", scanner.Text(), err)
		}
		records = append(records, rec)
	}
	if len(records) != 2 {
		t.Fatalf("got %d trace records, want 2", len(records))
	}
	// Trace lines appear in completion order; a depends on nothing so it
	// settles first.
	if records[0].TaskID != "a" || records[1].TaskID != "b" {
		t.Errorf("trace order = [%s %s], want [a b]", records[0].TaskID, records[1].TaskID)
	}
	for _, rec := range records {
		if rec.Status != models.TaskStatusSucceeded {
			t.Errorf("task %s: status = %s", rec.TaskID, rec.Status)
		}
		if rec.OutputLen == 0 {
			t.Errorf("task %s: zero output length", rec.TaskID)
		}
	}
	if records[1].DependsOn[0] != "a" {
		t.Errorf("task b trace missing dependency list")
	}
}
