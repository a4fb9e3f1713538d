package pipeline

import (
	"testing"

	"github.com/aweller/maestro/internal/graph"
	"github.com/aweller/maestro/pkg/models"
)

func TestResearchReportIsValidChain(t *testing.T) {
	tasks := ResearchReport("solar panel efficiency")

	g, err := graph.Build(tasks)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if g.Size() != 3 {
		t.Fatalf("pipeline has %d tasks, want 3", g.Size())
	}
	roots := g.Roots()
	if len(roots) != 1 || roots[0].ID != "research" {
		t.Errorf("roots = %v, want [research]", roots)
	}
	if deps := g.DependenciesOf("edit"); len(deps) != 1 || deps[0] != "draft" {
		t.Errorf("edit depends on %v, want [draft]", deps)
	}
	if tasks[0].Agent != models.AgentWebSearch || tasks[1].Agent != models.AgentWriter || tasks[2].Agent != models.AgentEditor {
		t.Error("unexpected agent assignment")
	}
}

func TestFinalReport(t *testing.T) {
	report := &models.RunReport{
		Outcomes: []models.TaskOutcome{
			{Spec: &models.TaskSpec{ID: "research"}, Result: &models.TaskResult{TaskID: "research", Status: models.TaskStatusSucceeded, Output: "facts"}},
			{Spec: &models.TaskSpec{ID: "draft"}, Result: &models.TaskResult{TaskID: "draft", Status: models.TaskStatusSucceeded, Output: "rough text"}},
			{Spec: &models.TaskSpec{ID: "edit"}, Result: &models.TaskResult{TaskID: "edit", Status: models.TaskStatusSucceeded, Output: "polished text"}},
		},
	}

	if got, ok := FinalReport(report); !ok || got != "polished text" {
		t.Errorf("FinalReport() = %q, %v; want polished text", got, ok)
	}

	// Edit stage failed: fall back to the draft.
	report.Outcomes[2].Result.Status = models.TaskStatusFailed
	if got, ok := FinalReport(report); !ok || got != "rough text" {
		t.Errorf("FinalReport() fallback = %q, %v; want rough text", got, ok)
	}

	// Nothing usable.
	report.Outcomes[1].Result.Status = models.TaskStatusFailed
	if _, ok := FinalReport(report); ok {
		t.Error("FinalReport() should report absence when no stage succeeded")
	}
}
