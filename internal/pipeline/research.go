// Package pipeline provides pre-built task lists for common workflows, as an
// alternative to dynamic planning.
package pipeline

import (
	"fmt"

	"github.com/aweller/maestro/pkg/models"
)

// ResearchReport builds the fixed three-stage report pipeline for a topic:
// gather sources, draft a report from them, then edit the draft. The stages
// are strictly sequential; each consumes the previous stage's output through
// its context bundle.
func ResearchReport(topic string) []*models.TaskSpec {
	return []*models.TaskSpec{
		{
			ID:          "research",
			Agent:       models.AgentWebSearch,
			Instruction: topic,
		},
		{
			ID:          "draft",
			Agent:       models.AgentWriter,
			Instruction: fmt.Sprintf("Write a well-structured report about %q based on the research findings above.", topic),
			DependsOn:   []string{"research"},
		},
		{
			ID:          "edit",
			Agent:       models.AgentEditor,
			Instruction: "Edit the draft above for clarity, flow, and correctness. Return the final report.",
			DependsOn:   []string{"draft"},
		},
	}
}

// FinalReport extracts the edited report from a run, falling back to the
// draft when the edit stage did not succeed.
func FinalReport(report *models.RunReport) (string, bool) {
	for _, id := range []string{"edit", "draft"} {
		if res := report.Result(id); res != nil && res.Succeeded() {
			return res.Output, true
		}
	}
	return "", false
}
