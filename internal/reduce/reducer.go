package reduce

import (
	"context"
	"fmt"
	"strings"
)

// DefaultPerItemBudget is the per-upstream-output byte budget used when no
// budget is configured. Matches the scale of result summaries the planner
// pipeline was tuned for.
const DefaultPerItemBudget = 2048

// Entry is one upstream output in a context bundle.
type Entry struct {
	// TaskID is the upstream task that produced the text.
	TaskID string
	// Text is the (possibly reduced) output.
	Text string
	// Reduced is true if the raw output exceeded the budget and was shrunk.
	Reduced bool
}

// Bundle is the bounded-size collection of upstream outputs handed to a
// downstream task. Entries keep the order the caller supplied, which the
// scheduler derives from the task's declared dependency list.
type Bundle struct {
	entries []Entry
}

// Entries returns the bundle's entries in order.
func (b *Bundle) Entries() []Entry {
	return b.entries
}

// Len returns the number of entries.
func (b *Bundle) Len() int {
	return len(b.entries)
}

// Size returns the total byte size of all entry texts.
func (b *Bundle) Size() int {
	n := 0
	for _, e := range b.entries {
		n += len(e.Text)
	}
	return n
}

// Get returns the text for an upstream task ID and whether it is present.
func (b *Bundle) Get(taskID string) (string, bool) {
	for _, e := range b.entries {
		if e.TaskID == taskID {
			return e.Text, true
		}
	}
	return "", false
}

// Render formats the bundle as a context preamble for an agent instruction.
// Returns the empty string for an empty bundle.
func (b *Bundle) Render() string {
	if len(b.entries) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Context from previous steps:\n")
	for _, e := range b.entries {
		fmt.Fprintf(&sb, "- %s: %s\n", e.TaskID, e.Text)
	}
	return sb.String()
}

// Reducer produces bounded context bundles from raw upstream outputs.
// Each output under the per-item budget passes through unchanged; anything
// larger is shrunk by the configured Summarizer. The Reducer enforces the
// budget even if the Summarizer misbehaves, so a bundle's total size is
// always bounded by budget x entry count.
type Reducer struct {
	budget     int
	summarizer Summarizer
	fallback   Truncator
}

// New creates a Reducer with the given per-item byte budget and Summarizer.
// A nil summarizer or non-positive budget selects the defaults (deterministic
// truncation, DefaultPerItemBudget).
func New(budget int, summarizer Summarizer) *Reducer {
	if budget <= 0 {
		budget = DefaultPerItemBudget
	}
	if summarizer == nil {
		summarizer = Truncator{}
	}
	return &Reducer{budget: budget, summarizer: summarizer}
}

// Budget returns the per-item byte budget.
func (r *Reducer) Budget() int {
	return r.budget
}

// Reduce assembles a bundle from upstream outputs, in the given ID order.
// IDs missing from outputs are skipped. The returned bundle's every entry is
// at most Budget() bytes.
func (r *Reducer) Reduce(ctx context.Context, order []string, outputs map[string]string) (*Bundle, error) {
	bundle := &Bundle{}

	for _, id := range order {
		raw, ok := outputs[id]
		if !ok {
			continue
		}

		if len(raw) <= r.budget {
			bundle.entries = append(bundle.entries, Entry{TaskID: id, Text: raw})
			continue
		}

		text, err := r.summarizer.Summarize(ctx, raw, r.budget)
		if err != nil {
			// An abstractive backend can fail (network, rate limits); the
			// deterministic truncator cannot. Degrade rather than fail the task.
			text, _ = r.fallback.Summarize(ctx, raw, r.budget)
		}
		if len(text) > r.budget {
			// Summarizer violated its contract. Clamp so the size guarantee
			// holds regardless.
			text, _ = r.fallback.Summarize(ctx, text, r.budget)
		}

		bundle.entries = append(bundle.entries, Entry{TaskID: id, Text: text, Reduced: true})
	}

	return bundle, nil
}
