// Package reduce bounds the size of upstream outputs handed to downstream
// tasks. Large outputs are shrunk by a pluggable Summarizer before they enter
// a dependent task's context, which keeps chained agent payloads from growing
// without limit.
package reduce

import (
	"context"
	"fmt"
	"unicode/utf8"
)

// Summarizer shrinks text to fit within a byte budget.
// Implementations may be deterministic (truncation) or abstractive (LLM),
// but the returned text must never exceed the budget.
type Summarizer interface {
	Summarize(ctx context.Context, text string, budget int) (string, error)
}

// Truncator is the deterministic default Summarizer. It keeps the head and
// tail of the text around an explicit truncation marker. Given the same text
// and budget it always produces byte-identical output.
type Truncator struct{}

// Summarize truncates text to at most budget bytes, preserving the start and
// end around a "...[truncated N bytes]..." marker. Cuts land on rune
// boundaries so the result is always valid UTF-8.
func (Truncator) Summarize(_ context.Context, text string, budget int) (string, error) {
	if budget < 0 {
		budget = 0
	}
	if len(text) <= budget {
		return text, nil
	}

	// Size the cut with a lower-bound count first; the real omitted count is
	// only known once head and tail are fixed.
	marker := truncationMarker(len(text) - budget)
	if len(marker) >= budget {
		// No room for the marker; take a plain head cut.
		return headBytes(text, budget), nil
	}

	// Split the remaining budget between head and tail, head-heavy.
	remaining := budget - len(marker)
	headLen := (remaining + 1) / 2
	tailLen := remaining - headLen

	head := headBytes(text, headLen)
	tail := tailBytes(text, tailLen)

	// Restate the marker with the bytes actually omitted. The accurate count
	// can be longer than the estimate; shrink the kept text until the whole
	// result fits the budget again.
	for {
		marker = truncationMarker(len(text) - len(head) - len(tail))
		if len(head)+len(marker)+len(tail) <= budget {
			return head + marker + tail, nil
		}
		switch {
		case len(tail) > 0:
			tail = tailBytes(tail, len(tail)-1)
		case len(head) > 0:
			head = headBytes(head, len(head)-1)
		default:
			return headBytes(text, budget), nil
		}
	}
}

func truncationMarker(omitted int) string {
	return fmt.Sprintf("\n...[truncated %d bytes]...\n", omitted)
}

// headBytes returns the longest prefix of s that is at most n bytes and ends
// on a rune boundary.
func headBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// tailBytes returns the longest suffix of s that is at most n bytes and
// starts on a rune boundary.
func tailBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}
