package agent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/aweller/maestro/internal/reduce"
	"github.com/aweller/maestro/pkg/models"
)

// StringRunner handles text analysis tasks locally: word counts, letter
// counts, reversing, and case changes. The text to operate on is taken from
// a quoted span in the instruction, or failing that, from the upstream
// context bundle.
type StringRunner struct{}

// NewStringRunner creates a string runner.
func NewStringRunner() *StringRunner {
	return &StringRunner{}
}

var quotedPattern = regexp.MustCompile(`['"]([^'"]*)['"]`)

// Invoke performs the requested string operation.
func (r *StringRunner) Invoke(ctx context.Context, task *models.TaskSpec, bundle *reduce.Bundle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	subject := subjectText(task.Instruction, bundle)
	if subject == "" {
		return "", fmt.Errorf("no subject text in task %q", task.ID)
	}

	lower := strings.ToLower(task.Instruction)
	switch {
	case strings.Contains(lower, "word"):
		return strconv.Itoa(len(strings.Fields(subject))), nil
	case strings.Contains(lower, "letter") || strings.Contains(lower, "character"):
		return strconv.Itoa(letterCount(subject)), nil
	case strings.Contains(lower, "reverse"):
		return reverseString(subject), nil
	case strings.Contains(lower, "upper"):
		return strings.ToUpper(subject), nil
	case strings.Contains(lower, "lower"):
		return strings.ToLower(subject), nil
	default:
		return "", fmt.Errorf("unrecognized string operation in %q", task.Instruction)
	}
}

// subjectText extracts the text to operate on: the first quoted span in the
// instruction, otherwise the concatenated upstream outputs.
func subjectText(instruction string, bundle *reduce.Bundle) string {
	if m := quotedPattern.FindStringSubmatch(instruction); m != nil {
		return m[1]
	}
	if bundle == nil {
		return ""
	}
	var parts []string
	for _, e := range bundle.Entries() {
		parts = append(parts, e.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// letterCount counts alphabetic runes.
func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
