package agent

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/aweller/maestro/internal/reduce"
	"github.com/aweller/maestro/pkg/models"
)

// MathRunner evaluates arithmetic tasks locally. It handles plain expressions
// ("2+3", "5!", "2^10") directly and falls back to keyword-driven reduction
// ("add", "multiply", ...) over the numbers found in the instruction and the
// upstream context bundle.
type MathRunner struct{}

// NewMathRunner creates a math runner.
func NewMathRunner() *MathRunner {
	return &MathRunner{}
}

var (
	exprPattern   = regexp.MustCompile(`^[\d\s\.\+\-\*/\^\(\)!]+$`)
	numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
)

// Invoke evaluates the task and returns the numeric result as text.
func (r *MathRunner) Invoke(ctx context.Context, task *models.TaskSpec, bundle *reduce.Bundle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	instruction := strings.TrimSpace(task.Instruction)

	// Pure expression: evaluate directly.
	if exprPattern.MatchString(instruction) {
		val, err := evalExpression(instruction)
		if err != nil {
			return "", fmt.Errorf("evaluate %q: %w", instruction, err)
		}
		return formatNumber(val), nil
	}

	// Otherwise reduce the numbers mentioned in the instruction and carried
	// in from upstream results.
	operands := extractNumbers(instruction)
	if bundle != nil {
		for _, e := range bundle.Entries() {
			operands = append(operands, extractNumbers(e.Text)...)
		}
	}
	if len(operands) == 0 {
		return "", fmt.Errorf("no numeric operands in task %q", task.ID)
	}

	val, err := applyVerb(instruction, operands)
	if err != nil {
		return "", err
	}
	return formatNumber(val), nil
}

// extractNumbers returns every numeric literal in s, in order.
func extractNumbers(s string) []float64 {
	var nums []float64
	for _, m := range numberPattern.FindAllString(s, -1) {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			nums = append(nums, v)
		}
	}
	return nums
}

// applyVerb picks the operation from instruction keywords and folds it over
// the operands.
func applyVerb(instruction string, operands []float64) (float64, error) {
	lower := strings.ToLower(instruction)

	switch {
	case strings.Contains(lower, "factorial"):
		return factorial(operands[0])
	case containsAny(lower, "multiply", "product", "times"):
		acc := 1.0
		for _, v := range operands {
			acc *= v
		}
		return acc, nil
	case containsAny(lower, "subtract", "minus", "difference"):
		acc := operands[0]
		for _, v := range operands[1:] {
			acc -= v
		}
		return acc, nil
	case containsAny(lower, "divide", "quotient"):
		acc := operands[0]
		for _, v := range operands[1:] {
			if v == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			acc /= v
		}
		return acc, nil
	case containsAny(lower, "power", "raise", "exponent"):
		if len(operands) < 2 {
			return 0, fmt.Errorf("power needs a base and an exponent")
		}
		return math.Pow(operands[0], operands[1]), nil
	case containsAny(lower, "average", "mean"):
		sum := 0.0
		for _, v := range operands {
			sum += v
		}
		return sum / float64(len(operands)), nil
	default:
		// "add", "sum", "plus", "total", and anything unrecognized.
		sum := 0.0
		for _, v := range operands {
			sum += v
		}
		return sum, nil
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func factorial(n float64) (float64, error) {
	if n < 0 || n != math.Trunc(n) {
		return 0, fmt.Errorf("factorial is defined for non-negative integers, got %v", n)
	}
	if n > 170 {
		return 0, fmt.Errorf("factorial of %v overflows", n)
	}
	acc := 1.0
	for i := 2.0; i <= n; i++ {
		acc *= i
	}
	return acc, nil
}

// formatNumber renders integers without a decimal point and everything else
// with minimal digits.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
