package agent

import (
	"context"
	"testing"

	"github.com/aweller/maestro/internal/reduce"
	"github.com/aweller/maestro/pkg/models"
)

func mathTask(instruction string, deps ...string) *models.TaskSpec {
	return &models.TaskSpec{
		ID:          "m1",
		Agent:       models.AgentMath,
		Instruction: instruction,
		DependsOn:   deps,
	}
}

func TestMathRunner_Expressions(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"2+3", "5"},
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"10 / 4", "2.5"},
		{"5!", "120"},
		{"0!", "1"},
		{"2^10", "1024"},
		{"2^3^2", "512"}, // right-associative
		{"-3 + 5", "2"},
		{"3!+1", "7"},
	}

	r := NewMathRunner()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := r.Invoke(context.Background(), mathTask(tt.expr), nil)
			if err != nil {
				t.Fatalf("Invoke(%q) returned error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Invoke(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestMathRunner_ExpressionErrors(t *testing.T) {
	tests := []string{"2 / 0", "(2 + 3", "(-1)!", "171!", "2 +"}

	r := NewMathRunner()
	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			if _, err := r.Invoke(context.Background(), mathTask(expr), nil); err == nil {
				t.Errorf("Invoke(%q) should have failed", expr)
			}
		})
	}
}

func TestMathRunner_VerbTasks(t *testing.T) {
	tests := []struct {
		name        string
		instruction string
		want        string
	}{
		{"factorial keyword", "Calculate 5 factorial", "120"},
		{"sum keyword", "add 2 and 3 and 10", "15"},
		{"product keyword", "multiply 3 by 7", "21"},
		{"difference keyword", "10 minus 4", "6"},
		{"average keyword", "average of 2, 4 and 6", "4"},
		{"power keyword", "raise 2 to the power of 8", "256"},
	}

	r := NewMathRunner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Invoke(context.Background(), mathTask(tt.instruction), nil)
			if err != nil {
				t.Fatalf("Invoke returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Invoke(%q) = %q, want %q", tt.instruction, got, tt.want)
			}
		})
	}
}

func TestMathRunner_UsesContextBundleOperands(t *testing.T) {
	reducer := reduce.New(100, nil)
	bundle, _ := reducer.Reduce(context.Background(), []string{"a", "c"}, map[string]string{
		"a": "5",
		"c": "11",
	})

	r := NewMathRunner()
	got, err := r.Invoke(context.Background(), mathTask("add the results of A and C", "a", "c"), bundle)
	if err != nil {
		t.Fatalf("Invoke returned error: %v", err)
	}
	if got != "16" {
		t.Errorf("Invoke = %q, want %q", got, "16")
	}
}

func TestMathRunner_NoOperands(t *testing.T) {
	r := NewMathRunner()
	if _, err := r.Invoke(context.Background(), mathTask("add the things together"), nil); err == nil {
		t.Error("expected error when no operands are available")
	}
}

func TestMathRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewMathRunner()
	if _, err := r.Invoke(ctx, mathTask("2+3"), nil); err == nil {
		t.Error("expected error for cancelled context")
	}
}
