package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aweller/maestro/internal/planner"
)

var runPlanOnly bool

var runCmd = &cobra.Command{
	Use:   "run <request>",
	Short: "Plan a request into tasks and execute them",
	Long: `Run a natural-language request through the planner and execute the
resulting task graph.

The planner decomposes the request into tasks, each assigned to a
specialist agent with explicit dependencies. Independent tasks run in
parallel; each dependent task receives a size-bounded bundle of its
upstream results. A failed task fails its downstream tasks without
stopping unrelated branches.

Examples:
  maestro run "What is 12 * 34, and how many letters are in the answer?"
  maestro run --max-parallel 2 "Compare today's weather in Oslo and Rome"
  maestro run --plan-only "Research Go generics and write a summary"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRequest,
}

func init() {
	addExecutionFlags(runCmd.Flags())
	runCmd.Flags().BoolVar(&runPlanOnly, "plan-only", false, "Print the planned tasks without executing them")
}

func runRequest(cmd *cobra.Command, args []string) error {
	request := strings.Join(args, " ")

	rt, err := buildRuntime()
	if err != nil {
		return err
	}

	fmt.Printf("Planning: %s\n", request)
	p := planner.New(rt.client, rt.client.Model())
	tasks, err := p.Plan(context.Background(), request)
	if err != nil {
		return fmt.Errorf("plan request: %w", err)
	}

	for _, task := range tasks {
		deps := ""
		if len(task.DependsOn) > 0 {
			deps = fmt.Sprintf(" (after %s)", strings.Join(task.DependsOn, ", "))
		}
		fmt.Printf("  %s %s [%s]%s: %s\n", color.CyanString("·"), task.ID, task.Agent, deps, task.Instruction)
	}
	if runPlanOnly {
		return nil
	}
	fmt.Println()

	report, err := executeTasks(rt, request, tasks)
	if err != nil {
		if report == nil {
			return err
		}
		// Cancelled mid-run: show what we have.
		fmt.Printf("\nRun interrupted: %v\n", err)
	}

	return printReport(rt, report)
}
