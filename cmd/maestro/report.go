package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aweller/maestro/internal/pipeline"
)

var reportCmd = &cobra.Command{
	Use:   "report <topic>",
	Short: "Produce a researched, edited report on a topic",
	Long: `Run the fixed research pipeline: search the web for the topic, draft a
report from the findings, then edit the draft.

This skips the planner; the three stages and their ordering are fixed.

Example:
  maestro report "current state of battery recycling"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReport,
}

func init() {
	addExecutionFlags(reportCmd.Flags())
}

func runReport(cmd *cobra.Command, args []string) error {
	topic := strings.Join(args, " ")

	rt, err := buildRuntime()
	if err != nil {
		return err
	}

	tasks := pipeline.ResearchReport(topic)
	report, err := executeTasks(rt, topic, tasks)
	if err != nil {
		if report == nil {
			return err
		}
		fmt.Printf("\nRun interrupted: %v\n", err)
	}

	if flagJSON {
		return printReport(rt, report)
	}

	final, ok := pipeline.FinalReport(report)
	if !ok {
		return fmt.Errorf("pipeline produced no report: %s", report.Result("research").Error)
	}
	fmt.Printf("\n%s\n", final)
	return runFailure(report)
}
