package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/aweller/maestro/internal/agent"
	"github.com/aweller/maestro/internal/api"
	"github.com/aweller/maestro/internal/config"
	"github.com/aweller/maestro/internal/orchestrator"
	"github.com/aweller/maestro/internal/reduce"
	"github.com/aweller/maestro/pkg/models"
)

// Execution flags shared by run and report.
var (
	flagModel         string
	flagBedrock       bool
	flagRegion        string
	flagProfile       string
	flagMaxParallel   int
	flagContextBudget int
	flagAbstractive   bool
	flagTaskTimeout   time.Duration
	flagRunTimeout    time.Duration
	flagTrace         string
	flagJSON          bool
)

func addExecutionFlags(cmd *pflag.FlagSet) {
	cmd.StringVar(&flagModel, "model", "", "Claude model to use (overrides config)")
	cmd.BoolVar(&flagBedrock, "bedrock", false, "Use AWS Bedrock instead of the Anthropic API")
	cmd.StringVar(&flagRegion, "region", "", "AWS region for Bedrock")
	cmd.StringVar(&flagProfile, "profile", "", "AWS profile for Bedrock")
	cmd.IntVar(&flagMaxParallel, "max-parallel", 0, "Max concurrent tasks (0 = config default)")
	cmd.IntVar(&flagContextBudget, "context-budget", 0, "Per-upstream-output byte budget (0 = config default)")
	cmd.BoolVar(&flagAbstractive, "abstractive", false, "Summarize oversized outputs with the model instead of truncating")
	cmd.DurationVar(&flagTaskTimeout, "task-timeout", 0, "Per-task timeout (0 = config default)")
	cmd.DurationVar(&flagRunTimeout, "timeout", 0, "Whole-run timeout (0 = config default)")
	cmd.StringVar(&flagTrace, "trace", "", "Write a JSONL execution trace to this file")
	cmd.BoolVar(&flagJSON, "json", false, "Print the full run report as JSON")
}

// runtime bundles everything a command needs to execute tasks.
type runtime struct {
	cfg      *config.Config
	client   *api.Client
	reducer  *reduce.Reducer
	registry *agent.Registry
}

// buildRuntime loads config, applies flag overrides, and wires the API
// client, reducer, and agent registry.
func buildRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if flagBedrock {
		cfg.Bedrock.Enabled = true
	}
	if flagRegion != "" {
		cfg.Bedrock.Region = flagRegion
	}
	if flagProfile != "" {
		cfg.Bedrock.Profile = flagProfile
	}
	if flagModel != "" {
		cfg.Anthropic.Model = flagModel
	}
	if flagMaxParallel > 0 {
		cfg.Defaults.MaxParallel = flagMaxParallel
	}
	if flagContextBudget > 0 {
		cfg.Defaults.ContextBudget = flagContextBudget
	}
	if flagAbstractive {
		cfg.Defaults.AbstractiveReduce = true
	}
	if flagTaskTimeout > 0 {
		cfg.Timeouts.Task = flagTaskTimeout
	}
	if flagRunTimeout > 0 {
		cfg.Timeouts.Run = flagRunTimeout
	}

	apiKey, err := config.GetAPIKey(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w\n\nSet ANTHROPIC_API_KEY or add anthropic.api_key to %s", err, config.GetUserConfigPath())
	}

	client, err := api.NewClient(api.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        apiKey,
		UseAWSBedrock: cfg.Bedrock.Enabled,
		AWSRegion:     cfg.Bedrock.Region,
		AWSProfile:    cfg.Bedrock.Profile,
	})
	if err != nil {
		return nil, fmt.Errorf("create API client: %w", err)
	}

	var summarizer reduce.Summarizer
	if cfg.Defaults.AbstractiveReduce {
		summarizer = reduce.NewClaudeSummarizer(client)
	}
	reducer := reduce.New(cfg.Defaults.ContextBudget, summarizer)

	profiles, err := config.LoadProfiles("")
	if err != nil {
		return nil, err
	}
	registry := agent.DefaultRegistry(client, http.DefaultClient, profiles)

	return &runtime{
		cfg:      cfg,
		client:   client,
		reducer:  reducer,
		registry: registry,
	}, nil
}

// executeTasks runs a task list through the orchestrator with signal
// handling and progress output, then prints the report.
func executeTasks(rt *runtime, request string, tasks []*models.TaskSpec) (*models.RunReport, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if rt.cfg.Timeouts.Run > 0 {
		ctx, cancel = context.WithTimeout(ctx, rt.cfg.Timeouts.Run)
		defer cancel()
	}

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Println("\nReceived interrupt, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	opts := []orchestrator.Option{
		orchestrator.WithMaxParallel(rt.cfg.Defaults.MaxParallel),
		orchestrator.WithTaskTimeout(rt.cfg.Timeouts.Task),
		orchestrator.WithReducer(rt.reducer),
	}
	logger := orchestrator.NewDebugLoggerForDir(".")
	defer logger.Close()
	opts = append(opts, orchestrator.WithLogger(logger))
	if flagTrace != "" {
		trace, err := orchestrator.NewTraceRecorderForFile(flagTrace)
		if err != nil {
			return nil, err
		}
		defer trace.Close()
		opts = append(opts, orchestrator.WithTrace(trace))
	}

	orch := orchestrator.New(rt.registry, opts...)

	printerDone := make(chan struct{})
	go func() {
		defer close(printerDone)
		consumeEvents(orch.Events())
	}()

	report, err := orch.Run(ctx, request, tasks)
	<-printerDone
	return report, err
}

// consumeEvents prints orchestrator events to stdout.
func consumeEvents(events <-chan orchestrator.Event) {
	for event := range events {
		switch event.Type {
		case orchestrator.EventTaskStarted:
			fmt.Printf("%s %s (%s)\n", color.CyanString("[START]"), event.TaskID, event.Agent)
		case orchestrator.EventTaskCompleted:
			fmt.Printf("%s %s (%s)\n", color.GreenString("[DONE]"), event.TaskID, event.Duration.Round(time.Millisecond))
		case orchestrator.EventTaskFailed:
			fmt.Printf("%s %s: %v\n", color.RedString("[FAILED]"), event.TaskID, event.Error)
		case orchestrator.EventTaskSkipped:
			fmt.Printf("%s %s: %s\n", color.YellowString("[SKIPPED]"), event.TaskID, event.Message)
		case orchestrator.EventTaskCancelled:
			fmt.Printf("%s %s\n", color.YellowString("[CANCELLED]"), event.TaskID)
		}
	}
}

// printReport renders a run report for the terminal, or as JSON with --json.
// Returns a non-nil error when any task failed, so the process exits non-zero
// on a completed-with-errors run.
func printReport(rt *runtime, report *models.RunReport) error {
	if flagJSON {
		encoded, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		fmt.Println(string(encoded))
		return runFailure(report)
	}

	fmt.Println()
	for _, outcome := range report.Outcomes {
		result := outcome.Result
		switch {
		case result.Succeeded():
			fmt.Printf("%s %s: %s\n", color.GreenString("✓"), outcome.Spec.ID, result.Output)
		case result.Status == models.TaskStatusCancelled:
			fmt.Printf("%s %s: cancelled\n", color.YellowString("⚠"), outcome.Spec.ID)
		default:
			fmt.Printf("%s %s: %s\n", color.RedString("✗"), outcome.Spec.ID, result.Error)
		}
	}

	tracker := rt.client.Tracker()
	in, out := tracker.Total()
	fmt.Printf("\n%d/%d tasks succeeded, %d tokens across %d API calls\n",
		len(report.Outcomes)-report.FailedCount(), len(report.Outcomes),
		in+out, tracker.Calls())
	return runFailure(report)
}

// runFailure maps a completed-with-errors report to a non-zero exit.
func runFailure(report *models.RunReport) error {
	if n := report.FailedCount(); n > 0 {
		return fmt.Errorf("run completed with errors: %d of %d tasks did not succeed",
			n, len(report.Outcomes))
	}
	return nil
}
