package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"seqdeliver/internal/deliverylog"
	"seqdeliver/internal/lifecycle"
	"seqdeliver/internal/prompt"
)

func newTouchFinishedCommand(ctx *commandContext) *cobra.Command {
	var (
		project   string
		sampleArg string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "touch-finished",
		Short: "Mark delivered samples finished after verifying the QC archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			release, err := ctx.acquireLock()
			if err != nil {
				return err
			}
			defer release()

			samples, err := lifecycle.ResolveSampleArg(strings.TrimPrefix(sampleArg, "@"))
			if err != nil {
				return err
			}
			runner, err := ctx.runner()
			if err != nil {
				return err
			}

			mgr := lifecycle.NewManager(runner, prompt.New(), logger)
			outcomes, err := mgr.MarkFinished(cmd.Context(), lifecycle.MarkRequest{
				ProductionRoot: cfg.Paths.ProductionRoot,
				RunQCRoot:      cfg.Paths.RunQCRoot,
				Project:        project,
				Samples:        samples,
				RsyncOpts:      cfg.Rsync.SampleOpts,
				Force:          force,
			})
			printOutcomes(cmd, outcomes)
			ctx.logHistory(cmd.Context(), "touch-finished", outcomeEvents(project, outcomes))
			return err
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project id owning the samples")
	cmd.Flags().StringVarP(&sampleArg, "sample", "s", "", "Sample name, or a file listing one sample per line")
	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompts")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("sample")

	return cmd
}

func newRemoveFinishedCommand(ctx *commandContext) *cobra.Command {
	var (
		project string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "remove-finished",
		Short: "Reclaim storage for finished samples of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			release, err := ctx.acquireLock()
			if err != nil {
				return err
			}
			defer release()

			runner, err := ctx.runner()
			if err != nil {
				return err
			}

			mgr := lifecycle.NewManager(runner, prompt.New(), logger)
			outcomes, err := mgr.RemoveFinished(lifecycle.RemoveRequest{
				ProductionRoot: cfg.Paths.ProductionRoot,
				Project:        project,
				Force:          force,
			})
			printOutcomes(cmd, outcomes)
			ctx.logHistory(cmd.Context(), "remove-finished", outcomeEvents(project, outcomes))
			return err
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project id owning the samples")
	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompts")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func printOutcomes(cmd *cobra.Command, outcomes []lifecycle.Outcome) {
	if len(outcomes) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No samples to process")
		return
	}
	rows := make([][]string, 0, len(outcomes))
	for _, outcome := range outcomes {
		rows = append(rows, []string{outcome.Sample, outcome.Action, outcome.Detail})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Sample", "Action", "Detail"},
		rows,
		nil,
	))
}

func outcomeEvents(project string, outcomes []lifecycle.Outcome) []deliverylog.Event {
	events := make([]deliverylog.Event, 0, len(outcomes))
	for _, outcome := range outcomes {
		events = append(events, deliverylog.Event{
			Project: project,
			Sample:  outcome.Sample,
			Action:  outcome.Action,
			Detail:  outcome.Detail,
		})
	}
	return events
}
