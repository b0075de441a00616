package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"seqdeliver/internal/deliverylog"
	"seqdeliver/internal/flowcell"
	"seqdeliver/internal/layout"
	"seqdeliver/internal/logging"
	"seqdeliver/internal/services"
	"seqdeliver/internal/transfer"
)

func newTransferCommand(ctx *commandContext) *cobra.Command {
	var (
		project     string
		flowcellID  string
		fromPre     bool
		toPre       bool
		transferDir string
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Deliver flowcell data for a project into the delivery area",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validated before touching the filesystem: there is no
			// sensible target layout for this combination.
			if fromPre && toPre {
				return services.Wrap(services.ErrConfiguration, "transfer", "validate flags",
					"delivering from pre-casava input to pre-casava output is not supported", nil)
			}
			if fromPre && flowcellID == "" {
				return services.Wrap(services.ErrConfiguration, "transfer", "validate flags",
					"--flowcell is required with --from-pre-casava", nil)
			}

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

			resolver := layout.NewResolver(logger)
			var cells []*flowcell.Flowcell
			if fromPre {
				fc, resolveErr := resolver.FromPreCasava(cfg.Paths.ArchiveRoot, cfg.Paths.ProductionRoot, flowcellID, project)
				if resolveErr != nil {
					err = resolveErr
				} else {
					cells = []*flowcell.Flowcell{fc}
				}
			} else {
				cells, err = resolver.FromCasava(cfg.Paths.ProductionRoot, flowcellID, project)
			}
			if err != nil {
				if errors.Is(err, services.ErrNotFound) {
					logger.Warn("nothing to deliver", logging.Error(err))
					fmt.Fprintf(cmd.OutOrStdout(), "Nothing to deliver for project %s\n", project)
					return nil
				}
				return err
			}

			runner, err := ctx.runner()
			if err != nil {
				return err
			}
			planner := &layout.Planner{
				ProjectRoot: cfg.Paths.ProjectRoot,
				Project:     project,
				TransferDir: transferDir,
			}
			executor := transfer.NewExecutor(runner, logger)

			var (
				rows   [][]string
				events []deliverylog.Event
			)
			for _, fc := range cells {
				var plan *layout.Plan
				if toPre {
					plan, err = planner.ToPreCasava(fc)
				} else {
					plan, err = planner.ToCasava(fc)
				}
				if err != nil {
					return err
				}

				summary, err := executor.Execute(plan)
				if err != nil {
					return err
				}
				for _, dataDir := range plan.DataDirs {
					if err := layout.PrunePlatformArgs(runner, dataDir, logger); err != nil {
						return err
					}
				}

				for _, sample := range summary.Samples() {
					counts := summary.Counts(sample)
					rows = append(rows, []string{
						fc.ID,
						sample,
						fmt.Sprintf("%d", counts.Files),
						fmt.Sprintf("%d", counts.Results),
					})
					events = append(events, deliverylog.Event{
						Flowcell: fc.ID,
						Project:  project,
						Sample:   sample,
						Action:   "copied",
						Detail:   fmt.Sprintf("%d sequence files, %d result files", counts.Files, counts.Results),
					})
				}
			}

			if len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing to deliver for project %s\n", project)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Flowcell", "Sample", "Files", "Results"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
			))
			ctx.logHistory(cmd.Context(), "transfer", events)
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project id owning the delivered samples")
	cmd.Flags().StringVarP(&flowcellID, "flowcell", "f", "", "Flowcell directory to deliver (all flowcells when omitted)")
	cmd.Flags().BoolVar(&fromPre, "from-pre-casava", false, "Source tree uses the pre-casava per-flowcell layout")
	cmd.Flags().BoolVar(&toPre, "to-pre-casava", false, "Deliver into the pre-casava layout instead of per-sample directories")
	cmd.Flags().StringVar(&transferDir, "transfer-dir", "", "Deliver under this subtree instead of the project id")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
