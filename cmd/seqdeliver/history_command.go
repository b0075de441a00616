package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"seqdeliver/internal/deliverylog"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		project string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded delivery and lifecycle actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := deliverylog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			events, err := store.Recent(cmd.Context(), project, limit)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No delivery history recorded")
				return nil
			}

			rows := make([][]string, 0, len(events))
			for _, event := range events {
				rows = append(rows, []string{
					event.CreatedAt.Local().Format(time.DateTime),
					event.Command,
					event.Flowcell,
					event.Project,
					event.Sample,
					event.Action,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Time", "Command", "Flowcell", "Project", "Sample", "Action"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Only show events for this project")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of events to show (default 50)")

	return cmd
}
