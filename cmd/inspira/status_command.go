package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"inspira/internal/project"
)

var statusOrder = []project.Status{
	project.StatusPending,
	project.StatusVoiced,
	project.StatusTranscribed,
	project.StatusBundled,
	project.StatusImaged,
	project.StatusCompleted,
	project.StatusFailed,
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Summarize project counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *project.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				total := 0
				for _, count := range stats {
					total += count
				}
				if jsonOut {
					payload := make(map[string]int, len(stats)+1)
					for status, count := range stats {
						payload[string(status)] = count
					}
					payload["total"] = total
					return writeJSON(cmd, payload)
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				rows := make([]table.Row, 0, len(statusOrder))
				for _, status := range statusOrder {
					count := stats[status]
					if count == 0 {
						continue
					}
					rows = append(rows, table.Row{colorStatus(status, colorize), count})
				}
				if len(rows) == 0 {
					fmt.Fprintln(out, "No projects")
					return nil
				}
				fmt.Fprintln(out, renderTable(table.Row{"Status", "Count"}, rows, 2))
				fmt.Fprintf(out, "Total: %d\n", total)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}
