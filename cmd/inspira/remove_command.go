package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"inspira/internal/project"
)

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <slug>",
		Short: "Remove a project record",
		Long:  "Removes the project row from the database. Files under the project directory are left in place.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *project.Store) error {
				removed, err := store.Remove(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !removed {
					fmt.Fprintf(out, "Project %s not found\n", args[0])
					return nil
				}
				fmt.Fprintf(out, "Project %s removed\n", args[0])
				return nil
			})
		},
	}
}
