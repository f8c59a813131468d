package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"inspira/internal/project"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Show one project in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *project.Store) error {
				proj, err := store.GetBySlug(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, newProjectView(proj))
				}
				printProject(cmd, proj)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of text")
	return cmd
}

func printProject(cmd *cobra.Command, proj *project.Project) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintf(out, "Slug:        %s\n", proj.Slug)
	fmt.Fprintf(out, "Status:      %s\n", colorStatus(proj.Status, colorize))
	if proj.Language != "" {
		fmt.Fprintf(out, "Language:    %s\n", proj.Language)
	}
	if proj.VoiceID != "" {
		fmt.Fprintf(out, "Voice:       %s\n", proj.VoiceID)
	}
	fmt.Fprintf(out, "Created:     %s\n", formatTimestamp(proj.CreatedAt))
	fmt.Fprintf(out, "Updated:     %s\n", formatTimestamp(proj.UpdatedAt))

	artifacts := []struct {
		label string
		path  string
	}{
		{"Audio", proj.AudioFile},
		{"Subtitles", proj.SubtitleFile},
		{"Transcript", proj.TranscriptTXT},
		{"Prompts", proj.PromptTable},
		{"Description", proj.Description},
		{"Video", proj.VideoFile},
	}
	for _, artifact := range artifacts {
		if artifact.path != "" {
			fmt.Fprintf(out, "%-12s %s\n", artifact.label+":", artifact.path)
		}
	}
	if proj.DriveFolderID != "" {
		fmt.Fprintf(out, "Drive:       https://drive.google.com/drive/folders/%s\n", proj.DriveFolderID)
	}
	if proj.ErrorMessage != "" {
		fmt.Fprintf(out, "Error:       %s\n", proj.ErrorMessage)
	}
	if proj.Text != "" {
		fmt.Fprintf(out, "\n%s\n", proj.Text)
	}
}
