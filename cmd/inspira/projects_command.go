package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"inspira/internal/project"
)

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	var statusFilter []string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatuses(statusFilter)
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *project.Store) error {
				projects, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, projectViews(projects))
				}
				out := cmd.OutOrStdout()
				if len(projects) == 0 {
					fmt.Fprintln(out, "No projects")
					return nil
				}
				colorize := shouldColorize(out)
				rows := make([]table.Row, 0, len(projects))
				for _, proj := range projects {
					detail := proj.ErrorMessage
					if detail == "" && proj.VideoFile != "" {
						detail = proj.VideoFile
					}
					rows = append(rows, table.Row{
						proj.ID,
						proj.Slug,
						colorStatus(proj.Status, colorize),
						proj.Language,
						formatTimestamp(proj.UpdatedAt),
						truncate(detail, 48),
					})
				}
				headers := table.Row{"ID", "Slug", "Status", "Lang", "Updated", "Detail"}
				fmt.Fprintln(out, renderTable(headers, rows, 1))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&statusFilter, "status", nil, "Filter by status (repeatable)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

type projectView struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Status      string `json:"status"`
	Language    string `json:"language,omitempty"`
	AudioFile   string `json:"audio_file,omitempty"`
	VideoFile   string `json:"video_file,omitempty"`
	DriveFolder string `json:"drive_folder,omitempty"`
	Error       string `json:"error,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func projectViews(projects []*project.Project) []projectView {
	views := make([]projectView, 0, len(projects))
	for _, proj := range projects {
		views = append(views, newProjectView(proj))
	}
	return views
}

func newProjectView(proj *project.Project) projectView {
	return projectView{
		ID:          proj.ID,
		Slug:        proj.Slug,
		Status:      string(proj.Status),
		Language:    proj.Language,
		AudioFile:   proj.AudioFile,
		VideoFile:   proj.VideoFile,
		DriveFolder: proj.DriveFolderID,
		Error:       proj.ErrorMessage,
		CreatedAt:   proj.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   proj.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func parseStatuses(values []string) ([]project.Status, error) {
	statuses := make([]project.Status, 0, len(values))
	for _, value := range values {
		status := project.Status(strings.ToLower(strings.TrimSpace(value)))
		if !status.Valid() {
			return nil, fmt.Errorf("unknown status %q", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04")
}

func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 3 || len(value) <= limit {
		return value
	}
	return value[:limit-3] + "..."
}
