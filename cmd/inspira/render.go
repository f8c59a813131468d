package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"inspira/internal/project"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorStatus(status project.Status, colorize bool) string {
	if !colorize {
		return string(status)
	}
	switch status {
	case project.StatusCompleted:
		return ansiGreen + string(status) + ansiReset
	case project.StatusFailed:
		return ansiRed + string(status) + ansiReset
	case project.StatusPending:
		return string(status)
	default:
		return ansiYellow + string(status) + ansiReset
	}
}
