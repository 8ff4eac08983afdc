package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// floatPtr returns a pointer to value only when the flag was supplied on
// the command line, so unset flags stay out of the assembled argument
// list entirely.
func floatPtr(cmd *cobra.Command, name string, value float64) *float64 {
	if cmd.Flags().Changed(name) {
		return &value
	}
	return nil
}

func intPtr(cmd *cobra.Command, name string, value int) *int {
	if cmd.Flags().Changed(name) {
		return &value
	}
	return nil
}

func sliceIfSet[T any](cmd *cobra.Command, name string, value []T) []T {
	if cmd.Flags().Changed(name) {
		return value
	}
	return nil
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printOutputs renders produced files as a table on terminals and as
// plain role<TAB>path lines otherwise, keeping piped output parseable.
func printOutputs(cmd *cobra.Command, rows [][]string) {
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, "No outputs verified")
		return
	}
	if stdoutIsTerminal() {
		fmt.Fprintln(out, renderTable([]string{"Output", "Path"}, rows))
		return
	}
	for _, row := range rows {
		fmt.Fprintf(out, "%s\t%s\n", row[0], row[1])
	}
}
