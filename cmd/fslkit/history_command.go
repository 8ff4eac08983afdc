package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"fslkit/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Run history utilities",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent tool invocations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.StartedAt.Local().Format(time.DateTime),
					rec.Tool,
					rec.Status,
					strconv.Itoa(rec.ExitCode),
					rec.Cmdline,
				})
			}

			if stdoutIsTerminal() {
				fmt.Fprintln(out, renderTable([]string{"Started", "Tool", "Status", "Exit", "Command"}, rows, 3))
			} else {
				for _, row := range rows {
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n", row[0], row[1], row[2], row[3], row[4])
				}
			}
			return nil
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")

	historyCmd.AddCommand(listCmd)
	return historyCmd
}
