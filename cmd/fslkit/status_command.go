package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fslkit/internal/deps"
	"fslkit/internal/imgformat"
	"fslkit/internal/version"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report FSL installation, tool availability, and output format",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			ver, err := version.Detect()
			switch {
			case err == nil:
				fmt.Fprintf(out, "FSL version: %s\n", ver)
			case errors.Is(err, version.ErrNotFound):
				fmt.Fprintln(out, "FSL version: not detected (set FSLDIR or install fsl on PATH)")
			default:
				fmt.Fprintf(out, "FSL version: error (%v)\n", err)
			}

			format, _, err := imgformat.Current()
			switch {
			case err == nil:
				fmt.Fprintf(out, "Output format: %s\n", format)
			case errors.Is(err, imgformat.ErrUnset):
				fmt.Fprintf(out, "Output format: %s not set (config default %s)\n", imgformat.EnvVar, cfg.Output.Format)
			default:
				fmt.Fprintf(out, "Output format: invalid (%v)\n", err)
			}

			statuses := deps.CheckTools(cfg)
			statuses = append(statuses, deps.CheckDirAccess("Log directory", cfg.Paths.LogDir))
			if cfg.Paths.WorkDir != "" {
				statuses = append(statuses, deps.CheckDirAccess("Work directory", cfg.Paths.WorkDir))
			}

			rows := make([][]string, 0, len(statuses))
			unavailable := 0
			for _, status := range statuses {
				state := "ok"
				detail := status.Detail
				if !status.Available {
					state = "missing"
					unavailable++
				}
				rows = append(rows, []string{status.Name, status.Command, state, detail})
			}

			if stdoutIsTerminal() {
				fmt.Fprintln(out, renderTable([]string{"Dependency", "Command", "State", "Detail"}, rows))
			} else {
				for _, row := range rows {
					fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", row[0], row[1], row[2], row[3])
				}
			}

			if unavailable > 0 {
				return fmt.Errorf("%d dependencies unavailable", unavailable)
			}
			return nil
		},
	}
}
