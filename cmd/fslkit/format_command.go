package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fslkit/internal/imgformat"
	"fslkit/internal/run"
)

func newFormatCommand(ctx *commandContext) *cobra.Command {
	formatCmd := &cobra.Command{
		Use:   "format",
		Short: "Inspect or change the image output format",
	}

	formatCmd.AddCommand(&cobra.Command{
		Use:         "get",
		Short:       "Print the current output format and its extension",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, ext, err := imgformat.Current()
			if err != nil {
				if errors.Is(err, imgformat.ErrUnset) {
					return fmt.Errorf("%s is not set (valid formats: %s)",
						imgformat.EnvVar, strings.Join(imgformat.Names(), ", "))
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (.%s)\n", format, ext)
			return nil
		},
	})

	formatCmd.AddCommand(&cobra.Command{
		Use:   "set <format>",
		Short: "Set the output format for this process and print the extension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lock := run.NewLock(cfg.Paths.LockFile)
			if err := lock.Acquire(); err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			format, ext, err := imgformat.Set(imgformat.Format(strings.ToUpper(args[0])))
			if err != nil {
				return fmt.Errorf("%w (valid formats: %s)", err, strings.Join(imgformat.Names(), ", "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (.%s)\n", format, ext)
			return nil
		},
	})

	return formatCmd
}
