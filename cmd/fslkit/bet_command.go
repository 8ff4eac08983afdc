package main

import (
	"time"

	"github.com/spf13/cobra"

	"fslkit/internal/tools/bet"
)

func newBetCommand(ctx *commandContext) *cobra.Command {
	var (
		outFile   string
		outline   bool
		mask      bool
		skull     bool
		noOutput  bool
		threshold bool
		mesh      bool
		verbose   bool
		frac      float64
		vertical  float64
		radius    int
		center    []int
		extra     []string
	)

	cmd := &cobra.Command{
		Use:   "bet <infile> [outfile]",
		Short: "Strip non-brain tissue from an image",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			params := bet.Params{
				InFile:           args[0],
				OutFile:          outFile,
				Outline:          outline,
				Mask:             mask,
				Skull:            skull,
				NoOutput:         noOutput,
				Threshold:        threshold,
				Mesh:             mesh,
				Verbose:          verbose,
				Frac:             floatPtr(cmd, "frac", frac),
				VerticalGradient: floatPtr(cmd, "vertical-gradient", vertical),
				Radius:           intPtr(cmd, "radius", radius),
				Center:           sliceIfSet(cmd, "center", center),
				Flags:            extra,
			}
			if len(args) == 2 {
				params.OutFile = args[1]
			}

			client := bet.New(cfg.Tools.BET, bet.WithLogger(ctx.logger()))
			cmdline, err := client.Cmdline(params)
			if err != nil {
				return err
			}
			ctx.logger().Info("running", "tool", "bet", "cmdline", cmdline)

			started := time.Now()
			outputs, runErr := client.Run(cmd.Context(), params)
			ctx.recordRun("bet", cmdline, started, runErr)
			if runErr != nil {
				return runErr
			}

			printOutputs(cmd, outputRows(
				[2]string{"brain", outputs.OutFile},
				[2]string{"mask", outputs.MaskFile},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file (defaults to <infile>_bet)")
	cmd.Flags().BoolVar(&outline, "outline", false, "Generate brain surface outline")
	cmd.Flags().BoolVarP(&mask, "mask", "m", false, "Generate a binary brain mask")
	cmd.Flags().BoolVar(&skull, "skull", false, "Generate a skull image")
	cmd.Flags().BoolVar(&noOutput, "no-output", false, "Suppress the stripped image output")
	cmd.Flags().BoolVar(&threshold, "threshold", false, "Apply thresholding to segmented brain image")
	cmd.Flags().BoolVar(&mesh, "mesh", false, "Generate a VTK mesh of the brain surface")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose tool output")
	cmd.Flags().Float64VarP(&frac, "frac", "f", 0.5, "Fractional intensity threshold (0..1)")
	cmd.Flags().Float64VarP(&vertical, "vertical-gradient", "g", 0, "Vertical gradient in fractional intensity threshold (-1..1)")
	cmd.Flags().IntVarP(&radius, "radius", "r", 0, "Head radius in millimetres")
	cmd.Flags().IntSliceVar(&center, "center", nil, "Centre of gravity in voxels (x,y,z)")
	cmd.Flags().StringArrayVar(&extra, "flag", nil, "Extra option passed through verbatim (repeatable)")

	return cmd
}
