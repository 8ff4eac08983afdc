package main

import (
	"time"

	"github.com/spf13/cobra"

	"fslkit/internal/tools/flirt"
)

func newFlirtCommand(ctx *commandContext) *cobra.Command {
	var (
		reference  string
		outFile    string
		outMatrix  string
		inMatrix   string
		cost       string
		searchCost string
		interp     string
		bins       int
		dof        int
		searchRX   []int
		searchRY   []int
		searchRZ   []int
		noSearch   bool
		rigid2D    bool
		applyXFM   bool
		verbose    int
		extra      []string
	)

	cmd := &cobra.Command{
		Use:   "flirt <infile>",
		Short: "Register an image to a reference with a linear transform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			params := flirt.Params{
				InFile:     args[0],
				Reference:  reference,
				OutFile:    outFile,
				OutMatrix:  outMatrix,
				InMatrix:   inMatrix,
				Cost:       cost,
				SearchCost: searchCost,
				Interp:     interp,
				Bins:       intPtr(cmd, "bins", bins),
				Dof:        intPtr(cmd, "dof", dof),
				Verbose:    intPtr(cmd, "verbose", verbose),
				SearchRX:   sliceIfSet(cmd, "searchrx", searchRX),
				SearchRY:   sliceIfSet(cmd, "searchry", searchRY),
				SearchRZ:   sliceIfSet(cmd, "searchrz", searchRZ),
				NoSearch:   noSearch,
				Rigid2D:    rigid2D,
				Flags:      extra,
			}

			client := flirt.New(cfg.Tools.FLIRT, flirt.WithLogger(ctx.logger()))
			cmdline, err := client.Cmdline(params)
			if err != nil {
				return err
			}
			ctx.logger().Info("running", "tool", "flirt", "cmdline", cmdline)

			started := time.Now()
			var (
				outputs flirt.Outputs
				runErr  error
			)
			if applyXFM {
				outputs, runErr = client.ApplyXFM(cmd.Context(), params)
			} else {
				outputs, runErr = client.Run(cmd.Context(), params)
			}
			ctx.recordRun("flirt", cmdline, started, runErr)
			if runErr != nil {
				return runErr
			}

			printOutputs(cmd, outputRows(
				[2]string{"registered", outputs.OutFile},
				[2]string{"matrix", outputs.OutMatrix},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&reference, "ref", "r", "", "Reference volume (required)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Registered output volume")
	cmd.Flags().StringVar(&outMatrix, "omat", "", "Output transform matrix in ASCII format")
	cmd.Flags().StringVar(&inMatrix, "init", "", "Input transform matrix")
	cmd.Flags().StringVar(&cost, "cost", "", "Cost function (mutualinfo, corratio, normcorr, normmi, leastsq)")
	cmd.Flags().StringVar(&searchCost, "searchcost", "", "Cost function for the search phase")
	cmd.Flags().StringVar(&interp, "interp", "", "Final interpolation (trilinear, nearestneighbour, sinc)")
	cmd.Flags().IntVar(&bins, "bins", 0, "Number of histogram bins")
	cmd.Flags().IntVar(&dof, "dof", 0, "Transform degrees of freedom")
	cmd.Flags().IntSliceVar(&searchRX, "searchrx", nil, "Angle search range about the x axis (min,max degrees)")
	cmd.Flags().IntSliceVar(&searchRY, "searchry", nil, "Angle search range about the y axis (min,max degrees)")
	cmd.Flags().IntSliceVar(&searchRZ, "searchrz", nil, "Angle search range about the z axis (min,max degrees)")
	cmd.Flags().BoolVar(&noSearch, "nosearch", false, "Set all angular search ranges to 0")
	cmd.Flags().BoolVar(&rigid2D, "2D", false, "Use rigid 2D mode (ignores low-order costs)")
	cmd.Flags().BoolVar(&applyXFM, "applyxfm", false, "Apply the --init transform instead of searching")
	cmd.Flags().IntVarP(&verbose, "verbose", "v", 0, "Verbosity level (0 is least)")
	cmd.Flags().StringArrayVar(&extra, "flag", nil, "Extra option passed through verbatim (repeatable)")

	_ = cmd.MarkFlagRequired("ref")

	return cmd
}
