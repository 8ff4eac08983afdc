package main

import (
	"time"

	"github.com/spf13/cobra"

	"fslkit/internal/imgformat"
	"fslkit/internal/tools/mcflirt"
)

func newMcflirtCommand(ctx *commandContext) *cobra.Command {
	var (
		outFile     string
		cost        string
		initMatrix  string
		bins        int
		dof         int
		refVol      int
		stages      int
		smooth      float64
		meanVol     bool
		statsImgs   bool
		saveMats    bool
		savePlots   bool
		report      bool
		useGradient bool
		verbose     bool
		format      string
		extra       []string
	)

	cmd := &cobra.Command{
		Use:   "mcflirt <infile>",
		Short: "Correct a 4D time series for head motion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if format != "" {
				release, err := ctx.applyFormat(format)
				if err != nil {
					return err
				}
				defer release()
			}

			params := mcflirt.Params{
				InFile:       args[0],
				OutFile:      outFile,
				Cost:         cost,
				Init:         initMatrix,
				Bins:         intPtr(cmd, "bins", bins),
				Dof:          intPtr(cmd, "dof", dof),
				RefVol:       intPtr(cmd, "refvol", refVol),
				Stages:       intPtr(cmd, "stages", stages),
				Smooth:       floatPtr(cmd, "smooth", smooth),
				MeanVol:      meanVol,
				StatsImgs:    statsImgs,
				SaveMats:     saveMats,
				SavePlots:    savePlots,
				Report:       report,
				UseGradient:  useGradient,
				Verbose:      verbose,
				Flags:        extra,
				OutputFormat: imgformat.Format(format),
			}

			client := mcflirt.New(cfg.Tools.MCFLIRT, mcflirt.WithLogger(ctx.logger()))
			cmdline, err := client.Cmdline(params)
			if err != nil {
				return err
			}
			ctx.logger().Info("running", "tool", "mcflirt", "cmdline", cmdline)

			started := time.Now()
			outputs, runErr := client.Run(cmd.Context(), params)
			ctx.recordRun("mcflirt", cmdline, started, runErr)
			if runErr != nil {
				return runErr
			}

			printOutputs(cmd, outputRows(
				[2]string{"corrected", outputs.OutFile},
				[2]string{"variance", outputs.VarianceImg},
				[2]string{"stddev", outputs.StdImg},
				[2]string{"mean", outputs.MeanImg},
				[2]string{"parameters", outputs.ParFile},
				[2]string{"matrices", outputs.MatDir},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file (defaults to <infile>_mcf)")
	cmd.Flags().StringVar(&cost, "cost", "", "Cost function (mutualinfo, woods, corratio, normcorr, normmi, leastsquares)")
	cmd.Flags().StringVar(&initMatrix, "init", "", "Initial transform matrix")
	cmd.Flags().IntVar(&bins, "bins", 0, "Number of histogram bins")
	cmd.Flags().IntVar(&dof, "dof", 0, "Transform degrees of freedom")
	cmd.Flags().IntVar(&refVol, "refvol", 0, "Number of the reference volume")
	cmd.Flags().IntVar(&stages, "stages", 0, "Number of search stages (4 adds sinc interpolation)")
	cmd.Flags().Float64Var(&smooth, "smooth", 0, "Smoothing factor for the cost function")
	cmd.Flags().BoolVar(&meanVol, "meanvol", false, "Register to the mean volume")
	cmd.Flags().BoolVar(&statsImgs, "stats", false, "Produce variance and std. dev. images")
	cmd.Flags().BoolVar(&saveMats, "mats", false, "Save transformation matrices")
	cmd.Flags().BoolVar(&savePlots, "plots", false, "Save transformation parameters")
	cmd.Flags().BoolVar(&report, "report", false, "Report progress to the terminal")
	cmd.Flags().BoolVar(&useGradient, "gdt", false, "Run search on gradient images")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose tool output")
	cmd.Flags().StringVar(&format, "format", "", "Image output format for this run (e.g. NIFTI_GZ)")
	cmd.Flags().StringArrayVar(&extra, "flag", nil, "Extra option passed through verbatim (repeatable)")

	return cmd
}
