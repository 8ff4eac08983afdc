package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fslkit/internal/tools/fnirt"
)

func newFnirtCommand(ctx *commandContext) *cobra.Command {
	var (
		reference   string
		affine      string
		initWarp    string
		configFile  string
		refMask     string
		imgMask     string
		coeffFile   string
		outImage    string
		fieldFile   string
		jacobian    string
		logFile     string
		subSampling []int
		maxIter     []float64
		refFWHM     []float64
		imgFWHM     []float64
		lambdas     []float64
		verbose     bool
		writeConfig string
		extra       []string
	)

	cmd := &cobra.Command{
		Use:   "fnirt <infile>",
		Short: "Register an image to a reference with a non-linear warp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			params := fnirt.Params{
				InFile:         args[0],
				Reference:      reference,
				Affine:         affine,
				InitWarp:       initWarp,
				ConfigFile:     configFile,
				ReferenceMask:  refMask,
				ImageMask:      imgMask,
				FieldCoeffFile: coeffFile,
				OutImage:       outImage,
				FieldFile:      fieldFile,
				JacobianFile:   jacobian,
				LogFile:        logFile,
				SubSampling:    sliceIfSet(cmd, "subsamp", subSampling),
				MaxIter:        sliceIfSet(cmd, "miter", maxIter),
				ReferenceFWHM:  sliceIfSet(cmd, "reffwhm", refFWHM),
				ImgFWHM:        sliceIfSet(cmd, "infwhm", imgFWHM),
				Lambdas:        sliceIfSet(cmd, "lambda", lambdas),
				Verbose:        verbose,
				Flags:          extra,
			}

			client := fnirt.New(cfg.Tools.FNIRT, fnirt.WithLogger(ctx.logger()))

			if writeConfig != "" {
				if err := client.WriteConfig(writeConfig, params); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote fnirt configuration to %s\n", writeConfig)
				return nil
			}

			cmdline, err := client.Cmdline(params)
			if err != nil {
				return err
			}
			ctx.logger().Info("running", "tool", "fnirt", "cmdline", cmdline)

			started := time.Now()
			outputs, runErr := client.Run(cmd.Context(), params)
			ctx.recordRun("fnirt", cmdline, started, runErr)
			if runErr != nil {
				return runErr
			}

			printOutputs(cmd, outputRows(
				[2]string{"coefficients", outputs.CoefficientsFile},
				[2]string{"warped", outputs.WarpedImage},
				[2]string{"warp field", outputs.WarpField},
				[2]string{"jacobian", outputs.JacobianField},
				[2]string{"modulated reference", outputs.ModulatedReference},
				[2]string{"intensity modulation", outputs.IntensityModulation},
				[2]string{"log", outputs.LogFile},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&reference, "ref", "r", "", "Reference volume (required)")
	cmd.Flags().StringVar(&affine, "aff", "", "Affine transform from flirt")
	cmd.Flags().StringVar(&initWarp, "inwarp", "", "Initial non-linear warp field")
	cmd.Flags().StringVar(&configFile, "config-file", "", "fnirt configuration file")
	cmd.Flags().StringVar(&refMask, "refmask", "", "Mask in reference space")
	cmd.Flags().StringVar(&imgMask, "inmask", "", "Mask in input image space")
	cmd.Flags().StringVar(&coeffFile, "cout", "", "Output file for field coefficients")
	cmd.Flags().StringVar(&outImage, "iout", "", "Output warped image")
	cmd.Flags().StringVar(&fieldFile, "fout", "", "Output warp field")
	cmd.Flags().StringVar(&jacobian, "jout", "", "Output Jacobian determinant map")
	cmd.Flags().StringVar(&logFile, "logout", "", "Log file")
	cmd.Flags().IntSliceVar(&subSampling, "subsamp", nil, "Sub-sampling scheme per level")
	cmd.Flags().Float64SliceVar(&maxIter, "miter", nil, "Max iterations per level")
	cmd.Flags().Float64SliceVar(&refFWHM, "reffwhm", nil, "Reference smoothing FWHM per level (mm)")
	cmd.Flags().Float64SliceVar(&imgFWHM, "infwhm", nil, "Input smoothing FWHM per level (mm)")
	cmd.Flags().Float64SliceVar(&lambdas, "lambda", nil, "Regularization weight per level")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose tool output")
	cmd.Flags().StringVar(&writeConfig, "write-config", "", "Write the assembled options to a config file instead of running")
	cmd.Flags().StringArrayVar(&extra, "flag", nil, "Extra option passed through verbatim (repeatable)")

	_ = cmd.MarkFlagRequired("ref")

	return cmd
}
