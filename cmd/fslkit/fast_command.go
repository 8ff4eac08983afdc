package main

import (
	"time"

	"github.com/spf13/cobra"

	"fslkit/internal/imgformat"
	"fslkit/internal/tools/fast"
)

func newFastCommand(ctx *commandContext) *cobra.Command {
	var (
		outBasename   string
		initTransform string
		manualSeg     string
		otherPriors   []string
		classes       int
		biasIters     int
		biasLowpass   int
		imgType       int
		segmentIters  int
		hyper         float64
		segments      bool
		noPVE         bool
		biasField     bool
		biasCorrected bool
		noBias        bool
		usePriors     bool
		probMaps      bool
		verbose       bool
		format        string
		extra         []string
	)

	cmd := &cobra.Command{
		Use:   "fast <infile>...",
		Short: "Segment an image into tissue classes with optional bias correction",
		Args:  cobra.MinimumNArgs(1),
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

			params := fast.Params{
				InFiles:             args,
				OutBasename:         outBasename,
				InitTransform:       initTransform,
				ManualSeg:           manualSeg,
				OtherPriors:         otherPriors,
				NumberClasses:       intPtr(cmd, "classes", classes),
				BiasIters:           intPtr(cmd, "bias-iters", biasIters),
				BiasLowpass:         intPtr(cmd, "bias-lowpass", biasLowpass),
				ImgType:             intPtr(cmd, "type", imgType),
				SegmentIters:        intPtr(cmd, "segment-iters", segmentIters),
				Hyper:               floatPtr(cmd, "hyper", hyper),
				Segments:            segments,
				NoPVE:               noPVE,
				OutputBiasField:     biasField,
				OutputBiasCorrected: biasCorrected,
				NoBias:              noBias,
				UsePriors:           usePriors,
				ProbabilityMaps:     probMaps,
				Verbose:             verbose,
				Flags:               extra,
				OutputFormat:        imgformat.Format(format),
			}

			client := fast.New(cfg.Tools.FAST, fast.WithLogger(ctx.logger()))
			cmdline, err := client.Cmdline(params)
			if err != nil {
				return err
			}
			ctx.logger().Info("running", "tool", "fast", "cmdline", cmdline)

			started := time.Now()
			outputs, runErr := client.Run(cmd.Context(), params)
			ctx.recordRun("fast", cmdline, started, runErr)
			if runErr != nil {
				return runErr
			}

			var pairs [][2]string
			appendAll := func(role string, paths []string) {
				for _, path := range paths {
					pairs = append(pairs, [2]string{role, path})
				}
			}
			appendAll("segmentation", outputs.SegmentationMaps)
			appendAll("class segmentation", outputs.ClassSegmentations)
			appendAll("partial volume map", outputs.PartialVolumeMaps)
			appendAll("mixeltype map", outputs.MixelTypeMaps)
			appendAll("partial volume", outputs.PartialVolumeFiles)
			appendAll("bias field", outputs.BiasFields)
			appendAll("bias corrected", outputs.BiasCorrected)
			appendAll("probability map", outputs.ProbabilityMaps)
			printOutputs(cmd, outputRows(pairs...))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outBasename, "out", "o", "", "Basename for output files")
	cmd.Flags().StringVarP(&initTransform, "init-transform", "a", "", "Initial standard-space transform matrix")
	cmd.Flags().StringVarP(&manualSeg, "manual-seg", "s", "", "Manual segmentation image filename")
	cmd.Flags().StringSliceVarP(&otherPriors, "priors", "A", nil, "Alternative prior images")
	cmd.Flags().IntVarP(&classes, "classes", "n", fast.DefaultClasses, "Number of tissue classes")
	cmd.Flags().IntVarP(&biasIters, "bias-iters", "I", 0, "Number of main-loop iterations during bias-field removal")
	cmd.Flags().IntVarP(&biasLowpass, "bias-lowpass", "l", 0, "Bias field smoothing extent in millimetres")
	cmd.Flags().IntVarP(&imgType, "type", "t", 0, "Image type (1=T1, 2=T2, 3=PD)")
	cmd.Flags().IntVarP(&segmentIters, "segment-iters", "W", 0, "Number of segmentation-initialisation iterations")
	cmd.Flags().Float64VarP(&hyper, "hyper", "H", 0, "Segmentation spatial smoothness")
	cmd.Flags().BoolVarP(&segments, "segments", "g", false, "Write a binary image per tissue class")
	cmd.Flags().BoolVar(&noPVE, "nopve", false, "Turn off partial volume estimation")
	cmd.Flags().BoolVarP(&biasField, "bias-field", "b", false, "Write the estimated bias field")
	cmd.Flags().BoolVarP(&biasCorrected, "bias-corrected", "B", false, "Write the bias-corrected image")
	cmd.Flags().BoolVarP(&noBias, "nobias", "N", false, "Do not remove the bias field")
	cmd.Flags().BoolVarP(&usePriors, "use-priors", "P", false, "Use priors throughout segmentation")
	cmd.Flags().BoolVarP(&probMaps, "prob", "p", false, "Write individual probability maps")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose tool output")
	cmd.Flags().StringVar(&format, "format", "", "Image output format for this run (e.g. NIFTI_GZ)")
	cmd.Flags().StringArrayVar(&extra, "flag", nil, "Extra option passed through verbatim (repeatable)")

	return cmd
}
