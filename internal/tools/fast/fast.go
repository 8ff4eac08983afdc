package fast

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"fslkit/internal/fslcmd"
	"fslkit/internal/imgfile"
	"fslkit/internal/imgformat"
	"fslkit/internal/run"
	"fslkit/internal/tools"
)

const toolName = "fast"

// DefaultClasses is the tissue class count assumed when none is given.
const DefaultClasses = 3

var optionSpec = fslcmd.OptionSpec{
	"number_classes":       "-n %d",
	"bias_iters":           "-I %d",
	"bias_lowpass":         "-l %d", // in mm
	"img_type":             "-t %d",
	"init_seg_smooth":      "-f %.3f",
	"segments":             "-g",
	"init_transform":       "-a %s",
	"other_priors":         "-A %s %s %s",
	"nopve":                "--nopve",
	"output_biasfield":     "-b",
	"output_biascorrected": "-B",
	"nobias":               "-N",
	"n_inputimages":        "-S %d",
	"out_basename":         "-o %s",
	"use_priors":           "-P", // must also set init_transform
	"segment_iters":        "-W %d",
	"mixel_smooth":         "-R %.2f",
	"iters_afterbias":      "-O %d",
	"hyper":                "-H %.2f",
	"verbose":              "-v",
	"manualseg":            "-s %s",
	"probability_maps":     "-p",
}

// Params holds the FAST parameter schema.
type Params struct {
	InFiles []string

	NumberClasses *int
	BiasIters     *int
	BiasLowpass   *int
	ImgType       *int
	NInputImages  *int
	SegmentIters  *int
	ItersAfterBias *int

	InitSegSmooth *float64
	MixelSmooth   *float64
	Hyper         *float64

	InitTransform string
	OutBasename   string
	ManualSeg     string
	OtherPriors   []string

	Segments            bool
	NoPVE               bool
	OutputBiasField     bool
	OutputBiasCorrected bool
	NoBias              bool
	UsePriors           bool
	Verbose             bool
	ProbabilityMaps     bool

	Flags []string

	// OutputFormat overrides the environment registry for output
	// prediction; empty means read FSLOUTPUTTYPE once at run start.
	OutputFormat imgformat.Format
}

func (p Params) classes() int {
	if p.NumberClasses != nil && *p.NumberClasses > 0 {
		return *p.NumberClasses
	}
	return DefaultClasses
}

func (p Params) pairs() []fslcmd.Param {
	var pairs []fslcmd.Param
	add := func(name string, v fslcmd.Value) {
		pairs = append(pairs, fslcmd.Param{Name: name, Value: v})
	}
	if p.NumberClasses != nil {
		add("number_classes", fslcmd.Int(*p.NumberClasses))
	}
	if p.BiasIters != nil {
		add("bias_iters", fslcmd.Int(*p.BiasIters))
	}
	if p.BiasLowpass != nil {
		add("bias_lowpass", fslcmd.Int(*p.BiasLowpass))
	}
	if p.ImgType != nil {
		add("img_type", fslcmd.Int(*p.ImgType))
	}
	if p.InitSegSmooth != nil {
		add("init_seg_smooth", fslcmd.Float(*p.InitSegSmooth))
	}
	if p.Segments {
		add("segments", fslcmd.Bool(true))
	}
	if p.InitTransform != "" {
		add("init_transform", fslcmd.String(p.InitTransform))
	}
	if len(p.OtherPriors) > 0 {
		add("other_priors", fslcmd.Strings(p.OtherPriors...))
	}
	if p.NoPVE {
		add("nopve", fslcmd.Bool(true))
	}
	if p.OutputBiasField {
		add("output_biasfield", fslcmd.Bool(true))
	}
	if p.OutputBiasCorrected {
		add("output_biascorrected", fslcmd.Bool(true))
	}
	if p.NoBias {
		add("nobias", fslcmd.Bool(true))
	}
	if p.NInputImages != nil {
		add("n_inputimages", fslcmd.Int(*p.NInputImages))
	}
	if p.OutBasename != "" {
		add("out_basename", fslcmd.String(p.OutBasename))
	}
	if p.UsePriors {
		add("use_priors", fslcmd.Bool(true))
	}
	if p.SegmentIters != nil {
		add("segment_iters", fslcmd.Int(*p.SegmentIters))
	}
	if p.MixelSmooth != nil {
		add("mixel_smooth", fslcmd.Float(*p.MixelSmooth))
	}
	if p.ItersAfterBias != nil {
		add("iters_afterbias", fslcmd.Int(*p.ItersAfterBias))
	}
	if p.Hyper != nil {
		add("hyper", fslcmd.Float(*p.Hyper))
	}
	if p.Verbose {
		add("verbose", fslcmd.Bool(true))
	}
	if p.ManualSeg != "" {
		add("manualseg", fslcmd.String(p.ManualSeg))
	}
	if p.ProbabilityMaps {
		add("probability_maps", fslcmd.Bool(true))
	}
	if len(p.Flags) > 0 {
		add(fslcmd.RawParam, fslcmd.Strings(p.Flags...))
	}
	return pairs
}

// Outputs lists the files a FAST run produced, one entry per input file
// (or per class per input for the per-class roles).
type Outputs struct {
	SegmentationMaps   []string
	ClassSegmentations []string
	PartialVolumeMaps  []string
	MixelTypeMaps      []string
	PartialVolumeFiles []string
	BiasFields         []string
	BiasCorrected      []string
	ProbabilityMaps    []string
}

type expected struct {
	role string
	path string
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec run.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger routes dropped-option warnings to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client wraps the FSL fast binary.
type Client struct {
	binary string
	exec   run.Executor
	logger *slog.Logger
}

// New constructs a FAST client. An empty binary falls back to "fast".
func New(binary string, opts ...Option) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = toolName
	}
	client := &Client{binary: binary, exec: run.CommandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BuildArgs assembles the argument vector: generic options first, input
// files as trailing tokens.
func (c *Client) BuildArgs(p Params) ([]string, error) {
	if len(p.InFiles) == 0 {
		return nil, tools.Wrap(tools.ErrMissingInput, toolName, "run", "requires input file(s)", nil)
	}
	tokens, problems := fslcmd.Build(p.pairs(), optionSpec, nil)
	tools.ReportProblems(c.logger, toolName, problems)
	return append(tokens, p.InFiles...), nil
}

// Cmdline renders the full command line for the given parameters.
func (c *Client) Cmdline(p Params) (string, error) {
	args, err := c.BuildArgs(p)
	if err != nil {
		return "", err
	}
	return fslcmd.Cmdline(c.binary, args), nil
}

// Run executes fast, predicts the expected outputs from the parameters
// and the output-format extension, and verifies every one exists.
func (c *Client) Run(ctx context.Context, p Params) (Outputs, error) {
	args, err := c.BuildArgs(p)
	if err != nil {
		return Outputs{}, err
	}
	ext, err := imgformat.Resolve(p.OutputFormat)
	if err != nil {
		return Outputs{}, tools.Wrap(tools.ErrExternalTool, toolName, "resolve output format", "", err)
	}
	res, err := c.exec.Run(ctx, c.binary, args)
	if err := tools.ExecError(toolName, res, err); err != nil {
		return Outputs{}, err
	}
	return aggregateOutputs(p, ext)
}

// baseFor computes the format-adjusted base name outputs derive from: the
// basename override (in the input's directory) when given, otherwise the
// input path with its extension swapped for the resolved one.
func baseFor(inFile, outBasename, ext string) string {
	if outBasename != "" {
		return filepath.Join(filepath.Dir(inFile), outBasename+"."+ext)
	}
	return imgfile.WithExtension(inFile, ext)
}

func aggregateOutputs(p Params, ext string) (Outputs, error) {
	var (
		outputs  Outputs
		expect   []expected
		nclasses = p.classes()
	)
	record := func(role string, path string, dest *[]string) {
		*dest = append(*dest, path)
		expect = append(expect, expected{role: role, path: path})
	}

	for _, inFile := range p.InFiles {
		item := baseFor(inFile, p.OutBasename, ext)

		record("segmentation_map", imgfile.PreSuffix(item, "_seg"), &outputs.SegmentationMaps)
		if p.Segments {
			for i := 0; i < nclasses; i++ {
				record("class_segmentation", imgfile.PreSuffix(item, fmt.Sprintf("_seg_%d", i)), &outputs.ClassSegmentations)
			}
		}
		if !p.NoPVE {
			record("partial_volume_map", imgfile.PreSuffix(item, "_pveseg"), &outputs.PartialVolumeMaps)
			record("mixeltype_map", imgfile.PreSuffix(item, "_mixeltype"), &outputs.MixelTypeMaps)
			for i := 0; i < nclasses; i++ {
				record("partial_volume_file", imgfile.PreSuffix(item, fmt.Sprintf("_pve_%d", i)), &outputs.PartialVolumeFiles)
			}
		}
		if p.OutputBiasField {
			record("bias_field", imgfile.PreSuffix(item, "_bias"), &outputs.BiasFields)
		}
		if p.OutputBiasCorrected {
			record("bias_corrected", imgfile.PreSuffix(item, "_restore"), &outputs.BiasCorrected)
		}
		if p.ProbabilityMaps {
			for i := 0; i < nclasses; i++ {
				record("probability_map", imgfile.PreSuffix(item, fmt.Sprintf("_prob_%d", i)), &outputs.ProbabilityMaps)
			}
		}
	}

	for _, e := range expect {
		if !imgfile.ExistsOne(e.path) {
			return Outputs{}, tools.MissingOutput(toolName, e.role, e.path)
		}
	}
	return outputs, nil
}
