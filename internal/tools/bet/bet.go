package bet

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"fslkit/internal/fslcmd"
	"fslkit/internal/imgfile"
	"fslkit/internal/run"
	"fslkit/internal/tools"
)

const toolName = "bet"

// OutSuffix is inserted before the extension when no output path is given.
const OutSuffix = "_bet"

// MaskSuffix names the brain mask BET writes alongside the stripped volume.
const MaskSuffix = "_mask"

var optionSpec = fslcmd.OptionSpec{
	"outline":           "-o",
	"mask":              "-m",
	"skull":             "-s",
	"nooutput":          "-n",
	"frac":              "-f %.2f",
	"vertical_gradient": "-g %.2f",
	"radius":            "-r %d", // in mm
	"center":            "-c %d %d %d", // in voxels
	"threshold":         "-t",
	"mesh":              "-e",
	"verbose":           "-v",
}

// Params holds the BET parameter schema. Unset fields are excluded from
// command generation.
type Params struct {
	InFile  string
	OutFile string

	Outline   bool
	Mask      bool
	Skull     bool
	NoOutput  bool
	Threshold bool
	Mesh      bool
	Verbose   bool

	Frac             *float64
	VerticalGradient *float64
	Radius           *int
	Center           []int

	// Flags are passed through verbatim for options the schema does not model.
	Flags []string
}

func (p Params) pairs() []fslcmd.Param {
	var pairs []fslcmd.Param
	add := func(name string, v fslcmd.Value) {
		pairs = append(pairs, fslcmd.Param{Name: name, Value: v})
	}
	if p.Outline {
		add("outline", fslcmd.Bool(true))
	}
	if p.Mask {
		add("mask", fslcmd.Bool(true))
	}
	if p.Skull {
		add("skull", fslcmd.Bool(true))
	}
	if p.NoOutput {
		add("nooutput", fslcmd.Bool(true))
	}
	if p.Frac != nil {
		add("frac", fslcmd.Float(*p.Frac))
	}
	if p.VerticalGradient != nil {
		add("vertical_gradient", fslcmd.Float(*p.VerticalGradient))
	}
	if p.Radius != nil {
		add("radius", fslcmd.Int(*p.Radius))
	}
	if len(p.Center) > 0 {
		add("center", fslcmd.Ints(p.Center...))
	}
	if p.Threshold {
		add("threshold", fslcmd.Bool(true))
	}
	if p.Mesh {
		add("mesh", fslcmd.Bool(true))
	}
	if p.Verbose {
		add("verbose", fslcmd.Bool(true))
	}
	if len(p.Flags) > 0 {
		add(fslcmd.RawParam, fslcmd.Strings(p.Flags...))
	}
	return pairs
}

// Outputs holds the files a BET run produced.
type Outputs struct {
	OutFile string
	// MaskFile is empty when no mask was written; absence is not an error
	// for this role.
	MaskFile string
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

// Client wraps the FSL bet binary.
type Client struct {
	binary string
	exec   run.Executor
	logger *slog.Logger
}

// New constructs a BET client. An empty binary falls back to "bet".
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

// OutFileFor derives the output path used when none is given: the input
// file name with OutSuffix inserted before the extension, in the input's
// directory.
func OutFileFor(inFile string) string {
	dir, name := filepath.Split(inFile)
	return filepath.Join(dir, imgfile.PreSuffix(name, OutSuffix))
}

// BuildArgs assembles the argument vector: input at position 0, output at
// position 1, generically formatted options after.
func (c *Client) BuildArgs(p Params) ([]string, error) {
	args, _, err := c.buildArgs(p)
	return args, err
}

// Cmdline renders the full command line for the given parameters.
func (c *Client) Cmdline(p Params) (string, error) {
	args, _, err := c.buildArgs(p)
	if err != nil {
		return "", err
	}
	return fslcmd.Cmdline(c.binary, args), nil
}

func (c *Client) buildArgs(p Params) ([]string, string, error) {
	if strings.TrimSpace(p.InFile) == "" {
		return nil, "", tools.Wrap(tools.ErrMissingInput, toolName, "run", "requires an input file", nil)
	}
	outFile := p.OutFile
	if outFile == "" {
		outFile = OutFileFor(p.InFile)
	}

	tokens, problems := fslcmd.Build(p.pairs(), optionSpec, nil)
	tools.ReportProblems(c.logger, toolName, problems)

	args := make([]string, 0, len(tokens)+2)
	args = append(args, p.InFile, outFile)
	args = append(args, tokens...)
	return args, outFile, nil
}

// Run executes bet and verifies its outputs. The stripped volume must
// exist after a zero exit; the mask is reported only when present.
func (c *Client) Run(ctx context.Context, p Params) (Outputs, error) {
	args, outFile, err := c.buildArgs(p)
	if err != nil {
		return Outputs{}, err
	}
	res, err := c.exec.Run(ctx, c.binary, args)
	if err := tools.ExecError(toolName, res, err); err != nil {
		return Outputs{}, err
	}
	return aggregateOutputs(outFile)
}

func aggregateOutputs(outFile string) (Outputs, error) {
	if !imgfile.ExistsOne(outFile) {
		return Outputs{}, tools.MissingOutput(toolName, "outfile", outFile)
	}
	outputs := Outputs{OutFile: outFile}
	outputs.MaskFile = imgfile.FirstMatch(imgfile.PreSuffix(outFile, MaskSuffix))
	return outputs, nil
}
