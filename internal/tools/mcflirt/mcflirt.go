package mcflirt

import (
	"context"
	"log/slog"
	"strings"

	"fslkit/internal/fslcmd"
	"fslkit/internal/imgfile"
	"fslkit/internal/imgformat"
	"fslkit/internal/run"
	"fslkit/internal/tools"
)

const toolName = "mcflirt"

// OutSuffix is appended to the input base name when no output is given.
const OutSuffix = "_mcf"

var optionSpec = fslcmd.OptionSpec{
	"outfile":     "-out %s",
	"cost":        "-cost %s",
	"bins":        "-bins %d",
	"dof":         "-dof %d",
	"refvol":      "-refvol %d",
	"scaling":     "-scaling %.2f",
	"smooth":      "-smooth %.2f",
	"rotation":    "-rotation %d",
	"verbose":     "-verbose",
	"stages":      "-stages %d",
	"init":        "-init %s",
	"usegradient": "-gdt",
	"usecontour":  "-edge",
	"meanvol":     "-meanvol",
	"statsimgs":   "-stats",
	"savemats":    "-mats",
	"saveplots":   "-plots",
	"report":      "-report",
}

// Params holds the MCFLIRT parameter schema.
type Params struct {
	InFile  string
	OutFile string
	Cost    string
	Init    string

	Bins     *int
	Dof      *int
	RefVol   *int
	Rotation *int
	Stages   *int

	Scaling *float64
	Smooth  *float64

	Verbose     bool
	UseGradient bool
	UseContour  bool
	MeanVol     bool
	StatsImgs   bool
	SaveMats    bool
	SavePlots   bool
	Report      bool

	Flags []string

	// OutputFormat overrides the environment registry for output
	// prediction; empty means read FSLOUTPUTTYPE once at run start.
	OutputFormat imgformat.Format
}

func (p Params) pairs() []fslcmd.Param {
	var pairs []fslcmd.Param
	add := func(name string, v fslcmd.Value) {
		pairs = append(pairs, fslcmd.Param{Name: name, Value: v})
	}
	if p.OutFile != "" {
		add("outfile", fslcmd.String(p.OutFile))
	}
	if p.Cost != "" {
		add("cost", fslcmd.String(p.Cost))
	}
	if p.Bins != nil {
		add("bins", fslcmd.Int(*p.Bins))
	}
	if p.Dof != nil {
		add("dof", fslcmd.Int(*p.Dof))
	}
	if p.RefVol != nil {
		add("refvol", fslcmd.Int(*p.RefVol))
	}
	if p.Scaling != nil {
		add("scaling", fslcmd.Float(*p.Scaling))
	}
	if p.Smooth != nil {
		add("smooth", fslcmd.Float(*p.Smooth))
	}
	if p.Rotation != nil {
		add("rotation", fslcmd.Int(*p.Rotation))
	}
	if p.Verbose {
		add("verbose", fslcmd.Bool(true))
	}
	if p.Stages != nil {
		add("stages", fslcmd.Int(*p.Stages))
	}
	if p.Init != "" {
		add("init", fslcmd.String(p.Init))
	}
	if p.UseGradient {
		add("usegradient", fslcmd.Bool(true))
	}
	if p.UseContour {
		add("usecontour", fslcmd.Bool(true))
	}
	if p.MeanVol {
		add("meanvol", fslcmd.Bool(true))
	}
	if p.StatsImgs {
		add("statsimgs", fslcmd.Bool(true))
	}
	if p.SaveMats {
		add("savemats", fslcmd.Bool(true))
	}
	if p.SavePlots {
		add("saveplots", fslcmd.Bool(true))
	}
	if p.Report {
		add("report", fslcmd.Bool(true))
	}
	if len(p.Flags) > 0 {
		add(fslcmd.RawParam, fslcmd.Strings(p.Flags...))
	}
	return pairs
}

// Outputs holds the files an MCFLIRT run produced. Optional roles are
// empty when the corresponding flag was not set.
type Outputs struct {
	OutFile     string
	VarianceImg string
	StdImg      string
	MeanImg     string
	ParFile     string
	MatDir      string
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

// Client wraps the FSL mcflirt binary.
type Client struct {
	binary string
	exec   run.Executor
	logger *slog.Logger
}

// New constructs an MCFLIRT client. An empty binary falls back to "mcflirt".
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

// BuildArgs assembles the argument vector: the labelled input pair first,
// generic tokens after.
func (c *Client) BuildArgs(p Params) ([]string, error) {
	if strings.TrimSpace(p.InFile) == "" {
		return nil, tools.Wrap(tools.ErrMissingInput, toolName, "run", "requires an input file", nil)
	}
	tokens, problems := fslcmd.Build(p.pairs(), optionSpec, nil)
	tools.ReportProblems(c.logger, toolName, problems)

	args := make([]string, 0, len(tokens)+2)
	args = append(args, "-in", p.InFile)
	return append(args, tokens...), nil
}

// Cmdline renders the full command line for the given parameters.
func (c *Client) Cmdline(p Params) (string, error) {
	args, err := c.BuildArgs(p)
	if err != nil {
		return "", err
	}
	return fslcmd.Cmdline(c.binary, args), nil
}

// Run executes mcflirt and verifies the realigned volume plus whichever
// optional artifacts the flags requested.
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

// baseFor derives the realigned volume path: the explicit output with its
// extension swapped for the resolved one, or the input base with the
// OutSuffix appended.
func baseFor(p Params, ext string) string {
	if p.OutFile != "" {
		return imgfile.WithExtension(p.OutFile, ext)
	}
	return imgfile.StripExtension(p.InFile) + OutSuffix + "." + ext
}

type expected struct {
	role string
	path string
}

func aggregateOutputs(p Params, ext string) (Outputs, error) {
	item := baseFor(p, ext)
	outputs := Outputs{OutFile: item}
	expect := []expected{{"outfile", item}}

	if p.StatsImgs {
		outputs.VarianceImg = imgfile.PreSuffix(item, "_variance")
		outputs.StdImg = imgfile.PreSuffix(item, "_sigma")
		outputs.MeanImg = imgfile.PreSuffix(item, "_meanvol")
		expect = append(expect,
			expected{"varianceimg", outputs.VarianceImg},
			expected{"stdimg", outputs.StdImg},
			expected{"meanimg", outputs.MeanImg},
		)
	}
	if p.SaveMats {
		outputs.MatDir = imgfile.StripExtension(item) + ".mat"
		expect = append(expect, expected{"outmatdir", outputs.MatDir})
	}
	if p.SavePlots {
		outputs.ParFile = imgfile.StripExtension(item) + ".par"
		expect = append(expect, expected{"parfile", outputs.ParFile})
	}

	for _, e := range expect {
		if imgfile.FirstMatch(e.path) == "" {
			return Outputs{}, tools.MissingOutput(toolName, e.role, e.path)
		}
	}
	return outputs, nil
}
