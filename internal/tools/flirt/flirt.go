package flirt

import (
	"context"
	"log/slog"
	"strings"

	"fslkit/internal/fslcmd"
	"fslkit/internal/imgfile"
	"fslkit/internal/run"
	"fslkit/internal/tools"
)

const toolName = "flirt"

var optionSpec = fslcmd.OptionSpec{
	"datatype":     "-datatype %d",
	"cost":         "-cost %s",
	"searchcost":   "-searchcost %s",
	"usesqform":    "-usesqform",
	"displayinit":  "-displayinit",
	"anglerep":     "-anglerep %s",
	"interp":       "-interp %s",
	"sincwidth":    "-sincwidth %d",
	"sincwindow":   "-sincwindow %s",
	"bins":         "-bins %d",
	"dof":          "-dof %d",
	"noresample":   "-noresample",
	"forcescaling": "-forcescaling",
	"minsampling":  "-minsampling %f",
	"paddingsize":  "-paddingsize %d",
	"searchrx":     "-searchrx %d %d",
	"searchry":     "-searchry %d %d",
	"searchrz":     "-searchrz %d %d",
	"nosearch":     "-nosearch",
	"coarsesearch": "-coarsesearch %d",
	"finesearch":   "-finesearch %d",
	"refweight":    "-refweight %s",
	"inweight":     "-inweight %s",
	"noclamp":      "-noclamp",
	"noresampblur": "-noresampblur",
	"rigid2D":      "-2D",
	"verbose":      "-v %d",
}

// Params holds the FLIRT parameter schema. InFile and Reference are
// mandatory; OutFile, OutMatrix, and InMatrix occupy the labelled slots.
type Params struct {
	InFile    string
	Reference string
	OutFile   string
	OutMatrix string
	InMatrix  string

	Cost       string
	SearchCost string
	AngleRep   string
	Interp     string
	SincWindow string
	RefWeight  string
	InWeight   string

	DataType     *int
	SincWidth    *int
	Bins         *int
	Dof          *int
	PaddingSize  *int
	CoarseSearch *int
	FineSearch   *int
	Verbose      *int

	MinSampling *float64

	SearchRX []int
	SearchRY []int
	SearchRZ []int

	UseSqForm    bool
	DisplayInit  bool
	NoResample   bool
	ForceScaling bool
	NoSearch     bool
	NoClamp      bool
	NoResampBlur bool
	Rigid2D      bool

	Flags []string
}

func (p Params) pairs() []fslcmd.Param {
	var pairs []fslcmd.Param
	add := func(name string, v fslcmd.Value) {
		pairs = append(pairs, fslcmd.Param{Name: name, Value: v})
	}
	if p.DataType != nil {
		add("datatype", fslcmd.Int(*p.DataType))
	}
	if p.Cost != "" {
		add("cost", fslcmd.String(p.Cost))
	}
	if p.SearchCost != "" {
		add("searchcost", fslcmd.String(p.SearchCost))
	}
	if p.UseSqForm {
		add("usesqform", fslcmd.Bool(true))
	}
	if p.DisplayInit {
		add("displayinit", fslcmd.Bool(true))
	}
	if p.AngleRep != "" {
		add("anglerep", fslcmd.String(p.AngleRep))
	}
	if p.Interp != "" {
		add("interp", fslcmd.String(p.Interp))
	}
	if p.SincWidth != nil {
		add("sincwidth", fslcmd.Int(*p.SincWidth))
	}
	if p.SincWindow != "" {
		add("sincwindow", fslcmd.String(p.SincWindow))
	}
	if p.Bins != nil {
		add("bins", fslcmd.Int(*p.Bins))
	}
	if p.Dof != nil {
		add("dof", fslcmd.Int(*p.Dof))
	}
	if p.NoResample {
		add("noresample", fslcmd.Bool(true))
	}
	if p.ForceScaling {
		add("forcescaling", fslcmd.Bool(true))
	}
	if p.MinSampling != nil {
		add("minsampling", fslcmd.Float(*p.MinSampling))
	}
	if p.PaddingSize != nil {
		add("paddingsize", fslcmd.Int(*p.PaddingSize))
	}
	if len(p.SearchRX) > 0 {
		add("searchrx", fslcmd.Ints(p.SearchRX...))
	}
	if len(p.SearchRY) > 0 {
		add("searchry", fslcmd.Ints(p.SearchRY...))
	}
	if len(p.SearchRZ) > 0 {
		add("searchrz", fslcmd.Ints(p.SearchRZ...))
	}
	if p.NoSearch {
		add("nosearch", fslcmd.Bool(true))
	}
	if p.CoarseSearch != nil {
		add("coarsesearch", fslcmd.Int(*p.CoarseSearch))
	}
	if p.FineSearch != nil {
		add("finesearch", fslcmd.Int(*p.FineSearch))
	}
	if p.RefWeight != "" {
		add("refweight", fslcmd.String(p.RefWeight))
	}
	if p.InWeight != "" {
		add("inweight", fslcmd.String(p.InWeight))
	}
	if p.NoClamp {
		add("noclamp", fslcmd.Bool(true))
	}
	if p.NoResampBlur {
		add("noresampblur", fslcmd.Bool(true))
	}
	if p.Rigid2D {
		add("rigid2D", fslcmd.Bool(true))
	}
	if p.Verbose != nil {
		add("verbose", fslcmd.Int(*p.Verbose))
	}
	if len(p.Flags) > 0 {
		add(fslcmd.RawParam, fslcmd.Strings(p.Flags...))
	}
	return pairs
}

// Outputs holds the files a FLIRT run produced. Roles are empty when the
// corresponding path was not requested.
type Outputs struct {
	OutFile   string
	OutMatrix string
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

// Client wraps the FSL flirt binary.
type Client struct {
	binary string
	exec   run.Executor
	logger *slog.Logger
}

// New constructs a FLIRT client. An empty binary falls back to "flirt".
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

// BuildArgs assembles the argument vector: the labelled file slots, each
// emitted only when set, precede the generic tokens.
func (c *Client) BuildArgs(p Params) ([]string, error) {
	if err := c.validate(p); err != nil {
		return nil, err
	}
	return c.buildArgs(p), nil
}

// Cmdline renders the full command line for the given parameters.
func (c *Client) Cmdline(p Params) (string, error) {
	args, err := c.BuildArgs(p)
	if err != nil {
		return "", err
	}
	return fslcmd.Cmdline(c.binary, args), nil
}

func (c *Client) validate(p Params) error {
	if strings.TrimSpace(p.InFile) == "" {
		return tools.Wrap(tools.ErrMissingInput, toolName, "run", "requires an input file", nil)
	}
	if strings.TrimSpace(p.Reference) == "" {
		return tools.Wrap(tools.ErrMissingInput, toolName, "run", "requires a reference file", nil)
	}
	return nil
}

func (c *Client) buildArgs(p Params) []string {
	tokens, problems := fslcmd.Build(p.pairs(), optionSpec, nil)
	tools.ReportProblems(c.logger, toolName, problems)

	slots := []struct {
		flag  string
		value string
	}{
		{"-in", p.InFile},
		{"-ref", p.Reference},
		{"-omat", p.OutMatrix},
		{"-init", p.InMatrix},
		{"-out", p.OutFile},
	}
	args := make([]string, 0, len(tokens)+2*len(slots))
	for _, slot := range slots {
		if slot.value != "" {
			args = append(args, slot.flag, slot.value)
		}
	}
	return append(args, tokens...)
}

// Run executes a registration and verifies the requested outputs: the
// output volume and the output transform matrix, each only when a path
// was given.
func (c *Client) Run(ctx context.Context, p Params) (Outputs, error) {
	return c.run(ctx, p, true)
}

// ApplyXFM executes flirt in apply-transform mode: the supplied input
// matrix is applied to the input volume. The output matrix role is not
// verified because apply-transform runs do not regenerate one.
func (c *Client) ApplyXFM(ctx context.Context, p Params) (Outputs, error) {
	if err := c.validate(p); err != nil {
		return Outputs{}, err
	}
	if strings.TrimSpace(p.InMatrix) == "" {
		return Outputs{}, tools.Wrap(tools.ErrMissingInput, toolName, "applyxfm", "requires an input matrix", nil)
	}
	p.Flags = append(append([]string(nil), p.Flags...), "-applyxfm")
	return c.run(ctx, p, false)
}

func (c *Client) run(ctx context.Context, p Params, verifyOutMatrix bool) (Outputs, error) {
	if err := c.validate(p); err != nil {
		return Outputs{}, err
	}
	args := c.buildArgs(p)
	res, err := c.exec.Run(ctx, c.binary, args)
	if err := tools.ExecError(toolName, res, err); err != nil {
		return Outputs{}, err
	}
	return aggregateOutputs(p, verifyOutMatrix)
}

func aggregateOutputs(p Params, verifyOutMatrix bool) (Outputs, error) {
	outputs := Outputs{OutFile: p.OutFile, OutMatrix: p.OutMatrix}
	if outputs.OutFile != "" && !imgfile.ExistsOne(outputs.OutFile) {
		return Outputs{}, tools.MissingOutput(toolName, "outfile", outputs.OutFile)
	}
	if verifyOutMatrix && outputs.OutMatrix != "" && !imgfile.ExistsOne(outputs.OutMatrix) {
		return Outputs{}, tools.MissingOutput(toolName, "outmatrix", outputs.OutMatrix)
	}
	return outputs, nil
}
