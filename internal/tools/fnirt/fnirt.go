package fnirt

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fslkit/internal/fslcmd"
	"fslkit/internal/imgfile"
	"fslkit/internal/run"
	"fslkit/internal/tools"
)

const toolName = "fnirt"

var baseSpec = fslcmd.OptionSpec{
	"affine":          "--aff %s",
	"initwarp":        "--inwarp %s",
	"initintensity":   "--intin %s",
	"configfile":      "--config %s",
	"referencemask":   "--refmask %s",
	"imagemask":       "--inmask %s",
	"fieldcoeff_file": "--cout %s",
	"outimage":        "--iout %s",
	"fieldfile":       "--fout %s",
	"jacobianfile":    "--jout %s",
	"reffile":         "--refout %s",
	"intensityfile":   "--intout %s",
	"logfile":         "--logout %s",
	"verbose":         "--verbose",
	"sub_sampling":    "--subsamp %d",
	"max_iter":        "--miter %f",
	"referencefwhm":   "--reffwhm %f",
	"imgfwhm":         "--infwhm %f",
	"lambdas":         "--lambda %f",
	"estintensity":    "--estint %f",
	"applyrefmask":    "--applyrefmask %f",
	"applyimgmask":    "--applyinmask %f",
}

// variadic names options whose arity is only known from the runtime
// value; their templates are expanded per call, never mutated in place.
var variadic = map[string]struct{}{
	"sub_sampling":  {},
	"max_iter":      {},
	"referencefwhm": {},
	"imgfwhm":       {},
	"lambdas":       {},
	"estintensity":  {},
	"applyrefmask":  {},
	"applyimgmask":  {},
}

// Params holds the FNIRT parameter schema.
type Params struct {
	InFile    string
	Reference string

	Affine         string
	InitWarp       string
	InitIntensity  string
	ConfigFile     string
	ReferenceMask  string
	ImageMask      string
	FieldCoeffFile string
	OutImage       string
	FieldFile      string
	JacobianFile   string
	RefFile        string
	IntensityFile  string
	LogFile        string

	Verbose bool

	SubSampling   []int
	MaxIter       []float64
	ReferenceFWHM []float64
	ImgFWHM       []float64
	Lambdas       []float64
	EstIntensity  []float64
	ApplyRefMask  []float64
	ApplyImgMask  []float64

	Flags []string
}

func (p Params) pairs() []fslcmd.Param {
	var pairs []fslcmd.Param
	add := func(name string, v fslcmd.Value) {
		pairs = append(pairs, fslcmd.Param{Name: name, Value: v})
	}
	addString := func(name, value string) {
		if value != "" {
			add(name, fslcmd.String(value))
		}
	}
	addFloats := func(name string, values []float64) {
		if len(values) > 0 {
			add(name, fslcmd.Floats(values...))
		}
	}
	addString("affine", p.Affine)
	addString("initwarp", p.InitWarp)
	addString("initintensity", p.InitIntensity)
	addString("configfile", p.ConfigFile)
	addString("referencemask", p.ReferenceMask)
	addString("imagemask", p.ImageMask)
	addString("fieldcoeff_file", p.FieldCoeffFile)
	addString("outimage", p.OutImage)
	addString("fieldfile", p.FieldFile)
	addString("jacobianfile", p.JacobianFile)
	addString("reffile", p.RefFile)
	addString("intensityfile", p.IntensityFile)
	addString("logfile", p.LogFile)
	if p.Verbose {
		add("verbose", fslcmd.Bool(true))
	}
	if len(p.SubSampling) > 0 {
		add("sub_sampling", fslcmd.Ints(p.SubSampling...))
	}
	addFloats("max_iter", p.MaxIter)
	addFloats("referencefwhm", p.ReferenceFWHM)
	addFloats("imgfwhm", p.ImgFWHM)
	addFloats("lambdas", p.Lambdas)
	addFloats("estintensity", p.EstIntensity)
	addFloats("applyrefmask", p.ApplyRefMask)
	addFloats("applyimgmask", p.ApplyImgMask)
	if len(p.Flags) > 0 {
		add(fslcmd.RawParam, fslcmd.Strings(p.Flags...))
	}
	return pairs
}

// spec returns the option spec with variadic templates expanded to the
// lengths of the supplied sequence values.
func (p Params) spec() fslcmd.OptionSpec {
	pairs := p.pairs()
	spec := make(fslcmd.OptionSpec, len(baseSpec))
	for name, template := range baseSpec {
		spec[name] = template
	}
	for _, pair := range pairs {
		if _, ok := variadic[pair.Name]; !ok {
			continue
		}
		spec[pair.Name] = fslcmd.ExpandTemplate(spec[pair.Name], pair.Value.Len())
	}
	return spec
}

// Outputs echoes back the output paths that were explicitly supplied;
// roles without a supplied path stay empty and are never verified.
type Outputs struct {
	CoefficientsFile    string
	WarpedImage         string
	WarpField           string
	JacobianField       string
	ModulatedReference  string
	IntensityModulation string
	LogFile             string
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

// Client wraps the FSL fnirt binary.
type Client struct {
	binary string
	exec   run.Executor
	logger *slog.Logger
}

// New constructs an FNIRT client. An empty binary falls back to "fnirt".
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

// BuildArgs assembles the argument vector: the joined --in= and --ref=
// tokens first, generic tokens after.
func (c *Client) BuildArgs(p Params) ([]string, error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	tokens, problems := fslcmd.Build(p.pairs(), p.spec(), nil)
	tools.ReportProblems(c.logger, toolName, problems)

	args := make([]string, 0, len(tokens)+2)
	args = append(args, "--in="+p.InFile, "--ref="+p.Reference)
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

func validate(p Params) error {
	if strings.TrimSpace(p.InFile) == "" {
		return tools.Wrap(tools.ErrMissingInput, toolName, "run", "requires an input file", nil)
	}
	if strings.TrimSpace(p.Reference) == "" {
		return tools.Wrap(tools.ErrMissingInput, toolName, "run", "requires a reference file", nil)
	}
	return nil
}

// WriteConfig dumps the currently formatted options to path, one option
// per line, so a run can be reproduced via --config later.
func (c *Client) WriteConfig(path string, p Params) error {
	if err := validate(p); err != nil {
		return err
	}
	spec := p.spec()
	lines := []string{"--in=" + p.InFile, "--ref=" + p.Reference}
	for _, pair := range p.pairs() {
		if pair.Name == fslcmd.RawParam {
			lines = append(lines, strings.Join(p.Flags, " "))
			continue
		}
		tokens, err := fslcmd.FormatOption(spec[pair.Name], pair.Value)
		if err != nil || len(tokens) == 0 {
			continue
		}
		lines = append(lines, strings.Join(tokens, " "))
	}
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write fnirt config %s: %w", path, err)
	}
	return nil
}

// Run executes fnirt and verifies that every explicitly requested output
// file exists afterwards.
func (c *Client) Run(ctx context.Context, p Params) (Outputs, error) {
	args, err := c.BuildArgs(p)
	if err != nil {
		return Outputs{}, err
	}
	res, err := c.exec.Run(ctx, c.binary, args)
	if err := tools.ExecError(toolName, res, err); err != nil {
		return Outputs{}, err
	}
	return aggregateOutputs(p)
}

func aggregateOutputs(p Params) (Outputs, error) {
	outputs := Outputs{
		CoefficientsFile:    p.FieldCoeffFile,
		WarpedImage:         p.OutImage,
		WarpField:           p.FieldFile,
		JacobianField:       p.JacobianFile,
		ModulatedReference:  p.RefFile,
		IntensityModulation: p.IntensityFile,
		LogFile:             p.LogFile,
	}
	roles := []struct {
		role string
		path string
	}{
		{"coefficientsfile", outputs.CoefficientsFile},
		{"warpedimage", outputs.WarpedImage},
		{"warpfield", outputs.WarpField},
		{"jacobianfield", outputs.JacobianField},
		{"modulatedreference", outputs.ModulatedReference},
		{"intensitymodulation", outputs.IntensityModulation},
		{"logfile", outputs.LogFile},
	}
	for _, r := range roles {
		if r.path == "" {
			continue
		}
		if imgfile.FirstMatch(r.path) == "" {
			return Outputs{}, tools.MissingOutput(toolName, r.role, r.path)
		}
	}
	return outputs, nil
}
