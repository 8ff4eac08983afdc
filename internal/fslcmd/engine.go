package fslcmd

import (
	"fmt"
	"regexp"
	"strings"
)

// RawParam is the raw-passthrough parameter name. Its value bypasses
// template formatting and is spliced into the argument vector verbatim,
// one argv token per whitespace-separated element.
const RawParam = "flags"

// OptionSpec maps parameter names to printf-style templates. A template
// without verbs is a boolean flag token.
type OptionSpec map[string]string

// Param is an ordered name/value pair. Adapters emit their parameters in
// a fixed order so repeated assembly of the same set is identical.
type Param struct {
	Name  string
	Value Value
}

// Problem records a per-parameter formatting violation. Problems never
// abort assembly; the parameter is dropped and assembly continues.
type Problem struct {
	Param  string
	Detail string
}

func (p Problem) String() string {
	return fmt.Sprintf("option %s: %s", p.Param, p.Detail)
}

var verbPattern = regexp.MustCompile(`%[-+#0 ]*\d*(?:\.\d+)?[a-zA-Z]`)

// Arity counts the substitution verbs in a template. Zero means the
// template is a fixed boolean flag token.
func Arity(template string) int {
	return len(verbPattern.FindAllString(strings.ReplaceAll(template, "%%", ""), -1))
}

// ExpandTemplate rebuilds a single-verb template for an n-element
// sequence by repeating the verb, resolving options whose arity is only
// known from the runtime value. "--subsamp %d" with n=3 becomes
// "--subsamp %d %d %d".
func ExpandTemplate(template string, n int) string {
	if n <= 1 {
		return template
	}
	verbs := verbPattern.FindAllString(template, -1)
	if len(verbs) != 1 {
		return template
	}
	return template + strings.Repeat(" "+verbs[0], n-1)
}

// FormatOption renders one parameter against its template, returning the
// resulting argv tokens. Flag templates accept only booleans: true emits
// the flag token(s), false emits nothing. Value templates require the
// value length to equal the template arity.
func FormatOption(template string, value Value) ([]string, error) {
	arity := Arity(template)
	if arity == 0 {
		if !value.IsBool() {
			return nil, fmt.Errorf("boolean option set to non-boolean value")
		}
		if !value.True() {
			return nil, nil
		}
		return strings.Fields(template), nil
	}
	if value.IsBool() {
		return nil, fmt.Errorf("option expects %d value(s), got a boolean", arity)
	}
	if value.Len() != arity {
		return nil, fmt.Errorf("option expects %d value(s), got %d", arity, value.Len())
	}
	return strings.Fields(fmt.Sprintf(template, value.formatArgs()...)), nil
}

// Build formats params against spec in order, excluding names present in
// skip. Unknown names and formatting violations are collected as
// problems and the parameter is omitted; assembly never fails fast.
func Build(params []Param, spec OptionSpec, skip map[string]struct{}) ([]string, []Problem) {
	var (
		tokens   []string
		problems []Problem
	)
	for _, param := range params {
		if _, skipped := skip[param.Name]; skipped {
			continue
		}
		if param.Name == RawParam {
			tokens = append(tokens, param.Value.tokens()...)
			continue
		}
		template, ok := spec[param.Name]
		if !ok {
			problems = append(problems, Problem{Param: param.Name, Detail: "not supported"})
			continue
		}
		formatted, err := FormatOption(template, param.Value)
		if err != nil {
			problems = append(problems, Problem{Param: param.Name, Detail: err.Error()})
			continue
		}
		tokens = append(tokens, formatted...)
	}
	return tokens, problems
}

// Cmdline renders the tool name and argument vector as one display string.
func Cmdline(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + strings.Join(args, " ")
}
