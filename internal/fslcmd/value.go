package fslcmd

import (
	"fmt"
	"strings"
)

// Kind discriminates the value union.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindInts
	KindFloats
	KindStrings
)

// Value is a typed parameter value. Sequence kinds carry their own arity,
// which is matched against the option template at formatting time.
type Value struct {
	kind    Kind
	boolVal bool
	intVal  int
	fltVal  float64
	strVal  string
	ints    []int
	floats  []float64
	strs    []string
}

// Bool wraps a boolean flag value.
func Bool(v bool) Value { return Value{kind: KindBool, boolVal: v} }

// Int wraps an integer scalar.
func Int(v int) Value { return Value{kind: KindInt, intVal: v} }

// Float wraps a float scalar.
func Float(v float64) Value { return Value{kind: KindFloat, fltVal: v} }

// String wraps a string scalar.
func String(v string) Value { return Value{kind: KindString, strVal: v} }

// Ints wraps a fixed-length integer sequence.
func Ints(vs ...int) Value { return Value{kind: KindInts, ints: vs} }

// Floats wraps a fixed-length float sequence.
func Floats(vs ...float64) Value { return Value{kind: KindFloats, floats: vs} }

// Strings wraps a string sequence.
func Strings(vs ...string) Value { return Value{kind: KindStrings, strs: vs} }

// Kind returns the value's discriminator.
func (v Value) Kind() Kind { return v.kind }

// IsBool reports whether the value is a boolean.
func (v Value) IsBool() bool { return v.kind == KindBool }

// True reports whether the value is the boolean true.
func (v Value) True() bool { return v.kind == KindBool && v.boolVal }

// Len returns the sequence length, or 1 for scalar kinds.
func (v Value) Len() int {
	switch v.kind {
	case KindInts:
		return len(v.ints)
	case KindFloats:
		return len(v.floats)
	case KindStrings:
		return len(v.strs)
	default:
		return 1
	}
}

// formatArgs returns the value spread into fmt.Sprintf operands.
func (v Value) formatArgs() []any {
	switch v.kind {
	case KindBool:
		return []any{v.boolVal}
	case KindInt:
		return []any{v.intVal}
	case KindFloat:
		return []any{v.fltVal}
	case KindString:
		return []any{v.strVal}
	case KindInts:
		args := make([]any, len(v.ints))
		for i, n := range v.ints {
			args[i] = n
		}
		return args
	case KindFloats:
		args := make([]any, len(v.floats))
		for i, f := range v.floats {
			args[i] = f
		}
		return args
	case KindStrings:
		args := make([]any, len(v.strs))
		for i, s := range v.strs {
			args[i] = s
		}
		return args
	default:
		return nil
	}
}

// tokens renders the value as verbatim argv tokens for raw passthrough.
func (v Value) tokens() []string {
	switch v.kind {
	case KindString:
		return strings.Fields(v.strVal)
	case KindStrings:
		out := make([]string, 0, len(v.strs))
		for _, s := range v.strs {
			out = append(out, strings.Fields(s)...)
		}
		return out
	default:
		return strings.Fields(fmt.Sprint(v.formatArgs()...))
	}
}
