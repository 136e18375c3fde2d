package learner

import (
	"fmt"
	"strconv"
)

// ParamKind classifies a parameter's value type. Only numeric kinds
// (KindFloat, KindInt) are eligible to be varied across evaluation runs.
type ParamKind int

const (
	// KindFloat is a floating-point parameter.
	KindFloat ParamKind = iota
	// KindInt is an integer parameter.
	KindInt
	// KindChoice is a categorical parameter (not numeric).
	KindChoice
)

// String returns a human-readable kind name.
func (k ParamKind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// Param is a single named learner parameter. All parameters are read and
// written through their textual (CLI-string) form, so every configuration
// path shares one serialization.
type Param interface {
	// Name returns the parameter's identifier.
	Name() string
	// Description returns the human-readable purpose of the parameter.
	Description() string
	// Kind returns the parameter's value kind.
	Kind() ParamKind
	// CLIString returns the current value in its textual form.
	CLIString() string
	// SetCLIString parses and applies a textual value.
	SetCLIString(s string) error
}

// IsNumeric reports whether the parameter kind may be varied per run.
func IsNumeric(p Param) bool {
	return p.Kind() == KindFloat || p.Kind() == KindInt
}

// FloatParam is a bounded floating-point parameter.
type FloatParam struct {
	name, desc string
	value      float64
	min, max   float64
}

// NewFloatParam creates a float parameter with a default value and inclusive bounds.
func NewFloatParam(name, desc string, def, min, max float64) *FloatParam {
	return &FloatParam{name: name, desc: desc, value: def, min: min, max: max}
}

// Name returns the parameter name.
func (p *FloatParam) Name() string { return p.name }

// Description returns the parameter purpose.
func (p *FloatParam) Description() string { return p.desc }

// Kind returns KindFloat.
func (p *FloatParam) Kind() ParamKind { return KindFloat }

// Value returns the current float value.
func (p *FloatParam) Value() float64 { return p.value }

// CLIString returns the value in its textual form.
func (p *FloatParam) CLIString() string {
	return strconv.FormatFloat(p.value, 'f', -1, 64)
}

// SetCLIString parses and applies a textual float value, enforcing bounds.
func (p *FloatParam) SetCLIString(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parameter %q: %w", p.name, err)
	}
	if v < p.min || v > p.max {
		return fmt.Errorf("parameter %q: value %v out of range [%v, %v]", p.name, v, p.min, p.max)
	}
	p.value = v
	return nil
}

// IntParam is a bounded integer parameter.
type IntParam struct {
	name, desc string
	value      int
	min, max   int
}

// NewIntParam creates an int parameter with a default value and inclusive bounds.
func NewIntParam(name, desc string, def, min, max int) *IntParam {
	return &IntParam{name: name, desc: desc, value: def, min: min, max: max}
}

// Name returns the parameter name.
func (p *IntParam) Name() string { return p.name }

// Description returns the parameter purpose.
func (p *IntParam) Description() string { return p.desc }

// Kind returns KindInt.
func (p *IntParam) Kind() ParamKind { return KindInt }

// Value returns the current int value.
func (p *IntParam) Value() int { return p.value }

// CLIString returns the value in its textual form.
func (p *IntParam) CLIString() string { return strconv.Itoa(p.value) }

// SetCLIString parses and applies a textual int value, enforcing bounds.
// Float-formatted input is accepted when it denotes a whole number, since
// variant values arrive through the shared textual path.
func (p *IntParam) SetCLIString(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			return fmt.Errorf("parameter %q: %w", p.name, err)
		}
		v = int(f)
	}
	if v < p.min || v > p.max {
		return fmt.Errorf("parameter %q: value %d out of range [%d, %d]", p.name, v, p.min, p.max)
	}
	p.value = v
	return nil
}

// ChoiceParam is a categorical parameter restricted to a fixed value set.
type ChoiceParam struct {
	name, desc string
	choices    []string
	value      string
}

// NewChoiceParam creates a choice parameter. The default must be one of choices.
func NewChoiceParam(name, desc string, def string, choices []string) *ChoiceParam {
	return &ChoiceParam{name: name, desc: desc, value: def, choices: choices}
}

// Name returns the parameter name.
func (p *ChoiceParam) Name() string { return p.name }

// Description returns the parameter purpose.
func (p *ChoiceParam) Description() string { return p.desc }

// Kind returns KindChoice.
func (p *ChoiceParam) Kind() ParamKind { return KindChoice }

// Value returns the current choice.
func (p *ChoiceParam) Value() string { return p.value }

// CLIString returns the current choice.
func (p *ChoiceParam) CLIString() string { return p.value }

// SetCLIString applies a textual choice, rejecting values outside the set.
func (p *ChoiceParam) SetCLIString(s string) error {
	for _, c := range p.choices {
		if c == s {
			p.value = s
			return nil
		}
	}
	return fmt.Errorf("parameter %q: invalid choice %q (allowed: %v)", p.name, s, p.choices)
}

// ParamSet is an ordered collection of parameters. Order is significant: it
// is the declaration order presented to configuration surfaces.
type ParamSet struct {
	params []Param
}

// NewParamSet creates a parameter set from the given parameters, in order.
func NewParamSet(params ...Param) *ParamSet {
	return &ParamSet{params: params}
}

// All returns the parameters in declaration order.
func (ps *ParamSet) All() []Param { return ps.params }

// Named returns the parameter with the given name, if any.
func (ps *ParamSet) Named(name string) (Param, bool) {
	for _, p := range ps.params {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// CopyValuesTo transfers every parameter value to the same-named parameter
// of dst through the textual form. Parameters missing on dst are skipped.
func (ps *ParamSet) CopyValuesTo(dst *ParamSet) error {
	for _, p := range ps.params {
		target, ok := dst.Named(p.Name())
		if !ok {
			continue
		}
		if err := target.SetCLIString(p.CLIString()); err != nil {
			return err
		}
	}
	return nil
}
