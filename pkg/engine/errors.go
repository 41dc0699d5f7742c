package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingRequiredSection = errors.New("missing required section")
	ErrUnknownEnumValue       = errors.New("unknown enum value")
	ErrInvalidSectionContent  = errors.New("invalid section content")
	ErrBrokenConditionalChain = errors.New("broken conditional chain")
	ErrUnsupportedLoopKind    = errors.New("unsupported loop kind")
	ErrUnsupportedScriptMode  = errors.New("unsupported script mode")
	ErrUnsupportedStyleBind   = errors.New("unsupported style bind")
	ErrMissingAttribute       = errors.New("missing attribute")
	ErrExpression             = errors.New("expression failed")
	ErrResource               = errors.New("resource unavailable")
	ErrReferenceCycle         = errors.New("reference cycle")
)

var kindNames = map[error]string{
	ErrMissingRequiredSection: "missing_required_section",
	ErrUnknownEnumValue:       "unknown_enum_value",
	ErrInvalidSectionContent:  "invalid_section_content",
	ErrBrokenConditionalChain: "broken_conditional_chain",
	ErrUnsupportedLoopKind:    "unsupported_loop_kind",
	ErrUnsupportedScriptMode:  "unsupported_script_mode",
	ErrUnsupportedStyleBind:   "unsupported_style_bind",
	ErrMissingAttribute:       "missing_attribute",
	ErrExpression:             "expression",
	ErrResource:               "resource",
	ErrReferenceCycle:         "reference_cycle",
}

// Diagnostic is the error value returned by parsing and compilation.
// errors.Is matches both the Kind sentinel and the wrapped cause.
type Diagnostic struct {
	Type     string `json:"type"` // "error" or "panic"
	Kind     error  `json:"-"`
	Message  string `json:"message"`
	Filename string `json:"filename,omitempty"`
	Section  string `json:"section,omitempty"`
	Node     string `json:"node,omitempty"`
	Err      error  `json:"-"`
}

// Errorf builds a Diagnostic of the given kind.
func Errorf(kind error, format string, args ...any) Diagnostic {
	return Diagnostic{Type: "error", Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap turns err into a Diagnostic of the given kind, keeping err as the cause.
// An err that already is a Diagnostic is returned unchanged.
func Wrap(kind error, err error, format string, args ...any) Diagnostic {
	if d, ok := AsDiagnostic(err); ok {
		return d
	}
	d := Errorf(kind, format, args...)
	d.Err = err
	return d
}

func (d Diagnostic) Error() string {
	var sb strings.Builder
	if d.Filename != "" {
		sb.WriteString(d.Filename)
		sb.WriteString(": ")
	}
	if d.Section != "" {
		sb.WriteString("[")
		sb.WriteString(d.Section)
		sb.WriteString("] ")
	}
	msg := d.Message
	if msg == "" && d.Kind != nil {
		msg = d.Kind.Error()
	}
	sb.WriteString(msg)
	if d.Node != "" {
		sb.WriteString(" (at ")
		sb.WriteString(d.Node)
		sb.WriteString(")")
	}
	if d.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(d.Err.Error())
	}
	return sb.String()
}

func (d Diagnostic) Unwrap() []error {
	var errs []error
	if d.Kind != nil {
		errs = append(errs, d.Kind)
	}
	if d.Err != nil {
		errs = append(errs, d.Err)
	}
	return errs
}

// KindName is the stable identifier of the kind, used in JSON reports.
func (d Diagnostic) KindName() string {
	if name, ok := kindNames[d.Kind]; ok {
		return name
	}
	return "unknown"
}

// At fills the location fields that are still empty.
func (d Diagnostic) At(filename, section, node string) Diagnostic {
	if d.Filename == "" {
		d.Filename = filename
	}
	if d.Section == "" {
		d.Section = section
	}
	if d.Node == "" {
		d.Node = node
	}
	return d
}

func AsDiagnostic(err error) (Diagnostic, bool) {
	var d Diagnostic
	if errors.As(err, &d) {
		return d, true
	}
	return Diagnostic{}, false
}
