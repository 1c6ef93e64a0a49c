// Package fault classifies request-processing failures and normalizes them
// into RFC 9457 problem documents.
//
// Collaborators (binding, services, middleware) raise a *Fault of a known
// Kind at the moment a failure is detected. The Dispatcher picks exactly one
// classifier for it by a fixed priority order, and the Builder wraps the
// classifier's output into a ProblemDetail with a fresh correlation id.
//
// Anything that is not a *Fault is treated as Unclassified: it is logged with
// full context and answered with a generic 500 that never leaks its text.
package fault

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the closed set of fault categories understood by the dispatcher.
type Kind int

const (
	Unclassified Kind = iota
	MethodNotSupported
	MediaTypeNotSupported
	BodyMissing
	BodyUnterminated
	BodySyntaxError
	BodyTypeMismatch
	BodySemanticViolation
	ParameterConstraintViolation
	ParameterTypeMismatch
	MissingParameter
	EntityNotFound
	UniqueConstraintConflict
)

var kindNames = [...]string{
	Unclassified:                 "unclassified",
	MethodNotSupported:           "method_not_supported",
	MediaTypeNotSupported:        "media_type_not_supported",
	BodyMissing:                  "body_missing",
	BodyUnterminated:             "body_unterminated",
	BodySyntaxError:              "body_syntax_error",
	BodyTypeMismatch:             "body_type_mismatch",
	BodySemanticViolation:        "body_semantic_violation",
	ParameterConstraintViolation: "parameter_constraint_violation",
	ParameterTypeMismatch:        "parameter_type_mismatch",
	MissingParameter:             "missing_parameter",
	EntityNotFound:               "entity_not_found",
	UniqueConstraintConflict:     "unique_constraint_conflict",
}

// String returns the snake_case name used in logs and metric labels.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Mismatch tells the body classifier how the decoder judged a type mismatch.
// Producers should always set it; MismatchUnknown exists for faults built
// from foreign decoders that expose only message text.
type Mismatch int

const (
	MismatchUnknown Mismatch = iota
	// MismatchStructural: a well-formed value had the wrong shape for a named
	// field (enum literal not accepted, string where a number was declared).
	MismatchStructural
	// MismatchSyntactic: the document as a whole could not be bound
	// (e.g. a top-level array where an object was expected).
	MismatchSyntactic
)

// Location is a 1-based position in the request body.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("line %d, column %d", l.Line, l.Column)
}

// Violation is one failed validation rule. Path runs from outermost to
// innermost element; body-site violations carry a leading "body" segment.
type Violation struct {
	Path    []string
	Message string
}

// Field returns the innermost path segment.
func (v Violation) Field() string {
	if len(v.Path) == 0 {
		return ""
	}
	return v.Path[len(v.Path)-1]
}

// Fault is the signal raised by collaborators. It is immutable once raised;
// the dispatcher only reads it.
type Fault struct {
	Kind    Kind
	Message string // raw diagnostic text, never shown for 5xx

	Location  *Location
	FieldPath []string
	Mismatch  Mismatch

	// Parameter metadata (ParameterTypeMismatch, MissingParameter).
	Param        string
	RequiredType string
	Value        string

	// Transport metadata.
	Method              string
	SupportedMethods    []string
	MediaType           string
	SupportedMediaTypes []string

	Violations []Violation

	Cause error
}

// Error implements error as "<kind>: <message>[: <cause>]".
func (f *Fault) Error() string {
	if f == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(f.Kind.String())
	if f.Message != "" {
		b.WriteString(": ")
		b.WriteString(f.Message)
	}
	if f.Cause != nil {
		b.WriteString(": ")
		b.WriteString(f.Cause.Error())
	}
	return b.String()
}

func (f *Fault) Unwrap() error { return f.Cause }

// Format supports %+v for a multi-line diagnostic dump used in 5xx logs.
func (f *Fault) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "kind=%s\nmessage=%q", f.Kind, f.Message)
			if f.Location != nil {
				fmt.Fprintf(s, "\nlocation=%s", f.Location)
			}
			if len(f.FieldPath) > 0 {
				fmt.Fprintf(s, "\nfield_path=%s", strings.Join(f.FieldPath, "."))
			}
			if f.Param != "" {
				fmt.Fprintf(s, "\nparam=%s required_type=%s value=%q", f.Param, f.RequiredType, f.Value)
			}
			for _, v := range f.Violations {
				fmt.Fprintf(s, "\nviolation=%s: %s", strings.Join(v.Path, "."), v.Message)
			}
			if f.Cause != nil {
				fmt.Fprintf(s, "\ncause=%+v", f.Cause)
			}
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, f.Error())
	case 'q':
		fmt.Fprintf(s, "%q", f.Error())
	}
}

// As returns the first *Fault in err's chain.
func As(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) && f != nil {
		return f, true
	}
	return nil, false
}

// KindOf returns the kind of the first fault in err's chain, or Unclassified.
func KindOf(err error) Kind {
	if f, ok := As(err); ok {
		return f.Kind
	}
	return Unclassified
}

// collect returns every *Fault reachable from err, depth first, in the order
// they appear in the tree. Joined errors are walked as well.
func collect(err error) []*Fault {
	var out []*Fault
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if f, ok := e.(*Fault); ok && f != nil {
			out = append(out, f)
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}
