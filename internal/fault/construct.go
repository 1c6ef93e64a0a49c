package fault

import "fmt"

// Constructors used by collaborators. Each one sets the metadata its
// classifier reads; callers may fill extra fields on the returned value
// before raising it.

// NewMethodNotSupported reports a verb the matched route does not accept.
func NewMethodNotSupported(method string, supported []string) *Fault {
	return &Fault{
		Kind:             MethodNotSupported,
		Message:          fmt.Sprintf("Request method '%s' is not supported", method),
		Method:           method,
		SupportedMethods: supported,
	}
}

// NewMediaTypeNotSupported reports a Content-Type the route cannot consume.
// An empty mediaType means the header was absent. A non-nil cause means the
// header could not be parsed as a media type at all.
func NewMediaTypeNotSupported(mediaType string, supported []string, cause error) *Fault {
	return &Fault{
		Kind:                MediaTypeNotSupported,
		Message:             fmt.Sprintf("Content-Type '%s' is not supported", mediaType),
		MediaType:           mediaType,
		SupportedMediaTypes: supported,
		Cause:               cause,
	}
}

func NewBodyMissing() *Fault {
	return &Fault{Kind: BodyMissing, Message: "Required request body is missing"}
}

func NewBodyUnterminated(raw string, loc *Location) *Fault {
	return &Fault{Kind: BodyUnterminated, Message: raw, Location: loc}
}

func NewBodySyntax(raw string, loc *Location, cause error) *Fault {
	return &Fault{Kind: BodySyntaxError, Message: raw, Location: loc, Cause: cause}
}

// NewBodyTypeMismatch reports a value that could not be bound. path is the
// field path from outermost to innermost; it may be empty for top-level
// mismatches.
func NewBodyTypeMismatch(m Mismatch, raw string, path []string, loc *Location, cause error) *Fault {
	return &Fault{
		Kind:      BodyTypeMismatch,
		Message:   raw,
		Mismatch:  m,
		FieldPath: path,
		Location:  loc,
		Cause:     cause,
	}
}

// NewBodyViolations reports validation failures found after the body was
// decoded. Paths are expected to start with a "body" segment.
func NewBodyViolations(vs []Violation) *Fault {
	return &Fault{Kind: BodySemanticViolation, Message: "request body validation failed", Violations: vs}
}

// NewParamViolations reports validation failures on path, query or header
// parameters.
func NewParamViolations(vs []Violation) *Fault {
	return &Fault{Kind: ParameterConstraintViolation, Message: "parameter validation failed", Violations: vs}
}

// NewParamTypeMismatch reports a parameter value that could not be converted
// to its declared type. detail is the user-facing conversion failure.
func NewParamTypeMismatch(param, requiredType, value, detail string, cause error) *Fault {
	return &Fault{
		Kind:         ParameterTypeMismatch,
		Message:      detail,
		Param:        param,
		RequiredType: requiredType,
		Value:        value,
		Cause:        cause,
	}
}

func NewMissingParameter(param, requiredType string) *Fault {
	return &Fault{
		Kind: MissingParameter,
		Message: fmt.Sprintf("Required request parameter '%s' for method parameter type %s is not present",
			param, requiredType),
		Param:        param,
		RequiredType: requiredType,
	}
}

func NewEntityNotFound(msg string) *Fault {
	return &Fault{Kind: EntityNotFound, Message: msg}
}

// NewIntegrityConflict wraps a persistence error raised by a constraint.
// Whether it surfaces as 409 depends on the driver message mentioning a
// unique constraint.
func NewIntegrityConflict(cause error) *Fault {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &Fault{Kind: UniqueConstraintConflict, Message: msg, Cause: cause}
}

// Wrap marks err as Unclassified while keeping it for server-side logs.
func Wrap(err error) *Fault {
	return &Fault{Kind: Unclassified, Cause: err}
}
