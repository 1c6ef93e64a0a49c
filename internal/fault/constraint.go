package fault

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	titleParamViolation = "Violation in parameter"

	// bodySegment marks a violation path as belonging to the request body.
	bodySegment = "body"
)

func isConstraint(f *Fault) bool {
	return f.Kind == ParameterConstraintViolation || f.Kind == BodySemanticViolation
}

// routeConstraint sends validation violations to the body (422) or the
// parameter (400) shape. A fault is body-site when any of its violations has
// a "body" path segment.
//
// All parameter violations are reported: a single one goes to detail as
// "<name>: <message>", several go to errors in validator order.
func routeConstraint(f *Fault) content {
	if bodySite(f.Violations) {
		errs := make([]InvalidParam, 0, len(f.Violations))
		for _, v := range f.Violations {
			errs = append(errs, InvalidParam{Pointer: "#/" + v.Field(), Detail: v.Message})
		}
		return content{status: http.StatusUnprocessableEntity, title: titleBodyValidation, errors: errs}
	}

	switch len(f.Violations) {
	case 0:
		return content{status: http.StatusBadRequest, title: titleParamViolation, detail: Sanitize(f.Message)}
	case 1:
		v := f.Violations[0]
		return content{
			status: http.StatusBadRequest,
			title:  titleParamViolation,
			detail: v.Field() + ": " + v.Message,
		}
	}
	errs := make([]InvalidParam, 0, len(f.Violations))
	for _, v := range f.Violations {
		errs = append(errs, InvalidParam{Pointer: "#/" + v.Field(), Detail: v.Message})
	}
	return content{status: http.StatusBadRequest, title: titleParamViolation, errors: errs}
}

func bodySite(vs []Violation) bool {
	for _, v := range vs {
		for _, seg := range v.Path {
			if strings.EqualFold(seg, bodySegment) {
				return true
			}
		}
	}
	return false
}

// classifyParamType reports a path or query value that failed conversion.
func classifyParamType(f *Fault) content {
	required := f.RequiredType
	if required == "" {
		required = "Object"
	}
	return content{
		status: http.StatusBadRequest,
		title:  fmt.Sprintf("Failed to convert value of type 'String' to required type '%s'", required),
		errors: []InvalidParam{{Pointer: "#/" + f.Param, Detail: Sanitize(f.Message)}},
	}
}
