package fault

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	titleInternal         = "Internal problem. Please contact the support."
	titleMissingParameter = "Missing query parameter"
	titleNotFound         = "Not found"
	titleConflict         = "Entry already exists"
	titleNoContentType    = "Request header 'content-type' not found"

	detailConflict = "Unique constraint violated (already exist)"
)

// rule pairs a predicate with its classifier. A classifier returns ok=false
// only to hand the fault to the terminal fallback.
type rule struct {
	name     string
	match    func(*Fault) bool
	classify func(*Fault) (content, bool)
}

func always(fn func(*Fault) content) func(*Fault) (content, bool) {
	return func(f *Fault) (content, bool) { return fn(f), true }
}

func kindIs(k Kind) func(*Fault) bool {
	return func(f *Fault) bool { return f.Kind == k }
}

// rules is the fixed priority order, most specific first.
var rules = []rule{
	{"method_not_supported", kindIs(MethodNotSupported), always(classifyMethod)},
	{"media_type_not_supported", kindIs(MediaTypeNotSupported), always(classifyMediaType)},
	{"body_decoding", isBodyDecoding, always(classifyBody)},
	{"parameter_type_mismatch", kindIs(ParameterTypeMismatch), always(classifyParamType)},
	{"constraint_violation", isConstraint, always(routeConstraint)},
	{"missing_parameter", kindIs(MissingParameter), always(classifyMissingParameter)},
	{"entity_not_found", kindIs(EntityNotFound), always(classifyNotFound)},
	{"unique_constraint_conflict", kindIs(UniqueConstraintConflict), classifyConflict},
}

// Dispatcher maps any error to exactly one Result. It holds no mutable
// state and is safe for concurrent use.
type Dispatcher struct {
	Builder Builder
}

// NewDispatcher returns a Dispatcher using b to build problem documents.
func NewDispatcher(b Builder) *Dispatcher {
	return &Dispatcher{Builder: b}
}

// Dispatch classifies err for req. Every fault in err's tree is a candidate;
// the first rule (in priority order) that claims any of them decides the
// result. Errors claimed by no rule end in the 500 fallback.
func (d *Dispatcher) Dispatch(req Request, err error) Result {
	faults := collect(err)
	for _, r := range rules {
		for _, f := range faults {
			if !r.match(f) {
				continue
			}
			if c, ok := r.classify(f); ok {
				c.rule = r.name
				return d.Builder.build(req, c, err)
			}
			return d.unclassified(req, err)
		}
	}
	return d.unclassified(req, err)
}

// unclassified is the terminal fallback. Its title is fixed and it never
// carries detail or errors, whatever the fault says.
func (d *Dispatcher) unclassified(req Request, err error) Result {
	return d.Builder.build(req, content{status: http.StatusInternalServerError, title: titleInternal, rule: "unclassified"}, err)
}

func classifyMethod(f *Fault) content {
	return content{
		status: http.StatusMethodNotAllowed,
		title:  fmt.Sprintf("Request method '%s' is not supported", f.Method),
		detail: "Supported method(s): " + bracketList(f.SupportedMethods),
		allow:  f.SupportedMethods,
	}
}

func classifyMediaType(f *Fault) content {
	var title string
	switch {
	case strings.TrimSpace(f.MediaType) == "":
		title = titleNoContentType
	case f.Cause != nil:
		title = fmt.Sprintf("Invalid mime type \"%s\": %s", f.MediaType, Sanitize(f.Cause.Error()))
	default:
		title = fmt.Sprintf("Content-Type '%s' is not supported", f.MediaType)
	}
	return content{
		status: http.StatusUnsupportedMediaType,
		title:  title,
		detail: "Supported media type(s): " + bracketList(f.SupportedMediaTypes),
	}
}

func classifyMissingParameter(f *Fault) content {
	return content{status: http.StatusBadRequest, title: titleMissingParameter, detail: Sanitize(f.Message)}
}

func classifyNotFound(f *Fault) content {
	return content{status: http.StatusNotFound, title: titleNotFound, detail: Sanitize(f.Message)}
}

// classifyConflict claims only integrity errors raised by a unique
// constraint; any other integrity failure is a server fault.
func classifyConflict(f *Fault) (content, bool) {
	if !strings.Contains(strings.ToLower(f.Message), "unique") {
		return content{}, false
	}
	return content{status: http.StatusConflict, title: titleConflict, detail: detailConflict}, true
}

func bracketList(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}
