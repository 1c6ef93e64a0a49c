package fault

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ContentType is the media type of every problem document.
const ContentType = "application/problem+json"

// InstancePrefix precedes the correlation uuid in ProblemDetail.Instance.
const InstancePrefix = "urn:ERROR:"

// InvalidParam points at one offending field or parameter.
type InvalidParam struct {
	Pointer string `json:"pointer" example:"#/category"`
	Detail  string `json:"detail" example:"size must be between 3 and 30"`
}

// ProblemDetail is the RFC 9457 error body returned to clients.
type ProblemDetail struct {
	Type     string         `json:"type" example:"/petstore/petservice/v1/pets"`
	Title    string         `json:"title" example:"Request body validation failed"`
	Instance string         `json:"instance" example:"urn:ERROR:61bb8581-9d92-4447-b49f-44ea526f18b8"`
	Detail   string         `json:"detail,omitempty"`
	Errors   []InvalidParam `json:"errors,omitempty"`
}

// Result is the single outcome of classifying one fault.
type Result struct {
	Status  int
	Problem ProblemDetail
	// Allow lists methods for a 405 response; empty otherwise.
	Allow []string
	// Rule names the classifier that produced the result.
	Rule string
}

// ErrorID returns the uuid embedded in the problem instance.
func (r Result) ErrorID() string {
	if len(r.Problem.Instance) <= len(InstancePrefix) {
		return ""
	}
	return r.Problem.Instance[len(InstancePrefix):]
}

// content is what a classifier decides; the builder adds identity.
type content struct {
	status int
	title  string
	detail string
	errors []InvalidParam
	allow  []string
	rule   string
}

// Request is the ambient context of one classification. It is passed
// explicitly; nothing is read from globals or goroutine-local state.
type Request struct {
	Path   string
	Method string
	// Logger receives the correlated entry. Nil means the global logger.
	Logger *zerolog.Logger
}

// Builder assembles problem documents and emits the correlated log entry.
// The zero value is ready to use.
type Builder struct {
	// NewID mints correlation ids; defaults to uuid.New, which is safe for
	// concurrent use.
	NewID func() uuid.UUID
}

func (b Builder) newID() uuid.UUID {
	if b.NewID != nil {
		return b.NewID()
	}
	return uuid.New()
}

// Build wraps status/title/detail/errors into a ProblemDetail for req and
// logs one entry whose error_id equals the instance uuid. cause is the
// original error and is only logged.
func (b Builder) Build(req Request, status int, title, detail string, errs []InvalidParam, cause error) Result {
	return b.build(req, content{status: status, title: title, detail: detail, errors: errs}, cause)
}

func (b Builder) build(req Request, c content, cause error) Result {
	id := b.newID()
	res := Result{
		Status: c.status,
		Problem: ProblemDetail{
			Type:     req.Path,
			Title:    c.title,
			Instance: InstancePrefix + id.String(),
			Detail:   c.detail,
			Errors:   c.errors,
		},
		Allow: c.allow,
		Rule:  c.rule,
	}

	lg := req.Logger
	if lg == nil {
		lg = &log.Logger
	}
	if c.status >= http.StatusInternalServerError {
		ev := lg.Error().
			Str("error_id", id.String()).
			Int("status", c.status).
			Str("method", req.Method).
			Str("path", req.Path).
			Str("rule", c.rule)
		if cause != nil {
			ev = ev.Err(cause).Str("diagnostic", fmt.Sprintf("%+v", cause))
		}
		ev.Msg("internal error")
	} else {
		lg.Warn().
			Str("error_id", id.String()).
			Int("status", c.status).
			Str("title", c.title).
			Str("rule", c.rule).
			Msg("problems in request")
	}
	return res
}
