package binding

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/tbourn/go-pet-backend/internal/fault"
)

// Coercer converts string fields of an already decoded body into their
// domain types. The first failure is kept and reported as a structural type
// mismatch located in the original body, like a decoder would.
type Coercer struct {
	body []byte
	err  error
}

func NewCoercer(body []byte) *Coercer {
	return &Coercer{body: body}
}

// Err returns the first coercion failure, if any.
func (c *Coercer) Err() error {
	return c.err
}

func (c *Coercer) fail(field, typ, raw, reason string) {
	if c.err != nil {
		return
	}
	msg := fmt.Sprintf("Cannot deserialize value of type `%s` from String %q: %s", typ, raw, reason)
	path := []string{field}
	c.err = fault.NewBodyTypeMismatch(fault.MismatchStructural, msg, path, Locate(c.body, path), nil)
}

// UUID parses an optional uuid field. Absent fields yield uuid.Nil.
func (c *Coercer) UUID(field string, raw *string) uuid.UUID {
	if raw == nil {
		return uuid.Nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		c.fail(field, "UUID", *raw, "UUID has to be represented by standard 36-char representation")
		return uuid.Nil
	}
	return id
}

// URLs checks that every entry is an absolute http(s) URL.
func (c *Coercer) URLs(field string, raw []string) []string {
	for _, s := range raw {
		u, err := url.ParseRequestURI(s)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			c.fail(field, "URL", s, "not a valid absolute URL")
			return nil
		}
	}
	return raw
}

// CoerceEnum matches raw exactly against the constants accepted by parse.
// Absent fields yield the zero T.
func CoerceEnum[T any](c *Coercer, field, typ string, raw *string, allowed []string, parse func(string) (T, bool)) T {
	var zero T
	if raw == nil {
		return zero
	}
	v, ok := parse(*raw)
	if !ok {
		c.fail(field, typ, *raw, "not one of the values accepted for Enum class: ["+strings.Join(allowed, ", ")+"]")
		return zero
	}
	return v
}
