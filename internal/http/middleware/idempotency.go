// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements idempotency support for unsafe HTTP methods (POST,
// PUT, PATCH, DELETE). It validates an Idempotency-Key request header,
// optionally performs a lookup to detect previously completed requests, and
// annotates the request context so downstream handlers can:
//   - read the validated key (GetIdempotencyKey)
//   - detect replayed requests (IsReplay)
//   - bypass rate limiting when a replay is served (via an internal flag)
//
// Persistence stays behind the narrow IdempotencyLookup function type.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pet-backend/internal/fault"
)

// HeaderIdempotencyKey is the canonical request header that clients use to
// convey an idempotency key for unsafe operations (e.g., POST).
const HeaderIdempotencyKey = "Idempotency-Key"

// Context keys used internally to stash idempotency state.
const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay" // bool: true when a stored replay exists
	ctxKeyRateBypass = "rate.bypass" // bool: true to skip rate limiting
)

const defaultIdemPattern = `^[A-Za-z0-9._~\-:]+$`

// GetIdempotencyKey returns the validated idempotency key stored in the Gin
// context by IdempotencyValidator. The second return value indicates presence.
//
// Handlers should prefer this function over reading the header directly.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyIdemKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the middleware found a previously completed
// operation for this request's key.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyIdemReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// IdempotencyOptions configures header validation behavior for
// IdempotencyValidator. TTL enforcement belongs to the lookup function.
type IdempotencyOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. If nil, a conservative RFC7230-like
	// token pattern is used: ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
	// Dispatcher answers invalid keys. Nil uses a default dispatcher.
	Dispatcher *fault.Dispatcher
}

// IdempotencyLookup answers whether a still-valid result exists for the
// request identified by (method, route) and key at the given time.
//
// Return an error only for lookup failures; they never block processing.
type IdempotencyLookup func(ctx context.Context, method, route, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator validates the Idempotency-Key header of unsafe
// requests, stashes it in the request context, and optionally checks for a
// prior completed request via lookup.
//
// Behavior:
//   - Safe methods and requests without the header pass through untouched.
//   - An invalid key is answered with a parameter constraint violation
//     problem naming the Idempotency-Key header.
//   - If lookup indicates a replay: sets replay + rate-bypass flags.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(defaultIdemPattern)
	}
	d := opts.Dispatcher
	if d == nil {
		d = fault.NewDispatcher(fault.Builder{})
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || !unsafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		var vs []fault.Violation
		if len(key) > maxLen {
			vs = append(vs, fault.Violation{
				Path:    []string{HeaderIdempotencyKey},
				Message: fmt.Sprintf("size must be between 1 and %d", maxLen),
			})
		}
		if !pat.MatchString(key) {
			vs = append(vs, fault.Violation{
				Path:    []string{HeaderIdempotencyKey},
				Message: fmt.Sprintf("must match \"%s\"", pat.String()),
			})
		}
		if len(vs) > 0 {
			Problem(c, d, fault.NewParamViolations(vs))
			return
		}

		c.Set(ctxKeyIdemKey, key)

		if lookup != nil {
			now := time.Now().UTC()
			if exists, _ := lookup(c.Request.Context(), c.Request.Method, c.FullPath(), key, now); exists {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}

		c.Next()
	}
}

func unsafeMethod(m string) bool {
	switch m {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
