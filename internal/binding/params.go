package binding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-pet-backend/internal/fault"
)

// Params collects the outcome of converting and checking one request's path,
// query and header parameters. Conversion failures, missing parameters and
// constraint violations are all kept; Err joins them so the fault engine can
// pick the one with the highest priority.
//
// The zero value is ready to use. A Params is not safe for concurrent use.
type Params struct {
	mismatch   *fault.Fault
	missing    *fault.Fault
	violations []fault.Violation
}

func (p *Params) typeMismatch(name, typ, raw, detail string, cause error) {
	if p.mismatch == nil {
		p.mismatch = fault.NewParamTypeMismatch(name, typ, raw, detail, cause)
	}
}

// UUID converts a path or query value to a uuid.
func (p *Params) UUID(name, raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		p.typeMismatch(name, "UUID", raw, "Invalid UUID string: "+raw, err)
		return uuid.Nil
	}
	return id
}

// Int converts raw to an int; an empty value yields def.
func (p *Params) Int(name, raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		p.typeMismatch(name, "Integer", raw, fmt.Sprintf("For input string: %q", raw), err)
		return def
	}
	return n
}

// List splits repeated and comma-separated values into one list, dropping
// blanks.
func (p *Params) List(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Require records a MissingParameter fault when raw is empty and reports
// whether the value is present.
func (p *Params) Require(name, typ, raw string) bool {
	if strings.TrimSpace(raw) != "" {
		return true
	}
	if p.missing == nil {
		p.missing = fault.NewMissingParameter(name, typ)
	}
	return false
}

// Check records v when it is non-nil.
func (p *Params) Check(vs ...*fault.Violation) {
	for _, v := range vs {
		if v != nil {
			p.violations = append(p.violations, *v)
		}
	}
}

// Err returns nil when every parameter converted and passed its checks.
func (p *Params) Err() error {
	var errs []error
	if p.mismatch != nil {
		errs = append(errs, p.mismatch)
	}
	if len(p.violations) > 0 {
		errs = append(errs, fault.NewParamViolations(p.violations))
	}
	if p.missing != nil {
		errs = append(errs, p.missing)
	}
	return errors.Join(errs...)
}

// Enum converts raw into T with parse after upper-casing it, so query enums
// match case-insensitively. An empty raw yields the zero T and false.
func Enum[T any](p *Params, name, typ, raw string, parse func(string) (T, bool)) (T, bool) {
	var zero T
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return zero, false
	}
	// Casers keep state, so each call gets its own.
	v, ok := parse(cases.Upper(language.Und).String(raw))
	if !ok {
		p.typeMismatch(name, typ, raw,
			fmt.Sprintf("Failed to convert from type [String] to type [%s] for value [%s]", typ, raw), nil)
		return zero, false
	}
	return v, true
}

// Named parameter checks. Each returns nil when the value passes.

func Min(name string, v, bound int) *fault.Violation {
	if v >= bound {
		return nil
	}
	return &fault.Violation{Path: []string{name}, Message: fmt.Sprintf("must be greater than or equal to %d", bound)}
}

func Max(name string, v, bound int) *fault.Violation {
	if v <= bound {
		return nil
	}
	return &fault.Violation{Path: []string{name}, Message: fmt.Sprintf("must be less than or equal to %d", bound)}
}

func MultipleOf(name string, v, n int) *fault.Violation {
	if n == 0 || v%n == 0 {
		return nil
	}
	return &fault.Violation{Path: []string{name}, Message: fmt.Sprintf("%d is not a multiple of %d", v, n)}
}

// Length checks the rune count of s.
func Length(name, s string, lo, hi int) *fault.Violation {
	if n := utf8.RuneCountInString(s); n >= lo && n <= hi {
		return nil
	}
	return &fault.Violation{Path: []string{name}, Message: SizeMessage(lo, hi)}
}

// EachLength applies Length to every element and reports at most one
// violation for the list.
func EachLength(name string, list []string, lo, hi int) *fault.Violation {
	for _, s := range list {
		if v := Length(name, s, lo, hi); v != nil {
			return v
		}
	}
	return nil
}
