package binding

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-pet-backend/internal/fault"
)

// BodySegment prefixes every body-site violation path.
const BodySegment = "body"

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
		// size=LO:HI bounds a string's rune count.
		if err := v.RegisterValidation("size", validateSize); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func validateSize(fl validator.FieldLevel) bool {
	lo, hi, ok := sizeBounds(fl.Param())
	if !ok || fl.Field().Kind() != reflect.String {
		return false
	}
	n := utf8.RuneCountInString(fl.Field().String())
	return n >= lo && n <= hi
}

func sizeBounds(param string) (lo, hi int, ok bool) {
	a, b, found := strings.Cut(param, ":")
	if !found {
		return 0, 0, false
	}
	lo, errLo := strconv.Atoi(a)
	hi, errHi := strconv.Atoi(b)
	return lo, hi, errLo == nil && errHi == nil
}

// Struct validates dst's `validate` tags and returns the failures as
// body-site violations in declaration order. A nil result means valid.
func Struct(dst any) ([]fault.Violation, error) {
	err := validatorInstance().Struct(dst)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make([]fault.Violation, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fault.Violation{Path: bodyPath(fe.Namespace()), Message: message(fe)})
	}
	return out, nil
}

// bodyPath turns "petRequest.tags[1]" into ["body", "tags"].
func bodyPath(ns string) []string {
	segs := strings.Split(ns, ".")
	if len(segs) > 1 {
		segs = segs[1:]
	}
	path := make([]string, 0, len(segs)+1)
	path = append(path, BodySegment)
	for _, s := range segs {
		if i := strings.IndexByte(s, '['); i >= 0 {
			s = s[:i]
		}
		path = append(path, s)
	}
	return path
}

// message renders one validator failure. Each supported tag has its own
// fixed wording; unknown tags fall back to naming the rule.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgNotNull
	case "size":
		lo, hi, _ := sizeBounds(fe.Param())
		return SizeMessage(lo, hi)
	case "gte", "min":
		return "must be greater than or equal to " + fe.Param()
	case "lte", "max":
		return "must be less than or equal to " + fe.Param()
	case "url", "http_url":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of [" + strings.ReplaceAll(fe.Param(), " ", ", ") + "]"
	}
	return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
}

// MsgNotNull is reported for absent required fields.
const MsgNotNull = "must not be null"

// SizeMessage is the wording shared by body and parameter length checks.
func SizeMessage(lo, hi int) string {
	return fmt.Sprintf("size must be between %d and %d", lo, hi)
}

// Rule is a named cross-field check on a decoded value. Check reports true
// when v satisfies the rule.
type Rule[T any] struct {
	Name    string
	Field   string
	Message string
	Check   func(T) bool
}

// CheckRules runs rules in order and returns one body-site violation per
// failed rule.
func CheckRules[T any](v T, rules ...Rule[T]) []fault.Violation {
	var out []fault.Violation
	for _, r := range rules {
		if !r.Check(v) {
			out = append(out, fault.Violation{Path: []string{BodySegment, r.Field}, Message: r.Message})
		}
	}
	return out
}
