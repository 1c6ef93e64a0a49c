// Package binding turns raw request bodies and parameters into typed values.
// Every failure is reported as a *fault.Fault carrying an explicit kind and,
// for body type mismatches, a discriminator, so the fault engine never has to
// guess from decoder message text.
package binding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/tbourn/go-pet-backend/internal/fault"
)

const (
	msgUnexpectedEnd = "unexpected end of JSON input"
	msgNotAnObject   = "No parsable JSON. Opening brace missing?"
)

// DecodeJSON unmarshals body into dst, which must be a pointer to a struct.
func DecodeJSON(body []byte, dst any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return fault.NewBodyMissing()
	}

	err := json.Unmarshal(body, dst)
	if err == nil {
		return nil
	}

	var (
		syn *json.SyntaxError
		typ *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &syn):
		loc := Position(body, syn.Offset)
		if strings.Contains(syn.Error(), msgUnexpectedEnd) {
			return fault.NewBodyUnterminated(syn.Error(), loc)
		}
		return fault.NewBodySyntax(syn.Error(), loc, err)

	case errors.As(err, &typ):
		loc := Position(body, typ.Offset)
		if typ.Field == "" {
			return fault.NewBodyTypeMismatch(fault.MismatchSyntactic, msgNotAnObject, nil, loc, err)
		}
		raw := fmt.Sprintf("Cannot deserialize value of type `%s` from %s", TypeName(typ.Type), describe(typ.Value))
		return fault.NewBodyTypeMismatch(fault.MismatchStructural, raw, strings.Split(typ.Field, "."), loc, err)
	}
	return fault.Wrap(err)
}

// describe renders the decoder's value description ("number", "string",
// "number 1e400") with a leading capital the way clients see it elsewhere.
func describe(v string) string {
	if v == "" {
		return "value"
	}
	kind, rest, _ := strings.Cut(v, " ")
	kind = strings.ToUpper(kind[:1]) + kind[1:]
	if rest == "" {
		return kind
	}
	return kind + " " + rest
}

// TypeName maps a Go type to the name shown in client-facing messages.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "Object"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "String"
	case reflect.Bool:
		return "Boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return "Integer"
	case reflect.Int64, reflect.Uint64:
		return "Long"
	case reflect.Float32, reflect.Float64:
		return "Double"
	case reflect.Slice, reflect.Array:
		return "List"
	case reflect.Map:
		return "Map"
	}
	if t.Name() != "" {
		return t.Name()
	}
	return "Object"
}

// Position converts a decoder byte offset into a 1-based line/column. The
// offset counts bytes consumed, so the reported position is that of the last
// consumed byte. Columns count runes.
func Position(body []byte, offset int64) *fault.Location {
	if offset < 1 || len(body) == 0 {
		return &fault.Location{Line: 1, Column: 1}
	}
	if offset > int64(len(body)) {
		offset = int64(len(body))
	}
	idx := int(offset) - 1
	head := body[:idx]
	line := 1 + bytes.Count(head, []byte{'\n'})
	start := bytes.LastIndexByte(head, '\n') + 1
	return &fault.Location{Line: line, Column: utf8.RuneCount(body[start:idx]) + 1}
}

// Locate finds the value addressed by path (object keys, outermost first)
// and returns the position right after its first token. It returns nil when
// the path does not exist or the body is not valid JSON.
func Locate(body []byte, path []string) *fault.Location {
	dec := json.NewDecoder(bytes.NewReader(body))
	off, ok := seek(dec, path)
	if !ok {
		return nil
	}
	return Position(body, off)
}

func seek(dec *json.Decoder, path []string) (int64, bool) {
	tok, err := dec.Token()
	if err != nil {
		return 0, false
	}
	if len(path) == 0 {
		return dec.InputOffset(), true
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return 0, false
	}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return 0, false
		}
		if key, _ := kt.(string); key == path[0] {
			return seek(dec, path[1:])
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return 0, false
		}
	}
	return 0, false
}
