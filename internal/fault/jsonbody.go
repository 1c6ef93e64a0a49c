package fault

import (
	"net/http"
	"regexp"
	"strings"
)

const (
	titleJSONParse      = "JSON Parse Error"
	titleBodyValidation = "Request body validation failed"

	detailBodyMissing      = "Required request body is missing"
	detailBodyUnterminated = "Not well-formed for the JSON end. Missing brace?"

	// structuralMarker opens messages of decoders that report a shape
	// mismatch on a named field. Only consulted when a fault carries no
	// Mismatch discriminator.
	structuralMarker = "Cannot deserialize "
)

var locationSuffixRE = regexp.MustCompile(`at line \d+, column \d+`)

func isBodyDecoding(f *Fault) bool {
	switch f.Kind {
	case BodyMissing, BodyUnterminated, BodySyntaxError, BodyTypeMismatch:
		return true
	}
	return false
}

// classifyBody handles faults raised while decoding a request body.
func classifyBody(f *Fault) content {
	switch f.Kind {
	case BodyMissing:
		return content{status: http.StatusBadRequest, title: titleJSONParse, detail: detailBodyMissing}
	case BodyUnterminated:
		return content{status: http.StatusBadRequest, title: titleJSONParse, detail: detailBodyUnterminated}
	case BodySyntaxError:
		return syntaxContent(f)
	}

	if mismatchIsStructural(f) {
		return content{
			status: http.StatusUnprocessableEntity,
			title:  titleBodyValidation,
			errors: []InvalidParam{{
				Pointer: "#/" + strings.Join(f.FieldPath, "."),
				Detail:  semanticDetail(f),
			}},
		}
	}
	return syntaxContent(f)
}

func mismatchIsStructural(f *Fault) bool {
	switch f.Mismatch {
	case MismatchStructural:
		return true
	case MismatchSyntactic:
		return false
	}
	return strings.HasPrefix(f.Message, structuralMarker)
}

func syntaxContent(f *Fault) content {
	detail := sanitizeDecoder(f.Message)
	if f.Location != nil && !locationSuffixRE.MatchString(detail) {
		detail += " at " + f.Location.String()
	}
	return content{status: http.StatusBadRequest, title: titleJSONParse, detail: detail}
}

func semanticDetail(f *Fault) string {
	detail := CollapseSeparators(StripParentheticals(sanitizeDecoder(f.Message)))
	if f.Location != nil {
		detail += " (" + f.Location.String() + ")"
	}
	return detail
}
