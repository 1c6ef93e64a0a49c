package fault

import (
	"regexp"
	"strings"
)

// Message sanitizing.
//
// Raw diagnostics from decoders and drivers carry implementation noise:
// qualified type names, wrapper class names in parentheses, newlines. Each
// pattern below has its own transform so it can be tested on fixtures in
// isolation; Sanitize composes them.

var (
	// Known top-level roots followed by 1-10 lowercase segments and a
	// terminal dot, e.g. "de.training.model." or "@javax.validation.".
	namespaceRE = regexp.MustCompile(`@?\b(?:de|com|org|io|net|javax?)(?:\.\p{Ll}{2,20}){1,10}\.`)

	// Qualifiers of the Go packages whose types show up in decoder output,
	// e.g. "domain.Category" or "json.UnmarshalTypeError". Client values such
	// as "my.Pet" are left alone.
	qualifierRE = regexp.MustCompile(`\b(?:json|domain|handlers|binding|fault|uuid|url|time|strconv|reflect)\.(\p{Lu})`)

	// Parentheticals that start with an uppercase letter name wrapper types:
	// "(StreamUtils$NonClosingInputStream)".
	wrapperParenRE = regexp.MustCompile(`\(\p{Lu}[^()]*\)`)

	anyParenRE = regexp.MustCompile(`\([^()]*\)`)

	separatorRE = regexp.MustCompile(`(?:\p{Cc}|; )+`)
	spaceRunRE  = regexp.MustCompile(` {2,}`)
)

// StripNamespaces removes fully-qualified namespace prefixes.
func StripNamespaces(s string) string {
	return namespaceRE.ReplaceAllString(s, "")
}

// StripPackageQualifiers reduces "pkg.Type" to "Type" for the packages
// listed in qualifierRE.
func StripPackageQualifiers(s string) string {
	return qualifierRE.ReplaceAllString(s, "$1")
}

// StripWrapperParentheticals removes parentheticals naming internal types.
func StripWrapperParentheticals(s string) string {
	return wrapperParenRE.ReplaceAllString(s, "")
}

// StripParentheticals removes every innermost parenthetical group. It is
// stronger than StripWrapperParentheticals and only used where the message
// is attached to a field pointer that already carries the same information.
func StripParentheticals(s string) string {
	return anyParenRE.ReplaceAllString(s, "")
}

// CollapseSeparators turns control characters and "; " separators into
// single spaces and trims the result.
func CollapseSeparators(s string) string {
	s = separatorRE.ReplaceAllString(s, " ")
	s = spaceRunRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func sanitizePass(s string) string {
	s = StripNamespaces(s)
	s = StripWrapperParentheticals(s)
	return CollapseSeparators(s)
}

// Sanitize applies all transforms until the text stops changing, so
// Sanitize(Sanitize(x)) == Sanitize(x) for every x. No pass lengthens the
// text and replaced control characters never reappear, so the loop ends.
func Sanitize(s string) string {
	for {
		next := sanitizePass(s)
		if next == s {
			return s
		}
		s = next
	}
}

// sanitizeDecoder cleans text produced by a body decoder, which may also
// name Go types by their package.
func sanitizeDecoder(s string) string {
	return Sanitize(StripPackageQualifiers(Sanitize(s)))
}
