package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Getter prefixes. Is and Has only apply to boolean results.
const (
	prefixGet = "Get"
	prefixIs  = "Is"
	prefixHas = "Has"
	prefixSet = "Set"
)

// PropertyOfGetter returns the property exposed by a getter method name.
// GetX qualifies for any result; IsX and HasX only when the result is bool.
func PropertyOfGetter(method string, boolResult bool) (string, bool) {
	if prop, ok := afterPrefix(method, prefixGet); ok {
		return prop, true
	}

	if !boolResult {
		return "", false
	}

	for _, p := range []string{prefixIs, prefixHas} {
		if prop, ok := afterPrefix(method, p); ok {
			return prop, true
		}
	}

	return "", false
}

// Getter returns the conventional getter for a property.
func Getter(prop string) string {
	return prefixGet + Capitalize(prop)
}

// Setter returns the conventional setter for a property.
func Setter(prop string) string {
	return prefixSet + Capitalize(prop)
}

func afterPrefix(name, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok || rest == "" {
		return "", false
	}

	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return "", false
	}

	return rest, true
}
