package entry

import "strings"

// ErrorMarkerPrefix starts every in-band error marker injected into a
// field value. Markers survive rendering so that a missing mandatory
// field stays visible in the final bibliography.
const ErrorMarkerPrefix = `{\biberror{`

// ErrorMarker builds the in-band marker for a missing mandatory field.
func ErrorMarker(field string) string {
	return `{\biberror{no ` + field + `}}`
}

// TrimBraces removes one level of wrapping braces, if present.
func TrimBraces(s string) string {
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return s[1 : len(s)-1]
	}
	return s
}

// AddBraces wraps s in protection braces.
func AddBraces(s string) string {
	return "{" + s + "}"
}

// IsRealValue reports whether v carries actual field content. A value is
// considered absent if it is empty, an empty braced value, or an injected
// error marker. This predicate gates nearly every conditional check.
func IsRealValue(v string) bool {
	if v == "" || v == "{}" {
		return false
	}
	return !strings.HasPrefix(v, ErrorMarkerPrefix)
}
