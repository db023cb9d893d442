package util

import (
	"strings"
	"unicode"
)

// Capitalize upper-cases the first rune.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// CamelToKebab converts camelCase to kebab-case: "emitOnStateSet" becomes
// "emit-on-state-set".
func CamelToKebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// KebabToCamel converts kebab-case to camelCase: "emit-on-state-set" becomes
// "emitOnStateSet".
func KebabToCamel(s string) string {
	parts := strings.Split(s, "-")
	var b strings.Builder
	for i, part := range parts {
		if i == 0 {
			b.WriteString(part)
			continue
		}
		b.WriteString(Capitalize(part))
	}
	return b.String()
}

// Truncate shortens s to at most max runes, appending an ellipsis when it
// actually cut something.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
