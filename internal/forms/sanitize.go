// Package forms – Sanitizer
//
// This file implements the sanitization pass applied to a validated
// submission before metadata is attached and the payload is relayed.
package forms

import (
	"regexp"
	"strings"
)

// MaxFieldLen caps every string field after sanitization, counted in runes
// so a multibyte character is never split. Anything longer is truncated, not
// rejected.
const MaxFieldLen = 5000

// tagRE matches <...> bracketed substrings. This is a crude tag-stripping
// pass, not an HTML parser: nested or malformed markup can leave remnants
// (e.g. "<<b>" strips to "<"). That limitation is accepted; the value is
// stored and mailed as plain text, never rendered as HTML.
var tagRE = regexp.MustCompile(`<[^>]*>`)

// Sanitize returns a new map in which every string-typed value has
// <...>-bracketed substrings removed, surrounding whitespace trimmed, and
// length truncated to MaxFieldLen. Non-string values pass through unchanged.
//
// Sanitize is a total function with no failure mode, and it never mutates
// the input map. For well-formed tags it is idempotent: applying it twice
// yields the same result as applying it once.
func Sanitize(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		s, ok := v.(string)
		if !ok {
			out[k] = v
			continue
		}
		s = tagRE.ReplaceAllString(s, "")
		s = strings.TrimSpace(s)
		if len(s) > MaxFieldLen {
			if r := []rune(s); len(r) > MaxFieldLen {
				s = string(r[:MaxFieldLen])
			}
		}
		out[k] = s
	}
	return out
}
