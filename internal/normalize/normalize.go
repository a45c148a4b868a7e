// Package normalize canonicalises ICD-10-CM/PCS code strings so that
// lookups against the reference tables never fail on case or punctuation.
package normalize

import "strings"

// Code uppercases s and strips every '.' character. It is idempotent:
// Code(Code(s)) == Code(s) for any s.
func Code(s string) string {
	if !strings.ContainsAny(s, ".abcdefghijklmnopqrstuvwxyz") {
		return s
	}
	s = strings.ToUpper(s)
	if !strings.Contains(s, ".") {
		return s
	}
	return strings.ReplaceAll(s, ".", "")
}

// Codes normalises every element of ss, returning a new slice.
func Codes(ss []string) []string {
	if ss == nil {
		return nil
	}
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = Code(s)
	}
	return out
}
