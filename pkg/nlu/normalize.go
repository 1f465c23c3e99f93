// Package nlu turns a raw support utterance into entities and an intent.
// Matching is pure; only LoadLexicon touches the filesystem.
package nlu

import "strings"

// Normalize returns the canonical form used for all matching: lower-cased,
// with leading and trailing whitespace removed.
func Normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
