// Package vparser extracts version tokens from commit messages.
//
// A version commit's subject carries a token of the form
// "Version: 2024_01_15" (or VERSION:, or "Updated version", optionally
// followed by an XX_ marker). ExtractVersion is a pure function: it never
// touches git, a filesystem, or the clock.
package vparser

import "regexp"

// pattern captures the digit-and-separator token regardless of whether a
// recognized keyword prefix is present, so it also matches bare tokens like
// "2024_01_15_23" found outside a subject line.
var pattern = regexp.MustCompile(
	`(?:(?:Version:|VERSION:|Updated version)\s*)?(?:XX_)?(\d{1,4}(?:[._-]\d{1,4})+)`,
)

// GitGrepPattern is the extended-regex equivalent used when asking git
// itself to select version commits (--extended-regexp --grep=<GitGrepPattern>).
// It must stay in lockstep with pattern above: any subject this accepts
// must also be accepted by ExtractVersion.
const GitGrepPattern = `(Version|VERSION|Updated version)(:)? (XX_)?[0-9]{1,4}([._-][0-9]{1,4})+`

// ExtractVersion returns the version token embedded in message, and whether
// one was found. The keyword prefix ("Version:", "VERSION:", "Updated
// version") is case-sensitive; the digit token itself carries no case.
func ExtractVersion(message string) (string, bool) {
	m := pattern.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	return m[1], true
}
