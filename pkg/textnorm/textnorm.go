// Copyright (c) 2026 AuthFlow. All rights reserved.

// Package textnorm normalizes user-supplied display text.
//
// # Usage
//
// Full names arrive from sign-up forms and profile edits in whatever
// composition the client keyboard produced. This package canonicalizes
// them (NFC) and collapses stray whitespace so that the same name always
// compares and renders identically.
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FullName canonicalizes a person's display name.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFC (composes decomposed accents: e + combining acute → é).
// 2. Collapses runs of whitespace into single spaces.
// 3. Trims leading and trailing whitespace.
func FullName(s string) string {
	composed := norm.NFC.String(s)
	return strings.Join(strings.Fields(composed), " ")
}

// Initials derives the uppercase initials shown in the header avatar.
//
// "Ada Lovelace" → "AL"; a single name yields one letter; an empty name
// falls back to "U", matching the dashboard's placeholder avatar.
func Initials(fullName string) string {
	fields := strings.Fields(norm.NFC.String(fullName))
	if len(fields) == 0 {
		return "U"
	}

	var b strings.Builder
	for _, field := range fields {
		runes := []rune(field)
		b.WriteString(strings.ToUpper(string(runes[0])))
	}
	return b.String()
}
