// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package textnorm normalises user-supplied text before it is validated,
// stored or compared.
//
// # Usage
//
// Titles, comments and tweets go through [Clean] so visually identical input
// is stored identically. Search matching goes through [ContainsFold], which
// applies full Unicode case folding rather than ASCII lower-casing.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Clean composes s into NFC and trims surrounding whitespace.
func Clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// CleanPtr applies [Clean] to an optional value and reports whether anything
// non-blank remains. A nil or blank-after-trim value yields ("", false).
func CleanPtr(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	cleaned := Clean(*s)
	return cleaned, cleaned != ""
}

// Fold returns the case-folded NFC form of s for case-insensitive comparison.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// ContainsFold reports whether needle occurs in haystack ignoring case.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}
