// Copyright (c) 2026 AuthFlow. All rights reserved.

package auth

import (
	"strings"
	"unicode/utf8"
)

// # Password Policy

// Checks records which individual password rules a candidate satisfies.
type Checks struct {
	Length    bool `json:"length"`
	Lowercase bool `json:"lowercase"`
	Uppercase bool `json:"uppercase"`
	Digit     bool `json:"digit"`
	Symbol    bool `json:"symbol"`
}

// Strength is the full policy evaluation of a candidate password.
type Strength struct {
	// Score counts the satisfied rules, 0 through 5.
	Score int `json:"score"`
	// Label is the user-facing tier for Score. Empty for a score of zero.
	Label string `json:"label"`
	// Checks breaks the score down per rule.
	Checks Checks `json:"checks"`
}

// strengthLabels maps a score to its tier. Scores 1 and 2 share a tier
// while 4 and 5 stay distinct.
var strengthLabels = [6]string{"", "Weak", "Weak", "Fair", "Good", "Strong"}

/*
Evaluate scores a candidate password against the account password policy.

Description: Pure and deterministic; safe to call on every keystroke-style
partial input. An empty password scores zero with no label.

Parameters:
  - password: The candidate, exactly as typed.

Returns:
  - Strength: Score, tier label, and the per-rule breakdown.
*/
func Evaluate(password string) Strength {
	checks := Checks{
		Length:    utf8.RuneCountInString(password) >= MinPasswordLength,
		Lowercase: strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }),
		Uppercase: strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }),
		Digit:     strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }),
		Symbol:    strings.ContainsAny(password, PasswordSymbols),
	}

	score := 0
	for _, passed := range []bool{checks.Length, checks.Lowercase, checks.Uppercase, checks.Digit, checks.Symbol} {
		if passed {
			score++
		}
	}

	return Strength{
		Score:  score,
		Label:  strengthLabels[score],
		Checks: checks,
	}
}
