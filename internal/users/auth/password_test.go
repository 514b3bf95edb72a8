// Copyright (c) 2026 AuthFlow. All rights reserved.

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		score    int
		label    string
	}{
		{name: "empty password", password: "", score: 0, label: ""},
		{name: "short lowercase only", password: "abc", score: 1, label: "Weak"},
		{name: "long lowercase only", password: "abcdefgh", score: 2, label: "Weak"},
		{name: "adds uppercase", password: "Abcdefgh", score: 3, label: "Fair"},
		{name: "adds digit", password: "Abcdefg1", score: 4, label: "Good"},
		{name: "all rules", password: "Abcdef1!", score: 5, label: "Strong"},
		{name: "short but varied", password: "Ab1!", score: 4, label: "Good"},
		{name: "digits only", password: "12345678", score: 2, label: "Weak"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			strength := Evaluate(testCase.password)

			assert.Equal(t, testCase.score, strength.Score)
			assert.Equal(t, testCase.label, strength.Label)
		})
	}
}

func TestEvaluate_LengthCountsCharacters(t *testing.T) {
	// Seven characters spanning eight bytes must not satisfy the length rule.
	assert.False(t, Evaluate("Abc1!é7").Checks.Length)
	assert.True(t, Evaluate("Abc1!é78").Checks.Length)
}

func TestEvaluate_Checks(t *testing.T) {
	strength := Evaluate("Abcdef1!")

	assert.True(t, strength.Checks.Length)
	assert.True(t, strength.Checks.Lowercase)
	assert.True(t, strength.Checks.Uppercase)
	assert.True(t, strength.Checks.Digit)
	assert.True(t, strength.Checks.Symbol)
}

func TestEvaluate_SymbolSet(t *testing.T) {
	// Underscore and space are not in the accepted special-character set.
	assert.False(t, Evaluate("abcdefg_").Checks.Symbol)
	assert.False(t, Evaluate("abcdefg ").Checks.Symbol)
	assert.True(t, Evaluate(`abcdefg"`).Checks.Symbol)
	assert.True(t, Evaluate("abcdefg,").Checks.Symbol)
}
