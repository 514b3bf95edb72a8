// Copyright (c) 2026 AuthFlow. All rights reserved.

package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Adititesting969/authflow-6448/pkg/textnorm"
)

/*
TestFullName verifies whitespace collapsing and Unicode composition.
*/
func TestFullName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Ada Lovelace", "Ada Lovelace"},
		{"extra_spaces", "  Ada   Lovelace  ", "Ada Lovelace"},
		{"tabs_and_newlines", "Ada\tLovelace\n", "Ada Lovelace"},
		{"decomposed_accent", "José", "José"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, textnorm.FullName(tt.input))
		})
	}
}

/*
TestInitials verifies the avatar-initials derivation.
*/
func TestInitials(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"two_names", "Ada Lovelace", "AL"},
		{"single_name", "Ada", "A"},
		{"three_names", "Jean Luc Picard", "JLP"},
		{"lowercase", "ada lovelace", "AL"},
		{"empty_falls_back", "", "U"},
		{"whitespace_falls_back", "   ", "U"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, textnorm.Initials(tt.input))
		})
	}
}
