package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain lowercase", "achiever", "achiever"},
		{"Capitalized", "Achiever", "achiever"},
		{"All caps", "ACHIEVER", "achiever"},
		{"Registered mark", "Woo®", "woo"},
		{"TM mark", "Strategic™", "strategic"},
		{"Copyright mark", "Learner©", "learner"},
		{"ASCII R mark", "Input(R)", "input"},
		{"ASCII TM mark", "Focus(TM)", "focus"},
		{"Hyphen to space", "Self-Assurance", "self assurance"},
		{"Collapse whitespace", "Self    Assurance", "self assurance"},
		{"Tabs and newlines", "Self\tAssurance\n", "self assurance"},
		{"Leading and trailing space", "  Relator  ", "relator"},
		{"Empty", "", ""},
		{"Only marks", "®™", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}
