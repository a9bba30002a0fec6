package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil yields empty", input: nil, expected: []string{}},
		{name: "badges keep first occurrence", input: []string{"first-chat", "streak-3", "first-chat"}, expected: []string{"first-chat", "streak-3"}},
		{name: "trims and drops blanks", input: []string{"  calm ", "", "  "}, expected: []string{"calm"}},
		{name: "preserves case", input: []string{"Calm", "calm"}, expected: []string{"Calm", "calm"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestDedupeAndTrimLower(t *testing.T) {
	assert.Equal(t, []string{"foo", "bar"}, DedupeAndTrimLower([]string{"  FOO ", "bar", "Foo", "BAR"}))
}

func TestFoldKey(t *testing.T) {
	assert.Equal(t, "new york", FoldKey("  New York "))
	assert.Equal(t, "", FoldKey("   "))
}

func TestDedupeAndTrim_DoesNotModifyInput(t *testing.T) {
	in := []string{" a ", "a"}
	_ = DedupeAndTrim(in)
	assert.Equal(t, []string{" a ", "a"}, in)
}
