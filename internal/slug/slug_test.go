package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercase kebab", input: "Architecture Document", expected: "architecture-document"},
		{name: "special characters", input: "Design-Doc: Version 2.0!", expected: "design-doc-version-2-0"},
		{name: "whitespace runs", input: "Memory   Bank   Template", expected: "memory-bank-template"},
		{name: "trim separators", input: "-implementation-plan-", expected: "implementation-plan"},
		{name: "tabs and newlines", input: "\tdata\n model ", expected: "data-model"},
		{name: "underscores", input: "01_introduction", expected: "01-introduction"},
		{name: "only symbols", input: "!!!", expected: ""},
		{name: "empty", input: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Slugify(tc.input))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	once := Slugify("API Design / Security Model")
	assert.Equal(t, once, Slugify(once))
}
