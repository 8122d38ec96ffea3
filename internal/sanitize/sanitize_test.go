package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "whitespace only", input: "   \t\n", expected: ""},
		{name: "trims", input: "  hello  ", expected: "hello"},
		{name: "escapes markup", input: `<b onclick="x">hi</b>`, expected: "&lt;b onclick=&quot;x&quot;&gt;hi&lt;&#x2F;b&gt;"},
		{name: "escapes quotes and ampersand", input: `Tom & Jerry's`, expected: "Tom &amp; Jerry&#x27;s"},
		{name: "escapes backslash and backtick", input: "a\\b`c", expected: "a&#x5C;b&#96;c"},
		{name: "keeps unicode", input: "un été", expected: "un été"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Input(tt.input))
		})
	}
}

func TestInputTruncatesBeforeEscaping(t *testing.T) {
	req := require.New(t)

	long := strings.Repeat("é", 600)
	req.Equal(strings.Repeat("é", 500), Input(long))

	// 499 letters then "<" reaches the limit; the escape expands past it.
	edge := strings.Repeat("a", 499) + "<<"
	req.Equal(strings.Repeat("a", 499)+"&lt;", Input(edge))
}
