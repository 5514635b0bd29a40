package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		text        string
		wantPattern string
		wantFlags   string
	}{
		{text: "^[a-z]+$", wantPattern: "^[a-z]+$"},
		{text: "/^[a-z]+$/", wantPattern: "^[a-z]+$"},
		{text: "/^[a-z]+$/i", wantPattern: "^[a-z]+$", wantFlags: "i"},
		{text: "abc/i", wantPattern: "abc", wantFlags: "i"},
		{text: "/abc", wantPattern: "abc"},
		// Only the tail is inspected: the first slash in the last two
		// characters closes the literal.
		{text: "/ab//", wantPattern: "ab"},
		{text: "a/b/c/d", wantPattern: "a/b/c", wantFlags: "d"},
		{text: "/a/b/gi", wantPattern: "a/b/gi"},
		{text: "/", wantPattern: ""},
		{text: "", wantPattern: ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			pattern, flags := ParseLiteral(tt.text)
			assert.Equal(t, tt.wantPattern, pattern)
			assert.Equal(t, tt.wantFlags, flags)
		})
	}
}

func TestCompileLiteral(t *testing.T) {
	rx, err := CompileLiteral("/^[a-z]+$/i")
	require.NoError(t, err)
	assert.True(t, rx.MatchString("ABC"))

	rx, err = CompileLiteral("/^[a-z]+$/")
	require.NoError(t, err)
	assert.False(t, rx.MatchString("ABC"))

	rx, err = CompileLiteral("/^a.c$/g")
	require.NoError(t, err)
	assert.True(t, rx.MatchString("abc"))

	_, err = CompileLiteral("/abc/x")
	assert.ErrorIs(t, err, ErrMalformedRule)

	_, err = CompileLiteral("/(unclosed/")
	assert.ErrorIs(t, err, ErrMalformedRule)
}
