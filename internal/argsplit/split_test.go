package argsplit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitUnquotedWords(t *testing.T) {
	words, err := Split("--label foo=bar --rm")
	require.NoError(t, err)
	assert.Equal(t, []string{"--label", "foo=bar", "--rm"}, words)
}

func TestSplitCollapsesRepeatedWhitespace(t *testing.T) {
	words, err := Split("a   b\tc")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, words)
}

func TestSplitDoubleQuotedSpacePreserved(t *testing.T) {
	words, err := Split(`--label "note=hello world"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"--label", "note=hello world"}, words)
}

func TestSplitSingleQuoteOnlyEscapesBackslashAndQuote(t *testing.T) {
	words, err := Split(`'a\nb\'c'`)
	require.NoError(t, err)
	assert.Equal(t, []string{`a\nb'c`}, words)
}

func TestSplitDoubleQuoteEscapes(t *testing.T) {
	words, err := Split(`"line1\nline2\ttab\sspace"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"line1\nline2\ttab space"}, words)
}

func TestSplitHexAndUnicodeEscapes(t *testing.T) {
	words, err := Split(`"\x41B\U00000043"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"ABC"}, words)
}

func TestSplitEmptyQuotedWordIsPreserved(t *testing.T) {
	words, err := Split(`--name ""`)
	require.NoError(t, err)
	assert.Equal(t, []string{"--name", ""}, words)
}

func TestSplitUnterminatedQuoteIsError(t *testing.T) {
	_, err := Split(`"unterminated`)
	require.Error(t, err)
	var se *SplitError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindUnterminatedQuote, se.Kind)
}

func TestSplitTrailingBackslashIsError(t *testing.T) {
	_, err := Split(`foo\`)
	require.Error(t, err)
	var se *SplitError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindTrailingBackslash, se.Kind)
}

func TestSplitBadEscapeIsError(t *testing.T) {
	_, err := Split(`"\q"`)
	require.Error(t, err)
	var se *SplitError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindBadEscape, se.Kind)
}

// TestJoinSplitIsIdempotent is the round-trip property from spec §8.2.
func TestJoinSplitIsIdempotent(t *testing.T) {
	cases := [][]string{
		{"simple"},
		{"--label", "note=hello world"},
		{"has\"quote", `back\slash`, ""},
		{"a", "b", "c"},
	}
	for _, words := range cases {
		joined := Join(words)
		got, err := Split(joined)
		require.NoError(t, err)
		assert.Equal(t, words, got)
	}
}
