package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenizeNonSpace(t *testing.T, input string) []Token {
	t.Helper()
	toks, err := Tokenize(input)
	require.NoError(t, err)
	return FilterWhitespace(toks)
}

func TestWordAndSymbolTokens(t *testing.T) {
	t.Parallel()

	toks := tokenizeNonSpace(t, "fn add(a, b) {}")
	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{
		Word, Word, SymbolGroup, Word, SymbolGroup, Word, SymbolGroup,
		SymbolGroup, SymbolGroup, EndOfInput,
	}, kinds)
}

func TestStringLiteralInteriorLength(t *testing.T) {
	t.Parallel()

	toks := tokenizeNonSpace(t, `"hello"`)
	require.Len(t, toks, 2)
	require.Equal(t, StringLiteral, toks[0].Kind)
	assert.Equal(t, 5, toks[0].Str.Length)
}

func TestStringLiteralWithEscapes(t *testing.T) {
	t.Parallel()

	toks := tokenizeNonSpace(t, `"a\"b"`)
	require.Len(t, toks, 2)
	require.Equal(t, StringLiteral, toks[0].Kind)
	// 'a' (1), then an escaped '"' counted as its 2 source characters, then
	// 'b' (1): 4 interior runes.
	assert.Equal(t, 4, toks[0].Str.Length)
}

func TestUnterminatedStringIsUnexpectedEnd(t *testing.T) {
	t.Parallel()

	_, err := Tokenize(`"unterminated`)
	require.Error(t, err)
	lexErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, UnexpectedEnd, lexErr.Kind)
}

// Leading-zero radix selection (original_source's parse_number_literal.rs,
// preserved per SPEC_FULL.md's supplemented literal-scan algorithm):
// 0x/0o/0b pick their radix, a bare 0 followed by another digit is octal,
// and 0 followed by '.digit' is decimal and fractional even though octal
// would otherwise apply.
func TestNumberLiteralRadixSelection(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		input      string
		radix      int
		fractional bool
	}{
		{"hex", "0x1F", 16, false},
		{"octal prefix", "0o17", 8, false},
		{"binary", "0b101", 2, false},
		{"bare leading zero is octal", "017", 8, false},
		{"lone zero is decimal", "0", 10, false},
		{"leading zero then dot-digit is decimal fractional", "0.4", 10, true},
		{"double leading zero stays octal through a later dot", "00.4", 8, true},
		{"explicit octal prefix stays octal through a later dot", "0o0.4", 8, true},
		{"plain decimal", "42", 10, false},
		{"decimal fractional", "3.5", 10, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			toks := tokenizeNonSpace(t, tc.input)
			require.Len(t, toks, 2)
			require.Equal(t, NumberLiteral, toks[0].Kind)
			assert.Equal(t, tc.radix, toks[0].Number.Radix, "radix")
			assert.Equal(t, tc.fractional, toks[0].Number.Fractional, "fractional")
		})
	}
}

func TestNumberLiteralDigitOutsideRadixFails(t *testing.T) {
	t.Parallel()

	_, err := Tokenize("0o8")
	require.Error(t, err)
	lexErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, NotInRadix, lexErr.Kind)
	assert.Equal(t, 8, lexErr.Radix)
}

func TestNegativeNumberApproxValue(t *testing.T) {
	t.Parallel()

	toks := tokenizeNonSpace(t, "-5")
	require.Len(t, toks, 2)
	require.Equal(t, NumberLiteral, toks[0].Kind)
	assert.True(t, toks[0].Number.Negative)
	assert.Equal(t, -5.0, toks[0].Number.ApproxValue)
}

func TestTokenizeStopsAtInvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Tokenize("$")
	require.Error(t, err)
	lexErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, UnexpectedInput, lexErr.Kind)
}
