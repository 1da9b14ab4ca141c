package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierNormalizedToUppercase(t *testing.T) {
	toks, errs := Tokenize("lda")
	require.Empty(t, errs)
	require.Len(t, toks, 2) // identifier + EOF
	assert.Equal(t, TokenIdentifier, toks[0].Type)
	assert.Equal(t, "LDA", toks[0].Text)
}

func TestIdentifierWithUnderscoreAndDigits(t *testing.T) {
	toks, errs := Tokenize("LABEL_123")
	require.Empty(t, errs)
	assert.Equal(t, "LABEL_123", toks[0].Text)
}

func TestHexNumberLiteral(t *testing.T) {
	toks, errs := Tokenize("$42")
	require.Empty(t, errs)
	assert.Equal(t, TokenHexNumber, toks[0].Type)
	assert.Equal(t, uint32(0x42), toks[0].Value)
	assert.Equal(t, 3, toks[0].Length)

	toks, errs = Tokenize("$abcd")
	require.Empty(t, errs)
	assert.Equal(t, uint32(0xABCD), toks[0].Value)
}

func TestBinaryNumberLiteral(t *testing.T) {
	toks, errs := Tokenize("%01000010")
	require.Empty(t, errs)
	assert.Equal(t, TokenBinaryNumber, toks[0].Type)
	assert.Equal(t, uint32(66), toks[0].Value)
	assert.Equal(t, 9, toks[0].Length)
}

func TestDecimalNumberLiteral(t *testing.T) {
	toks, errs := Tokenize("007")
	require.Empty(t, errs)
	assert.Equal(t, TokenDecimalNumber, toks[0].Type)
	assert.Equal(t, uint32(7), toks[0].Value)
}

func TestBareOperators(t *testing.T) {
	toks, errs := Tokenize(":,#$%=().")
	require.Empty(t, errs)
	require.Len(t, toks, 10)
	wantTypes := []TokenType{
		TokenColon, TokenComma, TokenHash, TokenDollar, TokenPercent,
		TokenEqual, TokenLParen, TokenRParen, TokenDot,
	}
	for i, want := range wantTypes {
		assert.Equal(t, want, toks[i].Type, "token %d", i)
	}
}

func TestCommentPreserved(t *testing.T) {
	toks, errs := Tokenize("; a comment")
	require.Empty(t, errs)
	require.Len(t, toks, 2)
	assert.Equal(t, TokenComment, toks[0].Type)
	assert.Equal(t, " a comment", toks[0].Text)
}

func TestNewlineNormalization(t *testing.T) {
	toks, errs := Tokenize("LDA\r\nSTA")
	require.Empty(t, errs)
	assert.Equal(t, TokenNewline, toks[1].Type)
	assert.Equal(t, 2, toks[1].Length)

	toks, errs = Tokenize("LDA\nSTA")
	require.Empty(t, errs)
	assert.Equal(t, 1, toks[1].Length)
}

func TestLineColumnTracking(t *testing.T) {
	toks, errs := Tokenize("LDA #$42\nSTA $1000\n")
	require.Empty(t, errs)
	assert.Equal(t, 1, toks[0].Line)
	// LDA ws # $42 newline STA ...
	var staIdx int
	for i, tok := range toks {
		if tok.Type == TokenIdentifier && tok.Text == "STA" {
			staIdx = i
			break
		}
	}
	assert.Equal(t, 2, toks[staIdx].Line)
	assert.Equal(t, 0, toks[staIdx].Column)
}

func TestStringLiteralWithEscapes(t *testing.T) {
	toks, errs := Tokenize(`"Line1\nLine2\tTab"`)
	require.Empty(t, errs)
	require.Equal(t, TokenString, toks[0].Type)
	assert.Equal(t, "Line1\nLine2\tTab", toks[0].Text)
}

func TestEmptyStringLiteral(t *testing.T) {
	toks, errs := Tokenize(`""`)
	require.Empty(t, errs)
	assert.Equal(t, "", toks[0].Text)
}

func TestInvalidHexDigitError(t *testing.T) {
	_, errs := Tokenize("$ZZ")
	require.Len(t, errs, 1)
	var e InvalidHexDigit
	require.ErrorAs(t, errs[0], &e)
	assert.Equal(t, 'Z', e.Ch)
	assert.Equal(t, 1, e.Line)
}

func TestDecimalOverflowError(t *testing.T) {
	_, errs := Tokenize("99999")
	require.Len(t, errs, 1)
	var e NumberTooLarge
	require.ErrorAs(t, errs[0], &e)
	assert.Equal(t, uint32(65535), e.Max)
}

func TestHexOverflowError(t *testing.T) {
	_, errs := Tokenize("$FFFFF")
	require.Len(t, errs, 1)
	var e NumberTooLarge
	require.ErrorAs(t, errs[0], &e)
}

func TestUnterminatedStringError(t *testing.T) {
	_, errs := Tokenize("\"unterminated")
	require.Len(t, errs, 1)
	var e UnterminatedString
	require.ErrorAs(t, errs[0], &e)
}

func TestEveryTokenizeEndsInEOF(t *testing.T) {
	toks, errs := Tokenize("")
	require.Empty(t, errs)
	require.Len(t, toks, 1)
	assert.Equal(t, TokenEof, toks[0].Type)
}
