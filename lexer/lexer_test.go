package lexer

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tacitlang/tacit/token"
)

const testPrecision = 64

func numTok(t *testing.T, s string) token.Token {
	t.Helper()
	f, _, err := big.ParseFloat(s, 10, testPrecision, big.ToNearestEven)
	assert.NoError(t, err)
	return token.Num(f)
}

func TestLex_NumberAndOperator(t *testing.T) {
	toks, err := Lex("1+2", testPrecision)
	assert.NoError(t, err)
	assert.Equal(t, []token.Token{
		numTok(t, "1"),
		token.Op("+"),
		numTok(t, "2"),
	}, toks)
}

func TestLex_NegativeNumber(t *testing.T) {
	toks, err := Lex("_5", testPrecision)
	assert.NoError(t, err)
	assert.Equal(t, []token.Token{numTok(t, "-5")}, toks)
}

func TestLex_BareUnderscoreIsVariable(t *testing.T) {
	toks, err := Lex("_+1", testPrecision)
	assert.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.Var("_"),
		token.Op("+"),
		numTok(t, "1"),
	}, toks)
}

func TestLex_UnaryOperatorGetsImplicitArgument(t *testing.T) {
	toks, err := Lex("!", testPrecision)
	assert.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.Op("!"),
		token.Var("_"),
	}, toks)
}

func TestLex_MaximalMunchPrefersLongerOperator(t *testing.T) {
	toks, err := Lex("1<=2", testPrecision)
	assert.NoError(t, err)
	assert.Equal(t, []token.Token{
		numTok(t, "1"),
		token.Op("<="),
		numTok(t, "2"),
	}, toks)
}

func TestLex_StringLiteral(t *testing.T) {
	toks, err := Lex(`"hi"`, testPrecision)
	assert.NoError(t, err)
	assert.Equal(t, []token.Token{token.Str("hi")}, toks)
}

func TestLex_StringLiteralEscapedQuote(t *testing.T) {
	toks, err := Lex(`"a\"b"`, testPrecision)
	assert.NoError(t, err)
	assert.Equal(t, []token.Token{token.Str(`a"b`)}, toks)
}

func TestLex_CompressedStringBacktick(t *testing.T) {
	toks, err := Lex("`ab`", testPrecision)
	assert.NoError(t, err)
	assert.Equal(t, []token.Token{token.CmpStr("ab", '`')}, toks)
}

func TestLex_GroupParen(t *testing.T) {
	toks, err := Lex("(1+2)", testPrecision)
	assert.NoError(t, err)
	assert.Len(t, toks, 1)
	assert.Equal(t, token.Block, toks[0].Kind)
	assert.Equal(t, byte('('), toks[0].Bracket)
}

func TestLex_NamedBlockCapturesPrecedingVariable(t *testing.T) {
	toks, err := Lex("x{_+1}", testPrecision)
	assert.NoError(t, err)
	assert.Len(t, toks, 1)
	assert.Equal(t, token.Block, toks[0].Kind)
	assert.Equal(t, "x", toks[0].Name)
}

func TestLex_DotBraceOperatorNotMistakenForGroup(t *testing.T) {
	toks, err := Lex("x.{", testPrecision)
	assert.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.Var("x"),
		token.Op(".{"),
	}, toks)
}

func TestLex_NestedBraceWithDotBraceOperatorInside(t *testing.T) {
	toks, err := Lex("{_.{}", testPrecision)
	assert.NoError(t, err)
	assert.Len(t, toks, 1)
	assert.Equal(t, token.Block, toks[0].Kind)
	// Body is `_.{` re-lexed: Variable("_"), Operator(".{", 1, 0). The
	// explicit `_` already satisfies that operator's left arity, so no
	// implicit `_` is inserted.
	assert.Equal(t, []token.Token{
		token.Var("_"),
		token.Op(".{"),
	}, toks[0].Body)
}

func TestLex_CommaAndNewlineSeparateChunks(t *testing.T) {
	toks, err := Lex("1,2\n3", testPrecision)
	assert.NoError(t, err)
	assert.Equal(t, []token.Token{
		numTok(t, "1"),
		token.CommaToken,
		numTok(t, "2"),
		token.CommaToken,
		numTok(t, "3"),
	}, toks)
}

func TestLex_UnmatchedOpenParenIsSyntaxError(t *testing.T) {
	_, err := Lex("(1+2", testPrecision)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
}

func TestLex_UnmatchedOpenBracketIsSyntaxError(t *testing.T) {
	_, err := Lex("[1,2", testPrecision)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
}

func TestLex_UnmatchedNestedParenIsSyntaxError(t *testing.T) {
	_, err := Lex("((1+2)", testPrecision)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "syntax error")
}

func TestLex_Identifier(t *testing.T) {
	toks, err := Lex("abc+1", testPrecision)
	assert.NoError(t, err)
	assert.Equal(t, []token.Token{
		token.Var("abc"),
		token.Op("+"),
		numTok(t, "1"),
	}, toks)
}
