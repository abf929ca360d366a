package postfix

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tacitlang/tacit/token"
)

func n(v int64) token.Token {
	return token.Num(bigFromInt64(v))
}

func TestToPostfix_SimpleExpressionOrdersByPrecedence(t *testing.T) {
	// 3 + 4 * 2  ->  3 4 2 * +
	tokens := []token.Token{n(3), token.Op("+"), n(4), token.Op("*"), n(2)}
	got := ToPostfix(tokens)
	assert.Equal(t, []token.Token{n(3), n(4), n(2), token.Op("*"), token.Op("+")}, got)
}

func TestToPostfix_PrefixOperatorNeverWaitsOnPrecedingOperator(t *testing.T) {
	// a prefix (left-arity 0) operator like `!` always pops ahead of what precedes it.
	tokens := []token.Token{n(5), token.Op("+"), token.Op("!"), n(3)}
	got := ToPostfix(tokens)
	assert.Equal(t, []token.Token{n(5), n(3), token.Op("!"), token.Op("+")}, got)
}

func TestToPostfix_SplitsOnTopLevelComma(t *testing.T) {
	tokens := []token.Token{n(1), token.CommaToken, n(2)}
	got := ToPostfix(tokens)
	assert.Equal(t, []token.Token{n(1), n(2)}, got)
}

func TestToPostfix_RecursesIntoBlockBody(t *testing.T) {
	body := []token.Token{n(1), token.Op("+"), n(2)}
	tokens := []token.Token{token.Blk(body, '{', "")}
	got := ToPostfix(tokens)
	assert.Len(t, got, 1)
	assert.Equal(t, []token.Token{n(1), n(2), token.Op("+")}, got[0].Body)
}

func bigFromInt64(v int64) *big.Float {
	return new(big.Float).SetInt64(v)
}
