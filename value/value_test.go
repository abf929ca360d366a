package value

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tacitlang/tacit/ast"
)

const testPrecision = 64
const testOutputPrecision = 4

func num(n int64) Dynamic {
	return FromNumber(bigFromFloat64(float64(n)))
}

func TestBooleanNumberEquality(t *testing.T) {
	assert.True(t, Equal(FromBool(true), num(1), testPrecision))
	assert.True(t, Equal(FromBool(false), num(0), testPrecision))
	assert.False(t, Equal(FromBool(true), num(0), testPrecision))
}

func TestCoercionsAreIdempotent(t *testing.T) {
	v := FromString("42")
	s1, err := v.IntoString(testPrecision, testOutputPrecision)
	assert.NoError(t, err)
	s2, err := s1.IntoString(testPrecision, testOutputPrecision)
	assert.NoError(t, err)
	assert.Equal(t, s1, s2)

	n := num(7)
	b1, err := n.IntoBool(testPrecision, testOutputPrecision)
	assert.NoError(t, err)
	b2, err := b1.IntoBool(testPrecision, testOutputPrecision)
	assert.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestCompareOrdersNumbers(t *testing.T) {
	cmp, ok := Compare(num(1), num(2), testPrecision, testOutputPrecision)
	assert.True(t, ok)
	assert.Equal(t, -1, cmp)
}

func TestToNodeOfNumberIsNumberNode(t *testing.T) {
	v := num(5)
	n := v.ToNode()
	assert.Equal(t, ast.Number, n.Kind)
}
