package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_ArithmeticPrecedence(t *testing.T) {
	result, err := Run("3+4*2", "", DefaultConfig)
	assert.NoError(t, err)
	assert.Equal(t, "11", result.String(DefaultConfig.OutputPrecision))
}

func TestRun_FoldSum(t *testing.T) {
	result, err := Run(`[1,2,3]\+`, "", DefaultConfig)
	assert.NoError(t, err)
	assert.Equal(t, "6", result.String(DefaultConfig.OutputPrecision))
}

func TestRun_FoldFactorial(t *testing.T) {
	result, err := Run(`~5\*`, "", DefaultConfig)
	assert.NoError(t, err)
	assert.Equal(t, "120", result.String(DefaultConfig.OutputPrecision))
}

func TestRun_BareUnderscoreEchoesInput(t *testing.T) {
	result, err := Run("_", "hello", DefaultConfig)
	assert.NoError(t, err)
	assert.Equal(t, "hello", result.String(DefaultConfig.OutputPrecision))
}

func TestRun_StringRepeat(t *testing.T) {
	result, err := Run(`"abc"^3`, "", DefaultConfig)
	assert.NoError(t, err)
	assert.Equal(t, "abcabcabc", result.String(DefaultConfig.OutputPrecision))
}

func TestRun_FilterEvensFromPipedRange(t *testing.T) {
	result, err := Run("(1=>10)$.{_%2=0}", "", DefaultConfig)
	assert.NoError(t, err)
	seq, err := result.LiteralSequence(DefaultConfig.FloatPrecision, DefaultConfig.OutputPrecision)
	assert.NoError(t, err)
	elems, err := seq.Collect()
	assert.NoError(t, err)
	var rendered []string
	for _, e := range elems {
		rendered = append(rendered, e.String(DefaultConfig.OutputPrecision))
	}
	assert.Equal(t, []string{"2", "4", "6", "8", "10"}, rendered)
}

func TestRun_SplitOnSpaces(t *testing.T) {
	result, err := Run(`_:!" "`, "a b c", DefaultConfig)
	assert.NoError(t, err)
	seq, err := result.LiteralSequence(DefaultConfig.FloatPrecision, DefaultConfig.OutputPrecision)
	assert.NoError(t, err)
	elems, err := seq.Collect()
	assert.NoError(t, err)
	assert.Len(t, elems, 3)
}

func TestRun_GroupEvaluatesEachStatementReturnsLast(t *testing.T) {
	result, err := Run("(1,2,3)", "", DefaultConfig)
	assert.NoError(t, err)
	assert.Equal(t, "3", result.String(DefaultConfig.OutputPrecision))
}

// TestRun_FibonacciSelfReferentialGenerator exercises the sequence engine's
// hardest feature: a generator block that reads `p`, the prefix computed so
// far, to reach back further than the single implicit `_`. It computes the
// same recurrence as spec.md's worked Fibonacci example
// (`[1,{_+p?(#p--2)}->10]`), but spells the length/index arithmetic as
// `(p#)-1`/`(p#)-2` rather than `#p--2`: `#` is a postfix, left-arity-only
// operator (its operand is written before it, as in `p#`, not after, as in
// `#p`), and `--` is the increment/decrement operator, not subtraction, so
// it can't express "minus 2" against a computed length. See DESIGN.md for
// the full trace.
func TestRun_FibonacciSelfReferentialGenerator(t *testing.T) {
	result, err := Run("[1,1,{(p?((p#)-1))+(p?((p#)-2))}->10]", "", DefaultConfig)
	assert.NoError(t, err)
	seq, err := result.LiteralSequence(DefaultConfig.FloatPrecision, DefaultConfig.OutputPrecision)
	assert.NoError(t, err)
	elems, err := seq.Collect()
	assert.NoError(t, err)
	var rendered []string
	for _, e := range elems {
		rendered = append(rendered, e.String(DefaultConfig.OutputPrecision))
	}
	assert.Equal(t, []string{"1", "1", "2", "3", "5", "8", "13", "21", "34", "55"}, rendered)
}

// TestRun_GeneratorSubstitutesMultipleUnderscoresFromTail exercises the
// other half of the same mechanism without `p`: a generator with two `_`
// placeholders has each one substituted from the tail of the prefix cache
// in turn (first `_` gets the most recent element, second `_` the one
// before it), which alone is enough to generate Fibonacci.
func TestRun_GeneratorSubstitutesMultipleUnderscoresFromTail(t *testing.T) {
	result, err := Run("[1,1,{_+_}->8]", "", DefaultConfig)
	assert.NoError(t, err)
	seq, err := result.LiteralSequence(DefaultConfig.FloatPrecision, DefaultConfig.OutputPrecision)
	assert.NoError(t, err)
	elems, err := seq.Collect()
	assert.NoError(t, err)
	var rendered []string
	for _, e := range elems {
		rendered = append(rendered, e.String(DefaultConfig.OutputPrecision))
	}
	assert.Equal(t, []string{"1", "1", "2", "3", "5", "8", "13", "21"}, rendered)
}

func TestRun_MapWithoutBlockOperandIsError(t *testing.T) {
	// `@@@` lexes as three `@` (map) operators; the outermost one's right
	// operand is the number 2, not a block, so evaluation fails.
	_, err := Run("1@@@2", "", DefaultConfig)
	assert.Error(t, err)
}
