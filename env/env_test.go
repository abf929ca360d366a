package env

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tacitlang/tacit/value"
)

func TestDefineAndGetVar(t *testing.T) {
	e := New()
	e.Define("x", value.FromString("hello"))
	v, err := e.GetVar("x")
	assert.NoError(t, err)
	s, err := v.LiteralString(64, 4)
	assert.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestGetVarUnboundNameErrors(t *testing.T) {
	e := New()
	_, err := e.GetVar("nope")
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	e := New()
	e.Define("x", value.FromString("a"))
	clone := e.Clone().(*Env)
	clone.Define("x", value.FromString("b"))

	original, err := e.GetVar("x")
	assert.NoError(t, err)
	s, _ := original.LiteralString(64, 4)
	assert.Equal(t, "a", s)

	cloned, err := clone.GetVar("x")
	assert.NoError(t, err)
	s, _ = cloned.LiteralString(64, 4)
	assert.Equal(t, "b", s)
}

func TestHasReflectsDefinitions(t *testing.T) {
	e := New()
	assert.False(t, e.Has("x"))
	e.Define("x", value.FromBool(true))
	assert.True(t, e.Has("x"))
}

func TestAttemptCallInvokesBinding(t *testing.T) {
	e := New()
	e.DefineFunc("double", func(callEnv value.Environment, arg value.Dynamic) (value.Dynamic, error) {
		n, err := arg.LiteralNumber(64, 4)
		if err != nil {
			return value.Dynamic{}, err
		}
		return value.FromNumber(new(big.Float).SetPrec(64).Add(n, n)), nil
	})
	two := value.FromNumber(new(big.Float).SetPrec(64).SetInt64(2))
	result, err := e.AttemptCall("double", e, two)
	assert.NoError(t, err)
	n, err := result.LiteralNumber(64, 4)
	assert.NoError(t, err)
	f, _ := n.Float64()
	assert.Equal(t, 4.0, f)
}
