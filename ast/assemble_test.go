package ast

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tacitlang/tacit/token"
)

func TestAssemble_BinaryOperatorConsumesBothOperands(t *testing.T) {
	// postfix for `3 4 +`
	postfix := []token.Token{
		token.Num(big.NewFloat(3)),
		token.Num(big.NewFloat(4)),
		token.Op("+"),
	}
	nodes, err := Assemble(postfix)
	assert.NoError(t, err)
	assert.Len(t, nodes, 1)
	assert.Equal(t, Op, nodes[0].Kind)
	assert.Equal(t, "+", nodes[0].Symbol)
	assert.Len(t, nodes[0].Left, 1)
	assert.Len(t, nodes[0].Right, 1)
}

func TestAssemble_MissingOperandsIsSyntacticError(t *testing.T) {
	postfix := []token.Token{token.Op("+")}
	_, err := Assemble(postfix)
	assert.Error(t, err)
}

func TestAssemble_EmptyBracketsYieldEmptySequence(t *testing.T) {
	postfix := []token.Token{token.Blk(nil, '[', "")}
	nodes, err := Assemble(postfix)
	assert.NoError(t, err)
	assert.Len(t, nodes, 1)
	assert.Equal(t, Sequence, nodes[0].Kind)
	assert.True(t, nodes[0].Length != nil)
}

func TestAssemble_ParenBuildsGroup(t *testing.T) {
	body := []token.Token{token.Num(big.NewFloat(1))}
	postfix := []token.Token{token.Blk(body, '(', "")}
	nodes, err := Assemble(postfix)
	assert.NoError(t, err)
	assert.Equal(t, Group, nodes[0].Kind)
}

func TestAssemble_BraceBuildsNamedBlock(t *testing.T) {
	postfix := []token.Token{token.Blk(nil, '{', "p")}
	nodes, err := Assemble(postfix)
	assert.NoError(t, err)
	assert.Equal(t, Block, nodes[0].Kind)
	assert.Equal(t, "p", nodes[0].ParamName())
}

func TestNode_ParamNameDefaultsToUnderscore(t *testing.T) {
	n := Node{Kind: Block}
	assert.Equal(t, "_", n.ParamName())
}
