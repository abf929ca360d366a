package ast

import (
	"github.com/tacitlang/tacit/errs"
	"github.com/tacitlang/tacit/token"
)

// Assemble folds a postfix token sequence into a tree of Nodes. It is a
// simple stack reduction: value-like tokens push a leaf node, Block tokens
// recurse into their body and push Group/Block/Sequence depending on
// bracket, and Operator tokens pop left+right operands and push an Op node.
func Assemble(postfix []token.Token) ([]Node, error) {
	var stack []Node

	for _, tok := range postfix {
		switch tok.Kind {
		case token.String:
			stack = append(stack, Node{Kind: String, Text: tok.Text})

		case token.CompressedString:
			stack = append(stack, Node{Kind: CompressedString, Text: tok.Text, Quote: tok.Quote})

		case token.Number:
			stack = append(stack, Node{Kind: Number, Num: tok.Num})

		case token.Variable:
			stack = append(stack, Node{Kind: Variable, Text: tok.Text})

		case token.Block:
			body, err := Assemble(tok.Body)
			if err != nil {
				return nil, err
			}

			switch tok.Bracket {
			case '(':
				stack = append(stack, Node{Kind: Group, Body: body})
			case '{':
				stack = append(stack, Node{Kind: Block, Body: body, Text: tok.Name})
			case '[':
				stack = append(stack, buildSequence(body))
			default:
				return nil, errs.Syntacticf("unrecognized bracket %q", tok.Bracket)
			}

		case token.Operator:
			if len(stack) < tok.Left+tok.Right {
				return nil, errs.Syntacticf("operator %q missing operands", tok.Text)
			}

			right := append([]Node(nil), stack[len(stack)-tok.Right:]...)
			stack = stack[:len(stack)-tok.Right]

			left := append([]Node(nil), stack[len(stack)-tok.Left:]...)
			stack = stack[:len(stack)-tok.Left]

			stack = append(stack, Node{Kind: Op, Symbol: tok.Text, Left: left, Right: right})

		case token.Comma:
			// Commas are consumed by the postfix converter; none should
			// survive into the assembler's input.
			return nil, errs.Syntacticf("unexpected comma in postfix stream")
		}
	}

	return stack, nil
}

// buildSequence applies the `[...]` disambiguation rules: a trailing
// `Op("->", [Block, ...], [size])` yields a finite generator sequence with
// an explicit size, a trailing bare Block yields an infinite generator
// sequence, and anything else yields a constant-length sequence with an
// empty generator.
func buildSequence(body []Node) Node {
	if len(body) == 0 {
		return Node{Kind: Sequence, Initial: nil, Generator: &Node{Kind: Block}, Length: zeroLen()}
	}

	last := body[len(body)-1]

	if last.Kind == Op && last.Symbol == "->" && len(last.Left) > 0 && last.Left[0].Kind == Block {
		gen := last.Left[0]
		var size *Node
		if len(last.Right) > 0 {
			size = &last.Right[0]
		}
		return Node{
			Kind:      Sequence,
			Initial:   append([]Node(nil), body[:len(body)-1]...),
			Generator: &gen,
			Length:    size,
		}
	}

	if last.Kind == Block {
		gen := last
		return Node{
			Kind:      Sequence,
			Initial:   append([]Node(nil), body[:len(body)-1]...),
			Generator: &gen,
			Length:    nil,
		}
	}

	n := len(body)
	return Node{
		Kind:      Sequence,
		Initial:   append([]Node(nil), body...),
		Generator: &Node{Kind: Block},
		Length:    intLen(n),
	}
}

func zeroLen() *Node { return intLen(0) }

func intLen(n int) *Node {
	return &Node{Kind: Number, Num: bigFromInt(n)}
}
