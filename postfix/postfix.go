// Package postfix converts a flat, comma-separated token stream into
// postfix (Reverse Polish) order via the Shunting-Yard algorithm, one
// independent pass per comma-delimited chunk, recursing into each Block's
// body before its containing chunk is reordered.
package postfix

import "github.com/tacitlang/tacit/token"

// ToPostfix splits tokens on top-level Comma tokens and converts each
// chunk independently, concatenating the results back together (commas
// themselves are dropped; the AST assembler never sees them).
func ToPostfix(tokens []token.Token) []token.Token {
	var output []token.Token
	for _, chunk := range splitOnComma(tokens) {
		output = append(output, exprToPostfix(chunk)...)
	}
	return output
}

func splitOnComma(tokens []token.Token) [][]token.Token {
	chunks := [][]token.Token{nil}
	for _, t := range tokens {
		if t.Kind == token.Comma {
			chunks = append(chunks, nil)
			continue
		}
		last := len(chunks) - 1
		chunks[last] = append(chunks[last], t)
	}
	return chunks
}

// exprToPostfix runs the Shunting-Yard algorithm over a single
// comma-free chunk: operators are held on a side stack and flushed to the
// output while the incoming operator's precedence is no higher than the
// stacked one's. An incoming operator that takes no left operand (a prefix
// operator) never flushes anything: it is pushed on top and so reaches the
// output before the operators stacked beneath it. Block bodies are
// recursively converted before being re-emitted.
func exprToPostfix(tokens []token.Token) []token.Token {
	var operators []token.Token
	var output []token.Token

	for _, tok := range tokens {
		switch tok.Kind {
		case token.Operator:
			for len(operators) > 0 {
				top := operators[len(operators)-1]
				if stopsPop(tok, top) {
					break
				}
				operators = operators[:len(operators)-1]
				output = append(output, top)
			}
			operators = append(operators, tok)

		case token.Block:
			newBody := ToPostfix(tok.Body)
			output = append(output, token.Blk(newBody, tok.Bracket, tok.Name))

		default:
			output = append(output, tok)
		}
	}

	for len(operators) > 0 {
		top := operators[len(operators)-1]
		operators = operators[:len(operators)-1]
		if top.Kind == token.Operator {
			output = append(output, top)
		}
	}

	return output
}

// stopsPop reports whether the operator stack's top should stay put (and
// the shunting loop should stop) rather than be flushed to output ahead of
// incoming.
func stopsPop(incoming, stacked token.Token) bool {
	if !token.HasOperator(incoming.Text) || !token.HasOperator(stacked.Text) {
		return true
	}
	if token.Precedence(incoming.Text) > token.Precedence(stacked.Text) {
		return true
	}
	if incoming.Left == 0 {
		return true
	}
	return false
}
