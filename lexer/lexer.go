// Package lexer turns Tacit source text into a flat token stream, folding
// whitespace, grouping bracketed bodies, and inserting the implicit `_`
// argument wherever an operator is under-supplied by what precedes it.
package lexer

import (
	"github.com/tacitlang/tacit/errs"
	"github.com/tacitlang/tacit/token"
)

const (
	openBrace    = '{'
	closeBrace   = '}'
	openParen    = '('
	closeParen   = ')'
	openBracket  = '['
	closeBracket = ']'
	backtick     = '`'
	singleQuote  = '\''
	dquote       = '"'
	backslash    = '\\'
)

func isOpener(buf []rune) (rune, bool) {
	if len(buf) != 1 {
		return 0, false
	}
	switch buf[0] {
	case openBrace, openParen, openBracket, backtick, singleQuote:
		return buf[0], true
	}
	return 0, false
}

func isFoldable(buf []rune) bool {
	if len(buf) != 1 {
		return false
	}
	switch buf[0] {
	case '\n', ' ', '\r', '\t', token.EndOfProgram:
		return true
	}
	return false
}

func isAlphaRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isAlnumRune(r rune) bool {
	return isAlphaRune(r) || (r >= '0' && r <= '9')
}

func isAllAlpha(buf []rune) bool {
	if len(buf) == 0 {
		return false
	}
	for _, r := range buf {
		if !isAlphaRune(r) {
			return false
		}
	}
	return true
}

// Lex scans src into a flat Tacit token stream at the given numeral
// precision (bits). Brackets, string literals, and operators are resolved
// in one left-to-right pass with no backtracking; bracket bodies are
// recursively re-lexed once their extent is known.
func Lex(src string, precision uint) ([]token.Token, error) {
	runes := append([]rune(src), token.EndOfProgram)

	var out []token.Token
	var buf []rune

	inString := false
	pendingEscape := false

	inGroup := false
	var groupChar rune
	groupCount := 0

	for _, r := range runes {
		if string(buf) == string(dquote) {
			inString = true
			buf = nil
		}

		if !inString && !inGroup && isFoldable(buf) {
			if buf[0] == '\n' {
				out = append(out, token.CommaToken)
			}
			buf = nil
		}

		if !inGroup {
			if gc, ok := isOpener(buf); ok {
				inGroup = true
				groupChar = gc
				groupCount = 0
			}
		}

		if inGroup && groupChar == r {
			if groupChar == openBrace {
				last := rune(0)
				if len(buf) > 0 {
					last = buf[len(buf)-1]
				}
				if last != '.' && last != ':' {
					groupCount++
				}
			} else {
				groupCount++
			}
		}

		switch {
		case inString:
			switch {
			case pendingEscape:
				if r == dquote {
					buf = append(buf, dquote)
				} else {
					buf = append(buf, backslash, r)
				}
				pendingEscape = false
			case r == backslash:
				pendingEscape = true
			case r == dquote || r == token.EndOfProgram:
				out = append(out, token.Str(string(buf)))
				buf = nil
				inString = false
			default:
				buf = append(buf, r)
			}

		case inGroup:
			closed, err := handleGroupChar(&buf, &groupCount, groupChar, r)
			if err != nil {
				return nil, err
			}
			if closed {
				// buf[0] is the opening bracket character itself; the
				// group's content is everything after it.
				interior := string(buf[1:])

				var name string
				if groupChar == openBrace && len(out) > 0 && out[len(out)-1].Kind == token.Variable {
					name = out[len(out)-1].Text
				}

				switch groupChar {
				case backtick, singleQuote:
					out = append(out, token.CmpStr(interior, byte(groupChar)))
				default:
					if name != "" {
						out = out[:len(out)-1]
					}
					bodyTokens, err := Lex(interior, precision)
					if err != nil {
						return nil, err
					}
					out = append(out, token.Blk(bodyTokens, byte(groupChar), name))
				}
				buf = nil
				inGroup = false
			}

		case string(buf) == "_" || isNumeral(string(buf)):
			buf = append(buf, r)
			if !isNumeral(string(buf)) {
				buf = buf[:len(buf)-1]
				if string(buf) == "_" {
					out = append(out, token.Var("_"))
				} else {
					n, err := parseNumeral(string(buf), precision)
					if err != nil {
						return nil, err
					}
					out = append(out, token.Num(n))
				}
				buf = []rune{r}
			}

		case token.HasOperator(string(buf)):
			sym := string(buf)
			extended := sym + string(r)
			consumed := false
			if token.HasOperator(extended) {
				sym = extended
				consumed = true
			}

			left, _ := token.Arity(sym)
			insertImplicitArgs(&out, left)
			out = append(out, token.Op(sym))

			buf = nil
			if !consumed {
				buf = append(buf, r)
			}

		case isAllAlpha(buf):
			if !isAlnumRune(r) {
				out = append(out, token.Var(string(buf)))
				buf = nil
			}
			buf = append(buf, r)

		case string(buf) == ",":
			out = append(out, token.CommaToken)
			buf = []rune{r}

		default:
			buf = append(buf, r)
		}
	}

	fillTrailingArity(&out)

	return out, nil
}

// insertImplicitArgs pads construct with Variable("_") tokens so the
// operator about to be appended (whose left arity is `left`) has enough
// preceding operands. If the stream is empty, too short, or was just reset
// by a comma, the operator gets its full left arity of placeholders;
// otherwise only enough to reach the nearest preceding operator's declared
// right arity.
func insertImplicitArgs(construct *[]token.Token, left int) {
	if left <= 0 {
		return
	}

	c := *construct
	lastIsComma := len(c) > 0 && c[len(c)-1].Kind == token.Comma

	if len(c) == 0 || len(c) < left || lastIsComma {
		n := left - len(c)
		if lastIsComma {
			n = left
		}
		for i := 0; i < n; i++ {
			c = append(c, token.Var("_"))
		}
		*construct = c
		return
	}

	pos := -1
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Kind == token.Operator {
			pos = i
			break
		}
	}
	if pos < 0 {
		return
	}
	stackRight := c[pos].Right
	given := len(c) - pos - 1
	if given <= stackRight {
		n := stackRight - given
		for i := 0; i < n; i++ {
			c = append(c, token.Var("_"))
		}
		*construct = c
	}
}

// fillTrailingArity tops up the final operator in construct (if any) with
// enough implicit `_` arguments to satisfy its right arity, covering
// programs that end mid-expression (e.g. a bare `+`).
func fillTrailingArity(construct *[]token.Token) {
	c := *construct
	pos := -1
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Kind == token.Operator {
			pos = i
			break
		}
	}
	if pos < 0 {
		return
	}
	given := len(c) - pos - 1
	need := c[pos].Right - given
	for i := 0; i < need; i++ {
		c = append(c, token.Var("_"))
	}
	*construct = c
}

// closingFor returns the character that closes a group opened by open.
func closingFor(open rune) rune {
	switch open {
	case openParen:
		return closeParen
	case openBracket:
		return closeBracket
	case openBrace:
		return closeBrace
	default:
		return open
	}
}

// handleGroupChar advances the group state machine by one character and
// reports whether the group just closed. `.{`, `.}`, `:{`, `:}` are
// operators, not brace delimiters, so a `{`/`}` immediately preceded by `.`
// or `:` never opens, nests, or closes a brace group. Reaching
// token.EndOfProgram while a group is still open is never a close: it means
// the source ran out before the matching character showed up, so it is
// reported as an unmatched-group syntax error instead.
func handleGroupChar(buf *[]rune, count *int, groupChar rune, r rune) (bool, error) {
	if r == token.EndOfProgram {
		return false, errs.Syntacticf("unmatched %q: missing closing %q", groupChar, closingFor(groupChar))
	}

	b := *buf
	last := rune(0)
	if len(b) > 0 {
		last = b[len(b)-1]
	}

	switch groupChar {
	case openParen:
		if r == closeParen {
			if *count > 0 {
				*count--
				*buf = append(b, r)
				return false, nil
			}
			return true, nil
		}
	case openBracket:
		if r == closeBracket {
			if *count > 0 {
				*count--
				*buf = append(b, r)
				return false, nil
			}
			return true, nil
		}
	case openBrace:
		if r == closeBrace && !(last == '.' || last == ':') {
			if *count > 0 {
				*count--
				*buf = append(b, r)
				return false, nil
			}
			return true, nil
		}
	case backtick, singleQuote:
		if r == groupChar {
			return true, nil
		}
	}

	*buf = append(b, r)
	return false, nil
}
