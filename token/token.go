// Package token defines the lexical tokens Tacit's lexer produces and the
// static operator registry that seeds the lexer, the postfix converter, and
// the evaluator's dispatch table alike.
package token

import "math/big"

// Kind tags the variant a Token carries.
type Kind int

const (
	// String is a literal string token.
	String Kind = iota
	// CompressedString is a literal whose payload must be expanded through
	// the dictionary codec before use; Quote records which closing
	// character opened it (backtick vs single quote), selecting whether
	// every expanded word is capitalized (backtick) or only the first
	// (single quote).
	CompressedString
	// Number is an arbitrary-precision decimal literal.
	Number
	// Variable is an identifier, including the implicit argument `_`.
	Variable
	// Block is a grouped subprogram; Bracket is one of '{', '(', '['.
	// Name records an identifier immediately preceding a `{…}` group.
	Block
	// Operator is a symbol with a declared left/right arity.
	Operator
	// Comma separates expressions within a Shunting-Yard chunk.
	Comma
)

// Token is the tagged union the lexer emits and the postfix converter and
// AST assembler consume.
type Token struct {
	Kind Kind

	// String / CompressedString / Variable / Operator payload.
	Text string

	// CompressedString only: the character that closed the literal,
	// either '`' or '\''.
	Quote byte

	// Number only.
	Num *big.Float

	// Block only.
	Bracket byte
	Name    string
	Body    []Token

	// Operator only.
	Left  int
	Right int
}

// Str builds a String token.
func Str(text string) Token { return Token{Kind: String, Text: text} }

// CmpStr builds a CompressedString token.
func CmpStr(text string, quote byte) Token {
	return Token{Kind: CompressedString, Text: text, Quote: quote}
}

// Num builds a Number token.
func Num(n *big.Float) Token { return Token{Kind: Number, Num: n} }

// Var builds a Variable token.
func Var(name string) Token { return Token{Kind: Variable, Text: name} }

// Blk builds a Block token.
func Blk(body []Token, bracket byte, name string) Token {
	return Token{Kind: Block, Body: body, Bracket: bracket, Name: name}
}

// Op builds an Operator token from the static registry. An unregistered
// symbol gets zero left and right arity (callers always look symbols up
// through HasOperator first).
func Op(symbol string) Token {
	def := OperatorTable[symbol]
	return Token{Kind: Operator, Text: symbol, Left: def.Left, Right: def.Right}
}

// CommaToken is the singleton Comma token value.
var CommaToken = Token{Kind: Comma}

// OperatorDef is one row of the operator registry: precedence plus the
// left/right operand counts the lexer and postfix converter must satisfy.
type OperatorDef struct {
	Precedence int
	Left       int
	Right      int
}

// Precedence returns this operator's entry in OperatorTable.
func Precedence(symbol string) int { return OperatorTable[symbol].Precedence }

// Arity returns (left, right) arity for symbol.
func Arity(symbol string) (int, int) {
	d := OperatorTable[symbol]
	return d.Left, d.Right
}

// HasOperator reports whether symbol is a registered operator.
func HasOperator(symbol string) bool {
	_, ok := OperatorTable[symbol]
	return ok
}

// OperatorTable is the closed, static registry of every operator symbol
// Tacit recognizes, carried over verbatim (symbol, precedence, left-arity,
// right-arity) from the reference implementation's operator table.
var OperatorTable = map[string]OperatorDef{
	".":  {11, 1, 1},
	"^":  {10, 1, 1},
	"<>": {10, 1, 1},
	"*":  {9, 1, 1},
	"/":  {9, 1, 1},
	"%":  {8, 1, 1},
	":|": {7, 1, 1},
	":!": {7, 1, 1},
	"+":  {6, 1, 1},
	"-":  {6, 1, 1},
	".$": {6, 1, 1},

	".~": {5, 1, 0},
	"=>": {5, 1, 1},
	"->": {5, 1, 1},
	"~":  {5, 0, 1},
	"#":  {5, 1, 0},
	";":  {5, 1, 1},
	":_": {5, 1, 0},
	":%": {5, 1, 0},
	".@": {5, 1, 0},
	".|": {5, 1, 0},
	".<": {5, 1, 0},
	"..": {5, 1, 0},
	".=": {5, 1, 0},

	":n": {4, 1, 0},
	":s": {4, 1, 0},
	":}": {4, 1, 0},
	":{": {4, 1, 0},
	".}": {4, 1, 0},
	".{": {4, 1, 0},
	":@": {4, 1, 0},
	"^*": {4, 1, 0},
	"&.": {4, 0, 3},
	":i": {4, 1, 1},

	"!":  {4, 0, 1},
	":v": {4, 0, 1},
	":^": {4, 0, 1},
	"++": {4, 0, 1},
	"--": {4, 0, 1},
	":*": {4, 0, 1},
	":/": {4, 0, 1},

	":+": {4, 0, 1},
	":-": {4, 0, 1},
	":>": {4, 0, 1},
	":<": {4, 0, 1},
	"|:": {4, 0, 1},
	"?.": {4, 0, 1},
	"#.": {4, 0, 1},
	"*.": {4, 0, 1},

	"$.": {4, 0, 1},
	"z":  {4, 1, 1},
	"#>": {4, 0, 1},
	"#:": {4, 0, 1},
	"?":  {4, 1, 1},
	"!.": {4, 0, 1},

	"|": {3, 1, 1},

	"=":  {2, 1, 1},
	"!=": {2, 1, 1},
	"<":  {2, 1, 1},
	"<=": {2, 1, 1},
	">":  {2, 1, 1},
	">=": {2, 1, 1},

	"&&": {1, 1, 1},
	"||": {1, 1, 1},

	":":  {0, 1, 1},
	"::": {0, 1, 1},
	"??": {0, 1, 2},
	"@":  {0, 1, 1},
	"&":  {0, 1, 1},
	"$":  {0, 0, 2},
	"$:": {0, 0, 2},
	"/:": {0, 0, 2},
	`\`:  {0, 1, 1},
	":\\": {0, 1, 1},

	":=": {-1, 1, 1},
}

// Operators lists every registered symbol, longest first. The lexer does
// not read it; its maximal munch extends a matched operator by one
// character through HasOperator instead.
var Operators = sortedBySymbolLength()

func sortedBySymbolLength() []string {
	out := make([]string, 0, len(OperatorTable))
	for sym := range OperatorTable {
		out = append(out, sym)
	}
	// simple insertion sort by descending length; table is small (~70 entries)
	for i := 1; i < len(out); i++ {
		v := out[i]
		j := i - 1
		for j >= 0 && len(out[j]) < len(v) {
			out[j+1] = out[j]
			j--
		}
		out[j+1] = v
	}
	return out
}

// Codepage is the 256-slot printable character ordering the external
// compression codec indexes into.
var Codepage = []rune("!\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~¡¢£¤¥¦§¨©ª«¬®¯°○■↑↓→←║═╔╗╚╝░▒►◄│─┌┐└┘├┤┴┬♦┼█▄▀▬±²³´µ¶·¸¹º»¼½¾¿ÀÁÂÃÄÅÆÇÈÉÊËÌÍÎÏÐÑÒÓÔÕÖ×ØÙÚÛÜÝÞßàáâãäåæçèéêëìíîïðñòóôõö÷øùúûüýþÿŒœŠšŸŽžƒƥʠˆ˜–—‘’‚“”„†‡•…‰‹›€™⁺⁻⁼⇒⇐★Δ")

// DictionaryChars is the codepage the dictionary codec uses to address its
// word list: two characters from this table select one of len(DictionaryChars)^2
// dictionary entries.
var DictionaryChars = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ`1234567890-=[]\\;'/~@#$%^&*()_+{}|\"<>")

// EndOfProgram is the sentinel character the lexer appends to mark the end
// of the source; it never appears in user programs.
const EndOfProgram = '→'
