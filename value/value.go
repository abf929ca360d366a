// Package value implements Tacit's dynamic value system: a tagged union of
// string, arbitrary-precision number, boolean, and lazy sequence, plus the
// coercions and cross-kind comparisons every operator relies on.
package value

import (
	"math/big"
	"strings"

	"github.com/tacitlang/tacit/ast"
)

// Tag is the advisory presentation hint a Dynamic carries: the kind it was
// last cast to or produced as, independent of its authoritative inner Kind.
// Operators that report "what shape is this" (e.g. formatting flags) read
// the tag; operators that need the value itself force a Kind with the
// IntoX methods.
type Tag int

const (
	TagNone Tag = iota
	TagString
	TagNumber
	TagBoolean
	TagSequence
)

// Kind is the authoritative variant a Dynamic holds.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindSequence
)

// Environment is the slice of env.Env that value needs: enough to let a
// Sequence own a persistent binding scope and rebind its running prefix
// cache between generator calls, without value importing env (which itself
// depends on value) or eval (which depends on both).
type Environment interface {
	Clone() Environment
	Define(name string, v Dynamic)
}

// Binding is the uniform shape of everything a name can resolve to: a bound
// value (ignores arg) or a user-defined function (uses it). Both bound
// values and functions live in the same environment map as Binding values.
type Binding func(env Environment, arg Dynamic) (Dynamic, error)

// EvalNode evaluates a single AST node to a Dynamic in env. The eval
// package sets this at init time; it exists so Sequence can materialize
// generator elements without value importing eval (which imports value).
var EvalNode func(env Environment, n *ast.Node) (Dynamic, error)

// Dynamic is Tacit's single runtime value type.
type Dynamic struct {
	kind    Kind
	tag     Tag
	str     string
	num     *big.Float
	boolean bool
	seq     *Sequence
}

// Empty is the value absent variables and empty control results carry.
func Empty() Dynamic { return Dynamic{kind: KindEmpty, tag: TagNone} }

// FromString builds a string-kind Dynamic.
func FromString(s string) Dynamic { return Dynamic{kind: KindString, tag: TagString, str: s} }

// FromNumber builds a number-kind Dynamic.
func FromNumber(n *big.Float) Dynamic { return Dynamic{kind: KindNumber, tag: TagNumber, num: n} }

// FromBool builds a boolean-kind Dynamic.
func FromBool(b bool) Dynamic { return Dynamic{kind: KindBoolean, tag: TagBoolean, boolean: b} }

// FromSequence builds a sequence-kind Dynamic.
func FromSequence(s *Sequence) Dynamic { return Dynamic{kind: KindSequence, tag: TagSequence, seq: s} }

// Kind reports the authoritative variant.
func (d Dynamic) Kind() Kind { return d.kind }

// Tag reports the advisory presentation hint.
func (d Dynamic) Tag() Tag { return d.tag }

// WithTag returns d with its advisory tag replaced, its Kind unchanged.
func (d Dynamic) WithTag(t Tag) Dynamic { d.tag = t; return d }

func (d Dynamic) IsString() bool   { return d.tag == TagString }
func (d Dynamic) IsNumber() bool   { return d.tag == TagNumber }
func (d Dynamic) IsBoolean() bool  { return d.tag == TagBoolean }
func (d Dynamic) IsSequence() bool { return d.tag == TagSequence }
func (d Dynamic) IsEmpty() bool    { return d.kind == KindEmpty }

// IntoString coerces d to a string-kind Dynamic. Coercion is idempotent:
// applying it to an already-string value returns it unchanged.
func (d Dynamic) IntoString(precision, outputPrecision uint) (Dynamic, error) {
	switch d.kind {
	case KindString:
		return d, nil
	case KindNumber:
		return Dynamic{kind: KindString, tag: TagString, str: FormatNumber(d.num, outputPrecision)}, nil
	case KindBoolean:
		return Dynamic{kind: KindString, tag: TagString, str: boolString(d.boolean)}, nil
	case KindSequence:
		first, ok, err := d.seq.Peek()
		if err != nil {
			return Dynamic{}, err
		}
		if !ok {
			first = FromString("")
		}
		s, err := first.LiteralString(precision, outputPrecision)
		if err != nil {
			return Dynamic{}, err
		}
		return Dynamic{kind: KindString, tag: TagString, str: s}, nil
	default: // KindEmpty
		return Dynamic{kind: KindString, tag: TagString, str: ""}, nil
	}
}

// IntoNumber coerces d to a number-kind Dynamic. An unparsable string
// coerces to 0, matching the reference implementation's fallback.
func (d Dynamic) IntoNumber(precision, outputPrecision uint) (Dynamic, error) {
	switch d.kind {
	case KindString:
		n, ok := parseNumberLoose(d.str, precision)
		if !ok {
			n = new(big.Float).SetPrec(precision)
		}
		return Dynamic{kind: KindNumber, tag: TagNumber, num: n}, nil
	case KindNumber:
		return d, nil
	case KindBoolean:
		n := new(big.Float).SetPrec(precision)
		if d.boolean {
			n.SetInt64(1)
		}
		return Dynamic{kind: KindNumber, tag: TagNumber, num: n}, nil
	case KindSequence:
		first, ok, err := d.seq.Peek()
		if err != nil {
			return Dynamic{}, err
		}
		if !ok {
			first = FromString("")
		}
		s, err := first.LiteralString(precision, outputPrecision)
		if err != nil {
			return Dynamic{}, err
		}
		n, ok := parseNumberLoose(s, precision)
		if !ok {
			n = new(big.Float).SetPrec(precision)
		}
		return Dynamic{kind: KindNumber, tag: TagNumber, num: n}, nil
	default:
		return Dynamic{kind: KindNumber, tag: TagNumber, num: new(big.Float).SetPrec(precision)}, nil
	}
}

// IntoBool coerces d to a boolean-kind Dynamic.
func (d Dynamic) IntoBool(precision, outputPrecision uint) (Dynamic, error) {
	switch d.kind {
	case KindString:
		return Dynamic{kind: KindBoolean, tag: TagBoolean, boolean: d.str != ""}, nil
	case KindNumber:
		return Dynamic{kind: KindBoolean, tag: TagBoolean, boolean: d.num.Sign() != 0}, nil
	case KindBoolean:
		return d, nil
	case KindSequence:
		first, ok, err := d.seq.Peek()
		if err != nil {
			return Dynamic{}, err
		}
		if !ok {
			first = FromBool(false)
		}
		b, err := first.LiteralBool(precision, outputPrecision)
		if err != nil {
			return Dynamic{}, err
		}
		return Dynamic{kind: KindBoolean, tag: TagBoolean, boolean: b}, nil
	default:
		return Dynamic{kind: KindBoolean, tag: TagBoolean, boolean: false}, nil
	}
}

// IntoSequence coerces d to a sequence-kind Dynamic. A string containing a
// space splits on spaces; any other string splits into one-character
// entries. Both are materialized eagerly since their elements never need a
// generator block.
func (d Dynamic) IntoSequence(precision, outputPrecision uint) (Dynamic, error) {
	switch d.kind {
	case KindString:
		var parts []string
		if strings.Contains(d.str, " ") {
			parts = strings.Split(d.str, " ")
		} else {
			for _, r := range d.str {
				parts = append(parts, string(r))
			}
		}
		cache := make([]Dynamic, len(parts))
		for i, p := range parts {
			cache[i] = FromString(p)
		}
		n := len(cache)
		return FromSequence(literalSequence(cache, n)), nil
	case KindNumber, KindBoolean:
		s, err := d.LiteralString(precision, outputPrecision)
		if err != nil {
			return Dynamic{}, err
		}
		return FromString(s).IntoSequence(precision, outputPrecision)
	case KindSequence:
		return d, nil
	default:
		return FromSequence(literalSequence(nil, 0)), nil
	}
}

// LiteralString forces d to a string and returns its payload directly.
func (d Dynamic) LiteralString(precision, outputPrecision uint) (string, error) {
	if d.kind == KindString {
		return d.str, nil
	}
	s, err := d.IntoString(precision, outputPrecision)
	if err != nil {
		return "", err
	}
	return s.str, nil
}

// LiteralNumber forces d to a number and returns its payload directly.
func (d Dynamic) LiteralNumber(precision, outputPrecision uint) (*big.Float, error) {
	if d.kind == KindNumber {
		return d.num, nil
	}
	n, err := d.IntoNumber(precision, outputPrecision)
	if err != nil {
		return nil, err
	}
	return n.num, nil
}

// LiteralBool forces d to a boolean and returns its payload directly.
func (d Dynamic) LiteralBool(precision, outputPrecision uint) (bool, error) {
	if d.kind == KindBoolean {
		return d.boolean, nil
	}
	b, err := d.IntoBool(precision, outputPrecision)
	if err != nil {
		return false, err
	}
	return b.boolean, nil
}

// LiteralSequence forces d to a sequence and returns its payload directly.
func (d Dynamic) LiteralSequence(precision, outputPrecision uint) (*Sequence, error) {
	if d.kind == KindSequence {
		return d.seq, nil
	}
	s, err := d.IntoSequence(precision, outputPrecision)
	if err != nil {
		return nil, err
	}
	return s.seq, nil
}

// String renders d the way a program's final result is printed: numbers
// use FormatNumber, booleans print as 1/0, sequences print one entry per
// line, empty prints as nothing.
func (d Dynamic) String(outputPrecision uint) string {
	switch d.kind {
	case KindString:
		return d.str
	case KindNumber:
		return FormatNumber(d.num, outputPrecision)
	case KindBoolean:
		return boolString(d.boolean)
	case KindSequence:
		return d.seq.Render(outputPrecision)
	default:
		return ""
	}
}

// ToNode converts a materialized Dynamic back into a literal AST node,
// letting eval splice an already-computed value (a fold accumulator, a
// sequence prefix element) into a node tree before re-evaluating it.
func (d Dynamic) ToNode() ast.Node { return d.toNode() }

func boolString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// FormatNumber renders n the way Tacit prints numbers: rounded to
// outputPrecision significant digits, trailing fractional zeros (and a
// bare trailing decimal point) trimmed, and the minus sign spelled `_`
// rather than `-`.
func FormatNumber(n *big.Float, outputPrecision uint) string {
	s := n.Text('g', int(outputPrecision))
	if strings.Contains(s, ".") && !strings.ContainsAny(s, "eE") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return strings.ReplaceAll(s, "-", "_")
}

// parseNumberLoose parses a plain runtime string (standard `-`, `.`, `e`
// syntax, not the lexer's `_`-minus numeral dialect) into a number,
// reporting whether it succeeded.
func parseNumberLoose(s string, precision uint) (*big.Float, bool) {
	f, _, err := big.ParseFloat(s, 10, precision, big.ToNearestEven)
	if err != nil {
		return nil, false
	}
	return f, true
}

// Equal implements Tacit's cross-kind equality: same-kind values compare
// directly; a string compares equal to a number if it parses to that
// number; a string compares equal to a boolean if it is exactly "1"/"0"
// for true/false; a boolean compares equal to a number via 1/0.
func Equal(a, b Dynamic, precision uint) bool {
	switch a.kind {
	case KindString:
		switch b.kind {
		case KindString:
			return a.str == b.str
		case KindNumber:
			n, ok := parseNumberLoose(a.str, precision)
			return ok && n.Cmp(b.num) == 0
		case KindBoolean:
			if b.boolean {
				return a.str == "1"
			}
			return a.str == "0"
		default:
			return false
		}

	case KindNumber:
		switch b.kind {
		case KindString:
			return Equal(b, a, precision)
		case KindNumber:
			return a.num.Cmp(b.num) == 0
		case KindBoolean:
			if b.boolean {
				return a.num.Cmp(big.NewFloat(1)) == 0
			}
			return a.num.Sign() == 0
		default:
			return false
		}

	case KindBoolean:
		switch b.kind {
		case KindNumber, KindString:
			return Equal(b, a, precision)
		case KindBoolean:
			return a.boolean == b.boolean
		default:
			return false
		}

	case KindSequence:
		return false // cross-sequence structural equality is not defined

	default: // KindEmpty
		return b.kind == KindEmpty
	}
}

// Compare implements Tacit's cross-kind ordering, returning -1, 0, or 1.
// ok is false when the comparison is undefined (e.g. an unparsable string
// against a number, a sequence against a non-sequence, or an Empty left
// side). An Empty right side is coerced to the left side's kind.
func Compare(a, b Dynamic, precision, outputPrecision uint) (cmp int, ok bool) {
	switch a.kind {
	case KindString:
		switch b.kind {
		case KindString:
			return strings.Compare(a.str, b.str), true
		case KindNumber:
			n, parsed := parseNumberLoose(a.str, precision)
			if !parsed {
				return 0, false
			}
			return n.Cmp(b.num), true
		case KindBoolean:
			want := "0"
			if b.boolean {
				want = "1"
			}
			return strings.Compare(a.str, want), true
		default:
			s, err := b.LiteralString(precision, outputPrecision)
			if err != nil {
				return 0, false
			}
			return strings.Compare(a.str, s), true
		}

	case KindNumber:
		switch b.kind {
		case KindString:
			n, parsed := parseNumberLoose(b.str, precision)
			if !parsed {
				return 0, false
			}
			return a.num.Cmp(n), true
		case KindNumber:
			return a.num.Cmp(b.num), true
		case KindBoolean:
			want := big.NewFloat(0)
			if b.boolean {
				want = big.NewFloat(1)
			}
			return a.num.Cmp(want), true
		default:
			n, err := b.LiteralNumber(precision, outputPrecision)
			if err != nil {
				return 0, false
			}
			return a.num.Cmp(n), true
		}

	case KindBoolean:
		switch b.kind {
		case KindNumber:
			want := big.NewFloat(0)
			if a.boolean {
				want = big.NewFloat(1)
			}
			return want.Cmp(b.num), true
		case KindBoolean:
			return boolCompare(a.boolean, b.boolean), true
		default:
			bb, err := b.LiteralBool(precision, outputPrecision)
			if err != nil {
				return 0, false
			}
			return boolCompare(a.boolean, bb), true
		}

	case KindSequence:
		if b.kind == KindSequence {
			na, err := a.seq.Count()
			if err != nil {
				return 0, false
			}
			nb, err := b.seq.Count()
			if err != nil {
				return 0, false
			}
			switch {
			case na < nb:
				return -1, true
			case na > nb:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false

	default:
		return 0, false
	}
}

func boolCompare(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}
