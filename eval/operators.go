package eval

import (
	"math/big"

	"github.com/tacitlang/tacit/ast"
	"github.com/tacitlang/tacit/errs"
	"github.com/tacitlang/tacit/value"
)

// evalOp dispatches an Op node to its handler. Operators decide for
// themselves when (and whether) to evaluate each operand node, since
// several families need the raw node (write-back targets, blocks used as
// predicates, `:=`'s left-hand name) rather than its value.
func evalOp(env value.Environment, symbol string, left, right []ast.Node) (value.Dynamic, error) {
	switch symbol {

	// --- arithmetic binary ---
	case "+":
		return numBinary(env, left, right, (*big.Float).Add)
	case "-":
		return numBinary(env, left, right, (*big.Float).Sub)
	case "*":
		return numBinary(env, left, right, (*big.Float).Mul)
	case "/":
		return numBinary(env, left, right, (*big.Float).Quo)
	case "%":
		return evalMod(env, left, right)
	case "^":
		return evalPow(env, left, right)
	case "<>":
		return evalPair(env, left, right)

	// --- separator split/join pair. The reference implementation leaves
	// both as `todo!("Sequences needed")`, but the source-to-output
	// scenario table names `:!`'s behavior concretely (splitting `_` on a
	// space into three lines), so that scenario is the ground truth this
	// repository follows; `:|` is modeled as its natural inverse (see
	// DESIGN.md).
	case ":!":
		return evalSplitBySeparator(env, left, right)
	case ":|":
		return evalJoinBySeparator(env, left, right)

	// --- numeric unary ---
	case "!":
		return evalFactorial(env, right)
	case ":v", ":^":
		return numUnary(env, right, func(f *big.Float) *big.Float {
			return floorFloat(f)
		})
	case ":/":
		return numUnary(env, right, func(f *big.Float) *big.Float {
			return new(big.Float).SetPrec(cfg.FloatPrecision).Sqrt(f)
		})
	case ":*":
		return numUnary(env, right, func(f *big.Float) *big.Float {
			return new(big.Float).SetPrec(cfg.FloatPrecision).Mul(f, f)
		})
	case ":+":
		return numUnary(env, right, func(f *big.Float) *big.Float {
			return new(big.Float).SetPrec(cfg.FloatPrecision).Mul(f, big.NewFloat(2))
		})
	case ":-":
		return numUnary(env, right, func(f *big.Float) *big.Float {
			return new(big.Float).SetPrec(cfg.FloatPrecision).Quo(f, big.NewFloat(2))
		})
	case ".|":
		return numUnary(env, left, func(f *big.Float) *big.Float {
			return new(big.Float).SetPrec(cfg.FloatPrecision).Abs(f)
		})
	case "++":
		return evalIncrDecr(env, right, 1)
	case "--":
		return evalIncrDecr(env, right, -1)
	case "^*":
		return evalPerfectSquare(env, left)
	case "!.":
		return evalBoolNegate(env, right)

	// --- sequence constructors ---
	case "~":
		return evalRangeFrom1(env, right)
	case ".~":
		return evalRangeFrom1(env, left)
	case "=>":
		return evalRange(env, left, right, true)
	case "->":
		return evalRange(env, left, right, false)
	case "..":
		return evalOpenRange(env, left)
	case ".=":
		return evalAllEqual(env, left)
	case "#.":
		return evalPrimesUpTo(env, right)
	case "*.":
		return evalFactors(env, right)
	case ";":
		return evalBaseConversion(env, left, right)

	// --- sequence queries ---
	case "#":
		return evalLength(env, left)
	case ":{":
		return evalHead(env, left)
	case ":}":
		return evalTail(env, left)
	case ".{":
		return evalTail(env, left) // behead: same as tail, see DESIGN.md
	case ".}":
		return evalDropLast(env, left)
	case "?":
		return evalNth(env, left, right)
	case ":i":
		return evalIndexOf(env, left, right)
	case ".<":
		return evalReverse(env, left)
	case ":<":
		return evalSort(env, right, false)
	case ":>":
		return evalSort(env, right, true)
	case ".@", ":%":
		return evalTranspose(env, left)
	case ":_":
		return evalFlatten(env, left)
	case ":@":
		return evalGroupByEquality(env, left)
	case "#>":
		return evalDedupAdjacent(env, right)
	case "#:":
		return evalDedupAll(env, right)
	case ".$":
		return evalSplitBySeparator(env, left, right)
	case "$.":
		// With a block operand, `$.` filters the current `_` sequence by
		// it; otherwise it splits `_` in half.
		if right[0].Kind == ast.Block {
			return evalFilter(env, []ast.Node{{Kind: ast.Variable, Text: "_"}, right[0]}, false)
		}
		return evalSplitInHalf(env)
	case "|:":
		return evalBifurcate(env, right)
	case "?.":
		return evalRandomPick(env, right)
	case "z":
		return evalZip(env, left, right)

	// --- higher-order / control ---
	case "@":
		return evalMap(env, left, right)
	case "&":
		return evalBind(env, left, right)
	case "$":
		return evalFilter(env, right, false)
	case "$:":
		return evalFilter(env, right, true)
	case "/:":
		return evalCountTruthy(env, right)
	case "&.":
		return evalRepeat(env, right)
	case ":":
		return evalDoWhile(env, left, right)
	case "::":
		return evalAdjacencyGroup(env, left)
	case "??":
		return evalConditionalBind(env, left, right)
	case `\`:
		return evalFold(env, left, right)
	case ":\\":
		return evalScan(env, left, right)
	case ":=":
		return evalDefine(env, left, right)

	// --- composition ---
	case "|":
		return evalConcat(env, left, right)
	case "&&":
		return evalShortCircuitAnd(env, left, right)
	case "||":
		return evalShortCircuitOr(env, left, right)
	case "=":
		return evalComparison(env, left, right, func(c int, eq bool) bool { return eq })
	case "!=":
		return evalComparison(env, left, right, func(c int, eq bool) bool { return !eq })
	case "<":
		return evalOrdering(env, left, right, func(c int) bool { return c < 0 })
	case "<=":
		return evalOrdering(env, left, right, func(c int) bool { return c <= 0 })
	case ">":
		return evalOrdering(env, left, right, func(c int) bool { return c > 0 })
	case ">=":
		return evalOrdering(env, left, right, func(c int) bool { return c >= 0 })

	case ".":
		return evalCall(env, left, right)

	default:
		return value.Dynamic{}, errs.Semanticf("unimplemented operator %q", symbol)
	}
}

func ev(env value.Environment, nodes []ast.Node, i int) (value.Dynamic, error) {
	return EvalNode(env, &nodes[i])
}

func numOf(env value.Environment, nodes []ast.Node, i int) (*big.Float, error) {
	v, err := ev(env, nodes, i)
	if err != nil {
		return nil, err
	}
	return v.LiteralNumber(cfg.FloatPrecision, cfg.OutputPrecision)
}

func seqOf(env value.Environment, nodes []ast.Node, i int) (*value.Sequence, error) {
	v, err := ev(env, nodes, i)
	if err != nil {
		return nil, err
	}
	return v.LiteralSequence(cfg.FloatPrecision, cfg.OutputPrecision)
}

func strOf(env value.Environment, nodes []ast.Node, i int) (string, error) {
	v, err := ev(env, nodes, i)
	if err != nil {
		return "", err
	}
	return v.LiteralString(cfg.FloatPrecision, cfg.OutputPrecision)
}

func boolOf(env value.Environment, nodes []ast.Node, i int) (bool, error) {
	v, err := ev(env, nodes, i)
	if err != nil {
		return false, err
	}
	return v.LiteralBool(cfg.FloatPrecision, cfg.OutputPrecision)
}

func numBinary(env value.Environment, left, right []ast.Node, op func(z, x, y *big.Float) *big.Float) (value.Dynamic, error) {
	l, err := numOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	r, err := numOf(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	return value.FromNumber(op(new(big.Float).SetPrec(cfg.FloatPrecision), l, r)), nil
}

func evalMod(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	l, err := numOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	r, err := numOf(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	if r.Sign() == 0 {
		return value.Dynamic{}, errs.Semanticf("modulo by zero")
	}
	q := floorFloat(new(big.Float).SetPrec(cfg.FloatPrecision).Quo(l, r))
	rem := new(big.Float).SetPrec(cfg.FloatPrecision).Sub(l, new(big.Float).Mul(q, r))
	return value.FromNumber(rem), nil
}

// evalPow mirrors the reference implementation's repeated-multiplication
// power (not a general exponential): x^0 returns x unchanged, x^n for n>=1
// multiplies n copies of x together. A string left operand repeats itself.
func evalPow(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	lv, err := ev(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	n, err := numOf(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	count := asInt(n)
	if lv.Kind() == value.KindString {
		s, err := lv.LiteralString(cfg.FloatPrecision, cfg.OutputPrecision)
		if err != nil {
			return value.Dynamic{}, err
		}
		if count < 1 {
			return value.FromString(s), nil
		}
		out := ""
		for i := 0; i < count; i++ {
			out += s
		}
		return value.FromString(out), nil
	}
	l, err := lv.LiteralNumber(cfg.FloatPrecision, cfg.OutputPrecision)
	if err != nil {
		return value.Dynamic{}, err
	}
	if count < 1 {
		return value.FromNumber(l), nil
	}
	result := new(big.Float).SetPrec(cfg.FloatPrecision).Copy(l)
	for i := 1; i < count; i++ {
		result.Mul(result, l)
	}
	return value.FromNumber(result), nil
}

func evalPair(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	l, err := ev(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	r, err := ev(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	return value.FromSequence(literalSeq([]value.Dynamic{l, r})), nil
}

func numUnary(env value.Environment, operand []ast.Node, fn func(*big.Float) *big.Float) (value.Dynamic, error) {
	n, err := numOf(env, operand, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	return value.FromNumber(fn(n)), nil
}

func evalFactorial(env value.Environment, right []ast.Node) (value.Dynamic, error) {
	n, err := numOf(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	count := asInt(n)
	if count < 0 {
		return value.Dynamic{}, errs.Semanticf("factorial of a negative number")
	}
	result := big.NewInt(1)
	for i := int64(2); i <= int64(count); i++ {
		result.Mul(result, big.NewInt(i))
	}
	f := new(big.Float).SetPrec(cfg.FloatPrecision).SetInt(result)
	return value.FromNumber(f), nil
}

// evalIncrDecr adds delta to right[0]'s value. When right[0] is literally a
// Variable, the new value is written back into env (the handle this
// operator was actually given, per the reference implementation's
// parent-environment write-back rule); otherwise it is purely computed.
func evalIncrDecr(env value.Environment, right []ast.Node, delta int64) (value.Dynamic, error) {
	n, err := numOf(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	next := new(big.Float).SetPrec(cfg.FloatPrecision).Add(n, big.NewFloat(float64(delta)))
	if right[0].Kind == ast.Variable {
		env.Define(right[0].Text, value.FromNumber(next))
	}
	return value.FromNumber(next), nil
}

func evalPerfectSquare(env value.Environment, left []ast.Node) (value.Dynamic, error) {
	n, err := numOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	root := new(big.Float).SetPrec(cfg.FloatPrecision).Sqrt(n)
	rounded := floorFloat(new(big.Float).SetPrec(cfg.FloatPrecision).Add(root, big.NewFloat(0.5)))
	square := new(big.Float).SetPrec(cfg.FloatPrecision).Mul(rounded, rounded)
	return value.FromBool(square.Cmp(n) == 0), nil
}

func evalBoolNegate(env value.Environment, right []ast.Node) (value.Dynamic, error) {
	b, err := boolOf(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	return value.FromBool(!b), nil
}

func evalCall(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	if right[0].Kind != ast.Variable {
		return value.Dynamic{}, errs.Semanticf("`.` operator requires a variable on the right-hand side")
	}
	arg, err := ev(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	fe, err := asFull(env)
	if err != nil {
		return value.Dynamic{}, err
	}
	return fe.AttemptCall(right[0].Text, env, arg)
}

func evalConcat(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	l, err := ev(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	r, err := ev(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	if l.Kind() == value.KindString && r.Kind() == value.KindString {
		ls, _ := l.LiteralString(cfg.FloatPrecision, cfg.OutputPrecision)
		rs, _ := r.LiteralString(cfg.FloatPrecision, cfg.OutputPrecision)
		return value.FromString(ls + rs), nil
	}
	if l.Kind() == value.KindSequence || r.Kind() == value.KindSequence {
		var elems []value.Dynamic
		if l.Kind() == value.KindSequence {
			ls, err := l.LiteralSequence(cfg.FloatPrecision, cfg.OutputPrecision)
			if err != nil {
				return value.Dynamic{}, err
			}
			es, err := ls.Collect()
			if err != nil {
				return value.Dynamic{}, err
			}
			elems = append(elems, es...)
		} else {
			elems = append(elems, l)
		}
		if r.Kind() == value.KindSequence {
			rs, err := r.LiteralSequence(cfg.FloatPrecision, cfg.OutputPrecision)
			if err != nil {
				return value.Dynamic{}, err
			}
			es, err := rs.Collect()
			if err != nil {
				return value.Dynamic{}, err
			}
			elems = append(elems, es...)
		} else {
			elems = append(elems, r)
		}
		return value.FromSequence(literalSeq(elems)), nil
	}
	ls, err := l.LiteralString(cfg.FloatPrecision, cfg.OutputPrecision)
	if err != nil {
		return value.Dynamic{}, err
	}
	rs, err := r.LiteralString(cfg.FloatPrecision, cfg.OutputPrecision)
	if err != nil {
		return value.Dynamic{}, err
	}
	return value.FromString(ls + rs), nil
}

func evalShortCircuitAnd(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	l, err := ev(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	lb, err := l.LiteralBool(cfg.FloatPrecision, cfg.OutputPrecision)
	if err != nil {
		return value.Dynamic{}, err
	}
	if !lb {
		if l.IsBoolean() {
			return value.FromBool(false), nil
		}
		return l, nil
	}
	r, err := ev(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	if l.IsBoolean() && r.IsBoolean() {
		rb, _ := r.LiteralBool(cfg.FloatPrecision, cfg.OutputPrecision)
		return value.FromBool(lb && rb), nil
	}
	return r, nil
}

func evalShortCircuitOr(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	l, err := ev(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	lb, err := l.LiteralBool(cfg.FloatPrecision, cfg.OutputPrecision)
	if err != nil {
		return value.Dynamic{}, err
	}
	if lb {
		return l, nil
	}
	r, err := ev(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	rb, err := r.LiteralBool(cfg.FloatPrecision, cfg.OutputPrecision)
	if err != nil {
		return value.Dynamic{}, err
	}
	if rb {
		return r, nil
	}
	return value.FromBool(false), nil
}

func evalComparison(env value.Environment, left, right []ast.Node, want func(cmp int, eq bool) bool) (value.Dynamic, error) {
	l, err := ev(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	r, err := ev(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	eq := value.Equal(l, r, cfg.FloatPrecision)
	return value.FromBool(want(0, eq)), nil
}

func evalOrdering(env value.Environment, left, right []ast.Node, want func(cmp int) bool) (value.Dynamic, error) {
	l, err := ev(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	r, err := ev(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	cmp, ok := value.Compare(l, r, cfg.FloatPrecision, cfg.OutputPrecision)
	if !ok {
		return value.Dynamic{}, errs.Semanticf("values are not comparable")
	}
	return value.FromBool(want(cmp)), nil
}

func evalDefine(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	var name string
	if left[0].Kind == ast.Variable {
		name = left[0].Text
	} else {
		s, err := strOf(env, left, 0)
		if err != nil {
			return value.Dynamic{}, err
		}
		name = s
	}
	definingEnv := env.Clone()
	rhs := right[0]
	binding := func(callEnv value.Environment, arg value.Dynamic) (value.Dynamic, error) {
		child := definingEnv.Clone()
		child.Define("_", arg)
		return EvalNode(child, &rhs)
	}
	fe, err := asFull(env)
	if err != nil {
		return value.Dynamic{}, err
	}
	fe.DefineFunc(name, binding)
	arg, err := currentArg(env)
	if err != nil {
		arg = value.Empty()
	}
	return binding(env, arg)
}

func literalSeq(elems []value.Dynamic) *value.Sequence {
	return value.NewGeneratorSequence(elems, ast.Node{Kind: ast.Block}, lenNode(len(elems)))
}

func lenNode(n int) *ast.Node {
	node := ast.Node{Kind: ast.Number, Num: bigFromInt(n)}
	return &node
}

// floorFloat rounds f toward negative infinity.
func floorFloat(f *big.Float) *big.Float {
	i, exact := f.Int(nil)
	if !exact && f.Sign() < 0 {
		i.Sub(i, big.NewInt(1))
	}
	return new(big.Float).SetPrec(cfg.FloatPrecision).SetInt(i)
}
