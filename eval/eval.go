// Package eval implements Tacit's tree-walking evaluator: the operator
// dispatch table, child-environment management for Block and Sequence
// nodes, and the top-level Run entry point that evaluates a source program
// against an input string and returns its final value.
package eval

import (
	"math/big"

	"github.com/tacitlang/tacit/ast"
	"github.com/tacitlang/tacit/errs"
	"github.com/tacitlang/tacit/value"
)

// Config carries the knobs the evaluator and the value system's numeric
// coercions read: the working float precision, the printed output
// precision, and the parser goroutine's stack allowance.
type Config struct {
	FloatPrecision  uint
	OutputPrecision uint
	StackSizeMiB    uint
}

// DefaultConfig matches the reference CLI's defaults.
var DefaultConfig = Config{FloatPrecision: 50, OutputPrecision: 4, StackSizeMiB: 2}

var cfg = DefaultConfig

// SetConfig installs the active configuration. EvalNode and the operator
// table read from it; there is exactly one active configuration per
// process, matching the single-threaded, single-program evaluation model.
func SetConfig(c Config) { cfg = c }

func init() {
	value.EvalNode = EvalNode
}

// fullEnv is the richer surface eval needs beyond value.Environment's
// Clone/Define: name resolution and function binding. env.Env is the only
// type that ever flows through value.Environment in this module, so this
// assertion always succeeds; it exists to keep value free of an eval or
// env import while giving eval the methods it actually needs.
type fullEnv interface {
	value.Environment
	Has(name string) bool
	GetVar(name string) (value.Dynamic, error)
	AttemptCall(name string, env value.Environment, arg value.Dynamic) (value.Dynamic, error)
	DefineFunc(name string, b value.Binding)
}

func asFull(env value.Environment) (fullEnv, error) {
	fe, ok := env.(fullEnv)
	if !ok {
		return nil, errs.Semanticf("environment does not support name resolution")
	}
	return fe, nil
}

// EvalNode evaluates a single AST node against env. It is installed into
// value.EvalNode at package init so a Sequence can materialize generator
// elements without value importing eval.
func EvalNode(env value.Environment, n *ast.Node) (value.Dynamic, error) {
	switch n.Kind {
	case ast.String:
		return value.FromString(n.Text), nil

	case ast.CompressedString:
		return evalCompressedString(n)

	case ast.Number:
		return value.FromNumber(n.Num), nil

	case ast.Variable:
		fe, err := asFull(env)
		if err != nil {
			return value.Dynamic{}, err
		}
		arg, err := fe.GetVar("_")
		if err != nil {
			arg = value.Empty()
		}
		return fe.AttemptCall(n.Text, env, arg)

	case ast.Group:
		return evalBody(env, n.Body)

	case ast.Block:
		return evalBlockOnCurrentArg(env, n)

	case ast.Sequence:
		return evalSequenceLiteral(env, n)

	case ast.Op:
		return evalOp(env, n.Symbol, n.Left, n.Right)

	default:
		return value.Dynamic{}, errs.Semanticf("unrecognized node kind")
	}
}

// evalBody evaluates nodes in order against env, returning the last one's
// value (or empty string for an empty body). Between statements it rebinds
// `_` to the statement just evaluated, so a Group or Block reads as a
// pipeline: each step's result becomes the next step's implicit argument.
func evalBody(env value.Environment, nodes []ast.Node) (value.Dynamic, error) {
	if len(nodes) == 0 {
		return value.FromString(""), nil
	}
	var result value.Dynamic
	for i := range nodes {
		v, err := EvalNode(env, &nodes[i])
		if err != nil {
			return value.Dynamic{}, err
		}
		result = v
		if i < len(nodes)-1 {
			env.Define("_", v)
		}
	}
	return result, nil
}

// evalBlockOnCurrentArg runs a Block as a standalone node (not as an
// operator's operand): its parameter is bound to the current value of `_`
// in a cloned child environment before the body runs.
func evalBlockOnCurrentArg(env value.Environment, n *ast.Node) (value.Dynamic, error) {
	arg, err := currentArg(env)
	if err != nil {
		return value.Dynamic{}, err
	}
	return evalBlockWith(env, n, arg)
}

// evalBlockWith runs Block n's body in a cloned child environment with its
// parameter bound to arg.
func evalBlockWith(env value.Environment, n *ast.Node, arg value.Dynamic) (value.Dynamic, error) {
	child := env.Clone()
	child.Define(n.ParamName(), arg)
	return evalBody(child, n.Body)
}

func currentArg(env value.Environment) (value.Dynamic, error) {
	fe, err := asFull(env)
	if err != nil {
		return value.Dynamic{}, err
	}
	if !fe.Has("_") {
		return value.Empty(), nil
	}
	return fe.GetVar("_")
}

func evalSequenceLiteral(env value.Environment, n *ast.Node) (value.Dynamic, error) {
	initial := make([]value.Dynamic, len(n.Initial))
	for i := range n.Initial {
		v, err := EvalNode(env, &n.Initial[i])
		if err != nil {
			return value.Dynamic{}, err
		}
		initial[i] = v
	}
	var generator ast.Node
	if n.Generator != nil {
		generator = *n.Generator
	} else {
		generator = ast.Node{Kind: ast.Block}
	}
	seq := value.NewGeneratorSequence(initial, generator, n.Length)
	seq.SetEnv(env)
	return value.FromSequence(seq), nil
}

func evalCompressedString(n *ast.Node) (value.Dynamic, error) {
	s, err := decompressDictionary(n.Text, n.Quote)
	if err != nil {
		return value.Dynamic{}, err
	}
	return value.FromString(s), nil
}

func bigFromInt(n int) *big.Float {
	return new(big.Float).SetPrec(cfg.FloatPrecision).SetInt64(int64(n))
}

// asInt floors n to an int, matching the reference implementation's
// truncate-toward-negative-infinity numeral-to-index conversions.
func asInt(n *big.Float) int {
	i, exact := n.Int(nil)
	v := i.Int64()
	if !exact && n.Sign() < 0 {
		v--
	}
	return int(v)
}
