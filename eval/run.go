package eval

import (
	"fmt"
	"math/big"
	"runtime/debug"

	"github.com/tacitlang/tacit/ast"
	"github.com/tacitlang/tacit/env"
	"github.com/tacitlang/tacit/errs"
	"github.com/tacitlang/tacit/lexer"
	"github.com/tacitlang/tacit/postfix"
	"github.com/tacitlang/tacit/value"
)

// Parse lexes and assembles src into a top-level statement sequence,
// without evaluating it. Exposed separately from Run so callers (the
// `--debug` dump, the REPL) can work with the AST directly.
func Parse(src string, precision uint) ([]ast.Node, error) {
	tokens, err := lexer.Lex(src, precision)
	if err != nil {
		return nil, err
	}
	pf := postfix.ToPostfix(tokens)
	return ast.Assemble(pf)
}

// Run evaluates src top to bottom in a freshly built environment seeded
// with the ambient bindings every program starts with (`_` from input,
// Euler's number, and the `out` side-effecting identity). Matching spec.md
// §5's "distinct execution context with a configurable larger stack", the
// recursive descent runs on its own goroutine, raised to cfg.StackSizeMiB
// via debug.SetMaxStack before launch, with its result delivered back over
// a channel; any internal panic raised deep in the recursion is recovered
// on that goroutine and reported as an ordinary Semantic error rather than
// crashing the process — the reference corpus's executeFileWithRecovery
// boundary, generalized to return instead of exiting.
func Run(src, stdin string, cfg Config) (value.Dynamic, error) {
	SetConfig(cfg)

	if cfg.StackSizeMiB > 0 {
		debug.SetMaxStack(int(cfg.StackSizeMiB) * 1024 * 1024)
	}

	type outcome struct {
		result value.Dynamic
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		result, err := runOnCurrentGoroutine(src, stdin, cfg)
		done <- outcome{result, err}
	}()

	o := <-done
	return o.result, o.err
}

func runOnCurrentGoroutine(src, stdin string, cfg Config) (result value.Dynamic, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Semanticf("internal error: %v", r)
		}
	}()

	nodes, err := Parse(src, cfg.FloatPrecision)
	if err != nil {
		return value.Dynamic{}, err
	}

	e := env.New()
	e.Define("_", value.FromString(stdin))
	e.Define("E", value.FromNumber(eulersNumber(cfg.FloatPrecision)))
	e.DefineFunc("out", outBinding)

	return evalBody(e, nodes)
}

// outBinding prints its argument and passes it through unchanged, letting
// `out` be spliced anywhere a value is expected.
func outBinding(callEnv value.Environment, arg value.Dynamic) (value.Dynamic, error) {
	fmt.Println(arg.String(cfg.OutputPrecision))
	return arg, nil
}

func eulersNumber(precision uint) *big.Float {
	const e = "2.71828182845904523536028747135266249775724709369995957496696762772407663"
	f, _, err := big.ParseFloat(e, 10, precision, big.ToNearestEven)
	if err != nil {
		return new(big.Float).SetPrec(precision).SetInt64(2)
	}
	return f
}
