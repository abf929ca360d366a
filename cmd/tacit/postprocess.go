package main

import (
	"math/big"

	"github.com/tacitlang/tacit/ast"
	"github.com/tacitlang/tacit/value"
)

// postprocess applies the result-postprocessing flags of spec.md §6 to the
// program's final value, in a fixed order: indexing/selection flags first,
// then the boolean negation, last.
func postprocess(result value.Dynamic, stdin string, flags *cliFlags) (value.Dynamic, error) {
	precision, outputPrecision := flags.precision, flags.oprecision

	if flags.first {
		seq, err := result.LiteralSequence(precision, outputPrecision)
		if err != nil {
			return value.Dynamic{}, err
		}
		v, ok, err := seq.Peek()
		if err != nil {
			return value.Dynamic{}, err
		}
		if !ok {
			return value.Dynamic{}, nil
		}
		result = v
	}

	if flags.last {
		seq, err := result.LiteralSequence(precision, outputPrecision)
		if err != nil {
			return value.Dynamic{}, err
		}
		elems, err := seq.Collect()
		if err != nil {
			return value.Dynamic{}, err
		}
		if len(elems) > 0 {
			result = elems[len(elems)-1]
		}
	}

	if flags.nth {
		n, _, err := big.ParseFloat(stdin, 10, precision, big.ToNearestEven)
		idx := 0
		if err == nil {
			f, _ := n.Int64()
			idx = int(f)
		}
		seq, err := result.LiteralSequence(precision, outputPrecision)
		if err != nil {
			return value.Dynamic{}, err
		}
		elems, err := seq.Collect()
		if err != nil {
			return value.Dynamic{}, err
		}
		if idx >= 0 && idx < len(elems) {
			result = elems[idx]
		}
	}

	if flags.length {
		seq, err := result.LiteralSequence(precision, outputPrecision)
		if err != nil {
			return value.Dynamic{}, err
		}
		n, err := seq.Count()
		if err != nil {
			return value.Dynamic{}, err
		}
		result = value.FromNumber(new(big.Float).SetPrec(precision).SetInt64(int64(n)))
	}

	if flags.sum {
		seq, err := result.LiteralSequence(precision, outputPrecision)
		if err != nil {
			return value.Dynamic{}, err
		}
		elems, err := seq.Collect()
		if err != nil {
			return value.Dynamic{}, err
		}
		sum := new(big.Float).SetPrec(precision)
		for _, e := range elems {
			n, err := e.LiteralNumber(precision, outputPrecision)
			if err != nil {
				return value.Dynamic{}, err
			}
			sum.Add(sum, n)
		}
		result = value.FromNumber(sum)
	}

	if flags.rangeN || flags.rangeTen || flags.rangeHun || flags.rangeExc {
		n, err := result.LiteralNumber(precision, outputPrecision)
		if err != nil {
			return value.Dynamic{}, err
		}
		limit, _ := n.Int64()
		switch {
		case flags.rangeTen:
			limit = 10
		case flags.rangeHun:
			limit = 100
		}
		start := int64(1)
		end := limit
		if flags.rangeExc {
			start, end = 0, limit-1
		}
		var elems []value.Dynamic
		for i := start; i <= end; i++ {
			elems = append(elems, value.FromNumber(new(big.Float).SetPrec(precision).SetInt64(i)))
		}
		result = value.FromSequence(rangeSeq(elems))
	}

	if flags.negate {
		b, err := result.LiteralBool(precision, outputPrecision)
		if err != nil {
			return value.Dynamic{}, err
		}
		result = value.FromBool(!b)
	}

	return result, nil
}

func rangeSeq(elems []value.Dynamic) *value.Sequence {
	length := ast.Node{Kind: ast.Number, Num: new(big.Float).SetInt64(int64(len(elems)))}
	return value.NewGeneratorSequence(elems, ast.Node{Kind: ast.Block}, &length)
}
