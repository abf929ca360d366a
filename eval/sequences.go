package eval

import (
	"math/big"
	"math/rand"
	"sort"
	"strings"

	"github.com/tacitlang/tacit/ast"
	"github.com/tacitlang/tacit/errs"
	"github.com/tacitlang/tacit/value"
)

func evalRangeFrom1(env value.Environment, operand []ast.Node) (value.Dynamic, error) {
	n, err := numOf(env, operand, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	return buildRange(1, asInt(n), true), nil
}

func evalRange(env value.Environment, left, right []ast.Node, inclusive bool) (value.Dynamic, error) {
	l, err := numOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	r, err := numOf(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	return buildRange(asInt(l), asInt(r), inclusive), nil
}

// buildRange produces an ascending or descending integer sequence between
// from and to, inclusive per the caller's family (`=>`) or exclusive of
// the endpoint (`->`).
func buildRange(from, to int, inclusive bool) value.Dynamic {
	var elems []value.Dynamic
	if from <= to {
		end := to
		if !inclusive {
			end--
		}
		for i := from; i <= end; i++ {
			elems = append(elems, value.FromNumber(bigFromInt(i)))
		}
	} else {
		end := to
		if !inclusive {
			end++
		}
		for i := from; i >= end; i-- {
			elems = append(elems, value.FromNumber(bigFromInt(i)))
		}
	}
	return value.FromSequence(literalSeq(elems))
}

// evalOpenRange builds an infinite sequence counting up from left by 1,
// via a generator block the Sequence engine materializes on demand.
func evalOpenRange(env value.Environment, left []ast.Node) (value.Dynamic, error) {
	start, err := numOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	generator := ast.Node{Kind: ast.Block, Body: []ast.Node{
		{Kind: ast.Op, Symbol: "+", Left: []ast.Node{{Kind: ast.Variable, Text: "_"}}, Right: []ast.Node{{Kind: ast.Number, Num: big.NewFloat(1)}}},
	}}
	seq := value.NewGeneratorSequence([]value.Dynamic{value.FromNumber(start)}, generator, nil)
	seq.SetEnv(env)
	return value.FromSequence(seq), nil
}

func evalAllEqual(env value.Environment, left []ast.Node) (value.Dynamic, error) {
	seq, err := seqOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	for i := 1; i < len(elems); i++ {
		if !value.Equal(elems[0], elems[i], cfg.FloatPrecision) {
			return value.FromBool(false), nil
		}
	}
	return value.FromBool(true), nil
}

func evalPrimesUpTo(env value.Environment, operand []ast.Node) (value.Dynamic, error) {
	n, err := numOf(env, operand, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	limit := asInt(n)
	if limit < 2 {
		return value.FromSequence(literalSeq(nil)), nil
	}
	sieve := make([]bool, limit+1)
	var primes []value.Dynamic
	for i := 2; i <= limit; i++ {
		if sieve[i] {
			continue
		}
		primes = append(primes, value.FromNumber(bigFromInt(i)))
		for j := i * 2; j <= limit; j += i {
			sieve[j] = true
		}
	}
	return value.FromSequence(literalSeq(primes)), nil
}

func evalFactors(env value.Environment, operand []ast.Node) (value.Dynamic, error) {
	n, err := numOf(env, operand, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	target := asInt(n)
	var out []value.Dynamic
	for i := 1; i <= target; i++ {
		if target%i == 0 {
			out = append(out, value.FromNumber(bigFromInt(i)))
		}
	}
	return value.FromSequence(literalSeq(out)), nil
}

// evalBaseConversion renders floor(left)'s digits in base floor(right),
// most-significant digit first, as a sequence of numbers.
func evalBaseConversion(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	l, err := numOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	r, err := numOf(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	base := asInt(r)
	if base < 2 {
		return value.Dynamic{}, errs.Semanticf("base conversion requires a base of at least 2")
	}
	n := asInt(l)
	negative := n < 0
	if negative {
		n = -n
	}
	var digits []int
	if n == 0 {
		digits = []int{0}
	}
	for n > 0 {
		digits = append([]int{n % base}, digits...)
		n /= base
	}
	out := make([]value.Dynamic, len(digits))
	for i, d := range digits {
		v := d
		if negative && i == 0 {
			v = -v
		}
		out[i] = value.FromNumber(bigFromInt(v))
	}
	return value.FromSequence(literalSeq(out)), nil
}

func evalLength(env value.Environment, left []ast.Node) (value.Dynamic, error) {
	v, err := ev(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	if v.Kind() == value.KindString {
		s, _ := v.LiteralString(cfg.FloatPrecision, cfg.OutputPrecision)
		return value.FromNumber(bigFromInt(len([]rune(s)))), nil
	}
	seq, err := v.LiteralSequence(cfg.FloatPrecision, cfg.OutputPrecision)
	if err != nil {
		return value.Dynamic{}, err
	}
	n, err := seq.Count()
	if err != nil {
		return value.Dynamic{}, err
	}
	return value.FromNumber(bigFromInt(n)), nil
}

func evalHead(env value.Environment, left []ast.Node) (value.Dynamic, error) {
	seq, err := seqOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	v, ok, err := seq.Peek()
	if err != nil {
		return value.Dynamic{}, err
	}
	if !ok {
		return value.Dynamic{}, errs.Semanticf("head of an empty sequence")
	}
	return v, nil
}

func evalTail(env value.Environment, left []ast.Node) (value.Dynamic, error) {
	seq, err := seqOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	if len(elems) == 0 {
		return value.Dynamic{}, errs.Semanticf("tail of an empty sequence")
	}
	return value.FromSequence(literalSeq(elems[1:])), nil
}

func evalDropLast(env value.Environment, left []ast.Node) (value.Dynamic, error) {
	seq, err := seqOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	if len(elems) == 0 {
		return value.Dynamic{}, errs.Semanticf("drop-last of an empty sequence")
	}
	return value.FromSequence(literalSeq(elems[:len(elems)-1])), nil
}

func evalNth(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	seq, err := seqOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	n, err := numOf(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	idx := asInt(n)
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	if idx < 0 || idx >= len(elems) {
		return value.Dynamic{}, errs.Semanticf("index %d out of range", idx)
	}
	return elems[idx], nil
}

func evalIndexOf(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	seq, err := seqOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	target, err := ev(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	for i, e := range elems {
		if value.Equal(e, target, cfg.FloatPrecision) {
			return value.FromNumber(bigFromInt(i)), nil
		}
	}
	return value.FromNumber(bigFromInt(-1)), nil
}

func evalReverse(env value.Environment, left []ast.Node) (value.Dynamic, error) {
	v, err := ev(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	if v.Kind() == value.KindString {
		s, _ := v.LiteralString(cfg.FloatPrecision, cfg.OutputPrecision)
		r := []rune(s)
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return value.FromString(string(r)), nil
	}
	seq, err := v.LiteralSequence(cfg.FloatPrecision, cfg.OutputPrecision)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	out := make([]value.Dynamic, len(elems))
	for i, e := range elems {
		out[len(elems)-1-i] = e
	}
	return value.FromSequence(literalSeq(out)), nil
}

func evalSort(env value.Environment, operand []ast.Node, descending bool) (value.Dynamic, error) {
	seq, err := seqOf(env, operand, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	out := append([]value.Dynamic(nil), elems...)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		cmp, ok := value.Compare(out[i], out[j], cfg.FloatPrecision, cfg.OutputPrecision)
		if !ok {
			sortErr = errs.Semanticf("elements are not comparable for sorting")
		}
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
	if sortErr != nil {
		return value.Dynamic{}, sortErr
	}
	return value.FromSequence(literalSeq(out)), nil
}

// evalTranspose implements the `.@`/`:%` transpose pair: rows shorter than
// the longest row are simply absent from that column, per the reference
// corpus's last-observed ragged-row behavior (see DESIGN.md).
func evalTranspose(env value.Environment, left []ast.Node) (value.Dynamic, error) {
	seq, err := seqOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	rows, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	var rowElems [][]value.Dynamic
	maxLen := 0
	for _, row := range rows {
		rs, err := row.LiteralSequence(cfg.FloatPrecision, cfg.OutputPrecision)
		if err != nil {
			return value.Dynamic{}, err
		}
		elems, err := rs.Collect()
		if err != nil {
			return value.Dynamic{}, err
		}
		rowElems = append(rowElems, elems)
		if len(elems) > maxLen {
			maxLen = len(elems)
		}
	}
	cols := make([]value.Dynamic, maxLen)
	for c := 0; c < maxLen; c++ {
		var col []value.Dynamic
		for _, row := range rowElems {
			if c < len(row) {
				col = append(col, row[c])
			}
		}
		cols[c] = value.FromSequence(literalSeq(col))
	}
	return value.FromSequence(literalSeq(cols)), nil
}

func evalFlatten(env value.Environment, left []ast.Node) (value.Dynamic, error) {
	seq, err := seqOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	var out []value.Dynamic
	for _, e := range elems {
		if e.Kind() == value.KindSequence {
			inner, err := e.LiteralSequence(cfg.FloatPrecision, cfg.OutputPrecision)
			if err != nil {
				return value.Dynamic{}, err
			}
			innerElems, err := inner.Collect()
			if err != nil {
				return value.Dynamic{}, err
			}
			out = append(out, innerElems...)
		} else {
			out = append(out, e)
		}
	}
	return value.FromSequence(literalSeq(out)), nil
}

func evalGroupByEquality(env value.Environment, left []ast.Node) (value.Dynamic, error) {
	groups, err := groupAdjacent(env, left)
	if err != nil {
		return value.Dynamic{}, err
	}
	out := make([]value.Dynamic, len(groups))
	for i, g := range groups {
		out[i] = value.FromSequence(literalSeq(g))
	}
	return value.FromSequence(literalSeq(out)), nil
}

func groupAdjacent(env value.Environment, left []ast.Node) ([][]value.Dynamic, error) {
	seq, err := seqOf(env, left, 0)
	if err != nil {
		return nil, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return nil, err
	}
	var groups [][]value.Dynamic
	for _, e := range elems {
		if len(groups) > 0 && value.Equal(groups[len(groups)-1][0], e, cfg.FloatPrecision) {
			groups[len(groups)-1] = append(groups[len(groups)-1], e)
		} else {
			groups = append(groups, []value.Dynamic{e})
		}
	}
	return groups, nil
}

func evalDedupAdjacent(env value.Environment, operand []ast.Node) (value.Dynamic, error) {
	seq, err := seqOf(env, operand, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	var out []value.Dynamic
	for i, e := range elems {
		if i == 0 || !value.Equal(elems[i-1], e, cfg.FloatPrecision) {
			out = append(out, e)
		}
	}
	return value.FromSequence(literalSeq(out)), nil
}

func evalDedupAll(env value.Environment, operand []ast.Node) (value.Dynamic, error) {
	seq, err := seqOf(env, operand, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	var out []value.Dynamic
	for _, e := range elems {
		seen := false
		for _, o := range out {
			if value.Equal(o, e, cfg.FloatPrecision) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, e)
		}
	}
	return value.FromSequence(literalSeq(out)), nil
}

func evalSplitBySeparator(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	s, err := strOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	sep, err := strOf(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	var parts []string
	if sep == "" {
		for _, r := range s {
			parts = append(parts, string(r))
		}
	} else {
		cur := s
		for {
			idx := indexOf(cur, sep)
			if idx < 0 {
				parts = append(parts, cur)
				break
			}
			parts = append(parts, cur[:idx])
			cur = cur[idx+len(sep):]
		}
	}
	out := make([]value.Dynamic, len(parts))
	for i, p := range parts {
		out[i] = value.FromString(p)
	}
	return value.FromSequence(literalSeq(out)), nil
}

// evalJoinBySeparator is `:|`'s natural inverse of `:!`/`.$`'s split:
// render left's sequence elements to strings and join them with right.
func evalJoinBySeparator(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	seq, err := seqOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	sep, err := strOf(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String(cfg.OutputPrecision)
	}
	return value.FromString(strings.Join(parts, sep)), nil
}

func indexOf(s, sep string) int {
	for i := 0; i+len(sep) <= len(s); i++ {
		if s[i:i+len(sep)] == sep {
			return i
		}
	}
	return -1
}

// evalSplitInHalf splits the current implicit argument's sequence into two
// equal (first half favored on odd length) halves.
func evalSplitInHalf(env value.Environment) (value.Dynamic, error) {
	arg, err := currentArg(env)
	if err != nil {
		return value.Dynamic{}, err
	}
	seq, err := arg.LiteralSequence(cfg.FloatPrecision, cfg.OutputPrecision)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	mid := (len(elems) + 1) / 2
	first := value.FromSequence(literalSeq(elems[:mid]))
	second := value.FromSequence(literalSeq(elems[mid:]))
	return value.FromSequence(literalSeq([]value.Dynamic{first, second})), nil
}

// evalBifurcate partitions the current implicit argument's sequence into
// [matches, non-matches] by the right operand's predicate block.
func evalBifurcate(env value.Environment, right []ast.Node) (value.Dynamic, error) {
	if right[0].Kind != ast.Block {
		return value.Dynamic{}, errs.Typingf("`|:` requires a block predicate")
	}
	arg, err := currentArg(env)
	if err != nil {
		return value.Dynamic{}, err
	}
	seq, err := arg.LiteralSequence(cfg.FloatPrecision, cfg.OutputPrecision)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	var yes, no []value.Dynamic
	for _, e := range elems {
		v, err := evalBlockWith(env, &right[0], e)
		if err != nil {
			return value.Dynamic{}, err
		}
		b, err := v.LiteralBool(cfg.FloatPrecision, cfg.OutputPrecision)
		if err != nil {
			return value.Dynamic{}, err
		}
		if b {
			yes = append(yes, e)
		} else {
			no = append(no, e)
		}
	}
	return value.FromSequence(literalSeq([]value.Dynamic{
		value.FromSequence(literalSeq(yes)),
		value.FromSequence(literalSeq(no)),
	})), nil
}

func evalRandomPick(env value.Environment, operand []ast.Node) (value.Dynamic, error) {
	seq, err := seqOf(env, operand, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	if len(elems) == 0 {
		return value.Dynamic{}, errs.Semanticf("random pick from an empty sequence")
	}
	return elems[rand.Intn(len(elems))], nil
}

func evalZip(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	l, err := seqOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	r, err := seqOf(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	le, err := l.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	re, err := r.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	// Unequal-length operands truncate to the shorter: the corpus never
	// settles this (see DESIGN.md open-question resolution).
	n := len(le)
	if len(re) < n {
		n = len(re)
	}
	out := make([]value.Dynamic, n)
	for i := 0; i < n; i++ {
		out[i] = value.FromSequence(literalSeq([]value.Dynamic{le[i], re[i]}))
	}
	return value.FromSequence(literalSeq(out)), nil
}

func evalMap(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	if right[0].Kind != ast.Block {
		return value.Dynamic{}, errs.Typingf("`@` requires a block on the right-hand side")
	}
	seq, err := seqOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	out := make([]value.Dynamic, len(elems))
	for i, e := range elems {
		v, err := evalBlockWith(env, &right[0], e)
		if err != nil {
			return value.Dynamic{}, err
		}
		out[i] = v
	}
	return value.FromSequence(literalSeq(out)), nil
}

func evalBind(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	if right[0].Kind != ast.Block {
		return value.Dynamic{}, errs.Typingf("`&` requires a block on the right-hand side")
	}
	arg, err := ev(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	return evalBlockWith(env, &right[0], arg)
}

func evalFilter(env value.Environment, right []ast.Node, anyOnly bool) (value.Dynamic, error) {
	if right[1].Kind != ast.Block {
		return value.Dynamic{}, errs.Typingf("filter requires a block predicate")
	}
	seq, err := seqOf(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	var out []value.Dynamic
	for _, e := range elems {
		v, err := evalBlockWith(env, &right[1], e)
		if err != nil {
			return value.Dynamic{}, err
		}
		b, err := v.LiteralBool(cfg.FloatPrecision, cfg.OutputPrecision)
		if err != nil {
			return value.Dynamic{}, err
		}
		if b {
			if anyOnly {
				return value.FromBool(true), nil
			}
			out = append(out, e)
		}
	}
	if anyOnly {
		return value.FromBool(false), nil
	}
	return value.FromSequence(literalSeq(out)), nil
}

func evalCountTruthy(env value.Environment, right []ast.Node) (value.Dynamic, error) {
	if right[1].Kind != ast.Block {
		return value.Dynamic{}, errs.Typingf("`/:` requires a block predicate")
	}
	seq, err := seqOf(env, right, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	n := 0
	for _, e := range elems {
		v, err := evalBlockWith(env, &right[1], e)
		if err != nil {
			return value.Dynamic{}, err
		}
		b, err := v.LiteralBool(cfg.FloatPrecision, cfg.OutputPrecision)
		if err != nil {
			return value.Dynamic{}, err
		}
		if b {
			n++
		}
	}
	return value.FromNumber(bigFromInt(n)), nil
}

// evalRepeat implements `&.`: right is exactly [block, initial, count].
func evalRepeat(env value.Environment, right []ast.Node) (value.Dynamic, error) {
	if right[0].Kind != ast.Block {
		return value.Dynamic{}, errs.Typingf("`&.`'s first argument must be a block")
	}
	initVal, err := ev(env, right, 1)
	if err != nil {
		return value.Dynamic{}, err
	}
	countVal, err := numOf(env, right, 2)
	if err != nil {
		return value.Dynamic{}, err
	}
	n := asInt(countVal)
	arg := initVal
	for i := 0; i < n; i++ {
		arg, err = evalBlockWith(env, &right[0], arg)
		if err != nil {
			return value.Dynamic{}, err
		}
	}
	return arg, nil
}

// evalDoWhile repeatedly evaluates the left block, feeding each result back
// as the next iteration's argument, while the right block (evaluated the
// same way) stays truthy.
func evalDoWhile(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	if left[0].Kind != ast.Block || right[0].Kind != ast.Block {
		return value.Dynamic{}, errs.Typingf("`:` (do-while) requires blocks on both sides")
	}
	arg, err := currentArg(env)
	if err != nil {
		return value.Dynamic{}, err
	}
	for {
		arg, err = evalBlockWith(env, &left[0], arg)
		if err != nil {
			return value.Dynamic{}, err
		}
		cont, err := evalBlockWith(env, &right[0], arg)
		if err != nil {
			return value.Dynamic{}, err
		}
		b, err := cont.LiteralBool(cfg.FloatPrecision, cfg.OutputPrecision)
		if err != nil {
			return value.Dynamic{}, err
		}
		if !b {
			return arg, nil
		}
	}
}

// evalAdjacencyGroup groups runs of adjacent equal elements, exactly as
// `:@` does. The operator's right operand is not passed in and not
// evaluated.
func evalAdjacencyGroup(env value.Environment, left []ast.Node) (value.Dynamic, error) {
	return evalGroupByEquality(env, left)
}

func evalConditionalBind(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	cond, err := boolOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	if cond {
		return ev(env, right, 0)
	}
	return ev(env, right, 1)
}

// substituteFirstUnderscore replaces the first `_` leaf encountered in a
// depth-first, left-then-right walk of n with replacement, leaving any
// further `_` occurrences untouched. This is the fold/scan family's
// accumulator-injection step: the lone unreplaced `_` is then bound to the
// current element in the evaluating environment.
func substituteFirstUnderscore(n ast.Node, replacement ast.Node) (ast.Node, bool) {
	switch n.Kind {
	case ast.Variable:
		if n.Text == "_" {
			return replacement, true
		}
		return n, false

	case ast.Block, ast.Group:
		body := append([]ast.Node(nil), n.Body...)
		for i := range body {
			if r, ok := substituteFirstUnderscore(body[i], replacement); ok {
				body[i] = r
				n.Body = body
				return n, true
			}
		}
		return n, false

	case ast.Op:
		left := append([]ast.Node(nil), n.Left...)
		for i := range left {
			if r, ok := substituteFirstUnderscore(left[i], replacement); ok {
				left[i] = r
				n.Left = left
				return n, true
			}
		}
		right := append([]ast.Node(nil), n.Right...)
		for i := range right {
			if r, ok := substituteFirstUnderscore(right[i], replacement); ok {
				right[i] = r
				n.Right = right
				return n, true
			}
		}
		return n, false

	default:
		return n, false
	}
}

// evalFold implements `SEQ \ EXPR`: the accumulator starts as SEQ's first
// element, then for each subsequent element, the first `_` in EXPR is
// substituted with the running accumulator and the remaining `_`
// occurrences bind to the current element, and EXPR is re-evaluated.
func evalFold(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	seq, err := seqOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	if len(elems) == 0 {
		return value.FromString(""), nil
	}
	acc := elems[0]
	exprNode := right[0]
	child := env.Clone()
	for _, e := range elems[1:] {
		rewritten, _ := substituteFirstUnderscore(exprNode, acc.ToNode())
		child.Define("_", e)
		v, err := EvalNode(child, &rewritten)
		if err != nil {
			return value.Dynamic{}, err
		}
		acc = v
	}
	return acc, nil
}

// evalScan is `SEQ :\ EXPR`, the fold's running-total cousin: it returns
// every intermediate accumulator value (including the seed) as a sequence,
// rather than just the final one.
func evalScan(env value.Environment, left, right []ast.Node) (value.Dynamic, error) {
	seq, err := seqOf(env, left, 0)
	if err != nil {
		return value.Dynamic{}, err
	}
	elems, err := seq.Collect()
	if err != nil {
		return value.Dynamic{}, err
	}
	if len(elems) == 0 {
		return value.FromSequence(literalSeq(nil)), nil
	}
	acc := elems[0]
	out := []value.Dynamic{acc}
	exprNode := right[0]
	child := env.Clone()
	for _, e := range elems[1:] {
		rewritten, _ := substituteFirstUnderscore(exprNode, acc.ToNode())
		child.Define("_", e)
		v, err := EvalNode(child, &rewritten)
		if err != nil {
			return value.Dynamic{}, err
		}
		acc = v
		out = append(out, acc)
	}
	return value.FromSequence(literalSeq(out)), nil
}
