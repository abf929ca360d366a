package value

import (
	"fmt"
	"io"
	"strings"

	"github.com/tacitlang/tacit/ast"
	"github.com/tacitlang/tacit/errs"
)

// Sequence is Tacit's lazy, possibly infinite, self-referential ordered
// collection: a prefix cache of already-materialized elements, an optional
// length (known up front, lazily resolved from an unevaluated node, or
// absent for an infinite sequence), a generator Block, and the environment
// the generator runs in.
type Sequence struct {
	cache          []Dynamic
	length         *int
	unparsedLength *ast.Node
	generator      ast.Node
	env            Environment
	index          int
	reverseCursor  int // -1 = reverse iteration not yet started
}

// literalSequence builds a Sequence whose elements are already known, with
// an empty generator (never invoked since length caps it exactly).
func literalSequence(cache []Dynamic, length int) *Sequence {
	n := length
	return &Sequence{cache: cache, length: &n, generator: ast.Node{Kind: ast.Block}, reverseCursor: -1}
}

// NewGeneratorSequence builds a lazy sequence from an assembled `[...]`
// node: initial cached elements, the generator block that produces the
// rest, and either a fixed length, an unevaluated length expression, or
// neither (infinite).
func NewGeneratorSequence(initial []Dynamic, generator ast.Node, length *ast.Node) *Sequence {
	s := &Sequence{cache: initial, generator: generator, reverseCursor: -1}
	if length != nil {
		if length.Kind == ast.Number {
			n64, _ := length.Num.Int64()
			n := int(n64)
			s.length = &n
		} else {
			s.unparsedLength = length
		}
	}
	return s
}

// SetEnv binds the environment the generator block runs in. Sequences
// assembled from `[...]` literals receive this once, at construction time,
// from the environment active where the literal appears.
func (s *Sequence) SetEnv(env Environment) { s.env = env }

// IsFinite reports whether this sequence has a known or knowable length.
func (s *Sequence) IsFinite() bool { return s.length != nil || s.unparsedLength != nil }

func (s *Sequence) resolveLength(precision, outputPrecision uint) error {
	if s.length != nil || s.unparsedLength == nil {
		return nil
	}
	v, err := EvalNode(s.env, s.unparsedLength)
	if err != nil {
		return err
	}
	n, err := v.LiteralNumber(precision, outputPrecision)
	if err != nil {
		return err
	}
	i64, _ := n.Int64()
	i := int(i64)
	s.length = &i
	return nil
}

// Next advances the sequence by one element, computing it from the
// generator block if the prefix cache is exhausted. ok is false once a
// finite sequence's length is reached; it never goes false on its own for
// an infinite sequence.
func (s *Sequence) Next() (Dynamic, bool, error) {
	// precision is only needed to resolve an unparsed length; the eval
	// package's EvalNode closes over the live Config, so a nominal
	// precision here only matters for the Int64 rounding path above.
	if err := s.resolveLength(64, 20); err != nil {
		return Dynamic{}, false, err
	}

	if s.length != nil && s.index >= *s.length {
		return Dynamic{}, false, nil
	}

	if s.index < len(s.cache) {
		v := s.cache[s.index]
		s.index++
		return v, true, nil
	}

	v, err := s.materializeNext()
	if err != nil {
		return Dynamic{}, false, err
	}
	s.index++
	return v, true, nil
}

// materializeNext substitutes the cache's trailing elements into the
// generator block's `_` placeholders (tail first) and evaluates it once,
// appending the result to the cache.
func (s *Sequence) materializeNext() (Dynamic, error) {
	if s.env == nil {
		return Dynamic{}, errs.Semanticf("sequence generator has no bound environment")
	}

	stack := append([]ast.Node(nil), nodesOf(s.cache)...)
	rewritten, err := traverseReplace(&stack, s.generator)
	if err != nil {
		return Dynamic{}, err
	}

	n := len(s.cache)
	prefix := literalSequence(append([]Dynamic(nil), s.cache...), n)
	s.env.Define("p", FromSequence(prefix))

	result, err := EvalNode(s.env, &rewritten)
	if err != nil {
		return Dynamic{}, err
	}

	s.cache = append(s.cache, result)
	return result, nil
}

// NextBack yields elements from the end of a finite sequence, one per
// call, materializing the whole sequence on the first call.
func (s *Sequence) NextBack() (Dynamic, bool, error) {
	if !s.IsFinite() {
		return Dynamic{}, false, errs.Semanticf("sequence has no known end to iterate backward from")
	}

	if s.reverseCursor < 0 {
		for {
			_, more, err := s.Next()
			if err != nil {
				return Dynamic{}, false, err
			}
			if !more {
				break
			}
		}
		s.reverseCursor = len(s.cache)
	}

	if s.reverseCursor == 0 {
		return Dynamic{}, false, nil
	}
	s.reverseCursor--
	return s.cache[s.reverseCursor], true, nil
}

// Peek returns the first not-yet-consumed element without advancing s.
func (s *Sequence) Peek() (Dynamic, bool, error) {
	return s.cloneForRead().Next()
}

// Count materializes a finite sequence fully (without disturbing s's own
// cursor) and reports how many elements it has.
func (s *Sequence) Count() (int, error) {
	if !s.IsFinite() {
		return 0, errs.Semanticf("cannot count an infinite sequence")
	}
	clone := s.cloneForRead()
	clone.index = 0
	n := 0
	for {
		_, more, err := clone.Next()
		if err != nil {
			return 0, err
		}
		if !more {
			break
		}
		n++
	}
	return n, nil
}

// Collect materializes every element of a finite sequence from the start,
// regardless of s's current cursor.
func (s *Sequence) Collect() ([]Dynamic, error) {
	if !s.IsFinite() {
		return nil, errs.Semanticf("cannot materialize an infinite sequence")
	}
	clone := s.cloneForRead()
	clone.index = 0
	var out []Dynamic
	for {
		v, more, err := clone.Next()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Sequence) cloneForRead() *Sequence {
	return &Sequence{
		cache:          append([]Dynamic(nil), s.cache...),
		length:         s.length,
		unparsedLength: s.unparsedLength,
		generator:      s.generator,
		env:            s.env,
		index:          s.index,
		reverseCursor:  -1,
	}
}

// Print streams every element of the sequence to w, one per line,
// including the elements of an infinite sequence: for an infinite
// sequence it only returns when materializing an element or writing to w
// fails.
func (s *Sequence) Print(w io.Writer, outputPrecision uint) error {
	clone := s.cloneForRead()
	clone.index = 0
	for {
		v, more, err := clone.Next()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		line := v.String(outputPrecision)
		if v.IsSequence() {
			line = strings.ReplaceAll(line, "\n", " ")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
}

// Render formats a finite sequence the way Dynamic.String does: one entry
// per line. An infinite sequence can't be rendered into a string without
// hanging, so it renders as a literal placeholder; callers that must
// stream an infinite sequence should use Print instead.
func (s *Sequence) Render(outputPrecision uint) string {
	if !s.IsFinite() {
		return "<infinite sequence>"
	}
	entries, err := s.Collect()
	if err != nil {
		return "<infinite sequence>"
	}
	var b strings.Builder
	for _, e := range entries {
		line := e.String(outputPrecision)
		if e.IsSequence() {
			line = strings.ReplaceAll(line, "\n", " ")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func nodesOf(cache []Dynamic) []ast.Node {
	out := make([]ast.Node, len(cache))
	for i, d := range cache {
		out[i] = d.toNode()
	}
	return out
}

// toNode converts a materialized Dynamic back into a literal AST node, used
// to splice the running prefix cache into a generator block's `_` slots.
func (d Dynamic) toNode() ast.Node {
	switch d.kind {
	case KindString:
		return ast.Node{Kind: ast.String, Text: d.str}
	case KindNumber:
		return ast.Node{Kind: ast.Number, Num: d.num}
	case KindBoolean:
		n := float64(0)
		if d.boolean {
			n = 1
		}
		return ast.Node{Kind: ast.Number, Num: bigFromFloat64(n)}
	case KindSequence:
		var initial []ast.Node
		for _, v := range d.seq.cache {
			initial = append(initial, v.toNode())
		}
		var length *ast.Node
		if d.seq.length != nil {
			ln := d.seq.toLenNode()
			length = &ln
		}
		gen := d.seq.generator
		return ast.Node{Kind: ast.Sequence, Initial: initial, Generator: &gen, Length: length}
	default:
		return ast.Node{Kind: ast.String, Text: ""}
	}
}

func (s *Sequence) toLenNode() ast.Node {
	return ast.Node{Kind: ast.Number, Num: bigFromFloat64(float64(*s.length))}
}

// traverseReplace walks n depth-first, substituting each `_` Variable leaf
// with a node popped from the tail of stack (so the most recently cached
// element fills the first `_` encountered). String, Number, and Sequence
// leaves pass through unchanged.
func traverseReplace(stack *[]ast.Node, n ast.Node) (ast.Node, error) {
	switch n.Kind {
	case ast.Block, ast.Group:
		body := make([]ast.Node, len(n.Body))
		for i, c := range n.Body {
			r, err := traverseReplace(stack, c)
			if err != nil {
				return ast.Node{}, err
			}
			body[i] = r
		}
		n.Body = body
		return n, nil

	case ast.Variable:
		if n.Text != "_" {
			return n, nil
		}
		s := *stack
		if len(s) == 0 {
			return ast.Node{}, errs.Semanticf("too many `_` placeholders in sequence generator")
		}
		last := s[len(s)-1]
		*stack = s[:len(s)-1]
		return last, nil

	case ast.Op:
		left := make([]ast.Node, len(n.Left))
		for i, c := range n.Left {
			r, err := traverseReplace(stack, c)
			if err != nil {
				return ast.Node{}, err
			}
			left[i] = r
		}
		right := make([]ast.Node, len(n.Right))
		for i, c := range n.Right {
			r, err := traverseReplace(stack, c)
			if err != nil {
				return ast.Node{}, err
			}
			right[i] = r
		}
		n.Left, n.Right = left, right
		return n, nil

	default: // String, CompressedString, Number, Sequence
		return n, nil
	}
}
