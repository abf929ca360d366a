// Package compress implements Tacit's bijective program packer: a base-95
// (printable ASCII minus the space-offset) to base-256 (codepage-indexed)
// big-integer re-basing, letting a program be written using the
// codepage's wider character set in about 0.82 characters per source
// character, plus one or two for the seed.
package compress

import (
	"math/big"
	"strings"

	"github.com/tacitlang/tacit/token"
)

const asciiOffset = 32

// seed is folded in ahead of every digit sequence before re-basing, so that
// a source string with leading zero-valued digits (e.g. starting with the
// codepage's first printable character) doesn't lose them to a stripped
// leading zero once the re-based integer is converted back to digits.
const seed = 1000

// Pack re-bases source (newlines escaped as a literal `\n` first) from
// base-95 printable-ASCII digits to base-256 digits, then renders each
// base-256 digit through the codepage.
func Pack(source string) string {
	escaped := strings.ReplaceAll(source, "\n", `\n`)
	digits := make([]int64, 0, len(escaped))
	for _, r := range escaped {
		digits = append(digits, int64(r)-asciiOffset)
	}
	packed := toDigits(embed(digits, 95), 256)

	var b strings.Builder
	for _, d := range packed {
		b.WriteRune(token.Codepage[d])
	}
	return b.String()
}

// Unpack inverts Pack: codepage characters back to base-256 digits,
// re-based to base-95, rendered back to printable ASCII, with the escaped
// newline restored.
func Unpack(packed string) string {
	digits := make([]int64, 0, len(packed))
	for _, r := range packed {
		digits = append(digits, int64(codepageIndex(r)))
	}
	original := extract(fromDigits(digits, 256), 95)

	var b strings.Builder
	for _, d := range original {
		b.WriteRune(rune(d + asciiOffset))
	}
	return strings.ReplaceAll(b.String(), `\n`, "\n")
}

// IsPacked reports whether source round-trips differently under
// Unpack(Pack(·)), the reference implementation's heuristic for whether a
// given CLI source argument is already compressed.
func IsPacked(source string) bool {
	return Unpack(Pack(source)) != source
}

func codepageIndex(r rune) int {
	for i, c := range token.Codepage {
		if c == r {
			return i
		}
	}
	return 0
}

// embed folds digits (most-significant first, in base `from`) behind the
// leading sentinel into a single big.Int.
func embed(digits []int64, from int64) *big.Int {
	acc := big.NewInt(seed)
	base := big.NewInt(from)
	for _, d := range digits {
		acc = new(big.Int).Add(new(big.Int).Mul(acc, base), big.NewInt(d))
	}
	return acc
}

// extract inverts embed: re-bases n into base `from` and discards the
// sentinel's own digits, recovering the original most-significant-first
// digit sequence.
func extract(n *big.Int, from int64) []int64 {
	all := toDigits(n, from)
	seedLen := len(toDigits(big.NewInt(seed), from))
	k := len(all) - seedLen
	if k < 0 {
		k = 0
	}
	out := make([]int64, k)
	for i := 0; i < k; i++ {
		out[i] = int64(all[k-1-i])
	}
	return out
}

// toDigits renders n as a digit sequence in base `to`, least-significant
// digit first.
func toDigits(n *big.Int, to int64) []int {
	var out []int
	toBig := big.NewInt(to)
	zero := big.NewInt(0)
	acc := new(big.Int).Set(n)
	for acc.Cmp(zero) != 0 {
		quo, rem := new(big.Int), new(big.Int)
		quo.QuoRem(acc, toBig, rem)
		out = append(out, int(rem.Int64()))
		acc = quo
	}
	return out
}

// fromDigits reconstructs the big.Int that toDigits(n, base) would have
// produced, given the same least-significant-first digit sequence.
func fromDigits(digits []int64, base int64) *big.Int {
	acc := big.NewInt(0)
	b := big.NewInt(base)
	for i := len(digits) - 1; i >= 0; i-- {
		acc = new(big.Int).Add(new(big.Int).Mul(acc, b), big.NewInt(digits[i]))
	}
	return acc
}
