// Package dict implements Tacit's dictionary string compressor: back-tick
// and single-quote literals pack words into pairs of addressing characters
// from token.DictionaryChars, each pair (or lone character) indexing a
// fixed-stride row of an embedded word list.
package dict

import (
	_ "embed"
	"strings"

	"github.com/tacitlang/tacit/token"
)

//go:embed dictionary.txt
var dictionaryData string

// rowStride is the fixed per-first-character row width the reference
// packer uses regardless of how many of those slots a given first
// character's rows actually fill; unfilled slots resolve to "".
const rowStride = 100

var words []string

func init() {
	for _, line := range strings.Split(dictionaryData, "\n") {
		words = append(words, strings.TrimSpace(line))
	}
}

func capitalize(word string, leaveAsIs bool) string {
	if leaveAsIs || word == "" {
		return word
	}
	r := []rune(word)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// Decompress expands chars, a compressed-string payload, into its
// represented text. allCap selects whether every expanded word is forced
// to capitalized form (backtick literals) or only the first word of the
// output is (single-quote literals, sentence-style).
func Decompress(chars string, allCap bool) string {
	s := []rune(strings.TrimSpace(chars))
	var out strings.Builder

	i := 0
	for i < len(s) {
		firstIdx := charIndex(s[i])
		if firstIdx < 0 {
			out.WriteRune(s[i])
			i++
			continue
		}
		if i+1 >= len(s) {
			out.WriteString(capitalize(wordAt(firstIdx*rowStride), !allCap && out.Len() != 0))
			i++
			continue
		}
		secondIdx := charIndex(s[i+1])
		if secondIdx >= 0 {
			out.WriteString(capitalize(wordAt(firstIdx*rowStride+secondIdx), !allCap && out.Len() != 0))
		} else {
			out.WriteString(capitalize(wordAt(firstIdx*rowStride), !allCap && out.Len() != 0))
			out.WriteRune(s[i+1])
		}
		i += 2
	}
	return out.String()
}

func charIndex(r rune) int {
	for i, c := range token.DictionaryChars {
		if c == r {
			return i
		}
	}
	return -1
}

func wordAt(i int) string {
	if i < 0 || i >= len(words) {
		return ""
	}
	return words[i]
}
