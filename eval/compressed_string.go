package eval

import "github.com/tacitlang/tacit/dict"

// decompressDictionary expands a CompressedString node's payload via the
// dictionary codec. quote records which closing character opened the
// literal: backtick forces every word capitalized, single-quote
// capitalizes only the first word (sentence style).
func decompressDictionary(text string, quote byte) (string, error) {
	allCap := quote == '`'
	return dict.Decompress(text, allCap), nil
}
