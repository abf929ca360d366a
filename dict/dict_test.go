package dict

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tacitlang/tacit/token"
)

func TestDecompressSingleCharacterPair(t *testing.T) {
	pair := string([]rune{rune(token.DictionaryChars[0]), rune(token.DictionaryChars[0])})
	out := Decompress(pair, false)
	assert.Equal(t, capitalize(wordAt(0), false), out)
}

func TestDecompressPassesThroughUnknownRunes(t *testing.T) {
	out := Decompress("!", false)
	assert.Equal(t, "!", out)
}

func TestDecompressAllCapForcesEveryWordCapitalized(t *testing.T) {
	a := rune(token.DictionaryChars[0])
	two := string([]rune{a, a, ' ', a, a})
	out := Decompress(two, true)
	words := wordAt(0)
	assert.Contains(t, out, capitalize(words, false))
}
