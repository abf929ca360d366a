package compress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	source := `[1,2,3]\+`
	packed := Pack(source)
	assert.NotEqual(t, source, packed)
	assert.Equal(t, source, Unpack(packed))
}

func TestPackUnpackRoundTripWithNewline(t *testing.T) {
	source := "1+2\n3*4"
	packed := Pack(source)
	assert.Equal(t, source, Unpack(packed))
}

func TestIsPackedDistinguishesForms(t *testing.T) {
	source := "3+4*2"
	packed := Pack(source)
	assert.True(t, IsPacked(packed))
}
