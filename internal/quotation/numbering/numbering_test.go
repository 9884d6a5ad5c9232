package numbering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	assert.Equal(t, "WI0001", Seed())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "WI0001", Format(1))
	assert.Equal(t, "WI0042", Format(42))
	assert.Equal(t, "WI9999", Format(9999))
	assert.Equal(t, "WI10000", Format(10000))
}

func TestParse(t *testing.T) {
	n, err := Parse("WI0042")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), n)

	n, err = Parse("WI10000")
	require.NoError(t, err)
	assert.Equal(t, uint64(10000), n)
}

func TestParseMalformed(t *testing.T) {
	for _, s := range []string{"", "WI", "XX0042", "WIabcd", "0042", "WI00x1"} {
		_, err := Parse(s)
		assert.ErrorIs(t, err, ErrMalformedNumber, "input %q", s)
	}
}

func TestNext(t *testing.T) {
	next, err := Next("WI0001")
	require.NoError(t, err)
	assert.Equal(t, "WI0002", next)

	next, err = Next("WI9999")
	require.NoError(t, err)
	assert.Equal(t, "WI10000", next)

	_, err = Next("bogus")
	assert.ErrorIs(t, err, ErrMalformedNumber)
}

func TestRoundTripIncreases(t *testing.T) {
	cur := Seed()
	for i := 0; i < 50; i++ {
		next, err := Next(cur)
		require.NoError(t, err)
		a, _ := Parse(cur)
		b, _ := Parse(next)
		require.Equal(t, a+1, b)
		cur = next
	}
}
