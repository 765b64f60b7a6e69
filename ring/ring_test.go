package ring

import (
	"bytes"
	"math/big"
	"testing"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doublec/ads/id"
)

func loc(num, den int64) Location {
	return New(big.NewRat(num, den))
}

func TestNewBounds(t *testing.T) {
	assertT := assert.New(t)

	assertT.NotPanics(func() { New(big.NewRat(0, 1)) })
	assertT.NotPanics(func() { New(big.NewRat(1, 2)) })
	assertT.NotPanics(func() { New(big.NewRat(999, 1000)) })

	assertT.Panics(func() { New(big.NewRat(-1, 10)) })
	assertT.Panics(func() { New(big.NewRat(1, 1)) })
	assertT.Panics(func() { New(big.NewRat(3, 2)) })
}

func TestNewCopiesValue(t *testing.T) {
	requireT := require.New(t)

	x := big.NewRat(1, 4)
	l := New(x)
	x.Add(x, big.NewRat(1, 4))
	requireT.Equal(0, l.Rat().Cmp(big.NewRat(1, 4)))
}

func TestOfIdentifiers(t *testing.T) {
	requireT := require.New(t)

	// The zero identifier sits at the origin.
	requireT.True(Of(id.Identifier{}).Equal(loc(0, 1)))

	// The identifier with value 1 sits at 1/2^256.
	den := new(big.Int).Lsh(big.NewInt(1), 256)
	expected := New(new(big.Rat).SetFrac(big.NewInt(1), den))
	requireT.True(Of(id.Identifier{31: 0x01}).Equal(expected))

	// The maximal identifier stays strictly below 1.
	all := id.FromBytes(bytes.Repeat([]byte{0xFF}, id.Size))
	requireT.True(Of(all).Rat().Cmp(big.NewRat(1, 1)) < 0)

	// Distinct identifiers land on distinct locations.
	requireT.False(Of(id.Identifier{31: 0x01}).Equal(Of(id.Identifier{31: 0x02})))
}

func TestRightOf(t *testing.T) {
	assertT := assert.New(t)

	// Nearby pairs: the greater location is to the right.
	assertT.True(RightOf(loc(2, 10), loc(1, 10)))
	assertT.False(RightOf(loc(1, 10), loc(2, 10)))

	// Pairs across the wrap point: rightness follows the short arc.
	assertT.True(RightOf(loc(1, 10), loc(9, 10)))
	assertT.False(RightOf(loc(9, 10), loc(1, 10)))

	// For every distinct non-antipodal pair exactly one direction wins.
	pairs := [][2]Location{
		{loc(0, 1), loc(1, 10)},
		{loc(3, 10), loc(7, 10)},
		{loc(1, 3), loc(2, 3)},
		{loc(9, 10), loc(2, 10)},
	}
	for _, p := range pairs {
		assertT.NotEqual(RightOf(p[0], p[1]), RightOf(p[1], p[0]))
	}

	// Antipodal tie-break is asymmetric on purpose: the comparison is
	// >= on one branch and < on the other.
	assertT.True(RightOf(loc(1, 4), loc(3, 4)))
	assertT.False(RightOf(loc(3, 4), loc(1, 4)))
}

func TestAbsBetween(t *testing.T) {
	requireT := require.New(t)

	requireT.True(AbsBetween(loc(1, 10), loc(3, 10)).Equal(Distance{r: big.NewRat(2, 10)}))

	// The arc across the wrap point is the short one.
	requireT.True(AbsBetween(loc(9, 10), loc(1, 10)).Equal(Distance{r: big.NewRat(2, 10)}))

	// Symmetric, non-negative, bounded by 1/2.
	pairs := [][2]Location{
		{loc(0, 1), loc(0, 1)},
		{loc(1, 10), loc(2, 10)},
		{loc(1, 4), loc(3, 4)},
		{loc(9, 10), loc(2, 10)},
		{loc(1, 3), loc(5, 6)},
	}
	for _, p := range pairs {
		d1 := AbsBetween(p[0], p[1])
		d2 := AbsBetween(p[1], p[0])
		requireT.True(d1.Equal(d2))
		requireT.True(d1.Rat().Sign() >= 0)
		requireT.True(d1.Rat().Cmp(big.NewRat(1, 2)) <= 0)
	}
}

func TestBetweenSign(t *testing.T) {
	requireT := require.New(t)

	// Positive iff the first location is right of the second.
	requireT.Equal(1, Between(loc(2, 10), loc(1, 10)).Rat().Sign())
	requireT.Equal(-1, Between(loc(1, 10), loc(2, 10)).Rat().Sign())

	// The signed distance carries the second location onto the first.
	pairs := [][2]Location{
		{loc(2, 10), loc(1, 10)},
		{loc(1, 10), loc(9, 10)},
		{loc(9, 10), loc(1, 10)},
		{loc(0, 1), loc(1, 2)},
		{loc(1, 3), loc(2, 3)},
		{loc(7, 8), loc(1, 8)},
	}
	for _, p := range pairs {
		requireT.True(p[1].Move(Between(p[0], p[1])).Equal(p[0]))
	}
}

func TestMove(t *testing.T) {
	requireT := require.New(t)

	requireT.True(loc(1, 10).Move(Distance{r: big.NewRat(2, 10)}).Equal(loc(3, 10)))

	// Wrap above 1 and below 0.
	requireT.True(loc(9, 10).Move(Distance{r: big.NewRat(2, 10)}).Equal(loc(1, 10)))
	requireT.True(loc(1, 10).Move(Distance{r: big.NewRat(-2, 10)}).Equal(loc(9, 10)))

	// Moving by zero is the identity.
	requireT.True(loc(1, 3).Move(Distance{}).Equal(loc(1, 3)))
}

func TestMoveMeasureMove(t *testing.T) {
	requireT := require.New(t)

	locations := []Location{loc(0, 1), loc(1, 10), loc(1, 2), loc(9, 10)}
	distances := []Distance{
		{r: big.NewRat(1, 10)},
		{r: big.NewRat(-1, 10)},
		{r: big.NewRat(1, 2)},
		{r: big.NewRat(-1, 2)},
		{r: big.NewRat(0, 1)},
	}
	for _, l := range locations {
		for _, d := range distances {
			moved := l.Move(d)
			requireT.True(l.Move(Between(moved, l)).Equal(moved))
		}
	}
}

func TestScale(t *testing.T) {
	requireT := require.New(t)

	d := Distance{r: big.NewRat(2, 5)}
	requireT.True(d.Scale(big.NewRat(1, 2)).Equal(Distance{r: big.NewRat(1, 5)}))
	requireT.True(d.Scale(big.NewRat(1, 1)).Equal(d))
	requireT.True(d.Scale(big.NewRat(0, 1)).Equal(Distance{}))

	// Negative factors flip direction; there is no lower bound.
	requireT.True(d.Scale(big.NewRat(-1, 1)).Equal(Distance{r: big.NewRat(-2, 5)}))

	requireT.Panics(func() { d.Scale(big.NewRat(3, 2)) })
}

func TestJSONPresentation(t *testing.T) {
	requireT := require.New(t)

	b, err := gojson.Marshal(loc(1, 2))
	requireT.NoError(err)
	requireT.Equal("0.5", string(b))

	b, err = gojson.Marshal(Distance{r: big.NewRat(-1, 4)})
	requireT.NoError(err)
	requireT.Equal("-0.25", string(b))
}

func TestExactnessAtIdentifierPrecision(t *testing.T) {
	requireT := require.New(t)

	// Adjacent maximal-range identifiers differ by exactly 1/2^256,
	// far beyond float64 resolution.
	l1 := Of(id.Identifier{31: 0x01})
	l2 := Of(id.Identifier{31: 0x02})

	den := new(big.Int).Lsh(big.NewInt(1), 256)
	step := new(big.Rat).SetFrac(big.NewInt(1), den)
	requireT.True(AbsBetween(l1, l2).Equal(Distance{r: step}))
	requireT.False(l1.Equal(l2))
}
