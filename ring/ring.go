// Package ring models positions on a circular address space of
// circumference 1. All arithmetic is exact rational arithmetic so that
// locations derived from 256-bit identifiers never lose precision.
// Floating point appears only in the presentation helpers.
package ring

import (
	"math/big"
	"strconv"

	"github.com/pkg/errors"
)

var (
	half = big.NewRat(1, 2)
	one  = big.NewRat(1, 1)
)

// Value is implemented by location-bearing types: anything reporting an
// integer value within a fixed inclusive maximum. Its location on the
// ring is Int / (Max + 1), which always lands in [0,1).
type Value interface {
	Int() *big.Int
	Max() *big.Int
}

// Location is an exact rational position in [0,1).
type Location struct {
	r *big.Rat
}

// New returns the location at x. Values outside [0,1) are a contract
// violation and panic.
func New(x *big.Rat) Location {
	if x.Sign() < 0 || x.Cmp(one) >= 0 {
		panic(errors.Errorf("location outside [0,1): %s", x.RatString()))
	}
	return Location{r: new(big.Rat).Set(x)}
}

// Of maps a location-bearing value onto the ring. The mapping is
// injective over values sharing the same maximum.
func Of(v Value) Location {
	den := new(big.Int).Add(v.Max(), big.NewInt(1))
	return Location{r: new(big.Rat).SetFrac(v.Int(), den)}
}

// Rat returns a copy of the exact rational value.
func (l Location) Rat() *big.Rat {
	return new(big.Rat).Set(l.rat())
}

// Float64 renders the location as a float for presentation. Internal
// arithmetic never uses it.
func (l Location) Float64() float64 {
	f, _ := l.rat().Float64()
	return f
}

// Equal reports exact equality.
func (l Location) Equal(other Location) bool {
	return l.rat().Cmp(other.rat()) == 0
}

// Move translates the location by the signed distance d, wrapping once
// around the ring. Callers must keep |d| <= 1; every distance produced
// by this package satisfies |d| <= 1/2.
func (l Location) Move(d Distance) Location {
	r := new(big.Rat).Add(l.rat(), d.rat())
	switch {
	case r.Cmp(one) >= 0:
		r.Sub(r, one)
	case r.Sign() < 0:
		r.Add(r, one)
	}
	return Location{r: r}
}

// MarshalJSON emits the float64 presentation form.
func (l Location) MarshalJSON() ([]byte, error) {
	return formatFloat(l.Float64()), nil
}

func (l Location) rat() *big.Rat {
	if l.r == nil {
		return new(big.Rat)
	}
	return l.r
}

// Distance is a signed exact rational arc length. Distances measured
// between locations have magnitude at most 1/2; the sign selects the
// traversal direction on the ring.
type Distance struct {
	r *big.Rat
}

// Rat returns a copy of the exact rational value.
func (d Distance) Rat() *big.Rat {
	return new(big.Rat).Set(d.rat())
}

// Float64 renders the distance as a float for presentation.
func (d Distance) Float64() float64 {
	f, _ := d.rat().Float64()
	return f
}

// Equal reports exact equality.
func (d Distance) Equal(other Distance) bool {
	return d.rat().Cmp(other.rat()) == 0
}

// Scale multiplies the distance by f. Factors above 1 would break the
// half-circle bound and panic; there is no lower bound, so a negative
// factor flips direction and zero collapses the distance.
func (d Distance) Scale(f *big.Rat) Distance {
	if f.Cmp(one) > 0 {
		panic(errors.Errorf("distance scale factor above 1: %s", f.RatString()))
	}
	return Distance{r: new(big.Rat).Mul(d.rat(), f)}
}

// MarshalJSON emits the float64 presentation form.
func (d Distance) MarshalJSON() ([]byte, error) {
	return formatFloat(d.Float64()), nil
}

func (d Distance) rat() *big.Rat {
	if d.r == nil {
		return new(big.Rat)
	}
	return d.r
}

// RightOf reports whether l1 lies rightward (in the increasing
// direction) of l2 along the shortest arc. At the antipodal distance of
// exactly 1/2 the asymmetric comparison placement below is the
// tie-break; the >= and < operators must stay on these branches.
func RightOf(l1, l2 Location) bool {
	if l1.rat().Cmp(l2.rat()) < 0 {
		return new(big.Rat).Sub(l2.rat(), l1.rat()).Cmp(half) >= 0
	}
	return new(big.Rat).Sub(l1.rat(), l2.rat()).Cmp(half) < 0
}

// AbsBetween returns the unsigned shortest-arc distance between l1 and
// l2: min(d, 1-d) for d = |l1 - l2|. The result is never negative and
// never exceeds 1/2.
func AbsBetween(l1, l2 Location) Distance {
	d := new(big.Rat).Sub(l1.rat(), l2.rat())
	d.Abs(d)
	if wrapped := new(big.Rat).Sub(one, d); wrapped.Cmp(d) < 0 {
		d = wrapped
	}
	return Distance{r: d}
}

// Between returns the signed shortest-arc distance, positive iff
// RightOf(l1, l2). The sign convention makes it the translation
// carrying l2 onto l1: l2.Move(Between(l1, l2)) equals l1 for every
// pair, antipodal pairs included.
func Between(l1, l2 Location) Distance {
	d := AbsBetween(l1, l2)
	if RightOf(l1, l2) {
		return d
	}
	return Distance{r: new(big.Rat).Neg(d.rat())}
}

func formatFloat(f float64) []byte {
	return strconv.AppendFloat(nil, f, 'g', -1, 64)
}
