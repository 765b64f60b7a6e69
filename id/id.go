// Package id implements 256-bit identifiers naming nodes and data blocks.
package id

import (
	"bytes"
	"encoding/hex"
	"io"
	"math/big"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// Size is the byte length of an identifier.
const Size = 32

// HexSize is the character length of the hexadecimal form.
const HexSize = 2 * Size

// Identifier is an opaque 256-bit value. Identifiers are ordered by
// unsigned big-endian byte comparison.
type Identifier [Size]byte

// max is the all-0xFF identifier as an integer, the upper bound of the
// identifier space.
var max = func() *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), 8*Size)
	return m.Sub(m, big.NewInt(1))
}()

// FromBytes constructs an identifier from exactly Size bytes.
// Any other length is a contract violation and panics.
func FromBytes(b []byte) Identifier {
	if len(b) != Size {
		panic(errors.Errorf("invalid identifier length, expected: %d, got: %d", Size, len(b)))
	}

	var id Identifier
	copy(id[:], b)
	return id
}

// FromHex decodes an identifier from its 64-character hexadecimal form.
func FromHex(s string) (Identifier, error) {
	if len(s) != HexSize {
		return Identifier{}, errors.Errorf("invalid identifier hex length, expected: %d, got: %d", HexSize, len(s))
	}

	var id Identifier
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return Identifier{}, errors.WithStack(err)
	}
	return id, nil
}

// Random draws an identifier of Size independent random bytes from r.
func Random(r io.Reader) (Identifier, error) {
	var id Identifier
	if _, err := io.ReadFull(r, id[:]); err != nil {
		return Identifier{}, errors.WithStack(err)
	}
	return id, nil
}

// Compare orders identifiers by unsigned big-endian byte comparison.
// It returns -1, 0 or 1.
func Compare(a, b Identifier) int {
	return bytes.Compare(a[:], b[:])
}

// Less reports whether id orders before other.
func (id Identifier) Less(other Identifier) bool {
	return Compare(id, other) < 0
}

// Bytes returns the raw 32-byte binary form.
func (id Identifier) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, id[:])
	return b
}

// String returns the lowercase hexadecimal form.
func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

// Int returns the unsigned big-endian integer value of the identifier.
func (id Identifier) Int() *big.Int {
	return new(big.Int).SetBytes(id[:])
}

// Max returns the largest identifier value. Together with Int it makes
// identifiers location-bearing for the ring package.
func (id Identifier) Max() *big.Int {
	return new(big.Int).Set(max)
}

// Sum32 returns the stable placement hash of the identifier.
func (id Identifier) Sum32() uint32 {
	return uint32(xxhash.Sum64(id[:]))
}

// MarshalText encodes the identifier as lowercase hexadecimal.
func (id Identifier) MarshalText() ([]byte, error) {
	b := make([]byte, HexSize)
	hex.Encode(b, id[:])
	return b, nil
}

// UnmarshalText decodes the identifier from its hexadecimal form.
func (id *Identifier) UnmarshalText(b []byte) error {
	decoded, err := FromHex(string(b))
	if err != nil {
		return err
	}
	*id = decoded
	return nil
}

// MarshalBinary returns the raw 32 bytes, no framing. The fixed width
// is the delimiter.
func (id Identifier) MarshalBinary() ([]byte, error) {
	return id.Bytes(), nil
}

// UnmarshalBinary reads the identifier from exactly 32 raw bytes.
func (id *Identifier) UnmarshalBinary(b []byte) error {
	if len(b) != Size {
		return errors.Errorf("invalid identifier length, expected: %d, got: %d", Size, len(b))
	}
	copy(id[:], b)
	return nil
}
