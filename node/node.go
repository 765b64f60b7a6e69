// Package node defines the descriptor a node publishes about itself:
// its identifier plus the addresses it can be reached at.
package node

import (
	"encoding/binary"

	gojson "github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/doublec/ads/id"
)

// Descriptor names a node and lists its addresses. The address type is
// supplied by the caller; anything that round-trips through JSON works.
type Descriptor[A any] struct {
	ID        id.Identifier `json:"id"`
	Addresses []A           `json:"addresses"`
}

// MarshalBinary encodes the descriptor as the fixed-width identifier
// bytes followed by the length-prefixed encoded address list.
func (d Descriptor[A]) MarshalBinary() ([]byte, error) {
	addresses, err := gojson.Marshal(d.Addresses)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	b := make([]byte, 0, id.Size+4+len(addresses))
	b = append(b, d.ID[:]...)
	b = binary.BigEndian.AppendUint32(b, uint32(len(addresses)))
	return append(b, addresses...), nil
}

// UnmarshalBinary decodes the descriptor from its binary form.
func (d *Descriptor[A]) UnmarshalBinary(b []byte) error {
	if len(b) < id.Size+4 {
		return errors.Errorf("descriptor too short: %d bytes", len(b))
	}

	nodeID := id.FromBytes(b[:id.Size])
	length := binary.BigEndian.Uint32(b[id.Size : id.Size+4])
	rest := b[id.Size+4:]
	if uint32(len(rest)) != length {
		return errors.Errorf("invalid address list length, expected: %d, got: %d", length, len(rest))
	}

	var addresses []A
	if err := gojson.Unmarshal(rest, &addresses); err != nil {
		return errors.WithStack(err)
	}

	d.ID = nodeID
	d.Addresses = addresses
	return nil
}
