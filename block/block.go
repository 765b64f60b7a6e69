// Package block defines the data block stored by the node: a fixed
// chunk of content named by its identifier.
package block

import (
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/outofforest/photon"
	"github.com/pkg/errors"

	"github.com/doublec/ads/id"
)

// DataSize is the byte capacity of a single data block.
const DataSize = 1024

// Hash represents a block checksum.
type Hash uint64

// Checksum computes checksum of bytes.
func Checksum(b []byte) Hash {
	return Hash(xxhash.Sum64(b))
}

// DataBlock is one identifier-keyed unit of content. Its wire form is
// the photon encoding of the struct, so the layout below is the disk
// layout.
type DataBlock struct {
	Checksum Hash
	ID       id.Identifier
	Data     [DataSize]byte
}

// New returns a sealed data block holding a copy of data. Content
// longer than DataSize is a contract violation and panics.
func New(blockID id.Identifier, data []byte) DataBlock {
	if len(data) > DataSize {
		panic(errors.Errorf("data exceeds block capacity, maximum: %d, got: %d", DataSize, len(data)))
	}

	b := DataBlock{ID: blockID}
	copy(b.Data[:], data)
	b.Checksum = b.ComputeChecksum()
	return b
}

// ComputeChecksum computes checksum of the block.
func (b DataBlock) ComputeChecksum() Hash {
	b.Checksum = 0
	return Checksum(photon.NewFromValue(&b).B)
}

// StoreSize returns the constant serialized size of a data block.
func (b *DataBlock) StoreSize() int {
	return int(unsafe.Sizeof(DataBlock{}))
}

// Marshal writes the photon encoding of the block into buf.
func (b *DataBlock) Marshal(buf []byte) error {
	if len(buf) < b.StoreSize() {
		return errors.Errorf("buffer too small, expected: %d, got: %d", b.StoreSize(), len(buf))
	}
	copy(buf, photon.NewFromValue(b).B)
	return nil
}

// Unmarshal reads the block back from buf and verifies its checksum.
// A mismatch means the bytes do not hold a valid block.
func (b *DataBlock) Unmarshal(buf []byte) error {
	if len(buf) < b.StoreSize() {
		return errors.Errorf("buffer too small, expected: %d, got: %d", b.StoreSize(), len(buf))
	}

	decoded := photon.NewFromBytes[DataBlock](buf)
	if checksum := decoded.V.ComputeChecksum(); checksum != decoded.V.Checksum {
		return errors.Errorf("checksum mismatch for block %s, computed: %d, stored: %d",
			decoded.V.ID, checksum, decoded.V.Checksum)
	}

	*b = *decoded.V
	return nil
}

// Key returns the identifier placing the block in a store.
func (b *DataBlock) Key() id.Identifier {
	return b.ID
}

// Content returns a copy of the block's data.
func (b *DataBlock) Content() []byte {
	data := make([]byte, DataSize)
	copy(data, b.Data[:])
	return data
}
