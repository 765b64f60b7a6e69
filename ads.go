// Package ads is the storage and addressing core of a content-addressed
// network node: 256-bit identifiers, their exact positions on a circular
// address space, and a fixed-slot persistent store for data blocks.
package ads

import (
	"github.com/doublec/ads/block"
	"github.com/doublec/ads/blockstore"
	"github.com/doublec/ads/id"
)

// BlockStore persists data blocks in a fixed-slot file keyed by their
// identifiers.
type BlockStore struct {
	store *blockstore.Store[id.Identifier, block.DataBlock, *block.DataBlock]
}

// Open opens or creates the block store file at path with the given
// number of slots. The file is sized once and never grows.
func Open(path string, slotCount int64) (*BlockStore, error) {
	store, err := blockstore.Open[id.Identifier, block.DataBlock](path, slotCount)
	if err != nil {
		return nil, err
	}
	return &BlockStore{store: store}, nil
}

// Put stores the block. Writes dropped under capacity pressure are not
// reported; issue a follow-up Get when confirmation matters.
func (bs *BlockStore) Put(b block.DataBlock) error {
	return bs.store.Put(b)
}

// Get returns the block named by blockID if present.
func (bs *BlockStore) Get(blockID id.Identifier) (block.DataBlock, bool, error) {
	return bs.store.Get(blockID)
}

// Sync flushes written blocks to disk.
func (bs *BlockStore) Sync() error {
	return bs.store.Sync()
}

// Close closes the backing file.
func (bs *BlockStore) Close() error {
	return bs.store.Close()
}
