package blockstore

import "io"

// maxProbes bounds the candidate slot scan for a single key. A key's
// payload lives in one of the six slots following its hash slot or not
// at all; the store never relocates entries.
const maxProbes = 6

// Dev is the interface required from the device backing a store.
type Dev interface {
	io.ReadWriteSeeker
	Sync() error
	Size() int64
}

// Key identifies a payload's placement in the store. Keys compare with
// == and report a stable placement hash.
type Key interface {
	comparable
	Sum32() uint32
}

// Payload is the contract stored values must satisfy. StoreSize must be
// constant for the type; Unmarshal returning an error marks the slot
// bytes as undecodable, which the store treats as an empty slot.
type Payload[K Key] interface {
	StoreSize() int
	Marshal(buf []byte) error
	Unmarshal(buf []byte) error
	Key() K
}

// payloadPtr constrains PP to be the pointer type of P implementing
// Payload.
type payloadPtr[K Key, P any] interface {
	*P
	Payload[K]
}

// Slot status bytes.
const (
	slotEmpty    byte = 0
	slotOccupied byte = 1
)
