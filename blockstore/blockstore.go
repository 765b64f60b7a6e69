// Package blockstore implements a fixed-capacity disk store of
// uniform-size slots. Payloads are placed by a bounded linear probe
// from their key's hash slot; slots are never moved, evicted or
// resized, so the on-disk layout is stable for the life of the file.
package blockstore

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/doublec/ads/pkg/filedev"
)

// Store is a fixed-slot store of P payloads keyed by K. One mutex
// guards the whole device; Put and Get hold it for their entire
// duration, including all disk I/O.
type Store[K Key, P any, PP payloadPtr[K, P]] struct {
	dev        Dev
	entrySize  int64
	entryCount int64

	mu  sync.Mutex
	buf []byte
}

// EntrySize returns the byte width of one slot for payload type P:
// one status byte plus the payload's constant serialized size.
func EntrySize[K Key, P any, PP payloadPtr[K, P]]() int64 {
	var p P
	return 1 + int64(PP(&p).StoreSize())
}

// New returns a store over dev holding entryCount slots. The device
// must already have the exact size entryCount slots require.
func New[K Key, P any, PP payloadPtr[K, P]](dev Dev, entryCount int64) (*Store[K, P, PP], error) {
	if entryCount <= 0 {
		return nil, errors.Errorf("invalid entry count: %d", entryCount)
	}

	entrySize := EntrySize[K, P, PP]()
	if size := entryCount * entrySize; dev.Size() != size {
		return nil, errors.Errorf("invalid device size, expected: %d, got: %d", size, dev.Size())
	}

	return &Store[K, P, PP]{
		dev:        dev,
		entrySize:  entrySize,
		entryCount: entryCount,
		buf:        make([]byte, entrySize),
	}, nil
}

// Open opens or creates the store file at path and resizes it to
// exactly entryCount slots. Resizing is not a migration path between
// payload types of differing sizes; reopening an existing file with a
// different payload type must not be attempted.
func Open[K Key, P any, PP payloadPtr[K, P]](path string, entryCount int64) (*Store[K, P, PP], error) {
	if entryCount <= 0 {
		return nil, errors.Errorf("invalid entry count: %d", entryCount)
	}

	dev, err := filedev.Open(path, entryCount*EntrySize[K, P, PP]())
	if err != nil {
		return nil, err
	}
	return New[K, P, PP](dev, entryCount)
}

// EntryCount returns the fixed number of slots.
func (s *Store[K, P, PP]) EntryCount() int64 {
	return s.entryCount
}

// Put stores the payload in the first free, undecodable or
// key-matching slot of its probe sequence. A slot already holding the
// same key is left untouched. If all candidates hold foreign keys the
// payload is dropped: the hash neighborhood is at capacity and the
// store never evicts. Only I/O errors are returned.
func (s *Store[K, P, PP]) Put(payload P) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := PP(&payload).Key()
	base := int64(key.Sum32()) % s.entryCount
	for i := int64(0); i < maxProbes; i++ {
		slot := (base + i) % s.entryCount
		if err := s.readSlot(slot); err != nil {
			return err
		}

		if s.buf[0] == slotOccupied {
			var stored P
			if err := PP(&stored).Unmarshal(s.buf[1:]); err == nil {
				if PP(&stored).Key() == key {
					// Already present, idempotent.
					return nil
				}
				continue
			}
			// Undecodable bytes count as an empty slot.
		}

		s.buf[0] = slotOccupied
		if err := PP(&payload).Marshal(s.buf[1:]); err != nil {
			return err
		}
		return s.writeSlot(slot)
	}

	log.Warnf("block store full around slot %d, dropping write for key %v", base, key)
	return nil
}

// Get returns the payload stored under key, scanning the same probe
// sequence Put uses. Slots that are empty, undecodable or hold a
// foreign key are skipped; a miss is not an error.
func (s *Store[K, P, PP]) Get(key K) (P, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero P
	base := int64(key.Sum32()) % s.entryCount
	for i := int64(0); i < maxProbes; i++ {
		if err := s.readSlot((base + i) % s.entryCount); err != nil {
			return zero, false, err
		}
		if s.buf[0] != slotOccupied {
			continue
		}

		var stored P
		if err := PP(&stored).Unmarshal(s.buf[1:]); err != nil {
			continue
		}
		if PP(&stored).Key() == key {
			return stored, true, nil
		}
	}

	return zero, false, nil
}

// Sync forces written slots to the device.
func (s *Store[K, P, PP]) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dev.Sync()
}

// Close closes the underlying device if it supports closing.
func (s *Store[K, P, PP]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if closer, ok := s.dev.(io.Closer); ok {
		return errors.WithStack(closer.Close())
	}
	return nil
}

func (s *Store[K, P, PP]) readSlot(slot int64) error {
	if _, err := s.dev.Seek(slot*s.entrySize, io.SeekStart); err != nil {
		return errors.WithStack(err)
	}
	if _, err := io.ReadFull(s.dev, s.buf); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

func (s *Store[K, P, PP]) writeSlot(slot int64) error {
	if _, err := s.dev.Seek(slot*s.entrySize, io.SeekStart); err != nil {
		return errors.WithStack(err)
	}
	if _, err := s.dev.Write(s.buf); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
