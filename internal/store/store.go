// Package store persists extracted balance-change records in a local pebble
// database so a restart can replay an account's known history before the
// first network page lands.
package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/bstrange24/XRPL-Utility-sub000/internal/history"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// Key layout:
//
//	rec/<address>/<seq:8 bytes big endian> -> record JSON
//	seq/<address>                          -> next sequence, 8 bytes big endian
//
// Big-endian sequence numbers keep iteration in insertion order.
const (
	recPrefix = "rec/"
	seqPrefix = "seq/"
)

// Store is an append-only record store keyed by account address.
type Store struct {
	mu     sync.Mutex
	db     *pebble.DB
	closed bool
}

// Open creates the directory if needed and opens the database.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory %s: %w", dir, err)
	}
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Append persists records for an address in order, after any previously
// stored ones. The records and the advanced sequence commit in one synced
// batch.
func (s *Store) Append(address string, records []history.BalanceChange) error {
	if len(records) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	seq, err := s.nextSeq(address)
	if err != nil {
		return err
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	for _, rec := range records {
		val, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode record %s: %w", rec.Hash, err)
		}
		if err := batch.Set(recKey(address, seq), val, nil); err != nil {
			return fmt.Errorf("append record %s: %w", rec.Hash, err)
		}
		seq++
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seq)
	if err := batch.Set(seqKey(address), buf[:], nil); err != nil {
		return fmt.Errorf("advance sequence for %s: %w", address, err)
	}
	if err := s.db.Apply(batch, pebble.Sync); err != nil {
		return fmt.Errorf("commit records for %s: %w", address, err)
	}
	return nil
}

// Load returns all stored records for an address in insertion order.
func (s *Store) Load(address string) ([]history.BalanceChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	lower := []byte(recPrefix + address + "/")
	upper := []byte(recPrefix + address + "0") // '0' sorts just after '/'
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return nil, fmt.Errorf("iterate records for %s: %w", address, err)
	}
	defer iter.Close()

	var out []history.BalanceChange
	for iter.First(); iter.Valid(); iter.Next() {
		var rec history.BalanceChange
		if err := json.Unmarshal(iter.Value(), &rec); err != nil {
			return nil, fmt.Errorf("decode stored record: %w", err)
		}
		out = append(out, rec)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iterate records for %s: %w", address, err)
	}
	return out, nil
}

// Count returns how many records are stored for an address.
func (s *Store) Count(address string) (int, error) {
	recs, err := s.Load(address)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

func (s *Store) nextSeq(address string) (uint64, error) {
	val, closer, err := s.db.Get(seqKey(address))
	if errors.Is(err, pebble.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read sequence for %s: %w", address, err)
	}
	defer closer.Close()
	if len(val) != 8 {
		return 0, fmt.Errorf("corrupt sequence for %s", address)
	}
	return binary.BigEndian.Uint64(val), nil
}

func recKey(address string, seq uint64) []byte {
	key := make([]byte, 0, len(recPrefix)+len(address)+9)
	key = append(key, recPrefix...)
	key = append(key, address...)
	key = append(key, '/')
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seq)
	return append(key, buf[:]...)
}

func seqKey(address string) []byte {
	return []byte(seqPrefix + address)
}
