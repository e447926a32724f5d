// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package storage persists approval-voting state over a key-value database:
// block entries enumerating the candidates a block introduced, candidate
// entries holding the approval state, and an aux store for subsystem
// bookkeeping such as the last-finalized height.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"

	"github.com/luxfi/approval-voting/persisted"
	"github.com/luxfi/approval-voting/tick"
)

// ErrNotFound is returned when a requested entry is not in the store.
var ErrNotFound = database.ErrNotFound

// CandidateRef locates a candidate within the block that introduced it.
type CandidateRef struct {
	CoreIndex     uint32 `json:"core_index"`
	CandidateHash ids.ID `json:"candidate_hash"`
}

// BlockEntry is the per-block record the subsystem consults to find the
// candidates a block introduced and the tick the block was produced at.
type BlockEntry struct {
	BlockHash  ids.ID         `json:"block_hash"`
	ParentHash ids.ID         `json:"parent_hash"`
	Session    uint32         `json:"session"`
	BlockTick  tick.Tick      `json:"block_tick"`
	Candidates []CandidateRef `json:"candidates"`
}

// Store reads and writes approval-voting state. Implementations must allow
// concurrent readers; writes come only from the subsystem's coordinator.
type Store interface {
	LoadBlockEntry(blockHash ids.ID) (*BlockEntry, error)
	WriteBlockEntry(entry *BlockEntry) error
	DeleteBlockEntry(blockHash ids.ID) error

	LoadCandidateEntry(candidateHash ids.ID) (*persisted.CandidateEntry, error)
	WriteCandidateEntry(candidateHash ids.ID, entry *persisted.CandidateEntry) error
	DeleteCandidateEntry(candidateHash ids.ID) error

	InsertAux(key []byte, value []byte) error
	GetAux(key []byte) ([]byte, error)
}

var (
	blockPrefix     = []byte("block")
	candidatePrefix = []byte("candidate")
	auxPrefix       = []byte("aux")
)

// store implements Store over a database.Database.
type store struct {
	db database.Database
}

// New returns a Store backed by db.
func New(db database.Database) Store {
	return &store{db: db}
}

func prefixedKey(prefix []byte, key []byte) []byte {
	out := make([]byte, 0, len(prefix)+1+len(key))
	out = append(out, prefix...)
	out = append(out, ':')
	return append(out, key...)
}

func (s *store) LoadBlockEntry(blockHash ids.ID) (*BlockEntry, error) {
	raw, err := s.db.Get(prefixedKey(blockPrefix, blockHash[:]))
	if err != nil {
		return nil, err
	}
	entry := &BlockEntry{}
	if err := json.Unmarshal(raw, entry); err != nil {
		return nil, fmt.Errorf("storage: decoding block entry %s: %w", blockHash, err)
	}
	return entry, nil
}

func (s *store) WriteBlockEntry(entry *BlockEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("storage: encoding block entry %s: %w", entry.BlockHash, err)
	}
	return s.db.Put(prefixedKey(blockPrefix, entry.BlockHash[:]), raw)
}

func (s *store) DeleteBlockEntry(blockHash ids.ID) error {
	return s.db.Delete(prefixedKey(blockPrefix, blockHash[:]))
}

func (s *store) LoadCandidateEntry(candidateHash ids.ID) (*persisted.CandidateEntry, error) {
	raw, err := s.db.Get(prefixedKey(candidatePrefix, candidateHash[:]))
	if err != nil {
		return nil, err
	}
	entry, err := persisted.UnmarshalCandidateEntry(raw)
	if err != nil {
		return nil, fmt.Errorf("storage: decoding candidate entry %s: %w", candidateHash, err)
	}
	return entry, nil
}

func (s *store) WriteCandidateEntry(candidateHash ids.ID, entry *persisted.CandidateEntry) error {
	raw, err := persisted.MarshalCandidateEntry(entry)
	if err != nil {
		return fmt.Errorf("storage: encoding candidate entry %s: %w", candidateHash, err)
	}
	return s.db.Put(prefixedKey(candidatePrefix, candidateHash[:]), raw)
}

func (s *store) DeleteCandidateEntry(candidateHash ids.ID) error {
	return s.db.Delete(prefixedKey(candidatePrefix, candidateHash[:]))
}

func (s *store) InsertAux(key []byte, value []byte) error {
	return s.db.Put(prefixedKey(auxPrefix, key), value)
}

func (s *store) GetAux(key []byte) ([]byte, error) {
	return s.db.Get(prefixedKey(auxPrefix, key))
}
