// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/govledger/vstake/kv"
	"github.com/govledger/vstake/stackedmap"
	"github.com/govledger/vstake/vstake"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr vstake.Address
	key  vstake.Bytes32
}

func (k storageKey) dbKey() []byte {
	return append(append(make([]byte, 0, vstake.AddressLength+32), k.addr[:]...), k.key[:]...)
}

// State manages the storage of all built-in contracts.
type State struct {
	db    kv.Store
	cache *cache
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create state object on top of the committed storage in db.
func New(db kv.Store) *State {
	return newState(db, nil)
}

func newState(db kv.Store, c *cache) *State {
	s := &State{db: db, cache: c}
	s.sm = stackedmap.New(s.committedGetter)
	return s
}

// committedGetter implements stackedmap.MapGetter.
func (s *State) committedGetter(key storageKey) (rlp.RawValue, bool, error) {
	if v, ok := s.cache.get(key); ok {
		return v, true, nil
	}
	data, err := s.db.Get(key.dbKey())
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, false, err
		}
		data = nil
	}
	s.cache.add(key, data)
	return data, true, nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr vstake.Address, key vstake.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr vstake.Address, key vstake.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr vstake.Address, key vstake.Bytes32) (vstake.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return vstake.Bytes32{}, err
	}
	if len(raw) == 0 {
		return vstake.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return vstake.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return vstake.Blake2b(raw), nil
	}
	return vstake.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr vstake.Address, key, value vstake.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr vstake.Address, key vstake.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr vstake.Address, key vstake.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Stage collects the cumulative changes of this state, ready to be committed.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	order := make([]storageKey, 0)
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		if _, ok := changes[k]; !ok {
			order = append(order, k)
		}
		changes[k] = v
		return true
	})
	return &Stage{db: s.db, cache: s.cache, changes: changes, order: order}
}
