// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/govledger/vstake/kv"
)

// Stage abstracts changes of a state, written to the kv store in one bulk.
type Stage struct {
	db      kv.Store
	cache   *cache
	changes map[storageKey]rlp.RawValue
	order   []storageKey
}

// Len returns the number of distinct storage slots changed.
func (s *Stage) Len() int {
	return len(s.order)
}

// Commit writes all changes atomically.
func (s *Stage) Commit() error {
	if len(s.order) == 0 {
		return nil
	}
	bulk := s.db.Bulk()
	for _, k := range s.order {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = bulk.Delete(k.dbKey())
		} else {
			err = bulk.Put(k.dbKey(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	if err := bulk.Write(); err != nil {
		// the cache may hold nothing newer than the db, only drop touched keys
		for _, k := range s.order {
			s.cache.remove(k)
		}
		return &Error{err}
	}
	for _, k := range s.order {
		s.cache.add(k, s.changes[k])
	}
	return nil
}
