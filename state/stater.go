// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/govledger/vstake/kv"
)

// DefaultCacheSize is the number of committed storage slots kept in memory.
const DefaultCacheSize = 16384

// Stater is the state creator. States created by the same Stater share a
// cache of committed storage values.
type Stater struct {
	db    kv.Store
	cache *cache
}

// NewStater create a new stater.
func NewStater(db kv.Store, cacheSize int) (*Stater, error) {
	c, err := newCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Stater{db, c}, nil
}

// NewState create a new state object.
func (s *Stater) NewState() *State {
	return newState(s.db, s.cache)
}

// cache wraps the lru cache; a nil *cache is a valid disabled cache.
type cache struct {
	lru *lru.Cache
}

func newCache(size int) (*cache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "new storage cache")
	}
	return &cache{c}, nil
}

func (c *cache) get(key storageKey) (rlp.RawValue, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return v.(rlp.RawValue), true
}

func (c *cache) add(key storageKey, value rlp.RawValue) {
	if c == nil {
		return
	}
	c.lru.Add(key, value)
}

func (c *cache) remove(key storageKey) {
	if c == nil {
		return
	}
	c.lru.Remove(key)
}
