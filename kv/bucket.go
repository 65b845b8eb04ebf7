// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"bytes"

	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket provides logical bucket for kv store.
type Bucket string

func (b Bucket) key(key []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(key)), b...), key...)
}

// NewStore creates a bucket store from the source store.
// Keys seen through the bucket store have the bucket prefix stripped.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{b, src}
}

type bucketStore struct {
	bucket Bucket
	src    Store
}

func (s *bucketStore) Get(key []byte) ([]byte, error)  { return s.src.Get(s.bucket.key(key)) }
func (s *bucketStore) Has(key []byte) (bool, error)    { return s.src.Has(s.bucket.key(key)) }
func (s *bucketStore) IsNotFound(err error) bool       { return s.src.IsNotFound(err) }
func (s *bucketStore) Put(key, val []byte) error       { return s.src.Put(s.bucket.key(key), val) }
func (s *bucketStore) Delete(key []byte) error         { return s.src.Delete(s.bucket.key(key)) }
func (s *bucketStore) Bulk() Bulk                      { return &bucketBulk{s.bucket, s.src.Bulk()} }
func (s *bucketStore) Iterate(r Range) Iterator {
	rng := Range{Start: s.bucket.key(r.Start)}
	if len(r.Limit) > 0 {
		rng.Limit = s.bucket.key(r.Limit)
	} else {
		rng.Limit = util.BytesPrefix([]byte(s.bucket)).Limit
	}
	return &bucketIterator{Iterator: s.src.Iterate(rng), prefix: []byte(s.bucket)}
}

type bucketBulk struct {
	bucket Bucket
	src    Bulk
}

func (b *bucketBulk) Put(key, val []byte) error { return b.src.Put(b.bucket.key(key), val) }
func (b *bucketBulk) Delete(key []byte) error   { return b.src.Delete(b.bucket.key(key)) }
func (b *bucketBulk) Len() int                  { return b.src.Len() }
func (b *bucketBulk) Write() error              { return b.src.Write() }

type bucketIterator struct {
	Iterator
	prefix []byte
}

func (i *bucketIterator) Key() []byte {
	return bytes.TrimPrefix(i.Iterator.Key(), i.prefix)
}
