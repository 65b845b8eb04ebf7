// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/govledger/vstake/vstake"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Values are rlp encoded; a missing key decodes to the zero value (a freshly allocated struct for pointer types).
type Mapping[K Key, V any] struct {
	context *Context
	basePos vstake.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos vstake.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) vstake.Bytes32 {
	return vstake.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		return decodeValue(raw, &value)
	})
	return
}

// Set stores value under key. A nil pointer value clears the slot.
func (m *Mapping[K, V]) Set(key K, value V) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		return encodeValue(value)
	})
}

func decodeValue[V any](raw []byte, value *V) error {
	if t := reflect.TypeOf(value).Elem(); t.Kind() == reflect.Ptr {
		*value = reflect.New(t.Elem()).Interface().(V)
	}
	if len(raw) == 0 {
		return nil
	}
	return rlp.DecodeBytes(raw, value)
}

func encodeValue[V any](value V) ([]byte, error) {
	rv := reflect.ValueOf(&value).Elem()
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil, nil
	}
	return rlp.EncodeToBytes(value)
}
