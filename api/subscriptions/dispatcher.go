// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"sync"

	"github.com/govledger/vstake/metrics"
	"github.com/govledger/vstake/runtime"
)

var metricActiveSubscriptions = metrics.LazyLoadGauge("api_active_subscriptions")

// dispatcher fans committed receipts out to websocket listeners.
type dispatcher struct {
	rt        *runtime.Runtime
	listeners map[chan *runtime.Receipt]struct{}
	mu        sync.RWMutex
}

func newDispatcher(rt *runtime.Runtime) *dispatcher {
	return &dispatcher{
		rt:        rt,
		listeners: make(map[chan *runtime.Receipt]struct{}),
	}
}

func (d *dispatcher) Subscribe(ch chan *runtime.Receipt) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listeners[ch] = struct{}{}
	metricActiveSubscriptions().Set(int64(len(d.listeners)))
}

func (d *dispatcher) Unsubscribe(ch chan *runtime.Receipt) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.listeners, ch)
	metricActiveSubscriptions().Set(int64(len(d.listeners)))
}

func (d *dispatcher) DispatchLoop(done <-chan struct{}) {
	ch := make(chan *runtime.Receipt, 16)
	sub := d.rt.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	for {
		select {
		case receipt := <-ch:
			d.mu.RLock()
			for lsn := range d.listeners {
				select {
				case lsn <- receipt:
				default: // listener is full, drop
				}
			}
			d.mu.RUnlock()
		case <-sub.Err():
			return
		case <-done:
			return
		}
	}
}
