// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"

	"github.com/govledger/vstake/runtime"
)

type LastCall struct {
	Number     uint32     `json:"number"`
	Time       uint64     `json:"time"`
	ObservedAt *time.Time `json:"observedAt"`
}

type Status struct {
	Healthy     bool      `json:"healthy"`
	LastCall    *LastCall `json:"lastCall"`
	ClockOffset *string   `json:"clockOffset"`
}

// Health reports the liveness of a running ledger.
// It is unhealthy while the measured clock offset exceeds the tolerance.
type Health struct {
	lock        sync.RWMutex
	tolerance   time.Duration
	lastCall    *LastCall
	clockOffset *time.Duration
}

func New(tolerance time.Duration) *Health {
	return &Health{tolerance: tolerance}
}

// NewCall records a committed call.
func (h *Health) NewCall(number uint32, callTime uint64) {
	h.lock.Lock()
	defer h.lock.Unlock()

	now := time.Now()
	h.lastCall = &LastCall{Number: number, Time: callTime, ObservedAt: &now}
}

// ClockOffset records the latest measured offset of the local clock.
func (h *Health) ClockOffset(offset time.Duration) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.clockOffset = &offset
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	status := &Status{Healthy: true}
	if h.lastCall != nil {
		last := *h.lastCall
		status.LastCall = &last
	}
	if h.clockOffset != nil {
		offset := h.clockOffset.String()
		status.ClockOffset = &offset
		status.Healthy = h.clockOffset.Abs() <= h.tolerance
	}
	return status
}

// Track feeds receipts of rt into h until ctx is done.
func (h *Health) Track(ctx context.Context, rt *runtime.Runtime) error {
	ch := make(chan *runtime.Receipt, 16)
	sub := rt.SubscribeReceipts(ch)
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-sub.Err():
			return err
		case receipt := <-ch:
			h.NewCall(receipt.CallNumber, receipt.Time)
		}
	}
}
