// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock supplies the call time, in unix seconds, handed to the staking contract.
package clock

import (
	"sync"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
)

var logger = log.New("pkg", "clock")

// DefaultNTPServer is queried by CheckOffset when no server is given.
const DefaultNTPServer = "pool.ntp.org"

// Clock returns the current time in unix seconds.
type Clock interface {
	Now() uint64
}

// System follows the wall clock but never goes backwards.
type System struct {
	mu   sync.Mutex
	last uint64
	now  func() time.Time
}

func NewSystem() *System {
	return &System{now: time.Now}
}

func (s *System) Now() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := uint64(s.now().Unix())
	if now < s.last {
		logger.Debug("wall clock moved backwards", "last", s.last, "now", now)
		return s.last
	}
	s.last = now
	return now
}

// Manual is a clock advanced explicitly, for tests and tooling.
type Manual struct {
	mu  sync.Mutex
	now uint64
}

func NewManual(start uint64) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d seconds and returns the new time.
func (m *Manual) Advance(d uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += d
	return m.now
}

// Set moves the clock to t. Earlier times are ignored.
func (m *Manual) Set(t uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t > m.now {
		m.now = t
	}
}

var queryNTP = ntp.Query

// CheckOffset queries server and warns when the local clock is off by more than tolerance.
// It returns the measured offset.
func CheckOffset(server string, tolerance time.Duration) (time.Duration, error) {
	if server == "" {
		server = DefaultNTPServer
	}
	resp, err := queryNTP(server)
	if err != nil {
		logger.Debug("failed to access NTP", "server", server, "err", err)
		return 0, err
	}
	offset := resp.ClockOffset
	if offset.Abs() > tolerance {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(offset))
	}
	return offset, nil
}
