// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"time"

	"github.com/govledger/vstake/builtin/reverts"
	"github.com/govledger/vstake/metrics"
)

const (
	statusOK       = "ok"
	statusReverted = "reverted"
	statusError    = "error"
)

var (
	metricCallCount    = metrics.LazyLoadCounterVec("runtime_calls_count", []string{"method", "status"})
	metricCallDuration = metrics.LazyLoadHistogramVec("runtime_call_duration_us", []string{"method"}, metrics.BucketCallMicros)
)

func statusOf(err error) string {
	if reverts.IsRevertErr(err) {
		return statusReverted
	}
	return statusError
}

func observeCall(method, status string, start time.Time) {
	metricCallCount().AddWithLabel(1, map[string]string{"method": method, "status": status})
	metricCallDuration().ObserveWithLabels(time.Since(start).Microseconds(), map[string]string{"method": method})
}
