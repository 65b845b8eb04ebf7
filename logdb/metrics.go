// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"strings"

	"github.com/govledger/vstake/metrics"
)

var (
	metricEventQueryParameters = metrics.LazyLoadCounterVec("logdb_query_parameters", []string{"parameters"})
	metricQueryOrderCounter    = metrics.LazyLoadCounterVec("logdb_query_order", []string{"order"})
	metricLimitBucket          = metrics.LazyLoadHistogram("logdb_query_limit_bucket", []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleEventsFilter(filter *EventFilter) {
	if metrics.NoOp() {
		return
	}

	paramsUsed := make([]string, 0, 4)
	if filter.Range != nil {
		paramsUsed = append(paramsUsed, "range")
	}
	if filter.Address != nil {
		paramsUsed = append(paramsUsed, "address")
	}
	if filter.Name != "" {
		paramsUsed = append(paramsUsed, "name")
	}
	if filter.Account != nil {
		paramsUsed = append(paramsUsed, "account")
	}
	metricEventQueryParameters().AddWithLabel(1, map[string]string{"parameters": strings.Join(paramsUsed, ",")})

	order := string(ASC)
	if filter.Order == DESC {
		order = string(DESC)
	}
	metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": order})

	if filter.Options != nil {
		metricLimitBucket().Observe(int64(min(filter.Options.Limit, 1001)))
	}
}
