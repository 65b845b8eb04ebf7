// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/govledger/vstake/api/events"
	"github.com/govledger/vstake/api/staking"
	"github.com/govledger/vstake/api/subscriptions"
	"github.com/govledger/vstake/api/token"
	"github.com/govledger/vstake/logdb"
	"github.com/govledger/vstake/runtime"
)

var logger = log.New("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EnableReqLogger *atomic.Bool // toggled at runtime by the admin server
	EnableMetrics   bool
	LogsLimit       uint64
	// DevMode mounts write endpoints which act on behalf of any caller named in the request.
	DevMode bool
}

// New return api router and a func closing the subscriptions.
func New(rt *runtime.Runtime, logDB *logdb.LogDB, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	staking.New(rt, opts.DevMode).
		Mount(router, "/staking")
	token.New(rt, token.Base, opts.DevMode).
		Mount(router, "/token")
	if !rt.Contracts().SameRewardToken() {
		token.New(rt, token.Reward, opts.DevMode).
			Mount(router, "/reward-token")
	}
	if logDB != nil {
		events.New(logDB, opts.LogsLimit).
			Mount(router, "/events")
	}

	subs := subscriptions.New(rt, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = RequestLoggerHandler(handler, logger, opts.EnableReqLogger)
	}

	return handler.ServeHTTP, subs.Close // hijacked conns are not closed by the http server
}
