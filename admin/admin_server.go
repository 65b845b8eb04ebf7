// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/govledger/vstake/health"
)

func logLevelHandler(logLevel *slog.LevelVar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getLogLevelHandler(logLevel).ServeHTTP(w, r)
		case http.MethodPost:
			postLogLevelHandler(logLevel).ServeHTTP(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

// HTTPHandler serves the admin endpoints under /admin.
func HTTPHandler(logLevel *slog.LevelVar, logRequests *atomic.Bool, hlth *health.Health) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/admin/loglevel", logLevelHandler(logLevel))
	router.HandleFunc("/admin/apilogs", getRequestLoggerHandler(logRequests)).Methods(http.MethodGet)
	router.HandleFunc("/admin/apilogs", postRequestLoggerHandler(logRequests)).Methods(http.MethodPost)
	router.HandleFunc("/admin/health", healthHandler(hlth)).Methods(http.MethodGet)
	return handlers.CompressHandler(router)
}
