// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/govledger/vstake/admin"
	"github.com/govledger/vstake/genesis"
	"github.com/govledger/vstake/health"
	"github.com/govledger/vstake/logdb"
	"github.com/govledger/vstake/lvldb"
	"github.com/govledger/vstake/metrics"
	"github.com/govledger/vstake/runtime"
)

// initLogger installs the terminal logger and returns its level, adjustable at runtime.
func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := new(slog.LevelVar)
	logLevel.Set(log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name))))
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, logLevel, useColor)
	log.SetDefault(log.NewLogger(handler))
	return logLevel
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".vstake")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	return genesis.Load(path)
}

// openDatabases opens the ledger and event databases under data-dir/<genesis name>,
// or in memory unless persist is set.
func openDatabases(ctx *cli.Context, gene *genesis.Genesis) (*lvldb.LevelDB, *logdb.LogDB, string, error) {
	if !ctx.Bool(persistFlag.Name) {
		mainDB, err := lvldb.NewMem()
		if err != nil {
			return nil, nil, "", err
		}
		logDB, err := logdb.NewMem()
		if err != nil {
			mainDB.Close()
			return nil, nil, "", err
		}
		return mainDB, logDB, "Memory", nil
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, nil, "", errors.New("unable to infer default data dir, use -data-dir to specify")
	}
	instanceDir := filepath.Join(dataDir, gene.Name())
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return nil, nil, "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}

	cacheMB := ctx.Int(cacheFlag.Name)
	mainDB, err := lvldb.New(filepath.Join(instanceDir, "main.db"), lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, nil, "", errors.WithMessage(err, "open main database")
	}
	logDB, err := logdb.New(filepath.Join(instanceDir, "events.db"))
	if err != nil {
		mainDB.Close()
		return nil, nil, "", errors.WithMessage(err, "open log database")
	}
	return mainDB, logDB, instanceDir, nil
}

func metricsHandler() http.Handler {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return handlers.CompressHandler(router)
}

// serve listens on addr and serves handler until ctx is done.
func serve(ctx context.Context, g *errgroup.Group, addr string, handler http.Handler) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", errors.Wrapf(err, "listen addr [%v]", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	g.Go(func() error {
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return "http://" + listener.Addr().String(), nil
}

func adminHandler(logLevel *slog.LevelVar, logRequests *atomic.Bool, hlth *health.Health) http.Handler {
	router := mux.NewRouter()
	router.PathPrefix("/admin").Handler(admin.HTTPHandler(logLevel, logRequests, hlth))
	return router
}

func printStartupMessage(gene *genesis.Genesis, rt *runtime.Runtime, instanceDir, apiURL, metricsURL, adminURL string) {
	contracts := rt.Contracts()
	metricsInfo := "Disabled"
	if metricsURL != "" {
		metricsInfo = metricsURL
	}
	adminInfo := "Disabled"
	if adminURL != "" {
		adminInfo = adminURL
	}
	fmt.Printf(`Starting vstake   [ %v ]
    Network     [ %v ]
    Operator    [ %v ]
    Staking     [ %v ]
    Token       [ %v ]
    RewardToken [ %v ]
    Instance dir[ %v ]
    API portal  [ %v ]
    Metrics     [ %v ]
    Admin       [ %v ]
`,
		fullVersion(),
		gene.Name(),
		gene.Operator(),
		contracts.Staking,
		contracts.Token,
		contracts.RewardToken,
		instanceDir,
		apiURL,
		metricsInfo,
		adminInfo)
}
