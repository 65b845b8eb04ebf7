// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/govledger/vstake/api"
	"github.com/govledger/vstake/clock"
	"github.com/govledger/vstake/genesis"
	"github.com/govledger/vstake/health"
	"github.com/govledger/vstake/metrics"
	"github.com/govledger/vstake/runtime"
	"github.com/govledger/vstake/state"
	"github.com/govledger/vstake/vstake"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

const clockTolerance = 5 * time.Second

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "vstake",
		Usage:   "Governance staking ledger",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			persistFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiLogsLimitFlag,
			apiDevFlag,
			enableAPILogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			verbosityFlag,
			ntpServerFlag,
			lruSizeFlag,
			cacheFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:   "dev-accounts",
				Usage:  "print the pre-funded accounts of the dev genesis",
				Action: devAccountsAction,
			},
			{
				Name:  "export-events",
				Usage: "dump the persisted events as json lines",
				Flags: []cli.Flag{
					dataDirFlag,
					genesisFlag,
					outFlag,
					verbosityFlag,
				},
				Action: exportEventsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	logLevel := initLogger(ctx)
	defer func() { log.Info("exited") }()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}

	mainDB, logDB, instanceDir, err := openDatabases(ctx, gene)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing log database..."); logDB.Close() }()
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	stater, err := state.NewStater(mainDB, ctx.Int(lruSizeFlag.Name))
	if err != nil {
		return err
	}
	rt, err := runtime.New(stater, logDB, clock.NewSystem(), gene)
	if err != nil {
		return err
	}

	exitCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(exitCtx)

	hlth := health.New(clockTolerance)
	g.Go(func() error { return hlth.Track(gctx, rt) })
	if server := ctx.String(ntpServerFlag.Name); server != "" {
		go func() {
			if offset, err := clock.CheckOffset(server, clockTolerance); err == nil {
				hlth.ClockOffset(offset)
			}
		}()
	}

	var logRequests atomic.Bool
	logRequests.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler, closeSubs := api.New(rt, logDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EnableReqLogger: &logRequests,
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		DevMode:         ctx.Bool(apiDevFlag.Name),
	})
	defer closeSubs()
	apiURL, err := serve(gctx, g, ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		if metricsURL, err = serve(gctx, g, ctx.String(metricsAddrFlag.Name), metricsHandler()); err != nil {
			return err
		}
		metricsURL += "/metrics"
	}

	adminURL := ""
	if ctx.Bool(enableAdminFlag.Name) {
		if adminURL, err = serve(gctx, g, ctx.String(adminAddrFlag.Name), adminHandler(logLevel, &logRequests, hlth)); err != nil {
			return err
		}
		adminURL += "/admin"
	}

	printStartupMessage(gene, rt, instanceDir, apiURL, metricsURL, adminURL)
	return g.Wait()
}

func devAccountsAction(*cli.Context) error {
	fmt.Printf("each account holds %s tokens on devnet\n", vstake.FormatTokens(genesis.DevAllocation))
	for i, acc := range genesis.DevAccounts() {
		role := ""
		if i == 0 {
			role = " (operator)"
		}
		fmt.Printf("%d: %v%s\n", i, acc, role)
	}
	return nil
}
