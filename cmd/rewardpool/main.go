// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/rewardpool/api"
	"github.com/vechain/rewardpool/auditdb"
	"github.com/vechain/rewardpool/cmd/rewardpool/httpserver"
	"github.com/vechain/rewardpool/co"
	"github.com/vechain/rewardpool/health"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/metrics"
	"github.com/vechain/rewardpool/rewards"
	"github.com/vechain/rewardpool/rewards/currency"
	"github.com/vechain/rewardpool/rewards/events"
	"github.com/vechain/rewardpool/rewards/storage"
)

var (
	version       string
	gitCommit     string
	gitTag        string
	copyrightYear string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("RewardPool/%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "rewardpool",
		Usage:     "Staking reward pool service",
		Copyright: fmt.Sprintf("2025-%s VeChain Foundation <https://vechain.org/>", copyrightYear),
		Flags: []cli.Flag{
			dataDirFlag,
			dbBackendFlag,
			persistFlag,
			configFlag,
			cacheFlag,
			dbCacheFlag,
			disableNTPCheckFlag,
			eventQueueFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "inspect",
				Usage: "print pool totals and participants as JSON",
				Flags: []cli.Flag{
					dataDirFlag,
					dbBackendFlag,
					dbCacheFlag,
					configFlag,
					verbosityFlag,
				},
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	defer func() { log.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return errors.WithMessage(err, "init logger")
	}
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := loadGenesis(ctx)
	if err != nil {
		return err
	}

	store, auditDB, dataDir, err := openDatabases(ctx)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing pool database..."); store.Close() }()
	defer func() { log.Info("closing audit database..."); auditDB.Close() }()

	bank := currency.NewBank(store)
	seeded, err := bank.Seed(gene)
	if err != nil {
		return errors.WithMessage(err, "seed bank")
	}

	repo, err := storage.New(store, ctx.Int(cacheFlag.Name))
	if err != nil {
		return err
	}

	feed := events.NewFeed(ctx.Int(eventQueueFlag.Name))
	defer func() { log.Info("stopping event feed..."); feed.Close() }()

	var goes co.Goes
	recorderCtx, stopRecorder := context.WithCancel(context.Background())
	defer func() {
		log.Info("stopping audit recorder...")
		stopRecorder()
		goes.Wait()
	}()
	recorder := auditDB.NewRecorder(feed)
	goes.Go(func() { recorder.Run(recorderCtx) })

	engine, err := rewards.New(repo, bank, feed, gene.Custody)
	if err != nil {
		return err
	}

	if !ctx.Bool(disableNTPCheckFlag.Name) {
		goes.Go(checkClockOffset)
	}

	poolHealth := newHealth(recorderCtx, engine, auditDB, feed, &goes)

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	apiHandler, apiCloser := api.New(engine, bank, auditDB, feed, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
	})
	defer func() { log.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser, err := httpserver.StartAPIServer(
		ctx.String(apiAddrFlag.Name),
		apiHandler,
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}
	defer func() { log.Info("stopping API server..."); srvCloser() }()

	if ctx.Bool(enableMetricsFlag.Name) {
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return fmt.Errorf("unable to start metrics server - %w", err)
		}
		log.Info("metrics server started", "url", url)
		defer func() { log.Info("stopping metrics server..."); closeFunc() }()
	}

	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, poolHealth)
		if err != nil {
			return fmt.Errorf("unable to start admin server - %w", err)
		}
		log.Info("admin server started", "url", url)
		defer func() { log.Info("stopping admin server..."); closeFunc() }()
	}

	printStartupMessage(engine.Custody(), seeded, engine.ParticipantCount(), dataDir, apiURL)

	<-exitSignal.Done()
	return nil
}

// newHealth wires the store and audit db probes, and follows pool actions through the feed until ctx is done.
func newHealth(ctx context.Context, engine *rewards.Engine, auditDB *auditdb.AuditDB, feed *events.Feed, goes *co.Goes) *health.Health {
	h := health.New()
	h.AddProbe("store", func() error {
		_, err := engine.Pool()
		return err
	})
	h.AddProbe("auditdb", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		return auditDB.Ping(pingCtx)
	})

	ch := make(chan *events.Event, 16)
	sub := feed.Subscribe(ch)
	goes.Go(func() {
		defer sub.Unsubscribe()
		for {
			select {
			case ev := <-ch:
				h.NewAction(ev.Kind.String(), time.Unix(int64(ev.Timestamp), 0))
			case <-sub.Err():
				return
			case <-ctx.Done():
				return
			}
		}
	})
	return h
}
