// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/rewardpool/auditdb"
	"github.com/vechain/rewardpool/boltdb"
	"github.com/vechain/rewardpool/kv"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/metric"
	"github.com/vechain/rewardpool/rewards/currency"
	"github.com/vechain/rewardpool/types"
)

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	logLevel := new(slog.LevelVar)
	logLevel.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	format := log.FormatTerminal
	if ctx.Bool(jsonLogsFlag.Name) {
		format = log.FormatJSON
	}
	handler, err := log.NewHandler(os.Stderr, format, logLevel)
	if err != nil {
		return nil, err
	}
	log.SetDefault(log.NewLogger(handler))
	return logLevel, nil
}

func loadGenesis(ctx *cli.Context) (*currency.Genesis, error) {
	path := ctx.String(configFlag.Name)
	if path == "" {
		return currency.DefaultGenesis(), nil
	}
	gene, err := currency.LoadGenesis(path)
	if err != nil {
		return nil, errors.WithMessage(err, configFlag.Name)
	}
	return gene, nil
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

// openStore opens the configured kv backend under dataDir.
func openStore(ctx *cli.Context, dataDir string) (kv.StoreCloser, error) {
	switch backend := ctx.String(dbBackendFlag.Name); backend {
	case "leveldb":
		cacheMB := normalizeCacheSize(ctx.Int(dbCacheFlag.Name))
		fdCache, err := suggestFDCache()
		if err != nil {
			return nil, err
		}
		log.Debug("leveldb options", "cache", metric.MB(cacheMB), "fdCache", fdCache)

		dir := filepath.Join(dataDir, "pool.db")
		db, err := lvldb.New(dir, lvldb.Options{CacheSize: cacheMB, OpenFilesCacheCapacity: fdCache})
		if err != nil {
			return nil, errors.Wrapf(err, "open pool database [%v]", dir)
		}
		return db, nil
	case "bolt":
		path := filepath.Join(dataDir, "pool.bolt")
		db, err := boltdb.New(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open pool database [%v]", path)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown db backend %q, use leveldb or bolt", backend)
	}
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			log.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() (int, error) {
	limit, err := fdlimit.Current()
	if err != nil {
		return 0, errors.Wrap(err, "get fd limit")
	}
	if limit <= 1024 {
		log.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 1024 {
		return 1024, nil
	}
	return n, nil
}

// event timestamps come from the local clock
const maxClockOffset = time.Second

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		log.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		log.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

func openAuditDB(dataDir string) (*auditdb.AuditDB, error) {
	path := filepath.Join(dataDir, "audit.db")
	db, err := auditdb.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open audit database [%v]", path)
	}
	return db, nil
}

// openDatabases opens the pool store and audit db, on disk when persist is set, in memory otherwise.
// The returned string describes where the data lives.
func openDatabases(ctx *cli.Context) (kv.StoreCloser, *auditdb.AuditDB, string, error) {
	if !ctx.Bool(persistFlag.Name) {
		store, err := lvldb.NewMem()
		if err != nil {
			return nil, nil, "", err
		}
		audit, err := auditdb.NewMem()
		if err != nil {
			store.Close()
			return nil, nil, "", err
		}
		return store, audit, "Memory", nil
	}

	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return nil, nil, "", err
	}
	store, err := openStore(ctx, dataDir)
	if err != nil {
		return nil, nil, "", err
	}
	audit, err := openAuditDB(dataDir)
	if err != nil {
		store.Close()
		return nil, nil, "", err
	}
	return store, audit, dataDir, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printStartupMessage(custody types.Address, seeded bool, participants int, dataDir, apiURL string) {
	fmt.Printf(`Starting %v
    Custody      [ %v ]
    Genesis      [ %v ]
    Participants [ %v ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Started at   [ %v ]
`,
		fullVersion(),
		custody,
		func() string {
			if seeded {
				return "applied"
			}
			return "already applied"
		}(),
		participants,
		dataDir,
		apiURL,
		time.Now().Format(time.RFC3339))
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".org.vechain.rewardpool")
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
