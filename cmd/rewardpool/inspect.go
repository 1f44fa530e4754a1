// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/rewardpool/api/pool"
	"github.com/vechain/rewardpool/kv"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/metric"
	"github.com/vechain/rewardpool/rewards"
	"github.com/vechain/rewardpool/rewards/currency"
	"github.com/vechain/rewardpool/rewards/events"
	"github.com/vechain/rewardpool/rewards/storage"
	"github.com/vechain/rewardpool/types"
)

// Snapshot is the output of the inspect command.
type Snapshot struct {
	Pool         *pool.Summary       `json:"pool"`
	Participants []*pool.Participant `json:"participants"`
}

func inspectAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return errors.WithMessage(err, "init logger")
	}
	gene, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	return inspect(store, gene.Custody, os.Stdout)
}

// inspect writes the pool state held by store as indented JSON.
func inspect(store kv.Store, custody types.Address, w io.Writer) error {
	repo, err := storage.New(store, 0)
	if err != nil {
		return err
	}
	engine, err := rewards.New(repo, currency.NewBank(store), events.Discard, custody)
	if err != nil {
		return err
	}

	ledger, err := engine.Pool()
	if err != nil {
		return err
	}
	snapshot := Snapshot{
		Pool:         pool.ConvertSummary(engine.Custody(), ledger),
		Participants: make([]*pool.Participant, 0, engine.ParticipantCount()),
	}
	if err := engine.Participants(func(p *rewards.Participant) bool {
		snapshot.Participants = append(snapshot.Participants, pool.ConvertParticipant(p))
		return true
	}); err != nil {
		return err
	}

	cw := &metric.CountingWriter{W: w}
	enc := json.NewEncoder(cw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return err
	}
	log.Debug("snapshot written", "participants", len(snapshot.Participants), "size", cw.Size)
	return nil
}
