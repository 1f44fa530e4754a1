// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package auditdb keeps a queryable history of pool events in sqlite.
package auditdb

import (
	"context"
	"database/sql"

	"github.com/holiman/uint256"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/rewards/events"
	"github.com/vechain/rewardpool/types"
)

var logger = log.WithContext("pkg", "auditdb")

type AuditDB struct {
	path          string
	db            *sql.DB
	driverVersion string
}

// New create or open audit db at given path.
func New(path string) (auditDB *AuditDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open audit db")
	}
	defer func() {
		if auditDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps writes serialized and lets ":memory:" databases work
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create audit schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &AuditDB{
		path,
		db,
		driverVer,
	}, nil
}

// NewMem create an audit db in ram.
func NewMem() (*AuditDB, error) {
	return New(":memory:")
}

// Close close the audit db.
func (db *AuditDB) Close() error {
	return db.db.Close()
}

// Ping checks the database is still reachable.
func (db *AuditDB) Ping(ctx context.Context) error {
	return db.db.PingContext(ctx)
}

func (db *AuditDB) Path() string {
	return db.path
}

func (db *AuditDB) DriverVersion() string {
	return db.driverVersion
}

// Insert appends ev and returns its sequence number.
func (db *AuditDB) Insert(ctx context.Context, ev *events.Event) (uint64, error) {
	var who []byte
	if !ev.Who.IsZero() {
		who = ev.Who.Bytes()
	}
	var amount []byte
	if ev.Amount != nil {
		amount = ev.Amount.Bytes()
	}
	res, err := db.db.ExecContext(ctx,
		"INSERT INTO event(kind, who, amount, time) VALUES(?, ?, ?, ?)",
		uint8(ev.Kind), who, amount, ev.Timestamp)
	if err != nil {
		return 0, errors.Wrap(err, "insert event")
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(seq), nil
}

// Filter returns the records matching filter. A nil filter returns every record.
func (db *AuditDB) Filter(ctx context.Context, filter *Filter) ([]*Record, error) {
	if filter == nil {
		return db.query(ctx, "SELECT seq, kind, who, amount, time FROM event ORDER BY seq ASC")
	}
	var args []any
	stmt := "SELECT seq, kind, who, amount, time FROM event WHERE 1"
	if filter.Who != nil {
		args = append(args, filter.Who.Bytes())
		stmt += " AND who = ? "
	}
	if filter.Kind != nil {
		args = append(args, uint8(*filter.Kind))
		stmt += " AND kind = ? "
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC "
	} else {
		stmt += " ORDER BY seq ASC "
	}
	if filter.Limit > 0 {
		stmt += " limit ?, ? "
		args = append(args, filter.Offset, filter.Limit)
	}
	return db.query(ctx, stmt, args...)
}

func (db *AuditDB) query(ctx context.Context, stmt string, args ...any) ([]*Record, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq    uint64
			kind   uint8
			who    []byte
			amount []byte
			time   uint64
		)
		if err := rows.Scan(&seq, &kind, &who, &amount, &time); err != nil {
			return nil, err
		}
		records = append(records, &Record{
			Seq: seq,
			Event: events.Event{
				Kind:      events.Kind(kind),
				Who:       types.BytesToAddress(who),
				Amount:    new(uint256.Int).SetBytes(amount),
				Timestamp: time,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
