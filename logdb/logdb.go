// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb persists the events of committed calls in sqlite for later filtering.
package logdb

import (
	"context"
	"database/sql"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/govledger/vstake/event"
	"github.com/govledger/vstake/vstake"
)

const (
	insertEventQuery = "INSERT OR REPLACE INTO event(seq, callTime, caller, method, address, name, topic0, topic1, topic2, data) VALUES(?,?,?,?,?,?,?,?,?,?)"
	selectEventQuery = "SELECT seq, callTime, caller, method, address, name, topic0, topic1, topic2, data FROM event"
)

type LogDB struct {
	path          string
	driverVersion string
	db            *sql.DB
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (*LogDB, error) {
	return open(path, path+"?_journal_mode=WAL&_busy_timeout=5000", 0)
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	// every connection to :memory: is a distinct database, so keep a single one
	return open(":memory:", ":memory:", 1)
}

func open(path, dsn string, maxConns int) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		driverVersion: driverVer,
		db:            db,
		stmtCache:     newStmtCache(db),
	}, nil
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// NewestCallNumber returns the number of the newest call having events written.
// The second return value is false when the db is empty.
func (db *LogDB) NewestCallNumber() (uint32, bool, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRow("SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, false, err
	}
	if !seq.Valid {
		return 0, false, nil
	}
	return sequence(seq.Int64).CallNumber(), true, nil
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, selectEventQuery+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var (
		args       []any
		conditions []string
	)
	if filter.Range != nil {
		conditions = append(conditions, "callTime >= ?")
		args = append(args, filter.Range.From)
		if filter.Range.To >= filter.Range.From {
			conditions = append(conditions, "callTime <= ?")
			args = append(args, filter.Range.To)
		}
	}
	if filter.Address != nil {
		conditions = append(conditions, "address = ?")
		args = append(args, filter.Address.Bytes())
	}
	if filter.Name != "" {
		conditions = append(conditions, "name = ?")
		args = append(args, filter.Name)
	}
	if filter.Account != nil {
		conditions = append(conditions, "(topic0 = ? OR topic1 = ? OR topic2 = ?)")
		acc := filter.Account.Bytes()
		args = append(args, acc, acc, acc)
	}

	var b strings.Builder
	b.WriteString(selectEventQuery)
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
	if filter.Order == DESC {
		b.WriteString(" ORDER BY seq DESC")
	} else {
		b.WriteString(" ORDER BY seq ASC")
	}
	if filter.Options != nil {
		b.WriteString(" LIMIT ?, ?")
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, b.String(), args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			seq      int64
			callTime uint64
			caller   []byte
			method   string
			address  []byte
			name     string
			topics   [event.MaxTopics][]byte
			data     []byte
		)
		if err := rows.Scan(&seq, &callTime, &caller, &method, &address, &name, &topics[0], &topics[1], &topics[2], &data); err != nil {
			return nil, err
		}
		ev := &Event{
			CallNumber: sequence(seq).CallNumber(),
			Index:      sequence(seq).Index(),
			CallTime:   callTime,
			Caller:     vstake.BytesToAddress(caller),
			Method:     method,
			Address:    vstake.BytesToAddress(address),
			Name:       name,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				addr := vstake.BytesToAddress(topic)
				ev.Topics[i] = &addr
			}
		}
		if len(data) > 0 {
			if err := rlp.DecodeBytes(data, &ev.Data); err != nil {
				return nil, errors.Wrap(err, "decode event data")
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// NewWriter creates a writer batching events into one sqlite transaction.
func (db *LogDB) NewWriter() *Writer {
	return &Writer{db: db}
}

// Writer is not safe for concurrent use.
type Writer struct {
	db          *LogDB
	tx          *sql.Tx
	stmt        *sql.Stmt
	uncommitted int
}

// Write appends the events emitted by call.
func (w *Writer) Write(call *Call, events event.Events) error {
	if len(events) == 0 {
		return nil
	}
	if w.tx == nil {
		tx, err := w.db.db.Begin()
		if err != nil {
			return err
		}
		// prepared on the tx, the in-memory db has only one connection
		stmt, err := tx.Prepare(insertEventQuery)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		w.tx, w.stmt = tx, stmt
	}
	for i, ev := range events {
		data, err := rlp.EncodeToBytes(ev.Data)
		if err != nil {
			return err
		}
		if _, err := w.stmt.Exec(
			int64(newSequence(call.Number, uint32(i))),
			call.Time,
			call.Caller.Bytes(),
			call.Method,
			ev.Address.Bytes(),
			ev.Name,
			topicValue(ev.Topics[0]),
			topicValue(ev.Topics[1]),
			topicValue(ev.Topics[2]),
			data,
		); err != nil {
			return err
		}
		w.uncommitted++
	}
	return nil
}

func (w *Writer) Commit() error {
	if w.tx == nil {
		return nil
	}
	err := w.tx.Commit()
	w.tx, w.stmt, w.uncommitted = nil, nil, 0
	return err
}

func (w *Writer) Rollback() error {
	if w.tx == nil {
		return nil
	}
	err := w.tx.Rollback()
	w.tx, w.stmt, w.uncommitted = nil, nil, 0
	return err
}

// UncommittedCount returns the count of written but uncommitted events.
func (w *Writer) UncommittedCount() int {
	return w.uncommitted
}

func topicValue(topic *vstake.Address) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}

// Amount returns the i-th data item of an event, zero when absent.
func (e *Event) Amount(i int) *big.Int {
	if i < 0 || i >= len(e.Data) || e.Data[i] == nil {
		return new(big.Int)
	}
	return e.Data[i]
}
