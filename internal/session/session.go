// Package session is a thin synchronous façade over internal/boltconn,
// sequencing BEGIN/RUN/PULL/COMMIT/ROLLBACK the way
// client_example_session.cpp drives a single connection through a
// fixed script of requests. Kept deliberately small: it does not retry,
// route, or pool — those are boltrouting/boltpool's job, composed on
// top by a caller.
package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nexusgraph/bolt-go/internal/boltconn"
	"github.com/nexusgraph/bolt-go/pkg/bolt/messages"
	"github.com/nexusgraph/bolt-go/pkg/packstream"
)

// Logger is the optional collaborator correlation-id log lines are
// written through.
type Logger interface {
	Debug(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}

// Record is one RECORD's field values, collected in query order.
type Record struct {
	Fields []packstream.Value
}

// Result is the outcome of a completed query: its records and the
// SUCCESS summary's metadata (the server's query-plan/counters/bookmark
// metadata, left as a raw map since its shape is query-kind-specific).
type Result struct {
	Records  []Record
	Metadata map[string]packstream.Value
}

// Session wraps a READY *boltconn.Conn with auto-commit and explicit
// transaction helpers. Not safe for concurrent use, matching Conn's own
// single-owner contract.
type Session struct {
	conn *boltconn.Conn
	log  Logger
	db   string
}

// New wraps an already-authenticated, READY conn. db selects the
// target database on every RUN/BEGIN (empty means the server default).
func New(conn *boltconn.Conn, db string, log Logger) *Session {
	if log == nil {
		log = noopLogger{}
	}
	return &Session{conn: conn, db: db, log: log}
}

func (s *Session) correlationID() string { return uuid.NewString() }

// Run executes query in auto-commit mode: RUN followed by PULL ALL,
// returning every record together with the PULL's summary metadata
// (the RUN's own summary is not returned).
func (s *Session) Run(query string, params map[string]packstream.Value) (Result, error) {
	cid := s.correlationID()
	s.log.Debug("session run", "cid", cid, "query", query)

	runVal, err := messages.SerializeRun(messages.RunParams{
		Query:      query,
		Parameters: params,
		Extra:      messages.TxExtra{Db: s.db},
	}, s.conn.Version())
	if err != nil {
		return Result{}, fmt.Errorf("session: serialize RUN: %w", err)
	}

	if _, err := s.conn.SendRequestReceiveSummary(runVal); err != nil {
		return Result{}, fmt.Errorf("session: RUN: %w", err)
	}

	pullVal := messages.SerializePull(messages.StreamExtra{N: -1}, s.conn.Version())
	var records []Record
	sp, err := s.conn.SendRequestReceiveStream(pullVal, func(fields []packstream.Value) error {
		records = append(records, Record{Fields: fields})
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("session: PULL: %w", err)
	}

	return Result{Records: records, Metadata: sp.Metadata}, nil
}

// Transaction is an explicit BEGIN…COMMIT/ROLLBACK unit of work bound
// to the same Session's connection.
type Transaction struct {
	sess *Session
	done bool
}

// Begin sends BEGIN and returns a Transaction handle for further
// Run/Commit/Rollback calls.
func (s *Session) Begin() (*Transaction, error) {
	beginVal := messages.SerializeBegin(messages.BeginParams{Extra: messages.TxExtra{Db: s.db}}, s.conn.Version())
	if _, err := s.conn.SendRequestReceiveSummary(beginVal); err != nil {
		return nil, fmt.Errorf("session: BEGIN: %w", err)
	}
	return &Transaction{sess: s}, nil
}

// Run executes query within the open transaction, in the same
// RUN+PULL ALL shape as Session.Run.
func (t *Transaction) Run(query string, params map[string]packstream.Value) (Result, error) {
	if t.done {
		return Result{}, fmt.Errorf("session: transaction already closed")
	}
	return t.sess.Run(query, params)
}

// Commit sends COMMIT, closing the transaction.
func (t *Transaction) Commit() error {
	if t.done {
		return fmt.Errorf("session: transaction already closed")
	}
	t.done = true
	val := messages.SerializeCommit(t.sess.conn.Version())
	if _, err := t.sess.conn.SendRequestReceiveSummary(val); err != nil {
		return fmt.Errorf("session: COMMIT: %w", err)
	}
	return nil
}

// Rollback sends ROLLBACK, closing the transaction.
func (t *Transaction) Rollback() error {
	if t.done {
		return fmt.Errorf("session: transaction already closed")
	}
	t.done = true
	val := messages.SerializeRollback(t.sess.conn.Version())
	if _, err := t.sess.conn.SendRequestReceiveSummary(val); err != nil {
		return fmt.Errorf("session: ROLLBACK: %w", err)
	}
	return nil
}

// Close sends GOODBYE and closes the underlying connection.
func (s *Session) Close() error {
	return s.conn.SendGoodbye()
}
