// Package boltcache is a durable backing store for bookmarks and
// last-known routing tables, grounded on the teacher's
// internal/repository/dbConnection.go: a single sqlx.DB opened against
// mattn/go-sqlite3, with SetMaxOpenConns(1) since sqlite does not
// usefully multiplex writers. Unlike the teacher's repository, there is
// no connection singleton here — a driver embedding this cache may
// want more than one (e.g. one per target database).
package boltcache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS bookmarks (
	db        TEXT NOT NULL,
	bookmark  TEXT NOT NULL,
	seen_at   DATETIME NOT NULL,
	PRIMARY KEY (db, bookmark)
);
CREATE TABLE IF NOT EXISTS routing_tables (
	db         TEXT NOT NULL,
	imp_user   TEXT NOT NULL,
	routers    TEXT NOT NULL,
	readers    TEXT NOT NULL,
	writers    TEXT NOT NULL,
	expires_at DATETIME NOT NULL,
	PRIMARY KEY (db, imp_user)
);`

// Store wraps a sqlite-backed sqlx.DB holding bookmarks and the
// last-resolved routing table per database.
type Store struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the sqlite file at path and applies
// the schema.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", path))
	if err != nil {
		return nil, fmt.Errorf("boltcache: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("boltcache: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// SaveBookmark records bookmark as having been observed for db at now.
func (s *Store) SaveBookmark(db, bookmark string, now time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO bookmarks (db, bookmark, seen_at) VALUES (?, ?, ?)
		 ON CONFLICT(db, bookmark) DO UPDATE SET seen_at = excluded.seen_at`,
		db, bookmark, now)
	if err != nil {
		return fmt.Errorf("boltcache: save bookmark: %w", err)
	}
	return nil
}

// Bookmarks returns every bookmark on record for db.
func (s *Store) Bookmarks(db string) ([]string, error) {
	var out []string
	if err := s.db.Select(&out, `SELECT bookmark FROM bookmarks WHERE db = ? ORDER BY seen_at`, db); err != nil {
		return nil, fmt.Errorf("boltcache: load bookmarks: %w", err)
	}
	return out, nil
}

// routingTableRow is the flat, column-per-role-list persisted shape of
// a boltrouting.RoutingTable (addresses joined with ",").
type routingTableRow struct {
	Routers   string    `db:"routers"`
	Readers   string    `db:"readers"`
	Writers   string    `db:"writers"`
	ExpiresAt time.Time `db:"expires_at"`
}

// SaveRoutingTable persists a resolved routing table, keyed by
// (db, impUser), replacing any prior entry.
func (s *Store) SaveRoutingTable(db, impUser string, routers, readers, writers []string, expiresAt time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO routing_tables (db, imp_user, routers, readers, writers, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(db, imp_user) DO UPDATE SET
		   routers = excluded.routers, readers = excluded.readers,
		   writers = excluded.writers, expires_at = excluded.expires_at`,
		db, impUser, joinAddrs(routers), joinAddrs(readers), joinAddrs(writers), expiresAt)
	if err != nil {
		return fmt.Errorf("boltcache: save routing table: %w", err)
	}
	return nil
}

// LoadRoutingTable returns the persisted routing table for (db,
// impUser), or ok=false if none is on record.
func (s *Store) LoadRoutingTable(db, impUser string) (routers, readers, writers []string, expiresAt time.Time, ok bool, err error) {
	var row routingTableRow
	selErr := s.db.Get(&row, `SELECT routers, readers, writers, expires_at FROM routing_tables WHERE db = ? AND imp_user = ?`, db, impUser)
	if selErr != nil {
		if errors.Is(selErr, sql.ErrNoRows) {
			return nil, nil, nil, time.Time{}, false, nil
		}
		return nil, nil, nil, time.Time{}, false, fmt.Errorf("boltcache: load routing table: %w", selErr)
	}
	return splitAddrs(row.Routers), splitAddrs(row.Readers), splitAddrs(row.Writers), row.ExpiresAt, true, nil
}

func joinAddrs(addrs []string) string {
	out := ""
	for i, a := range addrs {
		if i > 0 {
			out += ","
		}
		out += a
	}
	return out
}

func splitAddrs(joined string) []string {
	if joined == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(joined); i++ {
		if i == len(joined) || joined[i] == ',' {
			out = append(out, joined[start:i])
			start = i + 1
		}
	}
	return out
}
