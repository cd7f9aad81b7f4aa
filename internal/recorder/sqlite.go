package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists dashboard history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS view_history (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			days         INTEGER,
			points       INTEGER,
			last_close   REAL,
			ma_7         REAL,
			daily_return REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_view_ts ON view_history(timestamp)`,

		`CREATE TABLE IF NOT EXISTS compare_history (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol_a  TEXT NOT NULL,
			symbol_b  TEXT NOT NULL,
			days      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_compare_ts ON compare_history(timestamp)`,

		`CREATE TABLE IF NOT EXISTS refresh_history (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			source    TEXT,
			ok        INTEGER,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_ts ON refresh_history(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordView(evt *ViewEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := evt.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO view_history
		(timestamp, symbol, days, points, last_close, ma_7, daily_return)
		VALUES (?,?,?,?,?,?,?)`,
		at.UnixNano(), evt.Symbol, evt.Days, evt.Points,
		evt.LastClose, evt.MA7, evt.DailyReturn,
	)
	return err
}

func (r *SQLiteRecorder) RecordCompare(evt *CompareEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO compare_history
		(timestamp, symbol_a, symbol_b, days)
		VALUES (?,?,?,?)`,
		time.Now().UnixNano(), evt.SymbolA, evt.SymbolB, evt.Days,
	)
	return err
}

func (r *SQLiteRecorder) RecordRefresh(evt *RefreshEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO refresh_history
		(timestamp, source, ok, error)
		VALUES (?,?,?,?)`,
		time.Now().UnixNano(), evt.Source, evt.OK, evt.Error,
	)
	return err
}

// RecentViews returns up to limit views, newest first.
func (r *SQLiteRecorder) RecentViews(limit int) ([]ViewEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT timestamp, symbol, days, points, last_close, ma_7, daily_return
		FROM view_history ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}
	defer rows.Close()

	var views []ViewEvent
	for rows.Next() {
		var (
			v  ViewEvent
			ts int64
		)
		if err := rows.Scan(&ts, &v.Symbol, &v.Days, &v.Points, &v.LastClose, &v.MA7, &v.DailyReturn); err != nil {
			return nil, fmt.Errorf("scan view: %w", err)
		}
		v.At = time.Unix(0, ts)
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
