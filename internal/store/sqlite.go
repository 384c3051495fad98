package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store is an append-only journal of quote updates. The dashboard never reads
// it back on startup.
type Store struct {
	db      *sqlx.DB
	session string
}

type QuoteRecord struct {
	ID            int64   `db:"id" json:"id"`
	Session       string  `db:"session_id" json:"session_id"`
	TS            int64   `db:"ts" json:"ts"`
	Symbol        string  `db:"symbol" json:"symbol"`
	Name          string  `db:"name" json:"name"`
	Price         float64 `db:"price" json:"price"`
	PreviousClose float64 `db:"previous_close" json:"previous_close"`
	CreatedAt     string  `db:"created_at" json:"created_at"`
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("journal path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer goroutine; a single connection keeps pragmas in effect
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=3000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &Store{db: db, session: uuid.NewString()}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Session identifies the rows written by this process.
func (s *Store) Session() string {
	if s == nil {
		return ""
	}
	return s.session
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quote_journal (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			ts INTEGER NOT NULL,
			symbol TEXT NOT NULL,
			name TEXT,
			price REAL,
			previous_close REAL,
			created_at TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quote_journal_symbol_ts ON quote_journal(symbol, ts);`,
		`CREATE INDEX IF NOT EXISTS idx_quote_journal_session ON quote_journal(session_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *Store) InsertQuote(q QuoteRecord) error {
	if s == nil || s.db == nil {
		return nil
	}
	if q.Session == "" {
		q.Session = s.session
	}
	if q.TS == 0 {
		q.TS = time.Now().Unix()
	}
	if q.CreatedAt == "" {
		q.CreatedAt = time.Now().Format(time.RFC3339)
	}
	_, err := s.db.NamedExec(
		`INSERT INTO quote_journal (session_id, ts, symbol, name, price, previous_close, created_at)
		 VALUES (:session_id, :ts, :symbol, :name, :price, :previous_close, :created_at)`,
		q,
	)
	if err != nil {
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

func (s *Store) QueryQuotes(symbol string, limit int) ([]QuoteRecord, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	if limit <= 0 {
		limit = 200
	}
	if limit > 1000 {
		limit = 1000
	}
	var out []QuoteRecord
	err := s.db.Select(&out,
		`SELECT id, session_id, ts, symbol, name, price, previous_close, created_at
		FROM quote_journal WHERE symbol = ?
		ORDER BY ts DESC, id DESC LIMIT ?`,
		symbol, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	return out, nil
}
