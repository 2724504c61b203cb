package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/worksonmyai/tourguide/internal/debug"
)

// defaultPollInterval is how often the sqlite adapter checks for revisions
// written by other processes.
const defaultPollInterval = 500 * time.Millisecond

// SQLite is a Store backed by a single-table sqlite database. Every write
// bumps a global revision; a background poll surfaces rows with revisions the
// adapter has not seen, which covers writes by other processes. The adapter's
// own writes advance the seen revision immediately, so they are only
// delivered synchronously, never re-delivered by the poll.
type SQLite struct {
	db *sql.DB

	mu       sync.Mutex
	lastRev  int64
	watchers map[int]ChangeFunc
	nextID   int

	done chan struct{}
}

// NewSQLite opens (creating if needed) a sqlite store at path.
func NewSQLite(path string) (*SQLite, error) {
	return NewSQLiteWithPoll(path, defaultPollInterval)
}

// NewSQLiteWithPoll opens a sqlite store with an explicit poll interval.
// interval <= 0 disables external-change polling.
func NewSQLiteWithPoll(path string, interval time.Duration) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	s := &SQLite{
		db:       db,
		watchers: map[int]ChangeFunc{},
		done:     make(chan struct{}),
	}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(rev), 0) FROM kv`).Scan(&s.lastRev); err != nil {
		db.Close()
		return nil, fmt.Errorf("read store revision: %w", err)
	}
	if interval > 0 {
		go s.pollLoop(interval)
	}
	return s, nil
}

func (s *SQLite) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
  key TEXT PRIMARY KEY,
  value BLOB NOT NULL,
  rev INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS kv_rev ON kv (rev);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	rev, err := s.writeLocked(ctx, key, value)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.lastRev = rev
	fns := s.watcherList()
	s.mu.Unlock()

	for _, fn := range fns {
		fn(key, value)
	}
	return nil
}

func (s *SQLite) writeLocked(ctx context.Context, key string, value []byte) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("set %s: %w", key, err)
	}
	defer tx.Rollback()

	var rev int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(rev), 0) + 1 FROM kv`).Scan(&rev); err != nil {
		return 0, fmt.Errorf("set %s: %w", key, err)
	}
	const stmt = `
INSERT INTO kv (key, value, rev) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, rev = excluded.rev;
`
	if _, err := tx.ExecContext(ctx, stmt, key, value, rev); err != nil {
		return 0, fmt.Errorf("set %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("set %s: %w", key, err)
	}
	return rev, nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	res, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete %s: %w", key, err)
	}
	n, _ := res.RowsAffected()
	fns := s.watcherList()
	s.mu.Unlock()

	if n > 0 {
		for _, fn := range fns {
			fn(key, nil)
		}
	}
	return nil
}

func (s *SQLite) Watch(fn ChangeFunc) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, id)
	}
}

func (s *SQLite) Close() error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.mu.Lock()
	s.watchers = map[int]ChangeFunc{}
	s.mu.Unlock()
	return s.db.Close()
}

func (s *SQLite) pollLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.pollOnce()
		}
	}
}

// pollOnce delivers rows whose revision is newer than the last one this
// adapter saw, i.e. writes made by other processes.
func (s *SQLite) pollOnce() {
	s.mu.Lock()
	since := s.lastRev
	s.mu.Unlock()

	rows, err := s.db.Query(`SELECT key, value, rev FROM kv WHERE rev > ? ORDER BY rev`, since)
	if err != nil {
		debug.Logf("store poll: %v", err)
		return
	}
	type change struct {
		key string
		val []byte
		rev int64
	}
	var changes []change
	for rows.Next() {
		var c change
		if err := rows.Scan(&c.key, &c.val, &c.rev); err != nil {
			debug.Logf("store poll scan: %v", err)
			continue
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		debug.Logf("store poll: %v", err)
	}
	rows.Close()
	if len(changes) == 0 {
		return
	}

	s.mu.Lock()
	if changes[len(changes)-1].rev > s.lastRev {
		s.lastRev = changes[len(changes)-1].rev
	}
	fns := s.watcherList()
	s.mu.Unlock()

	for _, c := range changes {
		for _, fn := range fns {
			fn(c.key, c.val)
		}
	}
}

// watcherList snapshots the watcher set; callers must hold mu.
func (s *SQLite) watcherList() []ChangeFunc {
	fns := make([]ChangeFunc, 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	return fns
}
