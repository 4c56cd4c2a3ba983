package assets

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// IndexName is file name of cache index inside cache directory.
const IndexName = "index.sqlite"

const indexSchema = `
CREATE TABLE IF NOT EXISTS assets (
	id           TEXT PRIMARY KEY,
	file         TEXT NOT NULL,
	content_type TEXT NOT NULL,
	size         INTEGER NOT NULL,
	fetched_at   INTEGER NOT NULL
);`

// Entry describes cached asset as recorded in cache index.
type Entry struct {
	ID          string
	File        string
	ContentType string
	Size        int64
	FetchedAt   time.Time
}

// index keeps track of cached files. Single connection is shared and
// serialized with mutex.
type index struct {
	mu   sync.Mutex
	conn *sqlite.Conn
}

func openIndex(path string) (*index, error) {
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("unable to open cache index: %w", err)
	}
	if err := sqlitex.ExecuteScript(conn, indexSchema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to initialize cache index: %w", err)
	}
	return &index{conn: conn}, nil
}

// ReadIndex returns all entries recorded in cache directory index ordered by
// id. Index is opened read only so it could be inspected while export runs.
func ReadIndex(dir string) ([]Entry, error) {
	conn, err := sqlite.OpenConn(filepath.Join(dir, IndexName), sqlite.OpenReadOnly)
	if err != nil {
		return nil, fmt.Errorf("unable to open cache index: %w", err)
	}
	defer conn.Close()

	var entries []Entry
	err = sqlitex.Execute(conn, `SELECT id, file, content_type, size, fetched_at FROM assets ORDER BY id`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				entries = append(entries, Entry{
					ID:          stmt.ColumnText(0),
					File:        stmt.ColumnText(1),
					ContentType: stmt.ColumnText(2),
					Size:        stmt.ColumnInt64(3),
					FetchedAt:   time.Unix(stmt.ColumnInt64(4), 0),
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("unable to read cache index: %w", err)
	}
	return entries, nil
}

func (x *index) lookup(id string) (*Entry, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	var e *Entry
	err := sqlitex.Execute(x.conn, `SELECT file, content_type, size, fetched_at FROM assets WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				e = &Entry{
					ID:          id,
					File:        stmt.ColumnText(0),
					ContentType: stmt.ColumnText(1),
					Size:        stmt.ColumnInt64(2),
					FetchedAt:   time.Unix(stmt.ColumnInt64(3), 0),
				}
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("cache index lookup for %s: %w", id, err)
	}
	return e, nil
}

func (x *index) record(e *Entry) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	err := sqlitex.Execute(x.conn, `INSERT INTO assets (id, file, content_type, size, fetched_at) VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET file = excluded.file, content_type = excluded.content_type, size = excluded.size, fetched_at = excluded.fetched_at`,
		&sqlitex.ExecOptions{Args: []any{e.ID, e.File, e.ContentType, e.Size, e.FetchedAt.Unix()}})
	if err != nil {
		return fmt.Errorf("cache index update for %s: %w", e.ID, err)
	}
	return nil
}

func (x *index) count() (int64, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	var n int64
	err := sqlitex.Execute(x.conn, `SELECT count(*) FROM assets`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			n = stmt.ColumnInt64(0)
			return nil
		},
	})
	return n, err
}

func (x *index) close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.conn.Close()
}
