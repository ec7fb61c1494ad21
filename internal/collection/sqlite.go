package collection

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteBackend implements Backend using modernc.org/sqlite, storing the
// serialized collection as one row in a key/value table.
type SQLiteBackend struct {
	db  *sql.DB
	key string
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteBackend{db: db, key: StorageKey}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS storage (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (b *SQLiteBackend) Migrate(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (b *SQLiteBackend) Read(ctx context.Context) ([]byte, bool, error) {
	row := b.db.QueryRowContext(ctx,
		`SELECT value FROM storage WHERE key = ?`, b.key,
	)
	var value string
	err := row.Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrap(err, "sqlite: read")
	}
	return []byte(value), true, nil
}

func (b *SQLiteBackend) Write(ctx context.Context, data []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO storage (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		b.key, string(data), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: write")
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
