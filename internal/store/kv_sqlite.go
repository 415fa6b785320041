package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// SQLiteKV persists session values in <dir>/state.sqlite.
type SQLiteKV struct {
	db      *sql.DB
	session string
	now     func() time.Time
}

// OpenSQLiteKV opens (and migrates) the state database and scopes it to session.
func OpenSQLiteKV(ctx context.Context, dir, session string) (*SQLiteKV, error) {
	session = strings.TrimSpace(session)
	if session == "" {
		return nil, errors.New("session key is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create state dir")
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", filepath.Join(dir, "state.sqlite"))
	if err != nil {
		return nil, err
	}
	// Several terminals may run the client against the same state dir.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "sqlite pragma")
		}
	}
	if err := migrateKV(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteKV{db: db, session: session, now: time.Now}, nil
}

func migrateKV(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session_kv (
			session TEXT NOT NULL,
			k TEXT NOT NULL,
			v TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL,
			PRIMARY KEY(session, k)
		);`,
		`CREATE INDEX IF NOT EXISTS session_kv_updated ON session_kv(updated_at_unixms);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return errors.Wrap(err, "migrate session_kv")
		}
	}
	return nil
}

func (kv *SQLiteKV) Session() string { return kv.session }

func (kv *SQLiteKV) Get(key string) (string, bool, error) {
	var v string
	err := kv.db.QueryRow(`SELECT v FROM session_kv WHERE session = ? AND k = ?`, kv.session, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "read %s", key)
	}
	return v, true, nil
}

func (kv *SQLiteKV) Set(key, value string) error {
	_, err := kv.db.Exec(`INSERT OR REPLACE INTO session_kv(session, k, v, updated_at_unixms) VALUES(?, ?, ?, ?)`,
		kv.session, key, value, kv.now().UTC().UnixMilli())
	return errors.Wrapf(err, "write %s", key)
}

func (kv *SQLiteKV) Remove(key string) error {
	_, err := kv.db.Exec(`DELETE FROM session_kv WHERE session = ? AND k = ?`, kv.session, key)
	return errors.Wrapf(err, "remove %s", key)
}

// ClearSession removes every value of the current session.
func (kv *SQLiteKV) ClearSession() error {
	_, err := kv.db.Exec(`DELETE FROM session_kv WHERE session = ?`, kv.session)
	return errors.Wrap(err, "clear session")
}

// PruneOlderThan drops values of any session not written within age.
// Sessions are keyed by the invoking shell, so abandoned ones would otherwise pile up.
func (kv *SQLiteKV) PruneOlderThan(age time.Duration) (int64, error) {
	cutoff := kv.now().Add(-age).UTC().UnixMilli()
	res, err := kv.db.Exec(`DELETE FROM session_kv WHERE updated_at_unixms < ?`, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "prune sessions")
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (kv *SQLiteKV) Close() error { return kv.db.Close() }
