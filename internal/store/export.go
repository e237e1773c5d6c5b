package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ExportAll returns every stored key, ordered by key.
func (s *SQLiteStore) ExportAll(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value, version, updated_at FROM kv ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Import stores entries from an export. A key is only overwritten when the
// incoming version is newer than the stored one. Returns how many keys changed.
func (s *SQLiteStore) Import(ctx context.Context, entries []Entry) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	imported := 0
	for _, e := range entries {
		if e.Key == "" {
			continue
		}
		version := e.Version
		if version <= 0 {
			version = 1
		}
		updatedAt := e.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = time.Now()
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO kv (key, value, version, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value, version = excluded.version, updated_at = excluded.updated_at
			 WHERE excluded.version > kv.version`,
			e.Key, e.Value, version, updatedAt.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return imported, errors.Wrapf(err, "import %s", e.Key)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			imported++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return imported, nil
}
