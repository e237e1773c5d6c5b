package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath      string     `json:"db_path"`
	DBSizeBytes int64      `json:"db_size_bytes"`
	TotalKeys   int        `json:"total_keys"`
	Keys        []KeyStats `json:"keys"`
}

// KeyStats holds per-key size and write count.
type KeyStats struct {
	Key     string `json:"key"`
	Bytes   int    `json:"bytes"`
	Version int    `json:"version"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath, Keys: []KeyStats{}}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, LENGTH(value), version
		FROM kv ORDER BY LENGTH(value) DESC`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var k KeyStats
		if err := rows.Scan(&k.Key, &k.Bytes, &k.Version); err != nil {
			return st, err
		}
		st.Keys = append(st.Keys, k)
	}
	st.TotalKeys = len(st.Keys)

	return st, rows.Err()
}
