package geo

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

// Store is an optional sqlite-backed layer under the geocode cache. It is
// process-local and rebuildable: deleting the file is equivalent to a cold
// cache.
type Store struct {
	sql *sql.DB
}

// OpenStore opens (creating if needed) the cache database at path.
func OpenStore(path string) (*Store, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS geocode_cache (
  address_normalized TEXT PRIMARY KEY,
  lat                REAL NOT NULL,
  lng                REAL NOT NULL,
  resolved_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
    `); err != nil {
		return nil, err
	}
	return &Store{sql: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}
	return s.sql.Close()
}

// Get looks up a normalized address. ok is false on a miss.
func (s *Store) Get(ctx context.Context, key string) (Coordinates, bool, error) {
	var c Coordinates
	err := s.sql.QueryRowContext(ctx,
		"SELECT lat, lng FROM geocode_cache WHERE address_normalized = ?", key,
	).Scan(&c.Lat, &c.Lng)
	if errors.Is(err, sql.ErrNoRows) {
		return Coordinates{}, false, nil
	}
	if err != nil {
		return Coordinates{}, false, err
	}
	return c, true, nil
}

// Put stores a resolution. Entries are immutable; an existing row wins.
func (s *Store) Put(ctx context.Context, key string, c Coordinates) error {
	_, err := s.sql.ExecContext(ctx,
		"INSERT INTO geocode_cache (address_normalized, lat, lng) VALUES (?, ?, ?) ON CONFLICT(address_normalized) DO NOTHING",
		key, c.Lat, c.Lng,
	)
	return err
}
