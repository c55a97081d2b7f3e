// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Get returns a cached body that has not expired. Expired entries are
// removed on read.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var body []byte
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT body, expires_at FROM response_cache WHERE key = ?`, key).Scan(&body, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	if s.now().UnixMilli() >= expiresAt {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM response_cache WHERE key = ?`, key); err != nil {
			return nil, false, fmt.Errorf("evicting cache entry: %w", err)
		}
		return nil, false, nil
	}
	return body, true, nil
}

// Put caches body under key for ttl.
func (s *Store) Put(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	expiresAt := s.now().Add(ttl).UnixMilli()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO response_cache (key, body, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, expires_at = excluded.expires_at`,
		key, body, expiresAt)
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Purge removes expired entries, or every entry when all is true, and
// returns how many were removed.
func (s *Store) Purge(ctx context.Context, all bool) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if all {
		res, err = s.db.ExecContext(ctx, `DELETE FROM response_cache`)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM response_cache WHERE expires_at <= ?`, s.now().UnixMilli())
	}
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return res.RowsAffected()
}
