package storage

import (
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
)

// RemoteCache stores remote backend responses keyed by server and request
// hash. Payloads are zstd-compressed; search responses over large
// repositories compress well and the table stays small.
type RemoteCache struct {
	db      *DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewRemoteCache creates a cache backed by the given database.
func NewRemoteCache(db *DB) (*RemoteCache, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &RemoteCache{db: db, encoder: encoder, decoder: decoder}, nil
}

// Get returns the payload stored for (server, key), or found=false when the
// entry is missing or expired. Expired rows are left for Prune.
func (c *RemoteCache) Get(server, key string) ([]byte, bool, error) {
	var payload []byte
	var expiresAt int64
	row := c.db.conn.QueryRow(
		"SELECT payload, expires_at FROM remote_cache WHERE server = ? AND cache_key = ?",
		server, key,
	)
	if err := row.Scan(&payload, &expiresAt); err != nil {
		if isNoRows(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	if time.Now().Unix() >= expiresAt {
		return nil, false, nil
	}

	data, err := c.decoder.DecodeAll(payload, nil)
	if err != nil {
		// A corrupt entry is a miss, not a failure.
		return nil, false, nil
	}
	return data, true, nil
}

// Set stores a payload for (server, key) with the given TTL, replacing any
// existing entry.
func (c *RemoteCache) Set(server, key string, payload []byte, ttl time.Duration) error {
	compressed := c.encoder.EncodeAll(payload, nil)
	expiresAt := time.Now().Add(ttl).Unix()

	_, err := c.db.conn.Exec(
		"INSERT OR REPLACE INTO remote_cache (server, cache_key, payload, expires_at) VALUES (?, ?, ?, ?)",
		server, key, compressed, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry for a server.
func (c *RemoteCache) Clear(server string) error {
	_, err := c.db.conn.Exec("DELETE FROM remote_cache WHERE server = ?", server)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Prune removes expired entries.
func (c *RemoteCache) Prune() (int64, error) {
	res, err := c.db.conn.Exec("DELETE FROM remote_cache WHERE expires_at <= ?", time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
