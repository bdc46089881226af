package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/gob"
	"errors"
	"fmt"

	"homai-zigbee/internal/nodecache"
)

var ErrNodeCacheNotFound = errors.New("node cache blob not found")

// SaveNodeCache gob-encodes snapshots and writes them as a single opaque
// BLOB column for profileID, replacing any previous blob. Per spec.md's
// persistence non-goal, the blob is never decomposed into SQL columns --
// this is the one place its bytes are produced.
func (db *DB) SaveNodeCache(ctx context.Context, profileID int64, snapshots []nodecache.Snapshot) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snapshots); err != nil {
		return fmt.Errorf("encode node cache blob: %w", err)
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO node_cache (profile_id, blob, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(profile_id) DO UPDATE SET blob = excluded.blob, updated_at = excluded.updated_at
	`, profileID, buf.Bytes())
	if err != nil {
		return fmt.Errorf("save node cache blob: %w", err)
	}
	return nil
}

// LoadNodeCache reads and gob-decodes the node cache blob for profileID.
func (db *DB) LoadNodeCache(ctx context.Context, profileID int64) ([]nodecache.Snapshot, error) {
	var blob []byte
	err := db.QueryRowContext(ctx, `SELECT blob FROM node_cache WHERE profile_id = ?`, profileID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNodeCacheNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load node cache blob: %w", err)
	}

	var snapshots []nodecache.Snapshot
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&snapshots); err != nil {
		return nil, fmt.Errorf("decode node cache blob: %w", err)
	}
	return snapshots, nil
}
