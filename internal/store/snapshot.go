package store

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// SaveSnapshot archives a raw API payload under a name, zstd-compressed.
// An existing snapshot with the same name is overwritten.
func (s *Store) SaveSnapshot(name string, body []byte) error {
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return fmt.Errorf("compress snapshot %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("flush snapshot %s: %w", name, err)
	}

	if _, err := s.db.Exec(
		`INSERT INTO snapshots (name, body) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET body = excluded.body, created_at = datetime('now')`,
		name, buf.Bytes(),
	); err != nil {
		return fmt.Errorf("store snapshot %s: %w", name, err)
	}

	log.Debug().Str("name", name).Int("raw_bytes", len(body)).Int("stored_bytes", buf.Len()).Msg("snapshot saved")
	return nil
}

// Snapshot returns the decompressed payload archived under name.
func (s *Store) Snapshot(name string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRow(`SELECT body FROM snapshots WHERE name = ?`, name).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("snapshot %s not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", name, err)
	}

	r, err := zstd.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot %s: %w", name, err)
	}
	return out, nil
}
