package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/wavemark/internal/apperr"
)

// TrackRow represents a row in the tracks table.
type TrackRow struct {
	Path       string
	Checksum   string
	DurationMS int64
	SampleRate int
	Channels   int
	Size       int64
	ProbedAt   time.Time
}

const trackColumns = `path, checksum, duration_ms, sample_rate, channels, size, probed_at`

// UpsertTrack inserts or replaces the cached probe result for a path.
func (db *DB) UpsertTrack(t TrackRow) error {
	if t.ProbedAt.IsZero() {
		t.ProbedAt = time.Now()
	}
	_, err := db.conn.Exec(`
		INSERT INTO tracks (`+trackColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			checksum    = excluded.checksum,
			duration_ms = excluded.duration_ms,
			sample_rate = excluded.sample_rate,
			channels    = excluded.channels,
			size        = excluded.size,
			probed_at   = excluded.probed_at
	`, t.Path, t.Checksum, t.DurationMS, t.SampleRate, t.Channels, t.Size, t.ProbedAt.UTC())
	if err != nil {
		return fmt.Errorf("index: upsert track: %w", err)
	}
	return nil
}

// GetTrack returns the cached row for path.
func (db *DB) GetTrack(path string) (*TrackRow, error) {
	row := db.conn.QueryRow(`SELECT `+trackColumns+` FROM tracks WHERE path = ?`, path)
	return scanTrack(row)
}

// FindByChecksum returns any cached row with the given content digest, so
// a copied or renamed file does not need probing again.
func (db *DB) FindByChecksum(checksum string) (*TrackRow, error) {
	row := db.conn.QueryRow(`SELECT `+trackColumns+` FROM tracks WHERE checksum = ? ORDER BY probed_at DESC LIMIT 1`, checksum)
	return scanTrack(row)
}

// DeleteTrack removes the cached row for path.
func (db *DB) DeleteTrack(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM tracks WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete track: %w", err)
	}
	return nil
}

// ListTracks returns every cached row ordered by path.
func (db *DB) ListTracks() ([]TrackRow, error) {
	rows, err := db.conn.Query(`SELECT ` + trackColumns + ` FROM tracks ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("index: list tracks: %w", err)
	}
	defer rows.Close()

	var out []TrackRow
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTrack(s scanner) (*TrackRow, error) {
	var t TrackRow
	err := s.Scan(&t.Path, &t.Checksum, &t.DurationMS, &t.SampleRate, &t.Channels, &t.Size, &t.ProbedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: scan track: %w", err)
	}
	return &t, nil
}
