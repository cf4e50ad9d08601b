package index

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/wavemark/internal/apperr"
	"github.com/starford/wavemark/internal/library"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "wavemark-test-*.db")
	require.NoError(t, err)
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func paths(rows []TrackRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Path)
	}
	return out
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	require.NoError(t, db.conn.QueryRow(`SELECT count(*) FROM tracks`).Scan(&count), "tracks table missing")
}

func TestUpsertAndGetTrack(t *testing.T) {
	db := testDB(t)
	row := TrackRow{
		Path:       "talk.mp3",
		Checksum:   "abc123",
		DurationMS: 20000,
		SampleRate: 44100,
		Channels:   2,
		Size:       4096,
		ProbedAt:   time.Now(),
	}
	require.NoError(t, db.UpsertTrack(row))

	got, err := db.GetTrack("talk.mp3")
	require.NoError(t, err)
	assert.Equal(t, "abc123", got.Checksum)
	assert.Equal(t, int64(20000), got.DurationMS)
	assert.Equal(t, 44100, got.SampleRate)
	assert.Equal(t, 2, got.Channels)
	assert.Equal(t, int64(4096), got.Size)

	row.Checksum = "def456"
	row.DurationMS = 1000
	require.NoError(t, db.UpsertTrack(row))
	got, err = db.GetTrack("talk.mp3")
	require.NoError(t, err)
	assert.Equal(t, "def456", got.Checksum)
	assert.Equal(t, int64(1000), got.DurationMS)
}

func TestGetTrackNotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetTrack("nope.mp3")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = db.FindByChecksum("nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestFindByChecksum(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.UpsertTrack(TrackRow{Path: "a.mp3", Checksum: "same", DurationMS: 5, SampleRate: 8000}))

	got, err := db.FindByChecksum("same")
	require.NoError(t, err)
	assert.Equal(t, "a.mp3", got.Path)
}

func TestDeleteAndList(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.UpsertTrack(TrackRow{Path: "b.mp3", Checksum: "2", DurationMS: 1, SampleRate: 1}))
	require.NoError(t, db.UpsertTrack(TrackRow{Path: "a.mp3", Checksum: "1", DurationMS: 1, SampleRate: 1}))

	rows, err := db.ListTracks()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3", "b.mp3"}, paths(rows))

	require.NoError(t, db.DeleteTrack("a.mp3"))
	rows, err = db.ListTracks()
	require.NoError(t, err)
	assert.Equal(t, []string{"b.mp3"}, paths(rows))
}

func TestSyncDropsStaleRows(t *testing.T) {
	db := testDB(t)
	lib, err := library.NewFS(t.TempDir())
	require.NoError(t, err)
	_, err = lib.Write("kept.mp3", strings.NewReader("1234"))
	require.NoError(t, err)
	_, err = lib.Write("grown.mp3", strings.NewReader("123456"))
	require.NoError(t, err)

	require.NoError(t, db.UpsertTrack(TrackRow{Path: "kept.mp3", Checksum: "k", DurationMS: 1, SampleRate: 1, Size: 4}))
	require.NoError(t, db.UpsertTrack(TrackRow{Path: "grown.mp3", Checksum: "g", DurationMS: 1, SampleRate: 1, Size: 2}))
	require.NoError(t, db.UpsertTrack(TrackRow{Path: "gone.mp3", Checksum: "x", DurationMS: 1, SampleRate: 1, Size: 1}))

	require.NoError(t, Sync(db, lib, quietLogger()))

	rows, err := db.ListTracks()
	require.NoError(t, err)
	assert.Equal(t, []string{"kept.mp3"}, paths(rows))
}
