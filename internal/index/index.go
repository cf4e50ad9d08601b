package index

// TrackIndex defines the cache operations consumers depend on.
type TrackIndex interface {
	UpsertTrack(t TrackRow) error
	GetTrack(path string) (*TrackRow, error)
	FindByChecksum(checksum string) (*TrackRow, error)
	DeleteTrack(path string) error
	ListTracks() ([]TrackRow, error)
	Close() error
}

// Verify *DB satisfies TrackIndex at compile time.
var _ TrackIndex = (*DB)(nil)
