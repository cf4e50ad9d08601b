// Package trackservice loads audio files from the library, caching probe
// results in the index keyed by content checksum.
package trackservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/wavemark/internal/apperr"
	"github.com/starford/wavemark/internal/checksum"
	"github.com/starford/wavemark/internal/index"
	"github.com/starford/wavemark/internal/library"
	"github.com/starford/wavemark/internal/media"
	"github.com/starford/wavemark/internal/models"
)

// DefaultSampleRate is the decode rate for waveform samples.
const DefaultSampleRate = 8000

var safeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// TrackListItem is one library entry, with cached timing when known.
type TrackListItem struct {
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	UpdatedAt  time.Time `json:"updated_at"`
	DurationMS int64     `json:"duration_ms,omitempty"`
	Probed     bool      `json:"probed"`
}

// Loader receives a decoded track.
type Loader interface {
	Load(track models.Track, samples []int16) error
}

// Service coordinates library, index and decoder operations.
type Service struct {
	lib        library.Provider
	db         index.TrackIndex
	dec        media.Decoder
	sampleRate int
	logger     *slog.Logger
}

// NewService creates a new track service. sampleRate <= 0 selects
// DefaultSampleRate.
func NewService(lib library.Provider, db index.TrackIndex, dec media.Decoder, sampleRate int, logger *slog.Logger) *Service {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{lib: lib, db: db, dec: dec, sampleRate: sampleRate, logger: logger}
}

// List returns every audio file in the library, merged with cached durations.
func (s *Service) List(_ context.Context) ([]TrackListItem, error) {
	metas, err := s.lib.List("")
	if err != nil {
		return nil, err
	}
	rows, err := s.db.ListTracks()
	if err != nil {
		return nil, err
	}
	cached := make(map[string]index.TrackRow, len(rows))
	for _, r := range rows {
		cached[r.Path] = r
	}

	items := make([]TrackListItem, len(metas))
	for i, m := range metas {
		items[i] = TrackListItem{Path: m.Path, Size: m.Size, UpdatedAt: m.UpdatedAt}
		if r, ok := cached[m.Path]; ok && r.Size == m.Size {
			items[i].DurationMS = r.DurationMS
			items[i].Probed = true
		}
	}
	return items, nil
}

// Probe returns timing info for path. The decoder only runs when neither
// the path nor the file's checksum is already cached.
func (s *Service) Probe(ctx context.Context, path string) (models.Track, error) {
	abs, err := s.lib.Resolve(path)
	if err != nil {
		return models.Track{}, err
	}
	sum, size, err := s.fingerprint(path, abs)
	if err != nil {
		return models.Track{}, err
	}

	row, err := s.cached(path, sum)
	if err != nil {
		return models.Track{}, err
	}
	if row == nil {
		info, probeErr := s.dec.Probe(ctx, abs)
		if probeErr != nil {
			return models.Track{}, fmt.Errorf("trackservice: probe %s: %w", path, probeErr)
		}
		row = &index.TrackRow{
			DurationMS: info.DurationMS,
			SampleRate: info.SampleRate,
			Channels:   info.Channels,
			ProbedAt:   time.Now(),
		}
		s.logger.Debug("trackservice: probed", slog.String("path", path), slog.Int64("duration_ms", info.DurationMS))
	}
	row.Path = path
	row.Checksum = sum
	row.Size = size
	if err := s.db.UpsertTrack(*row); err != nil {
		return models.Track{}, err
	}

	return models.Track{
		Path:       path,
		Checksum:   sum,
		DurationMS: row.DurationMS,
		SampleRate: row.SampleRate,
		Channels:   row.Channels,
		ProbedAt:   row.ProbedAt,
	}, nil
}

// Decode probes path and decodes mono samples for the waveform. A decode
// failure is not fatal; the track is returned without samples.
func (s *Service) Decode(ctx context.Context, path string) (models.Track, []int16, error) {
	track, err := s.Probe(ctx, path)
	if err != nil {
		return models.Track{}, nil, err
	}
	abs, err := s.lib.Resolve(path)
	if err != nil {
		return models.Track{}, nil, err
	}
	samples, err := s.dec.DecodeMono(ctx, abs, s.sampleRate)
	if err != nil {
		s.logger.Warn("trackservice: decode failed, waveform disabled",
			slog.String("path", path), slog.String("error", err.Error()))
		samples = nil
	}
	// Peaks are computed against the decode rate, not the file's native rate.
	if samples != nil {
		track.SampleRate = s.sampleRate
	}
	return track, samples, nil
}

// Open decodes path and hands the result to dst.
func (s *Service) Open(ctx context.Context, path string, dst Loader) (models.Track, error) {
	track, samples, err := s.Decode(ctx, path)
	if err != nil {
		return models.Track{}, err
	}
	if err := dst.Load(track, samples); err != nil {
		return models.Track{}, err
	}
	return track, nil
}

// Upload stores r in the library under a sanitized name. A name whose stem
// is empty after sanitizing gets a random one.
func (s *Service) Upload(_ context.Context, name string, r io.Reader) (models.AudioMetadata, error) {
	name = SanitizeFilename(name)
	if !library.IsAudio(name) {
		return models.AudioMetadata{}, fmt.Errorf("trackservice: %s: %w", name, apperr.ErrUnsupported)
	}
	// Write refuses to replace an existing file.
	n, err := s.lib.Write(name, r)
	if err != nil {
		return models.AudioMetadata{}, err
	}
	s.logger.Info("trackservice: uploaded", slog.String("path", name), slog.Int64("size", n))
	return models.AudioMetadata{Path: name, Size: n, UpdatedAt: time.Now()}, nil
}

// SanitizeFilename strips path separators and unsafe characters.
func SanitizeFilename(name string) string {
	name = filepath.Base(filepath.ToSlash(name))
	name = safeFilenameRe.ReplaceAllString(name, "_")
	ext := filepath.Ext(name)
	stem := strings.Trim(strings.TrimSuffix(name, ext), "._")
	if stem == "" {
		stem = uuid.New().String()
	}
	return stem + strings.ToLower(ext)
}

func (s *Service) fingerprint(path, abs string) (string, int64, error) {
	info, err := os.Stat(abs)
	if err != nil {
		return "", 0, fmt.Errorf("trackservice: stat %s: %w", path, err)
	}
	rc, err := s.lib.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer rc.Close()
	sum, err := checksum.SumReader(rc)
	if err != nil {
		return "", 0, err
	}
	return sum, info.Size(), nil
}

// cached returns a reusable row for path/sum, or nil when a probe is needed.
func (s *Service) cached(path, sum string) (*index.TrackRow, error) {
	row, err := s.db.GetTrack(path)
	if err == nil && row.Checksum == sum {
		return row, nil
	}
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	row, err = s.db.FindByChecksum(sum)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.logger.Debug("trackservice: reused probe by checksum", slog.String("path", path), slog.String("from", row.Path))
	return row, nil
}
