// Package session coordinates the time axis, marker store, selection and
// playback for the single loaded track.
package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/wavemark/internal/apperr"
	"github.com/starford/wavemark/internal/export"
	"github.com/starford/wavemark/internal/markers"
	"github.com/starford/wavemark/internal/models"
	"github.com/starford/wavemark/internal/placer"
	"github.com/starford/wavemark/internal/playback"
	"github.com/starford/wavemark/internal/selection"
	"github.com/starford/wavemark/internal/timeaxis"
	"github.com/starford/wavemark/internal/transcript"
	"github.com/starford/wavemark/internal/waveform"
)

// Notifier receives change notifications after every mutation.
type Notifier interface {
	PublishChange(kind string, data any)
}

type nopNotifier struct{}

func (nopNotifier) PublishChange(string, any) {}

// Options configures a Session.
type Options struct {
	View        timeaxis.Options
	HitRadiusPX float64
	Player      playback.Player
	Clipboard   export.Clipboard
	Notifier    Notifier
	Logger      *slog.Logger
}

// Snapshot is the read-only state handed to renderers.
type Snapshot struct {
	Ready       bool             `json:"ready"`
	Track       *models.Track    `json:"track,omitempty"`
	DurationMS  int64            `json:"duration_ms"`
	SampleRate  int              `json:"sample_rate"`
	ZoomFactor  float64          `json:"zoom_factor"`
	PanOffsetMS float64          `json:"pan_offset_ms"`
	ViewWidth   float64          `json:"view_width"`
	State       string           `json:"state"`
	SelectedID  *int64           `json:"selected_id"`
	Panning     bool             `json:"panning"`
	Playing     bool             `json:"playing"`
	Markers     []markers.Marker `json:"markers"`
}

// ExportResult is the outcome of an export.
type ExportResult struct {
	Values []int64 `json:"values"`
	Text   string  `json:"text"`
}

// Session is the single logical mutator of marker and view state. All
// methods are safe to call from concurrent request handlers; they are
// serialised on one mutex.
type Session struct {
	mu   sync.Mutex
	opts Options
	log  *slog.Logger

	track   *models.Track
	samples []int16

	axis   *timeaxis.Axis
	store  *markers.Store
	sel    *selection.Controller
	anchor *playback.Anchor
}

// New creates a session with no track loaded.
func New(opts Options) *Session {
	if opts.Notifier == nil {
		opts.Notifier = nopNotifier{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Player == nil {
		opts.Player = playback.LogPlayer{Logger: opts.Logger}
	}
	return &Session{opts: opts, log: opts.Logger}
}

// Load installs a newly decoded track. Existing markers, selection, view
// and playback state are reset. samples may be nil when only probing was
// possible; the waveform is then empty.
func (s *Session) Load(track models.Track, samples []int16) error {
	if track.DurationMS <= 0 {
		return fmt.Errorf("session: load %s: duration %d: %w", track.Path, track.DurationMS, apperr.ErrInvalidInput)
	}

	s.mu.Lock()
	if s.store == nil {
		s.axis = timeaxis.New(track.DurationMS, s.opts.View)
		s.store = markers.NewStore(track.DurationMS)
		s.sel = selection.NewController(s.store, s.axis, s.opts.HitRadiusPX)
		s.anchor = playback.NewAnchor(s.store, s.sel, s.opts.Player)
		s.store.Observe(s.markersChanged)
	} else {
		s.anchor.Stop()
		s.sel.Reset()
		s.axis.Reset(track.DurationMS)
	}
	t := track
	s.track = &t
	s.samples = samples
	s.store.Reset(track.DurationMS)
	s.mu.Unlock()

	s.log.Info("session: track loaded",
		slog.String("path", track.Path),
		slog.Int64("duration_ms", track.DurationMS),
		slog.Int("sample_rate", track.SampleRate))
	s.opts.Notifier.PublishChange("track", track)
	s.publishView()
	return nil
}

// Ready reports whether a track is loaded.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.track != nil
}

// Track returns the loaded track.
func (s *Session) Track() (models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.track == nil {
		return models.Track{}, apperr.ErrNotReady
	}
	return *s.track, nil
}

// SubmitTranscription tokenizes text and replaces the marker set with one
// evenly spaced marker per unit. An empty transcription changes nothing.
func (s *Session) SubmitTranscription(text []byte) (*transcript.Result, []markers.Marker, error) {
	res := transcript.Tokenize(text)
	placed, err := s.SubmitUnits(res.Count())
	if err != nil {
		return nil, nil, err
	}
	return res, placed, nil
}

// SubmitUnits replaces the marker set with unitCount evenly spaced markers.
func (s *Session) SubmitUnits(unitCount int) ([]markers.Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.track == nil {
		return nil, apperr.ErrNotReady
	}
	if unitCount <= 0 {
		s.log.Debug("session: empty transcription ignored")
		return nil, nil
	}
	s.sel.Reset()
	placed := placer.Place(s.store, unitCount)
	s.log.Info("session: markers placed", slog.Int("count", len(placed)))
	return placed, nil
}

// Handle applies one input event.
func (s *Session) Handle(ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.track == nil {
		s.mu.Unlock()
		return apperr.ErrNotReady
	}
	viewBefore := s.axis.State()
	stateBefore, idBefore := s.sel.State(), s.selectedID()

	var toggled bool
	switch ev.Type {
	case EventPointerDown:
		s.sel.PointerDown(ev.X)
	case EventPointerMove:
		s.sel.PointerMove(ev.X)
	case EventPointerUp:
		s.sel.PointerUp()
	case EventKeyLeft:
		s.sel.KeyLeft()
	case EventKeyRight:
		s.sel.KeyRight()
	case EventWheel:
		s.sel.Wheel(ev.Steps, ev.X)
	case EventSpace:
		s.anchor.Toggle()
		toggled = true
	}

	viewChanged := s.axis.State() != viewBefore
	selChanged := s.sel.State() != stateBefore || s.selectedID() != idBefore
	s.mu.Unlock()

	s.log.Debug("session: event", slog.String("type", string(ev.Type)), slog.Float64("x", ev.X))
	if viewChanged {
		s.publishView()
	}
	if selChanged || toggled {
		s.publishSelection()
	}
	return nil
}

// TogglePlayback starts or stops playback.
func (s *Session) TogglePlayback() (playback.State, error) {
	s.mu.Lock()
	if s.track == nil {
		s.mu.Unlock()
		return playback.Stopped, apperr.ErrNotReady
	}
	st := s.anchor.Toggle()
	s.mu.Unlock()
	s.publishSelection()
	return st, nil
}

// Select makes id the selected marker.
func (s *Session) Select(id int64) error {
	s.mu.Lock()
	err := s.selectLocked(id)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.publishSelection()
	return nil
}

func (s *Session) selectLocked(id int64) error {
	if s.track == nil {
		return apperr.ErrNotReady
	}
	return s.sel.Select(id)
}

// Nudge selects id and moves it one zoom-dependent step; dir < 0 moves
// earlier, dir > 0 later. Selection, move and read happen under one lock.
func (s *Session) Nudge(id int64, dir int) (markers.Marker, error) {
	if dir == 0 {
		return markers.Marker{}, fmt.Errorf("session: nudge direction: %w", apperr.ErrInvalidInput)
	}

	s.mu.Lock()
	m, err := s.nudgeLocked(id, dir)
	s.mu.Unlock()
	if err != nil {
		return markers.Marker{}, err
	}

	s.log.Debug("session: nudge", slog.Int64("id", id), slog.Int("dir", dir), slog.Int64("time_ms", m.TimeMS))
	s.publishSelection()
	return m, nil
}

func (s *Session) nudgeLocked(id int64, dir int) (markers.Marker, error) {
	if err := s.selectLocked(id); err != nil {
		return markers.Marker{}, err
	}
	if dir < 0 {
		s.sel.KeyLeft()
	} else {
		s.sel.KeyRight()
	}
	return s.store.Get(id)
}

// Markers returns the markers in id order.
func (s *Session) Markers() ([]markers.Marker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.track == nil {
		return nil, apperr.ErrNotReady
	}
	return s.store.All(), nil
}

// Export encodes the markers in time order and writes them to the
// clipboard. Values are returned even if the clipboard write fails.
func (s *Session) Export() (ExportResult, error) {
	s.mu.Lock()
	if s.track == nil {
		s.mu.Unlock()
		return ExportResult{}, apperr.ErrNotReady
	}
	values, text, err := export.Export(s.store, s.opts.Clipboard)
	s.mu.Unlock()

	res := ExportResult{Values: values, Text: text}
	if err != nil {
		s.log.Warn("session: clipboard write failed", slog.String("error", err.Error()))
		return res, err
	}
	s.log.Info("session: exported", slog.Int("count", len(values)))
	return res, nil
}

// Snapshot returns the renderer view of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	if s.track == nil {
		return Snapshot{State: selection.Idle.String(), Markers: []markers.Marker{}}
	}
	view := s.axis.State()
	snap := Snapshot{
		Ready:       true,
		Track:       s.track,
		DurationMS:  view.DurationMS,
		SampleRate:  s.track.SampleRate,
		ZoomFactor:  view.ZoomFactor,
		PanOffsetMS: view.PanOffsetMS,
		ViewWidth:   view.ViewWidth,
		State:       s.sel.State().String(),
		Panning:     s.sel.Panning(),
		Playing:     s.anchor.State() == playback.Playing,
		Markers:     s.store.All(),
	}
	if id, ok := s.sel.SelectedID(); ok {
		snap.SelectedID = &id
	}
	return snap
}

// Waveform returns per-column peaks for the visible range.
func (s *Session) Waveform(width int) ([]waveform.Peak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.track == nil {
		return nil, apperr.ErrNotReady
	}
	if width <= 0 {
		width = int(s.axis.State().ViewWidth)
	}
	start, end := s.axis.VisibleRange()
	peaks := waveform.Peaks(s.samples, s.track.SampleRate, start, end, width)
	if peaks == nil {
		peaks = []waveform.Peak{}
	}
	return peaks, nil
}

func (s *Session) selectedID() int64 {
	id, _ := s.sel.SelectedID()
	return id
}

// markersChanged runs synchronously on every store write.
func (s *Session) markersChanged() {
	s.opts.Notifier.PublishChange("markers", s.store.All())
}

func (s *Session) publishView() {
	s.mu.Lock()
	view := s.axis.State()
	s.mu.Unlock()
	s.opts.Notifier.PublishChange("view", view)
}

func (s *Session) publishSelection() {
	s.mu.Lock()
	data := map[string]any{
		"state":   s.sel.State().String(),
		"playing": s.anchor.State() == playback.Playing,
	}
	if id, ok := s.sel.SelectedID(); ok {
		data["selected_id"] = id
	}
	s.mu.Unlock()
	s.opts.Notifier.PublishChange("selection", data)
}
