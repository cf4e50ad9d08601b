package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/wavemark/internal/apperr"
	"github.com/starford/wavemark/internal/session"
	"github.com/starford/wavemark/internal/trackservice"
)

const (
	maxJSONBytes   = 10 << 20  // 10 MB
	maxUploadBytes = 500 << 20 // 500 MB
)

// Handler holds API route handlers.
type Handler struct {
	sess   *session.Session
	tracks *trackservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(sess *session.Session, tracks *trackservice.Service) *Handler {
	return &Handler{sess: sess, tracks: tracks}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

func markerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid marker id"))
		return 0, false
	}
	return id, true
}

// ListAudio handles GET /api/audio.
//
//	@Summary		List audio files in the library
//	@Tags			audio
//	@Produce		json
//	@Success		200	{object}	TrackListResponse
//	@Security		BearerAuth
//	@Router			/audio [get]
func (h *Handler) ListAudio(w http.ResponseWriter, r *http.Request) {
	items, err := h.tracks.List(r.Context())
	if err != nil {
		writeError(w, "list audio", err)
		return
	}
	if items == nil {
		items = []trackservice.TrackListItem{}
	}
	writeJSON(w, http.StatusOK, TrackListResponse{Tracks: items})
}

// UploadAudio handles POST /api/audio (multipart/form-data, field "file").
//
//	@Summary		Upload an audio file into the library
//	@Tags			audio
//	@Accept			multipart/form-data
//	@Produce		json
//	@Success		201	{object}	UploadResponse
//	@Failure		400	{object}	errResponse
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/audio [post]
func (h *Handler) UploadAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	meta, err := h.tracks.Upload(r.Context(), header.Filename, file)
	if err != nil {
		writeError(w, "upload audio", err)
		return
	}
	writeJSON(w, http.StatusCreated, meta)
}

// LoadAudio handles POST /api/audio/load.
//
//	@Summary		Load a library file, resetting markers and view
//	@Tags			audio
//	@Accept			json
//	@Produce		json
//	@Param			body	body		LoadAudioRequest	true	"File to load"
//	@Success		200		{object}	StateResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/audio/load [post]
func (h *Handler) LoadAudio(w http.ResponseWriter, r *http.Request) {
	var req LoadAudioRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	if _, err := h.tracks.Open(r.Context(), req.Path, h.sess); err != nil {
		writeError(w, "load audio", err)
		return
	}
	writeJSON(w, http.StatusOK, h.sess.Snapshot())
}

// SubmitTranscription handles POST /api/transcription.
//
//	@Summary		Place one evenly spaced marker per transcription word
//	@Tags			markers
//	@Accept			json
//	@Produce		json
//	@Param			body	body		TranscriptionRequest	true	"Transcription text"
//	@Success		200		{object}	TranscriptionResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/transcription [post]
func (h *Handler) SubmitTranscription(w http.ResponseWriter, r *http.Request) {
	var req TranscriptionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, placed, err := h.sess.SubmitTranscription([]byte(req.Text))
	if err != nil {
		writeError(w, "submit transcription", err)
		return
	}
	resp := TranscriptionResponse{
		Title:    res.Meta.Title,
		Units:    res.Count(),
		Markers:  placed,
		Replaced: res.Count() > 0,
	}
	if resp.Markers == nil {
		ms, _ := h.sess.Markers()
		resp.Markers = ms
	}
	writeJSON(w, http.StatusOK, resp)
}

// Input handles POST /api/input.
//
//	@Summary		Apply one pointer, keyboard or wheel event
//	@Tags			input
//	@Accept			json
//	@Produce		json
//	@Param			body	body		session.Event	true	"Input event"
//	@Success		200		{object}	StateResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/input [post]
func (h *Handler) Input(w http.ResponseWriter, r *http.Request) {
	var ev session.Event
	if !decodeJSON(w, r, &ev) {
		return
	}
	if err := h.sess.Handle(ev); err != nil {
		writeError(w, "input", err)
		return
	}
	writeJSON(w, http.StatusOK, h.sess.Snapshot())
}

// TogglePlayback handles POST /api/playback/toggle.
//
//	@Summary		Start or stop playback from the selected marker
//	@Tags			playback
//	@Produce		json
//	@Success		200	{object}	PlaybackResponse
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/playback/toggle [post]
func (h *Handler) TogglePlayback(w http.ResponseWriter, _ *http.Request) {
	st, err := h.sess.TogglePlayback()
	if err != nil {
		writeError(w, "toggle playback", err)
		return
	}
	writeJSON(w, http.StatusOK, PlaybackResponse{State: st.String()})
}

// ListMarkers handles GET /api/markers.
//
//	@Summary		List markers in id order
//	@Tags			markers
//	@Produce		json
//	@Success		200	{object}	MarkerListResponse
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/markers [get]
func (h *Handler) ListMarkers(w http.ResponseWriter, _ *http.Request) {
	ms, err := h.sess.Markers()
	if err != nil {
		writeError(w, "list markers", err)
		return
	}
	writeJSON(w, http.StatusOK, MarkerListResponse{Markers: ms})
}

// SelectMarker handles POST /api/markers/{id}/select.
//
//	@Summary		Select a marker by id
//	@Tags			markers
//	@Produce		json
//	@Param			id	path		int	true	"Marker id"
//	@Success		200	{object}	StateResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/markers/{id}/select [post]
func (h *Handler) SelectMarker(w http.ResponseWriter, r *http.Request) {
	id, ok := markerID(w, r)
	if !ok {
		return
	}
	if err := h.sess.Select(id); err != nil {
		writeError(w, "select marker", err)
		return
	}
	writeJSON(w, http.StatusOK, h.sess.Snapshot())
}

// NudgeMarker handles POST /api/markers/{id}/nudge.
//
//	@Summary		Move a marker one zoom-dependent step
//	@Tags			markers
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int				true	"Marker id"
//	@Param			body	body		NudgeRequest	true	"Direction, negative for earlier"
//	@Success		200		{object}	markers.Marker
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/markers/{id}/nudge [post]
func (h *Handler) NudgeMarker(w http.ResponseWriter, r *http.Request) {
	id, ok := markerID(w, r)
	if !ok {
		return
	}
	var req NudgeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := h.sess.Nudge(id, req.Direction)
	if err != nil {
		writeError(w, "nudge marker", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Export handles POST /api/export.
//
//	@Summary		Export marker times in ascending order and copy them to the clipboard
//	@Tags			markers
//	@Produce		json
//	@Success		200	{object}	ExportResponse
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/export [post]
func (h *Handler) Export(w http.ResponseWriter, _ *http.Request) {
	res, err := h.sess.Export()
	if errors.Is(err, apperr.ErrNotReady) {
		writeError(w, "export", err)
		return
	}
	resp := ExportResponse{Values: res.Values, Text: res.Text}
	if err != nil {
		slog.Warn("clipboard write failed", slog.String("error", err.Error()))
		resp.ClipboardError = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// State handles GET /api/state.
//
//	@Summary		Current view, selection, playback and markers
//	@Tags			state
//	@Produce		json
//	@Success		200	{object}	StateResponse
//	@Security		BearerAuth
//	@Router			/state [get]
func (h *Handler) State(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.sess.Snapshot())
}

// Waveform handles GET /api/waveform.
//
//	@Summary		Min/max peaks per column for the visible range
//	@Tags			state
//	@Produce		json
//	@Param			width	query		int	false	"Column count, defaults to the view width"
//	@Success		200		{array}		waveform.Peak
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/waveform [get]
func (h *Handler) Waveform(w http.ResponseWriter, r *http.Request) {
	width, _ := strconv.Atoi(r.URL.Query().Get("width"))
	peaks, err := h.sess.Waveform(width)
	if err != nil {
		writeError(w, "waveform", err)
		return
	}
	writeJSON(w, http.StatusOK, peaks)
}
