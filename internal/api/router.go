package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/wavemark/internal/session"
	"github.com/starford/wavemark/internal/trackservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(sess *session.Session, tracks *trackservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(sess, tracks)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Library.
	r.Get("/audio", h.ListAudio)
	r.Post("/audio", h.UploadAudio)
	r.Post("/audio/load", h.LoadAudio)

	// Markers.
	r.Post("/transcription", h.SubmitTranscription)
	r.Get("/markers", h.ListMarkers)
	r.Post("/markers/{id}/select", h.SelectMarker)
	r.Post("/markers/{id}/nudge", h.NudgeMarker)
	r.Post("/export", h.Export)

	// Interaction.
	r.Post("/input", h.Input)
	r.Post("/playback/toggle", h.TogglePlayback)

	// Rendering.
	r.Get("/state", h.State)
	r.Get("/waveform", h.Waveform)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
