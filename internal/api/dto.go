package api

import (
	"github.com/starford/wavemark/internal/markers"
	"github.com/starford/wavemark/internal/models"
	"github.com/starford/wavemark/internal/session"
	"github.com/starford/wavemark/internal/trackservice"
)

// LoadAudioRequest is the request body for loading a library file.
type LoadAudioRequest struct {
	Path string `json:"path" example:"interviews/take1.mp3" validate:"required"`
}

// TranscriptionRequest is the request body for submitting a transcription.
type TranscriptionRequest struct {
	Text string `json:"text" example:"the quick brown fox" validate:"required"`
}

// NudgeRequest is the request body for nudging a marker.
type NudgeRequest struct {
	Direction int `json:"direction" example:"-1" validate:"required"`
}

// TrackListResponse wraps the library listing.
type TrackListResponse struct {
	Tracks []trackservice.TrackListItem `json:"tracks" validate:"required"`
}

// TranscriptionResponse is returned after markers are placed.
type TranscriptionResponse struct {
	Title    string           `json:"title,omitempty" example:"Interview"`
	Units    int              `json:"units" example:"4" validate:"required"`
	Markers  []markers.Marker `json:"markers" validate:"required"`
	Replaced bool             `json:"replaced"`
}

// MarkerListResponse wraps the marker list.
type MarkerListResponse struct {
	Markers []markers.Marker `json:"markers" validate:"required"`
}

// PlaybackResponse reports the transport state after a toggle.
type PlaybackResponse struct {
	State string `json:"state" example:"playing" validate:"required"`
}

// UploadResponse is returned after a successful audio upload.
type UploadResponse = models.AudioMetadata

// StateResponse is the full renderer snapshot.
type StateResponse = session.Snapshot

// ExportResponse carries the exported values and clipboard text. A
// clipboard failure does not discard the values.
type ExportResponse struct {
	Values         []int64 `json:"values" validate:"required"`
	Text           string  `json:"text" example:"[2500, 9200]" validate:"required"`
	ClipboardError string  `json:"clipboard_error,omitempty"`
}
