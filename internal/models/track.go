// Package models defines the domain types shared across wavemark packages.
package models

import "time"

// Track is a probed audio file ready to be annotated.
type Track struct {
	Path       string    `json:"path"`
	Checksum   string    `json:"checksum"`
	DurationMS int64     `json:"duration_ms"`
	SampleRate int       `json:"sample_rate"`
	Channels   int       `json:"channels"`
	ProbedAt   time.Time `json:"probed_at"`
}

// AudioMetadata is a lightweight representation returned by library listings.
type AudioMetadata struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}
