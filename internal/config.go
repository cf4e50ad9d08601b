package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/wavemark/internal/export"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Library   LibraryConfig     `yaml:"library"`
	SQLite    SQLiteConfig      `yaml:"sqlite"`
	View      ViewConfig        `yaml:"view"`
	Decoder   DecoderConfig     `yaml:"decoder"`
	Clipboard ClipboardConfig   `yaml:"clipboard"`
	Events    EventsConfig      `yaml:"events"`
	Auth      AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, v := range []validation.Validatable{
		&c.App, &c.Library, &c.SQLite, &c.View, &c.Decoder, &c.Clipboard, &c.Events,
	} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// LibraryConfig holds the path to the audio library directory.
type LibraryConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the library configuration.
func (c *LibraryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ViewConfig holds waveform view geometry and interaction tuning.
type ViewConfig struct {
	Width       float64 `yaml:"width"`
	ZoomMin     float64 `yaml:"zoom_min"`
	ZoomMax     float64 `yaml:"zoom_max"`
	BaseStepMS  int64   `yaml:"base_step_ms"`
	HitRadiusPX float64 `yaml:"hit_radius_px"`
}

// Validate validates the view configuration.
func (c *ViewConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Width, validation.Required, validation.Min(1.0)),
		validation.Field(&c.ZoomMin, validation.Required, validation.Min(1.0)),
		validation.Field(&c.ZoomMax, validation.Required),
		validation.Field(&c.BaseStepMS, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.HitRadiusPX, validation.Required, validation.Min(0.5)),
	); err != nil {
		return err
	}
	if c.ZoomMax < c.ZoomMin {
		return fmt.Errorf("view: zoom_max %v is below zoom_min %v", c.ZoomMax, c.ZoomMin)
	}
	return nil
}

// DecoderConfig holds the external decoder binaries.
type DecoderConfig struct {
	FFmpegBin  string `yaml:"ffmpeg_bin"`
	FFprobeBin string `yaml:"ffprobe_bin"`
	SampleRate int    `yaml:"sample_rate"`
}

// Validate validates the decoder configuration.
func (c *DecoderConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.FFmpegBin, validation.Required),
		validation.Field(&c.FFprobeBin, validation.Required),
		validation.Field(&c.SampleRate, validation.Required, validation.Min(100), validation.Max(192000)),
	)
}

// ClipboardConfig selects where exports are written.
//
// Mode is one of:
//   - "system" (default): the OS clipboard, falling back to memory when unavailable.
//   - "memory": an in-process buffer, for headless hosts.
type ClipboardConfig struct {
	Mode string `yaml:"mode"`
}

// Validate validates the clipboard configuration.
func (c *ClipboardConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = export.ClipboardSystem
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.In(export.ClipboardSystem, export.ClipboardMemory)),
	)
}

// EventsConfig tunes SSE delivery.
type EventsConfig struct {
	WaveformThrottle time.Duration `yaml:"waveform_throttle"`
}

// Validate validates the events configuration.
func (c *EventsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.WaveformThrottle, validation.Min(time.Duration(0))),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Library: LibraryConfig{
			Path: "./library",
		},
		SQLite: SQLiteConfig{
			Path: "./wavemark.db",
		},
		View: ViewConfig{
			Width:       1000,
			ZoomMin:     1,
			ZoomMax:     1000,
			BaseStepMS:  200,
			HitRadiusPX: 6,
		},
		Decoder: DecoderConfig{
			FFmpegBin:  "ffmpeg",
			FFprobeBin: "ffprobe",
			SampleRate: 8000,
		},
		Clipboard: ClipboardConfig{
			Mode: export.ClipboardSystem,
		},
		Events: EventsConfig{
			WaveformThrottle: 100 * time.Millisecond,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
