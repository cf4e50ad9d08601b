package playback

import "log/slog"

// Publisher broadcasts a typed event to connected clients.
type Publisher interface {
	PublishPlayer(kind string, data map[string]int64)
}

// BroadcastPlayer forwards commands to browser clients, which own the
// actual audio element.
type BroadcastPlayer struct {
	pub Publisher
}

// NewBroadcastPlayer creates a player that publishes through pub.
func NewBroadcastPlayer(pub Publisher) *BroadcastPlayer {
	return &BroadcastPlayer{pub: pub}
}

func (p *BroadcastPlayer) Seek(timeMS int64) {
	p.pub.PublishPlayer("seek", map[string]int64{"time_ms": timeMS})
}

func (p *BroadcastPlayer) Play()  { p.pub.PublishPlayer("play", map[string]int64{}) }
func (p *BroadcastPlayer) Pause() { p.pub.PublishPlayer("pause", map[string]int64{}) }

// LogPlayer only records commands; used in headless mode.
type LogPlayer struct {
	Logger *slog.Logger
}

func (p LogPlayer) Seek(timeMS int64) {
	p.Logger.Info("player: seek", slog.Int64("time_ms", timeMS))
}

func (p LogPlayer) Play()  { p.Logger.Info("player: play") }
func (p LogPlayer) Pause() { p.Logger.Info("player: pause") }
