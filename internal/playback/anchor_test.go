package playback

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starford/wavemark/internal/markers"
)

type recordingPlayer struct {
	calls []string
	seeks []int64
}

func (p *recordingPlayer) Seek(t int64) {
	p.calls = append(p.calls, "seek")
	p.seeks = append(p.seeks, t)
}
func (p *recordingPlayer) Play()  { p.calls = append(p.calls, "play") }
func (p *recordingPlayer) Pause() { p.calls = append(p.calls, "pause") }

type fixedSelection struct {
	id int64
	ok bool
}

func (f *fixedSelection) SelectedID() (int64, bool) { return f.id, f.ok }

func TestAnchor_StartsFromBeginningWithoutSelection(t *testing.T) {
	store := markers.NewStore(20000)
	store.InsertBatch([]int64{5000})
	p := &recordingPlayer{}
	a := NewAnchor(store, &fixedSelection{}, p)

	assert.Equal(t, Playing, a.Toggle())
	assert.Equal(t, []string{"seek", "play"}, p.calls)
	assert.Equal(t, []int64{0}, p.seeks)
}

func TestAnchor_ToggleStops(t *testing.T) {
	store := markers.NewStore(20000)
	p := &recordingPlayer{}
	a := NewAnchor(store, &fixedSelection{}, p)

	a.Toggle()
	assert.Equal(t, Stopped, a.Toggle())
	assert.Equal(t, []string{"seek", "play", "pause"}, p.calls)

	a.Stop()
	assert.Len(t, p.calls, 3, "stop while stopped is a no-op")
}

func TestAnchor_RereadsDraggedMarker(t *testing.T) {
	store := markers.NewStore(20000)
	store.InsertBatch([]int64{5000})
	sel := &fixedSelection{id: 1, ok: true}
	p := &recordingPlayer{}
	a := NewAnchor(store, sel, p)

	a.Toggle()
	a.Toggle()
	_, _ = store.SetTime(1, 9000)
	a.Toggle()

	assert.Equal(t, []int64{5000, 9000}, p.seeks)
}

func TestAnchor_MissingMarkerFallsBackToZero(t *testing.T) {
	store := markers.NewStore(20000)
	a := NewAnchor(store, &fixedSelection{id: 42, ok: true}, &recordingPlayer{})
	assert.Equal(t, int64(0), a.StartTimeMS())
}

type recordingPublisher struct {
	kinds []string
	data  []map[string]int64
}

func (r *recordingPublisher) PublishPlayer(kind string, data map[string]int64) {
	r.kinds = append(r.kinds, kind)
	r.data = append(r.data, data)
}

func TestBroadcastPlayer_PublishesCommands(t *testing.T) {
	pub := &recordingPublisher{}
	p := NewBroadcastPlayer(pub)
	p.Seek(1200)
	p.Play()
	p.Pause()
	assert.Equal(t, []string{"seek", "play", "pause"}, pub.kinds)
	assert.Equal(t, int64(1200), pub.data[0]["time_ms"])
}

func TestLogPlayer_DoesNotPanic(t *testing.T) {
	p := LogPlayer{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))}
	p.Seek(1)
	p.Play()
	p.Pause()
}
