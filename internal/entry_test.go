package internal

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/wavemark/internal/index"
	"github.com/starford/wavemark/internal/media"
	"github.com/starford/wavemark/internal/session"
	"github.com/starford/wavemark/internal/testutil"
	"github.com/starford/wavemark/internal/timeaxis"
	"github.com/starford/wavemark/internal/trackservice"
)

type staticDecoder struct{}

func (staticDecoder) Probe(context.Context, string) (media.Info, error) {
	return media.Info{DurationMS: 20000, SampleRate: 44100, Channels: 1}, nil
}

func (staticDecoder) DecodeMono(context.Context, string, int) ([]int16, error) {
	return []int16{1, -1}, nil
}

func TestReloadIfOpen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir, lib := testutil.TestLibrary(t)
	tracks := trackservice.NewService(lib, testutil.TestDB(t), staticDecoder{}, 1000, logger)
	sess := session.New(session.Options{View: timeaxis.Options{ViewWidth: 1000}, Logger: logger})

	testutil.WriteAudio(t, dir, "talk.wav", []byte("RIFF first"))
	_, err := tracks.Open(context.Background(), "talk.wav", sess)
	require.NoError(t, err)
	_, err = sess.SubmitUnits(3)
	require.NoError(t, err)

	markerCount := func() int {
		t.Helper()
		ms, err := sess.Markers()
		require.NoError(t, err)
		return len(ms)
	}

	t.Run("identical rewrite keeps markers", func(t *testing.T) {
		testutil.WriteAudio(t, dir, "talk.wav", []byte("RIFF first"))
		reloadIfOpen(context.Background(), logger, sess, tracks, index.KindUpdated, "talk.wav")
		assert.Equal(t, 3, markerCount())
	})

	t.Run("other file is ignored", func(t *testing.T) {
		testutil.WriteAudio(t, dir, "other.wav", []byte("RIFF other"))
		reloadIfOpen(context.Background(), logger, sess, tracks, index.KindUpdated, "other.wav")
		assert.Equal(t, 3, markerCount())
	})

	t.Run("changed content reloads", func(t *testing.T) {
		before, err := sess.Track()
		require.NoError(t, err)

		testutil.WriteAudio(t, dir, "talk.wav", []byte("RIFF second take"))
		reloadIfOpen(context.Background(), logger, sess, tracks, index.KindUpdated, "talk.wav")

		after, err := sess.Track()
		require.NoError(t, err)
		assert.NotEqual(t, before.Checksum, after.Checksum)
		assert.Equal(t, 0, markerCount())
	})
}
