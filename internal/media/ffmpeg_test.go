package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProbe(t *testing.T) {
	out := []byte(`{"programs":[],"streams":[{"sample_rate":"44100","channels":2}],"format":{"duration":"20.000313"}}`)
	info, err := parseProbe(out)
	require.NoError(t, err)
	assert.Equal(t, Info{DurationMS: 20000, SampleRate: 44100, Channels: 2}, info)
}

func TestParseProbe_Errors(t *testing.T) {
	cases := map[string]string{
		"garbage":    `not json`,
		"no streams": `{"streams":[],"format":{"duration":"1.0"}}`,
		"bad rate":   `{"streams":[{"sample_rate":"N/A"}],"format":{"duration":"1.0"}}`,
		"bad dur":    `{"streams":[{"sample_rate":"8000"}],"format":{"duration":"N/A"}}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseProbe([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestPCMToSamples(t *testing.T) {
	got := pcmToSamples([]byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x80, 0x7f})
	assert.Equal(t, []int16{1, -1, -32768}, got)
}

func TestFFmpeg_MissingBinary(t *testing.T) {
	f := NewFFmpeg("/nonexistent/ffmpeg", "/nonexistent/ffprobe")
	_, err := f.Probe(context.Background(), "x.mp3")
	assert.Error(t, err, "probe")
	_, err = f.DecodeMono(context.Background(), "x.mp3", 8000)
	assert.Error(t, err, "decode")
}
