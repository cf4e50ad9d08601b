// Package media probes and decodes audio files by shelling out to ffmpeg.
package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
)

// Info is what the probe learns about an audio file.
type Info struct {
	DurationMS int64
	SampleRate int
	Channels   int
}

// Decoder turns an audio file into its timing info and mono PCM samples.
type Decoder interface {
	Probe(ctx context.Context, path string) (Info, error)
	DecodeMono(ctx context.Context, path string, sampleRate int) ([]int16, error)
}

// FFmpeg implements Decoder with the ffprobe and ffmpeg binaries.
type FFmpeg struct {
	FFmpegBin  string
	FFprobeBin string
}

// NewFFmpeg returns a decoder using the given binaries, defaulting to the
// ones found on PATH.
func NewFFmpeg(ffmpegBin, ffprobeBin string) *FFmpeg {
	if ffmpegBin == "" {
		ffmpegBin = "ffmpeg"
	}
	if ffprobeBin == "" {
		ffprobeBin = "ffprobe"
	}
	return &FFmpeg{FFmpegBin: ffmpegBin, FFprobeBin: ffprobeBin}
}

// Probe reads duration, sample rate and channel count of the first audio stream.
func (f *FFmpeg) Probe(ctx context.Context, path string) (Info, error) {
	// ffprobe -v error -select_streams a:0 -show_entries ... -of json input
	cmd := exec.CommandContext(ctx, f.FFprobeBin,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=sample_rate,channels:format=duration",
		"-of", "json",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return parseProbe(out)
}

type probeOutput struct {
	Streams []struct {
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseProbe(data []byte) (Info, error) {
	var po probeOutput
	if err := json.Unmarshal(data, &po); err != nil {
		return Info{}, fmt.Errorf("ffprobe: parse output: %w", err)
	}
	if len(po.Streams) == 0 {
		return Info{}, fmt.Errorf("ffprobe: no audio stream")
	}
	rate, err := strconv.Atoi(po.Streams[0].SampleRate)
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe: sample rate %q: %w", po.Streams[0].SampleRate, err)
	}
	secs, err := strconv.ParseFloat(po.Format.Duration, 64)
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe: duration %q: %w", po.Format.Duration, err)
	}
	return Info{
		DurationMS: int64(math.Round(secs * 1000)),
		SampleRate: rate,
		Channels:   po.Streams[0].Channels,
	}, nil
}

// DecodeMono downmixes the file to signed 16-bit mono PCM at sampleRate.
func (f *FFmpeg) DecodeMono(ctx context.Context, path string, sampleRate int) ([]int16, error) {
	// ffmpeg -v error -i input -ac 1 -ar RATE -f s16le -
	cmd := exec.CommandContext(ctx, f.FFmpegBin,
		"-v", "error",
		"-i", path,
		"-ac", "1", "-ar", strconv.Itoa(sampleRate),
		"-f", "s16le",
		"-",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return pcmToSamples(out), nil
}

func pcmToSamples(raw []byte) []int16 {
	n := len(raw) / 2
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
	}
	return out
}
