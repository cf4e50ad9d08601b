// Package waveform reduces PCM samples to per-column peaks for drawing.
package waveform

import "math"

// Peak is the sample envelope of one view column.
type Peak struct {
	Min int16 `json:"min"`
	Max int16 `json:"max"`
}

// Peaks buckets the samples between startMS and endMS into width columns.
// Columns past the end of the data are omitted.
func Peaks(samples []int16, sampleRate int, startMS, endMS float64, width int) []Peak {
	if width <= 0 || sampleRate <= 0 || len(samples) == 0 || endMS <= startMS {
		return nil
	}
	first := msToIndex(startMS, sampleRate, len(samples))
	last := msToIndex(endMS, sampleRate, len(samples))
	if last <= first {
		return nil
	}

	perColumn := float64(last-first) / float64(width)
	out := make([]Peak, 0, width)
	for col := 0; col < width; col++ {
		lo := first + int(math.Floor(float64(col)*perColumn))
		hi := first + int(math.Floor(float64(col+1)*perColumn))
		if hi <= lo {
			hi = lo + 1
		}
		if lo >= last {
			break
		}
		hi = min(hi, last)

		p := Peak{Min: samples[lo], Max: samples[lo]}
		for _, v := range samples[lo+1 : hi] {
			p.Min = min(p.Min, v)
			p.Max = max(p.Max, v)
		}
		out = append(out, p)
	}
	return out
}

func msToIndex(ms float64, sampleRate, n int) int {
	i := int(ms * float64(sampleRate) / 1000)
	return min(max(i, 0), n)
}
