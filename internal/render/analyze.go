package render

import (
	"math/cmplx"

	"github.com/gopxl/beep"
	"github.com/mjibson/go-dsp/fft"
)

// DominantFrequency returns the frequency of the strongest spectral peak, in Hz.
// For a square wave that is the fundamental. Resolution is sr/len(samples).
func DominantFrequency(samples []float64, sr beep.SampleRate) float64 {
	if len(samples) < 2 {
		return 0
	}

	// drop DC, the pin idles low so every tone has an offset
	mean := 0.0
	for _, s := range samples {
		mean += s
	}
	mean /= float64(len(samples))

	centered := make([]float64, len(samples))
	for i, s := range samples {
		centered[i] = s - mean
	}

	spectrum := fft.FFTReal(centered)
	best, bestMag := 0, 0.0
	for i := 1; i <= len(spectrum)/2; i++ {
		if mag := cmplx.Abs(spectrum[i]); mag > bestMag {
			best, bestMag = i, mag
		}
	}

	return float64(best) * float64(sr) / float64(len(samples))
}

// Measurement is the measured pitch of one recorded segment
type Measurement struct {
	Segment
	Hz float64
}

// Measure computes the dominant frequency of every segment but pauses
func (r *Recorder) Measure(sr beep.SampleRate) []Measurement {
	var ret []Measurement
	for _, seg := range r.Segments() {
		if seg.Label == "pause" {
			continue
		}

		ret = append(ret, Measurement{
			Segment: seg,
			Hz:      DominantFrequency(r.Samples(sr, seg.Start, seg.End), sr),
		})
	}

	return ret
}
