// render records what a tone.Player does to its pin and turns it into audio,
// so the bell can be heard and checked without the hardware.
package render

import (
	"errors"
	"fmt"
	"io"
	"time"

	"code.sztanpet.net/zvpsz/schoolbell/internal/bell"
	"code.sztanpet.net/zvpsz/schoolbell/internal/melody"
	"code.sztanpet.net/zvpsz/schoolbell/internal/tone"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// Amplitude of the pin's high level, low is silence
var Amplitude = 0.5

var ErrInvalidSampleRate = errors.New("sample rate must be positive")

// CheckSampleRate rejects rates that cannot be rendered
func CheckSampleRate(sr beep.SampleRate) error {
	if sr <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sr)
	}
	return nil
}

type edge struct {
	at   time.Duration
	high bool
}

// Segment is a labelled stretch of the recording
type Segment struct {
	Label      string
	Start, End time.Duration
}

// Recorder is both the Pin and the Sleeper of a player: sleeping advances a virtual
// clock, level changes are stored with their timestamps.
type Recorder struct {
	now      time.Duration
	level    bool
	edges    []edge
	segments []Segment
}

func (r *Recorder) SetLevel(high bool) error {
	if high != r.level {
		r.edges = append(r.edges, edge{at: r.now, high: high})
	}
	r.level = high
	return nil
}

func (r *Recorder) Sleep(d time.Duration) {
	r.now += d
}

// Duration is the length of the recording
func (r *Recorder) Duration() time.Duration {
	return r.now
}

// Mark ends the current segment and starts a new one with the given label
func (r *Recorder) Mark(label string) {
	r.closeSegment()
	r.segments = append(r.segments, Segment{Label: label, Start: r.now, End: -1})
}

func (r *Recorder) closeSegment() {
	if n := len(r.segments); n > 0 && r.segments[n-1].End < 0 {
		r.segments[n-1].End = r.now
	}
}

func (r *Recorder) Segments() []Segment {
	r.closeSegment()
	return append([]Segment(nil), r.segments...)
}

// Samples returns the pin level sampled at sr, between from and to
func (r *Recorder) Samples(sr beep.SampleRate, from, to time.Duration) []float64 {
	if to > r.now {
		to = r.now
	}
	if to <= from || sr <= 0 {
		return nil
	}

	samples := make([]float64, sr.N(to-from))
	level := false
	next := 0
	for i := range samples {
		t := from + sr.D(i)
		for next < len(r.edges) && r.edges[next].at <= t {
			level = r.edges[next].high
			next++
		}
		if level {
			samples[i] = Amplitude
		}
	}

	return samples
}

// Streamer plays the whole recording
func (r *Recorder) Streamer(sr beep.SampleRate) beep.Streamer {
	samples := r.Samples(sr, 0, r.now)
	pos := 0
	return beep.StreamerFunc(func(buf [][2]float64) (int, bool) {
		if pos >= len(samples) {
			return 0, false
		}

		n := copy2(buf, samples[pos:])
		pos += n
		return n, true
	})
}

func copy2(dst [][2]float64, src []float64) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i][0] = src[i]
		dst[i][1] = src[i]
	}
	return n
}

// Melody plays m once through a Recorder, followed by pause of silence.
// Every tone is marked with its name.
func Melody(m melody.Melody, pause time.Duration) (*Recorder, error) {
	rec := &Recorder{}
	seq := bell.NewSequencer(tone.NewPlayer(rec, rec), m, pause)
	seq.OnTone = func(i int, t melody.Tone) {
		rec.Mark(t.Pitch.String())
	}

	if err := seq.PlayMelody(); err != nil {
		return nil, err
	}

	if pause > 0 {
		rec.Mark("pause")
		rec.Sleep(pause)
	}

	return rec, nil
}

// Format is what the recordings are written with
func Format(sr beep.SampleRate) beep.Format {
	return beep.Format{
		SampleRate:  sr,
		NumChannels: 2,
		Precision:   2,
	}
}

// WriteWAV encodes the recording as 16 bit stereo PCM
func WriteWAV(w io.WriteSeeker, r *Recorder, sr beep.SampleRate) error {
	if err := CheckSampleRate(sr); err != nil {
		return err
	}
	return wav.Encode(w, r.Streamer(sr), Format(sr))
}
