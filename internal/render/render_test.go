package render

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"code.sztanpet.net/zvpsz/schoolbell/internal/melody"
	"code.sztanpet.net/zvpsz/schoolbell/internal/tone"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sr = beep.SampleRate(44100)

func TestRecorderSamples(t *testing.T) {
	rec := &Recorder{}
	p := tone.NewPlayer(rec, rec)
	require.NoError(t, p.Play(1000, 3))

	// 1kHz sampled at 8kHz: 4 samples high, 4 low
	samples := rec.Samples(8000, 0, rec.Duration())
	require.Len(t, samples, 24)
	for i, s := range samples {
		want := 0.0
		if i%8 < 4 {
			want = Amplitude
		}
		assert.Equal(t, want, s, "sample %d", i)
	}

	assert.Empty(t, rec.Samples(8000, time.Second, 2*time.Second))
}

func TestInvalidSampleRate(t *testing.T) {
	require.NoError(t, CheckSampleRate(sr))
	for _, bad := range []beep.SampleRate{0, -8000} {
		assert.ErrorIs(t, CheckSampleRate(bad), ErrInvalidSampleRate, "%d", bad)
	}

	rec := &Recorder{}
	require.NoError(t, tone.NewPlayer(rec, rec).Play(1000, 3))
	assert.NotPanics(t, func() {
		assert.Empty(t, rec.Samples(-8000, 0, rec.Duration()))
	})

	f, err := os.Create(filepath.Join(t.TempDir(), "chime.wav"))
	require.NoError(t, err)
	defer f.Close()
	assert.ErrorIs(t, WriteWAV(f, rec, 0), ErrInvalidSampleRate)
}

func TestRecorderOnlyStoresEdges(t *testing.T) {
	rec := &Recorder{}
	require.NoError(t, rec.SetLevel(false))
	require.NoError(t, rec.SetLevel(true))
	require.NoError(t, rec.SetLevel(true))
	require.NoError(t, rec.SetLevel(false))
	assert.Len(t, rec.edges, 2)
}

func TestDominantFrequency(t *testing.T) {
	for _, hz := range []float64{440, tone.Frequency(tone.G, 3), tone.Frequency(tone.C, 5)} {
		rec := &Recorder{}
		p := tone.NewPlayer(rec, rec)
		require.NoError(t, p.Play(hz, 1000))

		got := DominantFrequency(rec.Samples(sr, 0, rec.Duration()), sr)
		assert.InDelta(t, hz, got, 2, "%vHz", hz)
	}
}

func TestDominantFrequencyTooShort(t *testing.T) {
	assert.Zero(t, DominantFrequency(nil, sr))
	assert.Zero(t, DominantFrequency([]float64{1}, sr))
}

func TestMelody(t *testing.T) {
	rec, err := Melody(melody.Schoolbell, melody.Pause)
	require.NoError(t, err)

	segs := rec.Segments()
	require.Len(t, segs, 5)
	labels := make([]string, len(segs))
	for i, s := range segs {
		labels[i] = s.Label
	}
	assert.Equal(t, []string{"G4", "E4", "C4", "G3", "pause"}, labels)
	assert.Equal(t, melody.Pause, segs[4].End-segs[4].Start)
	assert.Equal(t, segs[4].End, rec.Duration())

	ms := rec.Measure(sr)
	require.Len(t, ms, 4)
	for i, m := range ms {
		assert.InDelta(t, melody.Schoolbell[i].Frequency(), m.Hz, 2, m.Label)
		assert.InDelta(t, float64(melody.Schoolbell[i].Duration()), float64(m.End-m.Start), float64(6*time.Millisecond), m.Label)
	}
}

func TestStreamer(t *testing.T) {
	rec, err := Melody(melody.Melody{{Pitch: tone.Pitch{Note: tone.A, Octave: 4}, DurationMs: 100}}, 50*time.Millisecond)
	require.NoError(t, err)

	want := rec.Samples(sr, 0, rec.Duration())
	s := rec.Streamer(sr)

	var got []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			assert.Equal(t, smp[0], smp[1])
			got = append(got, smp[0])
		}
		if !ok {
			break
		}
	}
	assert.Equal(t, want, got)
}

func TestWriteWAV(t *testing.T) {
	rec, err := Melody(melody.Schoolbell, 0)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "chime.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWAV(f, rec, sr))
	require.NoError(t, f.Close())

	f, err = os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	s, format, err := wav.Decode(f)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, Format(sr), format)
	assert.Equal(t, sr.N(rec.Duration()), s.Len())
}
