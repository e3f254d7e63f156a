// melody holds the tunes the bell can play
package melody

import (
	"fmt"
	"strings"
	"time"

	"code.sztanpet.net/zvpsz/schoolbell/internal/tone"
)

// Tone is a single note of a melody
type Tone struct {
	Pitch      tone.Pitch
	DurationMs int
}

func (t Tone) Frequency() float64 {
	return t.Pitch.Frequency()
}

func (t Tone) Duration() time.Duration {
	return time.Duration(t.DurationMs) * time.Millisecond
}

func (t Tone) String() string {
	return fmt.Sprintf("%v %vms", t.Pitch, t.DurationMs)
}

// Melody is played front to back
type Melody []Tone

// Duration is the nominal length of the melody, as written
func (m Melody) Duration() time.Duration {
	var d time.Duration
	for _, t := range m {
		d += t.Duration()
	}
	return d
}

func (m Melody) String() string {
	parts := make([]string, len(m))
	for i, t := range m {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

// Schoolbell is the chime: G4 E4 C4, then a long G3
var Schoolbell = Melody{
	{Pitch: tone.Pitch{Note: tone.G, Octave: 4}, DurationMs: 820},
	{Pitch: tone.Pitch{Note: tone.E, Octave: 4}, DurationMs: 820},
	{Pitch: tone.Pitch{Note: tone.C, Octave: 4}, DurationMs: 820},
	{Pitch: tone.Pitch{Note: tone.G, Octave: 3}, DurationMs: 1640},
}

// Pause is the silence between two repetitions of the chime
const Pause = 2000 * time.Millisecond
