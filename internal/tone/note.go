// tone converts notes to frequencies and plays them as square waves on an output pin
package tone

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Note is the semitone inside an octave, C = 0 ... B = 11
type Note int

const (
	C Note = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

// reference pitch: concert A, A4 = 440Hz
const (
	baseFreq   = 440.0
	baseOctave = 4
	baseNote   = A
)

var ErrInvalidPitch = errors.New("invalid pitch")

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (n Note) String() string {
	if n < C || n > B {
		return "Note(" + strconv.Itoa(int(n)) + ")"
	}
	return noteNames[n]
}

// Frequency returns the equal-tempered frequency of the note in the given octave, in Hz.
// Notes outside of 0-11 wrap into the neighbouring octaves.
func Frequency(note Note, octave int) float64 {
	// normalize first so note+12 and octave+1 compute the very same value
	octave += floorDiv(int(note), 12)
	note = Note(int(note) - floorDiv(int(note), 12)*12)

	// 2^k is exact for integer k, so octaves are exact multiples of each other
	return baseFreq * math.Ldexp(1, octave-baseOctave) * math.Exp2(float64(note-baseNote)/12)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// Pitch is a note in a specific octave, eg. G4
type Pitch struct {
	Note   Note
	Octave int
}

func (p Pitch) Frequency() float64 {
	return Frequency(p.Note, p.Octave)
}

func (p Pitch) String() string {
	return p.Note.String() + strconv.Itoa(p.Octave)
}

// ParsePitch parses scientific pitch notation: "A4", "C#5", "Bb3", "g3".
// H is accepted for B.
func ParsePitch(s string) (Pitch, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidPitch, s)
	}

	var n Note
	switch strings.ToUpper(s[:1]) {
	case "C":
		n = C
	case "D":
		n = D
	case "E":
		n = E
	case "F":
		n = F
	case "G":
		n = G
	case "A":
		n = A
	case "B", "H":
		n = B
	default:
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidPitch, s)
	}

	rest := s[1:]
	octaveShift := 0
	switch rest[0] {
	case '#':
		n++
		rest = rest[1:]
	case 'b':
		n--
		rest = rest[1:]
	}
	// B#4 is C5, Cb4 is B3
	if n > B {
		n, octaveShift = C, 1
	} else if n < C {
		n, octaveShift = B, -1
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Pitch{}, fmt.Errorf("%w: %q", ErrInvalidPitch, s)
	}

	return Pitch{Note: n, Octave: octave + octaveShift}, nil
}
