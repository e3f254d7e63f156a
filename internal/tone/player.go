package tone

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrInvalidFrequency = errors.New("frequency must be positive")

// Pin is a digital output the player toggles
type Pin interface {
	SetLevel(high bool) error
}

// Sleeper blocks the calling goroutine for the given duration
type Sleeper interface {
	Sleep(d time.Duration)
}

// SleepFunc adapts a function to the Sleeper interface
type SleepFunc func(d time.Duration)

func (f SleepFunc) Sleep(d time.Duration) {
	f(d)
}

// Sleep hands the wait to the scheduler, cheap but only as precise as the OS timer
var Sleep Sleeper = SleepFunc(time.Sleep)

// Spin busy-waits until the deadline and keeps a core busy while doing so
var Spin Sleeper = SleepFunc(spin)

func spin(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}

// HalfPeriod returns how long the pin is held in each state for the given frequency.
// The full period is rounded to whole microseconds first, then halved.
func HalfPeriod(hz float64) time.Duration {
	periodUs := int64(math.Round(1000000 / hz))
	return time.Duration(periodUs/2) * time.Microsecond
}

// Periods returns how many full square wave periods approximate durationMs.
// The count is truncated, low frequencies lose up to one period of duration.
func Periods(hz float64, durationMs int) int {
	if durationMs <= 0 {
		return 0
	}
	return int(float64(durationMs) * hz / 1000)
}

// Player toggles a Pin to produce square wave tones
type Player struct {
	Pin     Pin
	Sleeper Sleeper
}

func NewPlayer(pin Pin, sleeper Sleeper) *Player {
	if sleeper == nil {
		sleeper = Sleep
	}

	return &Player{
		Pin:     pin,
		Sleeper: sleeper,
	}
}

// Play outputs a square wave with the given frequency for about durationMs.
// It blocks until the tone is done, the pin is left low.
func (p *Player) Play(hz float64, durationMs int) error {
	if !(hz > 0) || math.IsInf(hz, 1) {
		return fmt.Errorf("%w: %v", ErrInvalidFrequency, hz)
	}

	half := HalfPeriod(hz)
	n := Periods(hz, durationMs)
	for i := 0; i < n; i++ {
		if err := p.Pin.SetLevel(true); err != nil {
			_ = p.Pin.SetLevel(false)
			return fmt.Errorf("pin high: %w", err)
		}
		p.Sleeper.Sleep(half)

		if err := p.Pin.SetLevel(false); err != nil {
			return fmt.Errorf("pin low: %w", err)
		}
		p.Sleeper.Sleep(half)
	}

	return nil
}

// PlayPitch is a shorthand for Play(pitch.Frequency(), durationMs)
func (p *Player) PlayPitch(pitch Pitch, durationMs int) error {
	return p.Play(pitch.Frequency(), durationMs)
}
