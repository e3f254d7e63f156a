// bell plays a melody on a tone.Player, over and over
package bell

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"code.sztanpet.net/zvpsz/schoolbell/internal/melody"
	"code.sztanpet.net/zvpsz/schoolbell/internal/tone"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("main.bell")

// Sequencer plays a Melody note by note.
// Playback of a melody is never interrupted, cancellation is only
// checked between repetitions.
type Sequencer struct {
	Player *tone.Player
	Melody melody.Melody
	Pause  time.Duration

	// Indicator, when set, is high for as long as a melody is playing
	Indicator tone.Pin

	// OnTone is called right before each tone is played
	OnTone func(i int, t melody.Tone)

	// OnPause is called when the pause between two repetitions starts
	OnPause func(d time.Duration)

	// after is time.After, replaced in tests
	after func(d time.Duration) <-chan time.Time

	played atomic.Int64
}

func NewSequencer(player *tone.Player, m melody.Melody, pause time.Duration) *Sequencer {
	return &Sequencer{
		Player: player,
		Melody: m,
		Pause:  pause,
		after:  time.After,
	}
}

// PlayMelody plays every tone of the melody in order and returns when the last one is done
func (s *Sequencer) PlayMelody() error {
	s.indicate(true)
	defer s.indicate(false)

	for i, t := range s.Melody {
		if s.OnTone != nil {
			s.OnTone(i, t)
		}

		logger.Tracef("tone %d: %v (%.2fHz)", i, t, t.Frequency())
		if err := s.Player.PlayPitch(t.Pitch, t.DurationMs); err != nil {
			return fmt.Errorf("playing tone %d (%v): %w", i, t, err)
		}
	}

	s.played.Add(1)
	return nil
}

// Played is the number of melodies played to the end, safe to call while Run is going
func (s *Sequencer) Played() int64 {
	return s.played.Load()
}

// Run plays the melody, waits for the pause, and starts over until ctx is cancelled
// or playback fails.
func (s *Sequencer) Run(ctx context.Context) error {
	after := s.after
	if after == nil {
		after = time.After
	}

	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		logger.Debugf("playing melody, repetition %d", n)
		if err := s.PlayMelody(); err != nil {
			return err
		}

		if s.OnPause != nil {
			s.OnPause(s.Pause)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-after(s.Pause):
		}
	}
}

func (s *Sequencer) indicate(on bool) {
	if s.Indicator == nil {
		return
	}

	if err := s.Indicator.SetLevel(on); err != nil {
		logger.Warningf("indicator error: %v", err)
	}
}
