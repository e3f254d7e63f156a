//go:build amd64

package display

import (
	"context"
	"sync"
	"time"
)

// Screen keeps the lines in memory, development machines have no display attached
type Screen struct {
	ctx context.Context

	mu         sync.Mutex
	lines      [lineCount]string
	drawn      [lineCount]string
	lastActive time.Time
}

func NewScreen(ctx context.Context) (*Screen, error) {
	ret := &Screen{
		ctx:        ctx,
		lastActive: time.Now(),
	}

	return ret, nil
}

// WriteTitle draws the text in black on a white background into the first line (line #0)
func (s *Screen) WriteTitle(text string) {
	s.WriteLine(0, text)
}

// WriteLine writes the text in white on black into the indicated line (usually #1 or #2)
func (s *Screen) WriteLine(line int, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[line] = text
}

// WriteHelp writes help text in black on white into the last line (line #3)
func (s *Screen) WriteHelp(text string) {
	s.WriteLine(lineCount-1, text)
}

func (s *Screen) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = [lineCount]string{}
	return s.blankLocked()
}

func (s *Screen) Draw() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()
	s.drawn = s.lines
	logger.Tracef("screen: %q", s.drawn)
	return nil
}

// Blank blanks the screen without clearing the lines
func (s *Screen) Blank() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.blankLocked()
}

func (s *Screen) blankLocked() error {
	s.drawn = [lineCount]string{}
	return nil
}

func (s *Screen) ShouldBlank() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	blankAfter := s.lastActive.Add(ScreenTimeout)
	return time.Now().After(blankAfter)
}

func (s *Screen) Close() error {
	return s.Blank()
}

// Drawn returns what is currently visible
func (s *Screen) Drawn() [lineCount]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.drawn
}
