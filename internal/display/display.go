// display shows what the bell is playing on a small 128x64 status screen
package display

import (
	"context"
	"fmt"
	"time"

	"code.sztanpet.net/zvpsz/schoolbell/internal/melody"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("main.display")

// The ScreenTimeout after which the display is blanked to prevent burn-in.
var ScreenTimeout = 10 * time.Minute

// lineCount defines how many lines of text fit on the screen
const lineCount = 4

// lineWidth is how many characters of the 8px wide font fit on a line
const lineWidth = 16

const title = "SCHOOLBELL"

// ShowTone displays the tone that is about to play
func (s *Screen) ShowTone(i int, m melody.Melody, t melody.Tone) error {
	s.WriteTitle(title)
	s.WriteLine(1, fit(fmt.Sprintf("%-4v%8.2fHz", t.Pitch, t.Frequency())))
	s.WriteLine(2, fit(fmt.Sprintf("%-6v%10v", fmt.Sprintf("%d/%d", i+1, len(m)), t.Duration())))
	s.WriteHelp("")
	return s.Draw()
}

// ShowPause displays the silence between two repetitions
func (s *Screen) ShowPause(d time.Duration) error {
	s.WriteTitle(title)
	s.WriteLine(1, "pause")
	s.WriteLine(2, fit(d.String()))
	s.WriteHelp("")
	return s.Draw()
}

// Run blanks the screen after ScreenTimeout of inactivity until ctx is done
func (s *Screen) Run(ctx context.Context) error {
	t := time.NewTicker(1 * time.Minute)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return s.Clear()
		case <-t.C:
			if !s.ShouldBlank() {
				continue
			}
			if err := s.Blank(); err != nil {
				logger.Warningf("blanking screen failed: %v", err)
			}
		}
	}
}

func fit(text string) string {
	r := []rune(text)
	if len(r) > lineWidth {
		return string(r[:lineWidth])
	}
	return text
}
