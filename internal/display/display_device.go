//go:build !amd64

package display

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/devices/ssd1306"
	"periph.io/x/periph/devices/ssd1306/image1bit"
	"periph.io/x/periph/host"
)

var textFont = inconsolata.Bold8x16

// Screen is an ssd1306 OLED on the default i2c bus
type Screen struct {
	ctx context.Context
	bus i2c.BusCloser
	dev *ssd1306.Dev

	mu         sync.Mutex
	lines      [lineCount]string
	lastActive time.Time
}

func NewScreen(ctx context.Context) (*Screen, error) {
	if _, err := host.Init(); err != nil {
		logger.Warningf("no display detected, skipping: %v", err)
		return nil, err
	}

	b, err := i2creg.Open("")
	if err != nil {
		logger.Warningf("could not open i2c bus, display disabled: %v", err)
		return nil, err
	}

	opts := ssd1306.DefaultOpts
	opts.Rotated = false
	dev, err := ssd1306.NewI2C(b, &opts)
	if err != nil {
		_ = b.Close()
		logger.Warningf("could not find ssd1306 screen, display disabled: %v", err)
		return nil, err
	}

	return &Screen{
		ctx:        ctx,
		bus:        b,
		dev:        dev,
		lastActive: time.Now(),
	}, nil
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

// Draw renders the lines onto the screen
func (s *Screen) Draw() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()
	img := image1bit.NewVerticalLSB(s.dev.Bounds())
	for i, text := range s.lines {
		s.drawLine(img, i, text)
	}

	return s.dev.Draw(s.dev.Bounds(), img, image.Point{})
}

func (s *Screen) drawLine(img *image1bit.VerticalLSB, linenum int, text string) {
	top := linenum * textFont.Height
	fg, bg := image1bit.On, image1bit.Off
	// title and help are inverted
	if linenum == 0 || linenum == lineCount-1 {
		fg, bg = bg, fg
	}

	if bg == image1bit.On && text != "" {
		r := image.Rect(0, top, img.Bounds().Dx(), top+textFont.Height)
		draw.Draw(img, r, &image.Uniform{image1bit.On}, image.Point{}, draw.Src)
	}

	drawer := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{fg},
		Face: textFont,
		Dot:  fixed.P(0, top+textFont.Ascent),
	}
	drawer.DrawString(text)
}

// Blank blanks the screen without clearing the lines
func (s *Screen) Blank() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.blankLocked()
}

// blankLocked expects s.mu to be held, every access to s.dev goes through it
func (s *Screen) blankLocked() error {
	img := image1bit.NewVerticalLSB(s.dev.Bounds())
	return s.dev.Draw(s.dev.Bounds(), img, image.Point{})
}

func (s *Screen) ShouldBlank() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	blankAfter := s.lastActive.Add(ScreenTimeout)
	return time.Now().After(blankAfter)
}

func (s *Screen) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.blankLocked()
	if cerr := s.bus.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing i2c bus: %w", cerr)
	}

	return err
}
