package main

import (
	"flag"
	"math"
	"os"
	"time"

	"code.sztanpet.net/zvpsz/schoolbell/internal/file"
	"code.sztanpet.net/zvpsz/schoolbell/internal/melody"
	"code.sztanpet.net/zvpsz/schoolbell/internal/render"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("chime-wav")

var (
	out   = flag.String("o", "schoolbell.wav", "wav file to write, empty to skip writing")
	rate  = flag.Int("rate", 44100, "sample rate in Hz")
	pause = flag.Bool("pause", true, "append the pause that follows the chime")
	play  = flag.Bool("play", false, "play the chime on the default sound card")
)

// chime-wav runs the bell against a virtual pin and saves what the speaker would output
func main() {
	flag.Parse()
	logger.SetLogLevel(loggo.INFO)

	sr := beep.SampleRate(*rate)
	if err := render.CheckSampleRate(sr); err != nil {
		logger.Criticalf("invalid -rate: %v", err)
		os.Exit(2)
	}
	p := time.Duration(0)
	if *pause {
		p = melody.Pause
	}

	rec, err := render.Melody(melody.Schoolbell, p)
	if err != nil {
		logger.Criticalf("rendering failed: %v", err)
		os.Exit(1)
	}
	logger.Infof("rendered %v, %v long", melody.Schoolbell, rec.Duration())

	for i, m := range rec.Measure(sr) {
		want := melody.Schoolbell[i]
		cents := 1200 * math.Log2(m.Hz/want.Frequency())
		logger.Infof("%v: want %.2fHz %v, measured %.2fHz (%+.1f cents) %v",
			m.Label, want.Frequency(), want.Duration(), m.Hz, cents, m.End-m.Start)
	}

	if *out != "" {
		err = file.WriteAtomically(*out, func(f *os.File) error {
			return render.WriteWAV(f, rec, sr)
		})
		if err != nil {
			logger.Criticalf("writing %v failed: %v", *out, err)
			os.Exit(1)
		}
		logger.Infof("wrote %v", *out)
	}

	if *play {
		if err := speaker.Init(sr, sr.N(100*time.Millisecond)); err != nil {
			logger.Criticalf("speaker init failed: %v", err)
			os.Exit(1)
		}

		done := make(chan struct{})
		speaker.Play(beep.Seq(rec.Streamer(sr), beep.Callback(func() {
			close(done)
		})))
		<-done
	}
}
