package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code.sztanpet.net/zvpsz/schoolbell/internal/bell"
	"code.sztanpet.net/zvpsz/schoolbell/internal/config"
	"code.sztanpet.net/zvpsz/schoolbell/internal/display"
	"code.sztanpet.net/zvpsz/schoolbell/internal/gpio"
	"code.sztanpet.net/zvpsz/schoolbell/internal/logwriter"
	"code.sztanpet.net/zvpsz/schoolbell/internal/melody"
	"code.sztanpet.net/zvpsz/schoolbell/internal/status"
	"code.sztanpet.net/zvpsz/schoolbell/internal/telegram"
	"code.sztanpet.net/zvpsz/schoolbell/internal/tone"
	"github.com/juju/loggo"
	"golang.org/x/sync/errgroup"
)

type app struct {
	ctx    context.Context
	exit   context.CancelFunc
	cfg    *config.Config
	bot    *telegram.Bot
	screen *display.Screen

	// botCtx outlives ctx so the shutdown messages still reach telegram
	botCtx  context.Context
	stopBot context.CancelFunc

	speaker gpio.Pin
	led     gpio.Pin
}

var logger = loggo.GetLogger("schoolbell")

func main() {
	cfg := config.Get()
	a := newApp(cfg)

	// logging sends messages to telegram, so it depends on it
	a.setupTelegram()
	a.setupLogging()

	a.setupPins()
	defer a.releasePins()

	if cfg.Display {
		a.setupScreen()
	}

	logger.Infof("schoolbell started on %v, melody: %v", a.speaker, melody.Schoolbell)
	err := a.run()

	// canceling the context is the normal way to exit
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Criticalf("bell stopped: %v", err)
		a.releasePins()
		a.flushLogs()
		os.Exit(1)
	}

	logger.Infof("schoolbell stopped")
	a.flushLogs()
}

// flushLogs gives the log forwarder time to send the last lines, then stops the bot
func (a *app) flushLogs() {
	if a.bot != nil {
		// the limiter lets one message through every MaxSendDurr
		time.Sleep(3 * telegram.MaxSendDurr)
	}
	a.stopBot()
}

func newApp(cfg *config.Config) *app {
	ctx, exit := context.WithCancel(context.Background())
	botCtx, stopBot := context.WithCancel(context.Background())

	return &app{
		ctx:     ctx,
		exit:    exit,
		cfg:     cfg,
		botCtx:  botCtx,
		stopBot: stopBot,
	}
}

// run plays the chime until a signal arrives or playback fails
func (a *app) run() error {
	g, ctx := errgroup.WithContext(a.ctx)

	g.Go(func() error {
		return a.handleSignals(ctx)
	})

	seq := a.sequencer()
	g.Go(func() error {
		return seq.Run(ctx)
	})

	if a.cfg.StatusInterval > 0 {
		st := status.New(seq.Played)
		st.Check()
		g.Go(func() error {
			return st.Run(ctx, a.cfg.StatusInterval)
		})
	}

	if a.screen != nil {
		g.Go(func() error {
			return a.screen.Run(ctx)
		})
	}

	return g.Wait()
}

func (a *app) sequencer() *bell.Sequencer {
	sleeper := tone.Spin
	if a.cfg.Timing == config.TimingSleep {
		sleeper = tone.Sleep
	}

	s := bell.NewSequencer(tone.NewPlayer(a.speaker, sleeper), melody.Schoolbell, melody.Pause)
	s.Indicator = a.led

	if a.screen != nil {
		s.OnTone = func(i int, t melody.Tone) {
			if err := a.screen.ShowTone(i, s.Melody, t); err != nil {
				logger.Debugf("screen error: %v", err)
			}
		}
		s.OnPause = func(d time.Duration) {
			if err := a.screen.ShowPause(d); err != nil {
				logger.Debugf("screen error: %v", err)
			}
		}
	}

	return s
}

func (a *app) handleSignals(ctx context.Context) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(c)

	select {
	case s := <-c:
		// the current melody still finishes, the pins are only released after it
		logger.Warningf("Got signal: %s, exiting cleanly", s)
		a.exit()
	case <-ctx.Done():
	}

	return nil
}

func (a *app) setupLogging() {
	if err := loggo.ConfigureLoggers(a.cfg.LogSpec); err != nil {
		logger.Criticalf("invalid LOG_SPEC: %v", err)
		os.Exit(1)
	}

	var bot logwriter.Notifier
	if a.bot != nil {
		bot = a.bot
	}

	if err := logwriter.Setup(a.cfg.StatePath, bot); err != nil {
		logger.Criticalf("logwriter setup failed: %v", err)
		os.Exit(1)
	}
}

func (a *app) setupTelegram() {
	if !a.cfg.TelegramEnabled() {
		return
	}

	bot, err := telegram.New(a.botCtx, a.cfg.TelegramToken, a.cfg.TelegramChannelID)
	if err != nil {
		// the bell works without telegram
		logger.Warningf("telegram setup failed: %v", err)
		return
	}

	a.bot = bot
}

func (a *app) setupPins() {
	speaker, err := gpio.Open(a.cfg.PinDriver, a.cfg.SpeakerPin)
	if err != nil {
		logger.Criticalf("failed to open speaker pin %v: %v", a.cfg.SpeakerPin, err)
		os.Exit(1)
	}
	a.speaker = speaker

	if a.cfg.LEDPin == "" {
		return
	}

	led, err := gpio.Open(a.cfg.PinDriver, a.cfg.LEDPin)
	if err != nil {
		logger.Warningf("failed to open led pin %v, running without: %v", a.cfg.LEDPin, err)
		return
	}
	a.led = led
}

func (a *app) releasePins() {
	if a.speaker != nil {
		if err := a.speaker.Close(); err != nil {
			logger.Warningf("closing %v: %v", a.speaker, err)
		}
		a.speaker = nil
	}

	if a.led != nil {
		if err := a.led.Close(); err != nil {
			logger.Warningf("closing %v: %v", a.led, err)
		}
		a.led = nil
	}

	if a.screen != nil {
		_ = a.screen.Close()
		a.screen = nil
	}
}

func (a *app) setupScreen() {
	screen, err := display.NewScreen(a.ctx)
	if err != nil {
		// screen handles its own logging, the bell works without it
		return
	}
	a.screen = screen
}
