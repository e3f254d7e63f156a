// error-checker runs as ExecStopPost of the schoolbell service.
// When the bell stopped with an error it says so on telegram, together
// with the end of the bell's log.
//
//	[Service]
//	ExecStopPost=/opt/schoolbell/error-checker schoolbell
package main

import (
	"context"
	"os"
	"time"

	"code.sztanpet.net/zvpsz/schoolbell/internal/config"
	"code.sztanpet.net/zvpsz/schoolbell/internal/logwriter"
	"code.sztanpet.net/zvpsz/schoolbell/internal/telegram"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("error-checker")

type app struct {
	ctx  context.Context
	exit context.CancelFunc
	cfg  *config.Config
	bot  notifier
	bin  string
}

func main() {
	cfg := config.Get()
	ctx, exit := context.WithTimeout(context.Background(), time.Minute)
	defer exit()

	a := &app{
		ctx:  ctx,
		exit: exit,
		cfg:  cfg,
		bin:  "schoolbell",
	}
	if len(os.Args) > 1 {
		a.bin = os.Args[1]
	}

	if err := loggo.ConfigureLoggers(cfg.LogSpec); err != nil {
		logger.Criticalf("invalid LOG_SPEC: %v", err)
		os.Exit(1)
	}

	// the report is sent synchronously below, the log only goes to file and stderr
	if err := logwriter.Setup(cfg.StatePath, nil); err != nil {
		logger.Criticalf("logwriter setup failed: %v", err)
		os.Exit(1)
	}

	if cfg.TelegramEnabled() {
		bot, err := telegram.New(ctx, cfg.TelegramToken, cfg.TelegramChannelID)
		if err != nil {
			logger.Warningf("telegram setup failed: %v", err)
		} else {
			a.bot = bot
		}
	}

	a.handleSignals()
	a.handleServiceError()
}
