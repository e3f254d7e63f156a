package logwriter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code.sztanpet.net/zvpsz/schoolbell/internal/file"
	"github.com/juju/loggo"
)

// Notifier receives every formatted log line, telegram.Bot is one
type Notifier interface {
	Send(txt string, disableNotification bool) error
}

type writer struct {
	logPath string
	console io.Writer
	bot     Notifier
}

// Setup replaces the default loggo writer with one that appends to <statePath>/<binary>.log,
// echoes to stderr and forwards to bot when it is not nil.
func Setup(statePath string, bot Notifier) error {
	path, err := os.Executable()
	if err != nil {
		return fmt.Errorf("os.Executable() failed: %w", err)
	}

	logPath := filepath.Join(statePath, filepath.Base(path)+".log")
	return register(newWriter(logPath, os.Stderr, bot))
}

func newWriter(logPath string, console io.Writer, bot Notifier) *writer {
	return &writer{
		logPath: logPath,
		console: console,
		bot:     bot,
	}
}

func register(w *writer) error {
	_, err := loggo.RemoveWriter("default")
	if err != nil {
		return err
	}

	return loggo.RegisterWriter("default", w)
}

func (w *writer) Write(e loggo.Entry) {
	line := w.formatEntry(e)

	fp := e.Filename
	ix := strings.Index(e.Filename, "schoolbell/")
	if ix != -1 {
		fp = fp[ix+len("schoolbell/"):]
	}

	l := fmt.Sprintf("%v%v:%v %v\n",
		e.Timestamp.Format("[2006-01-02 15:04:05] "),
		fp, e.Line,
		line,
	)
	if err := file.Append(w.logPath, []byte(l)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write log file: %v\n", err)
	}
	if w.console != nil {
		_, _ = io.WriteString(w.console, l)
	}

	// trace and debug would flood the channel while the bell plays
	if w.bot == nil || e.Level < loggo.INFO {
		return
	}

	go func() {
		needNotification := e.Level >= loggo.WARNING
		err := w.bot.Send(line, !needNotification)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v bot send error: %v\n", e.Timestamp.Format("[2006-01-02 15:04:05]"), err)
		}
	}()
}

func (w *writer) formatEntry(e loggo.Entry) string {
	// who can remember the order of the levels right?
	// indicate the level like T1 for TRACE D2 for debug, etc
	return fmt.Sprintf(
		"[%v%v|%v:%v:%v] %v",
		string(e.Level.String()[0]),
		int(e.Level),
		e.Module,
		filepath.Base(e.Filename),
		e.Line,
		e.Message,
	)
}
