package main

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"code.sztanpet.net/zvpsz/schoolbell/internal/file"
)

// notifier is what the report goes out on, telegram.Bot is one
type notifier interface {
	Send(txt string, disableNotification bool) error
	SendFile(data []byte, filename string, disableNotification bool) error
}

// maxLogTail is how much of the end of the log is sent along
const maxLogTail = 64 << 10

// serviceResult is what systemd tells ExecStopPost about the main process
// https://www.freedesktop.org/software/systemd/man/systemd.exec.html#%24EXIT_CODE
type serviceResult struct {
	// one of "exited", "killed", "dumped"
	ExitCode string
	// 0-255, or signal name
	ExitStatus string
	// "success", "protocol", "timeout", "exit-code", "signal",
	// "core-dump", "watchdog", "start-limit-hit", "resources"
	Result string
}

func serviceResultFromEnv() serviceResult {
	return serviceResult{
		ExitCode:   os.Getenv("EXIT_CODE"),
		ExitStatus: os.Getenv("EXIT_STATUS"),
		Result:     os.Getenv("SERVICE_RESULT"),
	}
}

// failed reports whether the bell did not stop cleanly.
// The bell exits 0 on SIGTERM, which systemd reports as success.
func (r serviceResult) failed() bool {
	if r.Result == "" {
		// not started by systemd
		return false
	}

	return r.Result != "success"
}

func (a *app) handleSignals() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func(c chan os.Signal) {
		s := <-c
		logger.Warningf("Caught signal: %v, exiting", s)
		a.exit()
	}(c)
}

func (a *app) handleServiceError() {
	r := serviceResultFromEnv()
	logger.Debugf("%v %v (code: %v - result: %v)", a.bin, r.ExitCode, r.ExitStatus, r.Result)
	if !r.failed() {
		logger.Tracef("no error detected with binary %v", a.bin)
		return
	}

	msg := fmt.Sprintf(
		"%v stopped! EXIT_CODE=%q EXIT_STATUS=%q SERVICE_RESULT=%q",
		a.bin,
		r.ExitCode,
		r.ExitStatus,
		r.Result,
	)
	logger.Errorf("%v", msg)

	if a.bot == nil {
		return
	}

	if err := a.bot.Send(msg, false); err != nil {
		logger.Warningf("sending report failed: %v", err)
	}
	a.sendLog(filepath.Join(a.cfg.StatePath, a.bin+".log"))
}

func (a *app) sendLog(logPath string) {
	if !file.Exists(logPath) {
		logger.Tracef("no log at %v", logPath)
		return
	}

	data, err := zipTail(logPath, maxLogTail)
	if err != nil {
		logger.Warningf("could not zip log %v, error was: %v", logPath, err)
		return
	}

	filename := a.bin + time.Now().Format("_20060102_150405") + ".log.zip"
	if err := a.bot.SendFile(data, filename, true); err != nil {
		logger.Warningf("sending file failed: %v", err)
	}
}

// zipTail zips at most the last n bytes of the file at path
func zipTail(path string, n int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	if fi.Size() > n {
		if _, err := f.Seek(-n, io.SeekEnd); err != nil {
			return nil, err
		}
	}

	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	zf, err := w.Create(filepath.Base(path))
	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(zf, f); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
