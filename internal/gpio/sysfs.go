package gpio

import (
	"fmt"
	"io"
	"os"

	"code.sztanpet.net/zvpsz/schoolbell/internal/file"
)

// orangepi pc plus gpio numbering:
// (position of letter in alphabet - 1) * 32 + pin number
// Beeper - PA20 => 20
var base = "/sys/class/gpio"

type dir string

const out dir = "out"

var (
	high = []byte("1")
	low  = []byte("0")
)

type sysfsPin struct {
	pin   string
	value *os.File
}

func openSysfs(name string) (*sysfsPin, error) {
	p := &sysfsPin{pin: name}
	if err := p.export(); err != nil {
		return nil, err
	}
	if err := p.direction(out); err != nil {
		return nil, err
	}

	// the value file stays open, reopening it for every edge is too slow at audio rates
	f, err := os.OpenFile(gpioPath(p.pin, "value"), os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("Failed to open value: %v %w", p, err)
	}
	p.value = f

	return p, nil
}

func (p *sysfsPin) String() string {
	return "GPIO PIN: " + p.pin
}

func (p *sysfsPin) SetLevel(on bool) error {
	v := low
	if on {
		v = high
	}

	n, err := p.value.WriteAt(v, 0)
	if err != nil {
		return err
	}
	if n < len(v) {
		return io.ErrShortWrite
	}

	return nil
}

func (p *sysfsPin) Close() error {
	err := p.SetLevel(false)
	if cerr := p.value.Close(); err == nil {
		err = cerr
	}

	return err
}

func (p *sysfsPin) export() error {
	if file.Exists(base + "/gpio" + p.pin) {
		return nil // already exported
	}

	if err := write(base+"/export", p.pin); err != nil {
		return fmt.Errorf("Failed to export: %v %w", p, err)
	}

	return nil
}

func (p *sysfsPin) direction(d dir) error {
	if err := write(gpioPath(p.pin, "direction"), string(d)); err != nil {
		return fmt.Errorf("Failed to set direction '%v': %v %w", d, p, err)
	}

	return nil
}

func gpioPath(p string, file string) string {
	return base + "/gpio" + p + "/" + file
}

func write(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := f.WriteString(value)
	if err != nil {
		return err
	}

	if n < len(value) {
		return io.ErrShortWrite
	}

	return nil
}
