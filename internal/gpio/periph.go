package gpio

import (
	"fmt"
	"sync"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

var (
	hostOnce sync.Once
	hostErr  error
)

// initHost loads the periph drivers once per process
func initHost() error {
	hostOnce.Do(func() {
		_, hostErr = host.Init()
	})
	return hostErr
}

type periphPin struct {
	pin gpio.PinOut
}

func openPeriph(name string) (*periphPin, error) {
	if err := initHost(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("no such gpio pin: %q", name)
	}

	return &periphPin{pin: p}, nil
}

func (p *periphPin) String() string {
	return "PERIPH PIN: " + p.pin.Name()
}

func (p *periphPin) SetLevel(high bool) error {
	return p.pin.Out(gpio.Level(high))
}

func (p *periphPin) Close() error {
	if err := p.pin.Out(gpio.Low); err != nil {
		return err
	}

	return p.pin.Halt()
}
