// gpio provides the digital output pins the bell is wired to.
// Three drivers are available: periph (periph.io pin registry), sysfs (/sys/class/gpio)
// and none, which only counts level changes for machines without a speaker.
package gpio

import (
	"fmt"

	"code.sztanpet.net/zvpsz/schoolbell/internal/tone"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("main.gpio")

const (
	DriverPeriph = "periph"
	DriverSysfs  = "sysfs"
	DriverNone   = "none"
)

// Pin is an output pin owned by the process until Close is called
type Pin interface {
	tone.Pin
	fmt.Stringer
	// Close drives the pin low and releases it
	Close() error
}

// Open opens the named pin with the given driver and drives it low.
// Pin names are driver specific: periph takes registry names ("GPIO20", "PA20", "20"),
// sysfs takes the kernel gpio number ("20").
func Open(driver, name string) (Pin, error) {
	var (
		p   Pin
		err error
	)

	switch driver {
	case DriverPeriph:
		p, err = openPeriph(name)
	case DriverSysfs:
		p, err = openSysfs(name)
	case DriverNone:
		p = &nullPin{name: name}
	default:
		return nil, fmt.Errorf("unknown gpio driver: %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if err := p.SetLevel(false); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to drive %v low: %w", p, err)
	}

	logger.Debugf("opened %v", p)
	return p, nil
}

// nullPin stands in for a speaker on development machines
type nullPin struct {
	name  string
	level bool
	edges int
}

func (p *nullPin) String() string {
	return "NULL PIN: " + p.name
}

func (p *nullPin) SetLevel(high bool) error {
	if high != p.level {
		p.edges++
	}
	p.level = high
	return nil
}

func (p *nullPin) Close() error {
	p.level = false
	logger.Tracef("%v closed after %d level changes", p, p.edges)
	return nil
}
