// status implements monitoring of system status
// checks for system temperature, uptime, and load
// and how many times the chime was played since start
package status

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("main.status")

// ThermalZone is where the SoC temperature is read from, in millidegrees
var ThermalZone = "/sys/class/thermal/thermal_zone0/temp"

type Report struct {
	Uptime time.Duration
	Loads  [3]float64
	// TempC is NaN when the thermal zone is not readable
	TempC  float64
	Chimes int64
}

func (r Report) String() string {
	temp := "n/a"
	if !math.IsNaN(r.TempC) {
		temp = fmt.Sprintf("%.1fC", r.TempC)
	}

	return fmt.Sprintf("up %v, load %.2f %.2f %.2f, temp %v, chimes played: %d",
		r.Uptime, r.Loads[0], r.Loads[1], r.Loads[2], temp, r.Chimes)
}

type Status struct {
	chimes func() int64
}

// New returns a Status that counts chimes with the given func, nil counts nothing
func New(chimes func() int64) *Status {
	return &Status{
		chimes: chimes,
	}
}

// Check collects a Report and logs it
func (s *Status) Check() Report {
	r := Report{TempC: readTemp(ThermalZone)}

	var err error
	r.Uptime, r.Loads, err = sysinfo()
	if err != nil {
		logger.Warningf("sysinfo failed: %v", err)
	}

	if s.chimes != nil {
		r.Chimes = s.chimes()
	}

	logger.Infof("status: %v", r)
	return r
}

// Run checks the status every interval until ctx is done
func (s *Status) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			s.Check()
		}
	}
}

// readTemp reads a sysfs thermal zone, 43802 -> 43.802C
func readTemp(path string) float64 {
	b, err := os.ReadFile(path)
	if err != nil {
		logger.Debugf("reading %v failed: %v", path, err)
		return math.NaN()
	}

	milli, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		logger.Debugf("invalid temperature in %v: %q", path, b)
		return math.NaN()
	}

	return float64(milli) / 1000
}
