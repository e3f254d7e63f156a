//go:build linux

package status

import (
	"time"

	"golang.org/x/sys/unix"
)

// loads are fixed point with 16 bits of fraction
const loadScale = 1 << 16

func sysinfo() (time.Duration, [3]float64, error) {
	var loads [3]float64

	si := &unix.Sysinfo_t{}
	if err := unix.Sysinfo(si); err != nil {
		return 0, loads, err
	}

	for i := range loads {
		loads[i] = float64(si.Loads[i]) / loadScale
	}

	return time.Duration(si.Uptime) * time.Second, loads, nil
}
