//go:build !linux

package status

import (
	"errors"
	"time"
)

func sysinfo() (time.Duration, [3]float64, error) {
	return 0, [3]float64{}, errors.New("sysinfo is only available on linux")
}
