//go:build tinygo

// schoolbell-mcu is the bell as firmware for arduino compatible boards:
// speaker on D6, the board LED lights up while the chime plays.
//
//	tinygo flash -target arduino ./cmd/schoolbell-mcu
package main

import (
	"machine"
	"time"

	"code.sztanpet.net/zvpsz/schoolbell/internal/melody"
	"code.sztanpet.net/zvpsz/schoolbell/internal/tone"
)

type pin machine.Pin

func (p pin) SetLevel(high bool) error {
	machine.Pin(p).Set(high)
	return nil
}

func main() {
	speaker := machine.D6
	speaker.Configure(machine.PinConfig{Mode: machine.PinOutput})
	speaker.Low()

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	// busy-waits, like delayMicroseconds
	p := tone.NewPlayer(pin(speaker), tone.Spin)
	for {
		println("playing chime")
		led.High()
		for _, t := range melody.Schoolbell {
			_ = p.PlayPitch(t.Pitch, t.DurationMs)
		}
		led.Low()

		time.Sleep(melody.Pause)
	}
}
