package main

import (
	"fmt"
	"os"
	"time"

	"code.sztanpet.net/zvpsz/schoolbell/internal/config"
	"code.sztanpet.net/zvpsz/schoolbell/internal/gpio"
	"code.sztanpet.net/zvpsz/schoolbell/internal/tone"
)

// buzzer-test [pitch]
// plays the pitch (A4 by default) for 150ms every 500ms on the configured speaker pin
func main() {
	cfg := config.Get()

	pitch := tone.Pitch{Note: tone.A, Octave: 4}
	if len(os.Args) > 1 {
		var err error
		pitch, err = tone.ParsePitch(os.Args[1])
		if err != nil {
			fmt.Printf("err: %v\n", err)
			os.Exit(1)
		}
	}

	pin, err := gpio.Open(cfg.PinDriver, cfg.SpeakerPin)
	if err != nil {
		fmt.Printf("err: %v\n", err)
		os.Exit(1)
	}
	defer pin.Close()

	fmt.Printf("playing %v (%.2fHz) on %v\n", pitch, pitch.Frequency(), pin)
	p := tone.NewPlayer(pin, tone.Spin)
	for {
		err = p.PlayPitch(pitch, 150)
		if err != nil {
			fmt.Printf("beep err: %v\n", err)
		}
		<-time.After(500 * time.Millisecond)
	}
}
