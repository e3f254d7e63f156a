package main

import (
	"context"
	"fmt"
	"time"

	"code.sztanpet.net/zvpsz/schoolbell/internal/display"
	"code.sztanpet.net/zvpsz/schoolbell/internal/melody"
)

func main() {
	s, err := display.NewScreen(context.Background())
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	defer s.Close()

	m := melody.Schoolbell
	for i, t := range m {
		if err := s.ShowTone(i, m, t); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		time.Sleep(t.Duration())
	}

	if err := s.ShowPause(melody.Pause); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	time.Sleep(5 * time.Second)
}
