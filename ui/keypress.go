package ui

import (
	"context"
	"os"
	"sync"

	"github.com/eiannone/keyboard"
	"github.com/mattn/go-isatty"
)

var (
	keyCh     chan rune
	startOnce sync.Once
	opened    bool
	closeMu   sync.Mutex
)

// StartKeyEvents returns a channel that emits single-key runes read without
// Enter. Esc arrives as 27. When stdin is not a terminal the channel never
// emits.
func StartKeyEvents() chan rune {
	startOnce.Do(func() {
		keyCh = make(chan rune, 64)
		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return
		}
		if err := keyboard.Open(); err != nil {
			return
		}
		closeMu.Lock()
		opened = true
		closeMu.Unlock()
		go func() {
			for {
				char, key, err := keyboard.GetKey()
				if err != nil {
					return
				}
				switch {
				case key == 0:
					sendKey(char)
				case key == keyboard.KeyEsc:
					sendKey(27)
				case key == keyboard.KeyCtrlC:
					sendKey(3)
				}
			}
		}()
	})
	return keyCh
}

// StopKeyEvents restores the terminal mode changed by StartKeyEvents.
func StopKeyEvents() {
	closeMu.Lock()
	defer closeMu.Unlock()
	if opened {
		opened = false
		_ = keyboard.Close()
	}
}

func sendKey(r rune) {
	select {
	case keyCh <- r:
	default:
	}
}

// IsStopKey reports whether r asks a running stream to end.
func IsStopKey(r rune) bool {
	return r == 'q' || r == 'Q' || r == 27 || r == 3
}

// CancelOnStopKey cancels when q, Esc or ctrl+c is pressed, or returns when
// ctx ends first.
func CancelOnStopKey(ctx context.Context, cancel context.CancelFunc) {
	keys := StartKeyEvents()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case r := <-keys:
				if IsStopKey(r) {
					cancel()
					return
				}
			}
		}
	}()
}

// DrainKeys discards keys already queued, such as a q typed before a stream
// starts.
func DrainKeys() {
	keys := StartKeyEvents()
	for {
		select {
		case <-keys:
		default:
			return
		}
	}
}
