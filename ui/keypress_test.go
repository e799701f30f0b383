package ui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsStopKey(t *testing.T) {
	for _, r := range []rune{'q', 'Q', 27, 3} {
		assert.True(t, IsStopKey(r), "%q", r)
	}
	for _, r := range []rune{'a', ' ', '\r'} {
		assert.False(t, IsStopKey(r), "%q", r)
	}
}

func TestCancelOnStopKey(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	CancelOnStopKey(ctx, cancel)

	sendKey('x')
	sendKey('q')

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("stop key did not cancel")
	}
	StopKeyEvents()
}

func TestDrainKeysDropsEarlyStopKey(t *testing.T) {
	StartKeyEvents()
	sendKey('q')
	DrainKeys()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	CancelOnStopKey(ctx, cancel)

	select {
	case <-ctx.Done():
		t.Fatal("key pressed before the stream cancelled it")
	case <-time.After(50 * time.Millisecond):
	}

	sendKey(27)
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("Esc did not cancel")
	}
}
