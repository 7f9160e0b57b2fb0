package clock

import (
	"testing"
	"time"
)

func TestAfterAndReached(t *testing.T) {
	c := New(60)
	deadline := c.After(time.Second)
	if deadline != 60 {
		t.Fatalf("After(1s) = %d; want 60", deadline)
	}
	for range 59 {
		c.Advance()
	}
	if c.Reached(deadline) {
		t.Fatal("deadline reached one tick early")
	}
	c.Advance()
	if !c.Reached(deadline) {
		t.Fatal("deadline not reached")
	}
}

func TestTicksRoundsUp(t *testing.T) {
	c := New(60)
	if got := c.Ticks(time.Millisecond); got != 1 {
		t.Fatalf("Ticks(1ms) = %d; want 1", got)
	}
	if got := c.Ticks(0); got != 0 {
		t.Fatalf("Ticks(0) = %d; want 0", got)
	}
}

func TestElapsed(t *testing.T) {
	c := New(50)
	for range 100 {
		c.Advance()
	}
	if got := c.Elapsed(0); got != 2*time.Second {
		t.Fatalf("Elapsed = %v; want 2s", got)
	}
	if New(0).Rate() != 60 {
		t.Fatal("non-positive rate should default to 60")
	}
}
