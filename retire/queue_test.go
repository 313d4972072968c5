package retire

import (
	"testing"

	"github.com/pixelforge/forge/handle"
)

func TestTickFiresAfterDelay(t *testing.T) {
	var q Queue
	var fired []handle.Handle
	h := handle.New(1, 0)
	q.Push(h, DefaultDelay, func(hh handle.Handle) { fired = append(fired, hh) })

	q.Tick() // frame F: still in-flight commands may reference h
	if len(fired) != 0 {
		t.Fatal("destroy must not run before its delay elapses")
	}
	q.Tick() // frame F+1: safe to destroy
	if len(fired) != 1 || fired[0] != h {
		t.Fatalf("expected destroy to fire exactly once, got %v", fired)
	}
	q.Tick()
	if len(fired) != 1 {
		t.Fatal("entry must be removed once fired")
	}
}

func TestDrainFiresImmediately(t *testing.T) {
	var q Queue
	count := 0
	q.Push(handle.New(1, 0), 5, func(handle.Handle) { count++ })
	q.Push(handle.New(2, 0), 0, func(handle.Handle) { count++ })
	q.Drain()
	if count != 2 {
		t.Fatalf("expected 2 immediate destroys, got %d", count)
	}
	if q.Len() != 0 {
		t.Fatal("queue must be empty after drain")
	}
}
