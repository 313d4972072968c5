// Package retire implements the defer queue: a list of handle-keyed
// destruction actions scheduled with an N-frame delay and drained once per
// frame. Every GPU free entry point pushes here instead of destroying
// directly, so that a handle freed mid-frame stays valid for any command
// already queued against it in that same frame.
package retire

import "github.com/pixelforge/forge/handle"

// DestroyFunc runs a deferred destruction action for h.
type DestroyFunc func(h handle.Handle)

type entry struct {
	framesLeft int
	handle     handle.Handle
	destroy    DestroyFunc
}

// Queue holds pending destroy actions. The zero value is ready to use.
type Queue struct {
	entries []entry
}

// DefaultDelay is a one-frame delay: an object pushed with it outlives the
// frame it was freed in, so any command recorded earlier in that same frame
// still resolves. gpu.Context's Destroy* methods take their delay as an
// argument and do not apply this value themselves.
const DefaultDelay = 1

// Push schedules fn(h) to run after frames more calls to Tick. frames == 0
// means fn runs on the very next Tick.
func (q *Queue) Push(h handle.Handle, frames int, fn DestroyFunc) {
	q.entries = append(q.entries, entry{framesLeft: frames, handle: h, destroy: fn})
}

// Tick decrements every pending entry's remaining frame count, invokes and
// removes the ones that have reached zero. Call once per frame, after that
// frame's commands have been flushed.
func (q *Queue) Tick() {
	live := q.entries[:0]
	for _, e := range q.entries {
		if e.framesLeft > 0 {
			e.framesLeft--
			live = append(live, e)
			continue
		}
		e.destroy(e.handle)
	}
	q.entries = live
}

// Drain immediately invokes every pending destroy action, regardless of
// remaining delay, and empties the queue. Used on subsystem shutdown.
func (q *Queue) Drain() {
	for _, e := range q.entries {
		e.destroy(e.handle)
	}
	q.entries = nil
}

// Len reports the number of pending entries.
func (q *Queue) Len() int { return len(q.entries) }
