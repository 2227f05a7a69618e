package core

import "github.com/spaghettifunk/houseview/engine/containers"

// FrameCallback is a function deferred to the start of the next frame.
type FrameCallback = func()

// Scheduler defers work to the next frame. Callbacks queued while a frame
// is being flushed run on the following frame, never the current one.
type Scheduler struct {
	queue *containers.RingQueue[FrameCallback]
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		queue: containers.NewRingQueue[FrameCallback](16),
	}
}

// NextFrame queues fn to run on the next call to Flush.
func (s *Scheduler) NextFrame(fn FrameCallback) {
	if s.queue.IsFull() {
		s.queue.Grow()
	}
	// cannot fail after Grow
	_ = s.queue.Enqueue(fn)
}

// Pending returns the number of callbacks waiting for the next frame.
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

// Flush runs the callbacks that were queued before this call.
func (s *Scheduler) Flush() {
	n := s.queue.Len()
	for i := 0; i < n; i++ {
		fn, err := s.queue.Dequeue()
		if err != nil {
			return
		}
		fn()
	}
}
