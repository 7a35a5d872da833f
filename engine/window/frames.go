package window

import (
	"sync"
	"time"
)

type frameRequest struct {
	id FrameID
	cb FrameCallback
}

// frameQueue holds requested frame callbacks until the host runs them.
type frameQueue struct {
	mu      sync.Mutex
	nextID  FrameID
	pending []frameRequest
}

func (q *frameQueue) request(cb FrameCallback) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	if cb != nil {
		q.pending = append(q.pending, frameRequest{id: q.nextID, cb: cb})
	}
	return q.nextID
}

func (q *frameQueue) cancel(id FrameID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, r := range q.pending {
		if r.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// run takes every pending callback and runs it with now. Callbacks requested during the run
// stay queued for the next one.
func (q *frameQueue) run(now time.Duration) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, r := range batch {
		r.cb(now)
	}
	return len(batch)
}
