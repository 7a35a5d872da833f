// Package scheduler drives a frame function from a host's frame callbacks.
package scheduler

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/profiler"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
)

// FrameFunc is called once per visible frame with the time since Start.
type FrameFunc func(elapsed time.Duration)

// scheduler implements the Scheduler interface.
type scheduler struct {
	mu sync.Mutex

	host     window.Host
	frame    FrameFunc
	logger   common.Logger
	profiler *profiler.Profiler

	started bool
	stopped bool
	start   time.Duration
	pending window.FrameID

	frames  uint64
	skipped uint64
}

// Scheduler requests host frames continuously until stopped. Frames arriving while the
// viewport is hidden are skipped; elapsed time keeps advancing across them.
type Scheduler interface {
	// Start requests the first frame. Calling it again, or after Stop, is a no-op.
	Start()

	// Stop prevents further frames and cancels the pending one. It is idempotent.
	Stop()

	// Running reports whether Start was called and Stop was not.
	Running() bool

	// Frames retrieves the number of frames the frame function ran for.
	Frames() uint64

	// Skipped retrieves the number of frames skipped while the viewport was hidden.
	Skipped() uint64
}

var _ Scheduler = &scheduler{}

// NewScheduler creates a stopped scheduler.
//
// Parameters:
//   - host: the host whose frame callbacks drive the scheduler
//   - frame: the function run for each visible frame
//   - options: variadic list of SchedulerBuilderOption functions
//
// Returns:
//   - Scheduler: the scheduler
func NewScheduler(host window.Host, frame FrameFunc, options ...SchedulerBuilderOption) Scheduler {
	if host == nil || frame == nil {
		panic("scheduler: host and frame function are required")
	}
	s := &scheduler{
		host:   host,
		frame:  frame,
		logger: common.NopLogger(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *scheduler) Start() {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.start = s.host.Now()
	s.mu.Unlock()

	s.request()
}

func (s *scheduler) request() {
	id := s.host.RequestFrame(s.tick)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		// Stop ran between the request and now
		s.host.CancelFrame(id)
		return
	}
	s.pending = id
}

func (s *scheduler) tick(now time.Duration) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	start := s.start
	s.mu.Unlock()

	s.request()

	if s.host.Viewport().Hidden() {
		s.mu.Lock()
		s.skipped++
		s.mu.Unlock()
		return
	}

	if !s.run(now - start) {
		return
	}

	s.mu.Lock()
	s.frames++
	s.mu.Unlock()

	if s.profiler != nil {
		s.profiler.Tick()
	}
}

// run calls the frame function and stops the scheduler if it panics.
func (s *scheduler) run(elapsed time.Duration) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("frame function panicked, stopping: %v", r)
			s.Stop()
			ok = false
		}
	}()
	s.frame(elapsed)
	return true
}

func (s *scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	if s.pending != 0 {
		s.host.CancelFrame(s.pending)
		s.pending = 0
	}
}

func (s *scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started && !s.stopped
}

func (s *scheduler) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func (s *scheduler) Skipped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skipped
}
