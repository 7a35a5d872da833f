package scheduler

import (
	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/profiler"
)

// SchedulerBuilderOption is a functional option used to configure a Scheduler during construction.
type SchedulerBuilderOption func(*scheduler)

// WithLogger sets the logger used to report frame function panics.
//
// Parameters:
//   - logger: the logger, ignored when nil
//
// Returns:
//   - SchedulerBuilderOption: a function that sets the logger
func WithLogger(logger common.Logger) SchedulerBuilderOption {
	return func(s *scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProfiler ticks the profiler after every frame the frame function ran for.
func WithProfiler(p *profiler.Profiler) SchedulerBuilderOption {
	return func(s *scheduler) {
		s.profiler = p
	}
}
