package scheduler

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/profiler"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 16 * time.Millisecond

func TestScheduler_RunsEveryFrame(t *testing.T) {
	host := window.NewHeadlessHost()
	var elapsed []time.Duration
	s := NewScheduler(host, func(e time.Duration) { elapsed = append(elapsed, e) })

	assert.False(t, s.Running())
	host.Step(frame)
	assert.Empty(t, elapsed)

	s.Start()
	s.Start()
	assert.True(t, s.Running())
	assert.Equal(t, 1, host.PendingFrames())

	for range 3 {
		host.Step(frame)
	}
	assert.Equal(t, []time.Duration{frame, 2 * frame, 3 * frame}, elapsed)
	assert.Equal(t, uint64(3), s.Frames())
	assert.Equal(t, 1, host.PendingFrames())
}

func TestScheduler_StopCancelsPending(t *testing.T) {
	host := window.NewHeadlessHost()
	calls := 0
	s := NewScheduler(host, func(time.Duration) { calls++ })

	s.Start()
	host.Step(frame)
	s.Stop()
	s.Stop()

	assert.False(t, s.Running())
	assert.Equal(t, 0, host.PendingFrames())
	host.Step(frame)
	assert.Equal(t, 1, calls)

	// a stopped scheduler cannot be restarted
	s.Start()
	assert.Equal(t, 0, host.PendingFrames())
}

func TestScheduler_StopInsideFrame(t *testing.T) {
	host := window.NewHeadlessHost()
	var s Scheduler
	s = NewScheduler(host, func(time.Duration) { s.Stop() })

	s.Start()
	host.Step(frame)
	assert.Equal(t, 0, host.PendingFrames())
	assert.Equal(t, uint64(1), s.Frames())
}

func TestScheduler_SkipsHiddenFrames(t *testing.T) {
	host := window.NewHeadlessHost()
	var elapsed []time.Duration
	s := NewScheduler(host, func(e time.Duration) { elapsed = append(elapsed, e) })
	s.Start()

	host.Step(frame)
	host.SetHidden(true)
	host.Step(frame)
	host.Step(frame)
	host.SetHidden(false)
	host.Step(frame)

	assert.Equal(t, uint64(2), s.Frames())
	assert.Equal(t, uint64(2), s.Skipped())
	// hidden time still counts
	assert.Equal(t, []time.Duration{frame, 4 * frame}, elapsed)
	assert.Equal(t, 1, host.PendingFrames())
}

func TestScheduler_PanicStops(t *testing.T) {
	host := window.NewHeadlessHost()
	log := common.NewRecordingLogger()
	s := NewScheduler(host, func(time.Duration) { panic("boom") }, WithLogger(log))
	s.Start()

	require.NotPanics(t, func() { host.Step(frame) })
	assert.False(t, s.Running())
	assert.Equal(t, uint64(0), s.Frames())
	assert.Equal(t, 0, host.PendingFrames())
	require.Len(t, log.Lines("ERROR"), 1)
	assert.Contains(t, log.Lines("ERROR")[0], "boom")
}

func TestScheduler_TicksProfiler(t *testing.T) {
	host := window.NewHeadlessHost()
	now := time.Unix(0, 0)
	p := profiler.NewProfiler(profiler.WithLogger(common.NopLogger()), profiler.WithClock(func() time.Time { return now }))
	s := NewScheduler(host, func(time.Duration) { now = now.Add(600 * time.Millisecond) }, WithProfiler(p))
	s.Start()

	host.Step(frame)
	host.Step(frame)
	assert.Equal(t, 1, p.Reports())
}

func TestNewScheduler_RequiresCollaborators(t *testing.T) {
	assert.Panics(t, func() { NewScheduler(nil, func(time.Duration) {}) })
	assert.Panics(t, func() { NewScheduler(window.NewHeadlessHost(), nil) })
}
