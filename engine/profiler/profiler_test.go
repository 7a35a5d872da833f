package profiler

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfiler_Tick(t *testing.T) {
	log := common.NewRecordingLogger()
	now := time.Unix(0, 0)
	p := NewProfiler(WithLogger(log), WithInterval(time.Second), WithClock(func() time.Time { return now }))

	for range 29 {
		now = now.Add(time.Second / 60)
		assert.False(t, p.Tick())
	}
	now = now.Add(time.Second)
	require.True(t, p.Tick())

	assert.Equal(t, 1, p.Reports())
	assert.InDelta(t, 30/(29.0/60+1), p.Last().FPS, 1e-3)
	require.Len(t, log.Lines("INFO"), 1)
	assert.Contains(t, log.Lines("INFO")[0], "FPS:")

	// the counter resets after a report
	now = now.Add(time.Second / 60)
	assert.False(t, p.Tick())
}
