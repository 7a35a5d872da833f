package capability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const desktopUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
const phoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148"

func TestResolve_DesktopLadder(t *testing.T) {
	cases := []struct {
		name   string
		mem    float64
		cores  int
		budget int
		tier   Tier
	}{
		{"low memory", 2, 8, 35000, TierLow},
		{"low cores", 8, 2, 35000, TierLow},
		{"mid", 4, 8, 70000, TierMedium},
		{"high", 8, 8, 110000, TierHigh},
		{"absent signals", 0, 0, 70000, TierMedium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			est := Resolve(Snapshot{UserAgent: desktopUA, MemoryGB: tc.mem, Cores: tc.cores}, DefaultPolicy(), 780)
			assert.Equal(t, tc.budget, est.Budget)
			assert.Equal(t, tc.tier, est.Tier)
			assert.False(t, est.Mobile)
		})
	}
}

func TestResolve_MobileLadder(t *testing.T) {
	for mem, want := range map[float64]int{1: 8000, 2: 14000, 3: 24000, 4: 24000, 8: 32000} {
		est := Resolve(Snapshot{UserAgent: phoneUA, MemoryGB: mem, Cores: 8}, DefaultPolicy(), 780)
		assert.True(t, est.Mobile)
		assert.Equal(t, want, est.Budget, "memory %v", mem)
		assert.NotEqual(t, TierHigh, est.Tier)
	}
}

func TestResolve_MobileAlwaysBelowDesktop(t *testing.T) {
	for _, mem := range []float64{0, 1, 2, 4, 8, 16} {
		mobile := Resolve(Snapshot{UserAgent: phoneUA, MemoryGB: mem, Cores: 8}, DefaultPolicy(), 0)
		desktop := Resolve(Snapshot{UserAgent: desktopUA, MemoryGB: mem, Cores: 8}, DefaultPolicy(), 0)
		assert.Less(t, mobile.Budget, desktop.Budget, "memory %v", mem)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	s := Snapshot{UserAgent: desktopUA, MemoryGB: 8, Cores: 8, ViewportWidth: 800, ViewportHeight: 600}
	first := Resolve(s, DefaultPolicy(), 780)
	for range 10 {
		assert.Equal(t, first, Resolve(s, DefaultPolicy(), 780))
	}
}

func TestResolve_ReducedMotionStrictlyLower(t *testing.T) {
	policies := map[string]Policy{
		"ladder": DefaultPolicy(),
		"floored": {
			Desktop:      []Band{{MaxMemoryGB: 2, Budget: 1800}, {Budget: 3800}},
			Mobile:       []Band{{Budget: 800}},
			ReducedFloor: 500,
		},
		"area": {AreaDivisor: 12000, MinBudget: 800, MobileMinBudget: 200, MobileAreaScale: 0.25},
		"tiny floor above budget": {
			Desktop:      []Band{{Budget: 600}},
			ReducedFloor: 900,
		},
	}
	for name, p := range policies {
		t.Run(name, func(t *testing.T) {
			for _, ua := range []string{desktopUA, phoneUA} {
				base := Snapshot{UserAgent: ua, MemoryGB: 8, Cores: 8, ViewportWidth: 1920, ViewportHeight: 1080}
				reduced := base
				reduced.ReducedMotion = true

				full := Resolve(base, p, 780)
				calm := Resolve(reduced, p, 780)
				assert.Less(t, calm.Budget, full.Budget)
				assert.Positive(t, calm.Budget)
				assert.True(t, calm.ReducedMotion)
			}
		})
	}
}

func TestResolve_ReducedMotionScale(t *testing.T) {
	s := Snapshot{UserAgent: desktopUA, MemoryGB: 8, Cores: 8, ReducedMotion: true}
	est := Resolve(s, DefaultPolicy(), 0)
	assert.Equal(t, int(math.Floor(110000*0.45)), est.Budget)

	nebula := Policy{Desktop: []Band{{MaxMemoryGB: 2, Budget: 1800}, {Budget: 3800}}, Mobile: []Band{{Budget: 800}}, ReducedFloor: 500}
	assert.Equal(t, 1710, Resolve(s, nebula, 0).Budget)
	s.UserAgent = phoneUA
	assert.Equal(t, 500, Resolve(s, nebula, 0).Budget)
}

func TestResolve_AreaPolicy(t *testing.T) {
	p := Policy{AreaDivisor: 12000, MinBudget: 800, MobileMinBudget: 200, MobileAreaScale: 0.25, CompactIsMobile: true}

	big := Resolve(Snapshot{ViewportWidth: 7680, ViewportHeight: 4320}, p, 780)
	assert.False(t, big.Mobile)
	assert.Equal(t, 7680*4320/12000, big.Budget)

	small := Resolve(Snapshot{ViewportWidth: 1000, ViewportHeight: 800}, p, 780)
	assert.Equal(t, 800, small.Budget)

	compact := Resolve(Snapshot{ViewportWidth: 1200, ViewportHeight: 700}, p, 780)
	require.True(t, compact.Mobile)
	assert.Equal(t, 200, compact.Budget)
}

func TestResolve_CompactOnlyWhenOptedIn(t *testing.T) {
	s := Snapshot{UserAgent: desktopUA, ViewportWidth: 800, ViewportHeight: 600, MemoryGB: 8, Cores: 8}
	assert.False(t, Resolve(s, DefaultPolicy(), 780).Mobile)

	p := DefaultPolicy()
	p.CompactIsMobile = true
	assert.True(t, Resolve(s, p, 780).Mobile)
	assert.False(t, Resolve(s, p, 0).Mobile)
}

func TestResolve_NeverPanics(t *testing.T) {
	weird := []Snapshot{
		{},
		{MemoryGB: math.NaN(), Cores: -3},
		{MemoryGB: math.Inf(1), ViewportWidth: -10, ViewportHeight: -10},
		{UserAgent: "\x00\xff", ReducedMotion: true},
	}
	for _, s := range weird {
		assert.NotPanics(t, func() {
			Resolve(s, DefaultPolicy(), 780)
			Resolve(s, Policy{}, 780)
			Resolve(s, Policy{AreaDivisor: 12000}, -5)
		})
	}
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "low", TierLow.String())
	assert.Equal(t, "medium", TierMedium.String())
	assert.Equal(t, "high", TierHigh.String())
	assert.Equal(t, "unknown", Tier(42).String())
}

func TestIsMobileUserAgent(t *testing.T) {
	assert.True(t, IsMobileUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"))
	assert.True(t, IsMobileUserAgent("Mozilla/5.0 (Linux; android 14; Pixel 8) Mobile"))
	assert.True(t, IsMobileUserAgent("Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)"))
	assert.False(t, IsMobileUserAgent("Mozilla/5.0 (X11; Linux x86_64)"))
	assert.False(t, IsMobileUserAgent(""))
}
