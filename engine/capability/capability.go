// Package capability turns advisory device signals into a quality tier and a particle budget.
//
// All signals are optional. A Snapshot with every field left at its zero value is valid
// and resolves to conservative mid-range defaults.
package capability

import (
	"math"
	"regexp"
)

const (
	// DefaultCores is assumed when the host does not report a logical core count.
	DefaultCores = 4

	// DefaultMemoryGB is assumed when the host does not report device memory.
	DefaultMemoryGB = 4.0

	// DefaultReducedScale is the fraction of the budget kept under a reduced-motion preference.
	DefaultReducedScale = 0.45
)

var mobileUA = regexp.MustCompile(`(?i)Mobi|Android|iPhone|iPad|iPod`)

// Tier is a discrete performance band gating counts and effect complexity.
type Tier int

const (
	// TierLow is used for constrained devices.
	TierLow Tier = iota

	// TierMedium is used for mid-range devices and capable mobiles.
	TierMedium

	// TierHigh is used for desktops with ample memory and cores.
	TierHigh
)

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Snapshot is the set of environment signals queried once when an engine is constructed.
// Zero values mean "not reported".
type Snapshot struct {
	UserAgent      string
	Cores          int
	MemoryGB       float64
	ReducedMotion  bool
	ViewportWidth  int
	ViewportHeight int
	PixelRatio     float64
}

// Band is one step of a budget ladder. A band matches when memory is at or below
// MaxMemoryGB or cores are at or below MaxCores. A band with both limits left at zero
// always matches and should be the last entry of a ladder.
type Band struct {
	MaxMemoryGB float64
	MaxCores    int
	Budget      int
	Tier        Tier
}

func (b Band) matches(memoryGB float64, cores int) bool {
	if b.MaxMemoryGB == 0 && b.MaxCores == 0 {
		return true
	}
	if b.MaxMemoryGB > 0 && memoryGB <= b.MaxMemoryGB {
		return true
	}
	return b.MaxCores > 0 && cores <= b.MaxCores
}

// Policy describes how a preset converts signals into a budget.
//
// Band ladders are used unless AreaDivisor is positive, in which case the budget is derived
// from the viewport area instead (one element per AreaDivisor square pixels).
type Policy struct {
	Mobile  []Band
	Desktop []Band

	AreaDivisor     float64
	MinBudget       int
	MobileMinBudget int
	MobileAreaScale float64

	ReducedScale float64
	ReducedFloor int

	// CompactIsMobile treats a viewport whose smaller side is under the breakpoint as mobile.
	CompactIsMobile bool
}

// Estimate is the outcome of a capability estimation.
type Estimate struct {
	Tier          Tier
	Budget        int
	Mobile        bool
	ReducedMotion bool
}

// DefaultPolicy returns the ladder used by the dense star-field preset.
//
// Returns:
//   - Policy: mobile ladder 8000..32000, desktop ladder 35000..110000
func DefaultPolicy() Policy {
	return Policy{
		Mobile: []Band{
			{MaxMemoryGB: 1, Budget: 8000, Tier: TierLow},
			{MaxMemoryGB: 2, Budget: 14000, Tier: TierLow},
			{MaxMemoryGB: 4, Budget: 24000, Tier: TierMedium},
			{Budget: 32000, Tier: TierMedium},
		},
		Desktop: []Band{
			{MaxMemoryGB: 2, MaxCores: 2, Budget: 35000, Tier: TierLow},
			{MaxMemoryGB: 4, MaxCores: 4, Budget: 70000, Tier: TierMedium},
			{Budget: 110000, Tier: TierHigh},
		},
		ReducedScale: DefaultReducedScale,
	}
}

// IsMobileUserAgent reports whether the user agent string looks like a phone or tablet.
func IsMobileUserAgent(ua string) bool {
	return ua != "" && mobileUA.MatchString(ua)
}

// Resolve evaluates a snapshot against a policy. It never panics; absent or nonsensical
// signals fall back to DefaultCores and DefaultMemoryGB.
//
// Parameters:
//   - s: the capability snapshot
//   - p: the preset's budget policy
//   - breakpointPx: the compact-viewport threshold, 0 disables size-based mobile detection
//
// Returns:
//   - Estimate: tier, budget and the derived mobile / reduced-motion flags
func Resolve(s Snapshot, p Policy, breakpointPx int) Estimate {
	cores := s.Cores
	if cores <= 0 {
		cores = DefaultCores
	}
	memory := s.MemoryGB
	if memory <= 0 || math.IsNaN(memory) || math.IsInf(memory, 0) {
		memory = DefaultMemoryGB
	}

	mobile := IsMobileUserAgent(s.UserAgent)
	if !mobile && p.CompactIsMobile && breakpointPx > 0 && s.ViewportWidth > 0 && s.ViewportHeight > 0 {
		mobile = min(s.ViewportWidth, s.ViewportHeight) < breakpointPx
	}

	est := Estimate{
		Tier:          deviceTier(memory, cores, mobile),
		Mobile:        mobile,
		ReducedMotion: s.ReducedMotion,
	}

	if p.AreaDivisor > 0 {
		est.Budget = areaBudget(s, p, mobile)
	} else {
		ladder := p.Desktop
		if mobile && len(p.Mobile) > 0 {
			ladder = p.Mobile
		}
		if band, ok := pickBand(ladder, memory, cores); ok {
			est.Budget = band.Budget
			est.Tier = band.Tier
		}
	}

	if s.ReducedMotion {
		est.Budget = reduce(est.Budget, p)
	}
	return est
}

func deviceTier(memory float64, cores int, mobile bool) Tier {
	tier := TierHigh
	switch {
	case memory <= 2 || cores <= 2:
		tier = TierLow
	case memory <= 4 || cores <= 4:
		tier = TierMedium
	}
	if mobile && tier == TierHigh {
		tier = TierMedium
	}
	return tier
}

func pickBand(ladder []Band, memory float64, cores int) (Band, bool) {
	for _, b := range ladder {
		if b.matches(memory, cores) {
			return b, true
		}
	}
	if len(ladder) > 0 {
		return ladder[len(ladder)-1], true
	}
	return Band{}, false
}

func areaBudget(s Snapshot, p Policy, mobile bool) int {
	area := float64(max(s.ViewportWidth, 0)) * float64(max(s.ViewportHeight, 0))
	base := int(math.Floor(area / p.AreaDivisor))
	if !mobile {
		return max(p.MinBudget, base)
	}
	scale := p.MobileAreaScale
	if scale <= 0 {
		scale = 1
	}
	return max(p.MobileMinBudget, int(math.Floor(float64(base)*scale)))
}

// reduce applies the reduced-motion scale. The result is always strictly below a budget
// greater than one so a calmer scene is guaranteed, yet never empty.
func reduce(budget int, p Policy) int {
	if budget <= 1 {
		return budget
	}
	scale := p.ReducedScale
	if scale <= 0 || scale >= 1 {
		scale = DefaultReducedScale
	}
	reduced := max(p.ReducedFloor, int(math.Floor(float64(budget)*scale)))
	return max(1, min(reduced, budget-1))
}
