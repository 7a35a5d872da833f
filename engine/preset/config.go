package preset

// Defaults applied by DefaultConfig and Normalize.
const (
	DefaultBaseColor          uint32 = 0x8f59e6
	DefaultMobileBreakpointPx        = 780
	MaxMobileBreakpointPx            = 8192
)

// Config holds the options a caller may pass to a preset.
type Config struct {
	// BaseColor is the theme color as 0xRRGGBB. Petal tints its glow and light shafts with it.
	BaseColor uint32
	// EnableSecondaryLayer toggles the optional layer of a preset: petal light shafts, the
	// ribbon glow sphere and the nebula backdrop. Night has none.
	EnableSecondaryLayer bool
	// MobileBreakpointPx treats viewports whose smaller side is below it as mobile, for the
	// presets that size themselves by viewport. Zero disables the check.
	MobileBreakpointPx int
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		BaseColor:            DefaultBaseColor,
		EnableSecondaryLayer: true,
		MobileBreakpointPx:   DefaultMobileBreakpointPx,
	}
}

// Normalize clamps out-of-range values instead of rejecting them. The base color is masked to
// 24 bits, a negative breakpoint takes the default and a larger one is clamped.
//
// Returns:
//   - Config: the normalized copy
func (c Config) Normalize() Config {
	c.BaseColor &= 0xFFFFFF
	switch {
	case c.MobileBreakpointPx < 0:
		c.MobileBreakpointPx = DefaultMobileBreakpointPx
	case c.MobileBreakpointPx > MaxMobileBreakpointPx:
		c.MobileBreakpointPx = MaxMobileBreakpointPx
	}
	return c
}
