package parallax

// TrackerBuilderOption is a functional option used to configure a Tracker during construction.
type TrackerBuilderOption func(*tracker)

// WithSmoothing sets the smoothing factor applied every Step.
//
// Parameters:
//   - k: the factor, ignored outside (0, 1]
//
// Returns:
//   - TrackerBuilderOption: a function that sets the smoothing factor
func WithSmoothing(k float32) TrackerBuilderOption {
	return func(t *tracker) {
		if k > 0 && k <= 1 {
			t.smoothing = k
		}
	}
}

// WithAmplitude sets the world-space offset at full pointer deflection. A negative y moves
// the camera up as the pointer moves down.
//
// Parameters:
//   - ax: horizontal amplitude
//   - ay: vertical amplitude
//
// Returns:
//   - TrackerBuilderOption: a function that sets the amplitude
func WithAmplitude(ax, ay float32) TrackerBuilderOption {
	return func(t *tracker) {
		t.amplitude[0], t.amplitude[1] = ax, ay
	}
}

// WithMode sets the tracker mode.
func WithMode(mode Mode) TrackerBuilderOption {
	return func(t *tracker) {
		t.mode = mode
	}
}

// WithReducedAmplitude sets the amplitude scale used in ModeReduced.
func WithReducedAmplitude(scale float32) TrackerBuilderOption {
	return func(t *tracker) {
		if scale >= 0 {
			t.reducedAmplitude = scale
		}
	}
}

// WithInvertY flips the vertical axis so that pointer movement up yields a positive value.
func WithInvertY(invert bool) TrackerBuilderOption {
	return func(t *tracker) {
		t.invertY = invert
	}
}

// WithFollowDirect places the camera at base + offset on every Step. This is the default.
func WithFollowDirect() TrackerBuilderOption {
	return func(t *tracker) {
		t.follow = FollowDirect
	}
}

// WithFollowLerp eases the camera toward base + offset by k on every Step.
//
// Parameters:
//   - k: the follow rate, ignored outside (0, 1]
//
// Returns:
//   - TrackerBuilderOption: a function that sets lerp following
func WithFollowLerp(k float32) TrackerBuilderOption {
	return func(t *tracker) {
		t.follow = FollowLerp
		if k > 0 && k <= 1 {
			t.followRate = k
		}
	}
}
