package resize

import "github.com/Carmen-Shannon/oxy-backdrop/common"

// CoordinatorBuilderOption is a functional option used to configure a Coordinator during construction.
type CoordinatorBuilderOption func(*coordinator)

// WithPixelRatioCap caps the pixel ratio used for the drawing buffer.
//
// Parameters:
//   - ratioCap: the cap, ignored when not positive
//
// Returns:
//   - CoordinatorBuilderOption: a function that sets the cap
func WithPixelRatioCap(ratioCap float64) CoordinatorBuilderOption {
	return func(c *coordinator) {
		if ratioCap > 0 {
			c.ratioCap = ratioCap
		}
	}
}

// WithPixelRatioCallback registers a function called with the capped ratio after every Apply.
func WithPixelRatioCallback(fn func(ratio float64)) CoordinatorBuilderOption {
	return func(c *coordinator) {
		c.onRatio = fn
	}
}

// WithLogger sets the logger used for renderer resize failures.
func WithLogger(logger common.Logger) CoordinatorBuilderOption {
	return func(c *coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}
