package engine

import (
	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/geometry"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/preset"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
)

// EngineBuilderOption is a functional option for configuring a Mount call.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithPreset selects the backdrop preset. The default is KindNight.
//
// Parameters:
//   - kind: the preset kind
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPreset(kind preset.Kind) EngineBuilderOption {
	return func(e *engine) {
		e.kind = kind
	}
}

// WithConfig sets the preset configuration. Out-of-range values are clamped at mount time.
//
// Parameters:
//   - cfg: the configuration
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg preset.Config) EngineBuilderOption {
	return func(e *engine) {
		e.config = cfg
	}
}

// WithSeed makes the generated layout deterministic.
//
// Parameters:
//   - seed: the generator seed
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSeed(seed uint32) EngineBuilderOption {
	return func(e *engine) {
		e.seed = seed
		e.seeded = true
	}
}

// WithRandom supplies the generator directly. It takes precedence over WithSeed.
func WithRandom(rng geometry.Random) EngineBuilderOption {
	return func(e *engine) {
		e.random = rng
	}
}

// WithRendererBackend forces a renderer backend. Without it the WGPU backend is used for
// surfaces that carry a descriptor and the headless backend otherwise.
//
// Parameters:
//   - backend: the backend type
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRendererBackend(backend renderer.BackendType) EngineBuilderOption {
	return func(e *engine) {
		e.backend = backend
		e.backendSet = true
	}
}

// WithRendererOptions forwards options to the renderer.
func WithRendererOptions(options ...renderer.RendererBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOptions = append(e.rendererOptions, options...)
	}
}

// WithLogger sets the logger every component of the instance reports to.
//
// Parameters:
//   - logger: the logger, ignored when nil
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger common.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, FPS and memory statistics are logged periodically
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}
