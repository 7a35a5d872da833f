package lifecycle

import "github.com/Carmen-Shannon/oxy-backdrop/common"

// ManagerBuilderOption is a functional option used to configure a Manager during construction.
type ManagerBuilderOption func(*manager)

// WithLogger sets the logger release failures are reported to at Warn level.
//
// Parameters:
//   - logger: the logger, ignored when nil
//
// Returns:
//   - ManagerBuilderOption: a function that sets the logger
func WithLogger(logger common.Logger) ManagerBuilderOption {
	return func(m *manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithStageHook registers a function called as each stage begins.
func WithStageHook(fn func(Stage)) ManagerBuilderOption {
	return func(m *manager) {
		m.onStage = fn
	}
}
