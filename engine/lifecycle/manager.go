// Package lifecycle releases an engine instance's resources in a fixed stage order.
package lifecycle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
)

// Stage groups release functions. Stages are torn down in ascending order.
type Stage int

const (
	// StageScheduler stops frame scheduling.
	StageScheduler Stage = iota
	// StageListeners removes input and resize listeners.
	StageListeners
	// StageSceneGraph releases geometries and materials.
	StageSceneGraph
	// StageTextures releases procedural textures.
	StageTextures
	// StageSurface detaches and releases the output surface.
	StageSurface
	// StageContext releases the renderer and its GPU context.
	StageContext

	stageCount
)

func (s Stage) String() string {
	switch s {
	case StageScheduler:
		return "scheduler"
	case StageListeners:
		return "listeners"
	case StageSceneGraph:
		return "scene-graph"
	case StageTextures:
		return "textures"
	case StageSurface:
		return "surface"
	case StageContext:
		return "context"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ReleaseFunc frees one resource.
type ReleaseFunc func() error

type entry struct {
	label   string
	release ReleaseFunc
}

// manager implements the Manager interface.
type manager struct {
	mu      sync.Mutex
	logger  common.Logger
	stages  [stageCount][]entry
	done    bool
	err     error
	onStage func(Stage)
}

// Manager collects release functions and runs them once, stage by stage.
type Manager interface {
	// Register adds a release function to a stage. Registrations after teardown are run
	// immediately so nothing leaks.
	//
	// Parameters:
	//   - stage: the stage the function belongs to
	//   - label: a label used in logs and errors
	//   - fn: the release function, ignored when nil
	Register(stage Stage, label string, fn ReleaseFunc)

	// RegisterScene adds a scene-graph entry that, at teardown, releases the geometry of every
	// drawable and each distinct material once. Textures are not released by this entry.
	//
	// Parameters:
	//   - s: the scene
	RegisterScene(s scene.Scene)

	// Teardown runs every stage in order and the entries of a stage in reverse registration
	// order. A failing or panicking entry does not stop the rest. Only the first call does
	// anything.
	//
	// Returns:
	//   - error: the joined failures of the first call, nil on later calls
	Teardown() error

	// Done reports whether Teardown has run.
	Done() bool

	// Err retrieves the joined failures of the teardown that ran.
	Err() error

	// Len retrieves the number of registered entries in a stage.
	Len(stage Stage) int
}

var _ Manager = &manager{}

// NewManager creates an empty manager.
//
// Parameters:
//   - options: variadic list of ManagerBuilderOption functions
//
// Returns:
//   - Manager: the manager
func NewManager(options ...ManagerBuilderOption) Manager {
	m := &manager{logger: common.NopLogger()}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *manager) Register(stage Stage, label string, fn ReleaseFunc) {
	if fn == nil {
		return
	}
	if stage < 0 || stage >= stageCount {
		panic(fmt.Sprintf("lifecycle: unknown stage %d", int(stage)))
	}

	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		if err := m.call(stage, entry{label: label, release: fn}); err != nil {
			m.logger.Warnf("late release failed: %v", err)
		}
		return
	}
	m.stages[stage] = append(m.stages[stage], entry{label: label, release: fn})
	m.mu.Unlock()
}

func (m *manager) RegisterScene(s scene.Scene) {
	if s == nil {
		return
	}
	m.Register(StageSceneGraph, "scene "+s.Name(), func() error {
		var errs []error
		for _, g := range s.Geometries() {
			if g.Released() {
				continue
			}
			if err := g.Release(); err != nil {
				errs = append(errs, fmt.Errorf("geometry %s: %w", g.Label(), err))
			}
		}
		for _, mat := range s.Materials() {
			if mat.Released() {
				continue
			}
			if err := mat.Release(); err != nil {
				errs = append(errs, fmt.Errorf("material %s: %w", mat.Name(), err))
			}
		}
		return errors.Join(errs...)
	})
}

func (m *manager) Teardown() error {
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return nil
	}
	m.done = true
	stages := m.stages
	m.stages = [stageCount][]entry{}
	onStage := m.onStage
	m.mu.Unlock()

	var errs []error
	for stage := Stage(0); stage < stageCount; stage++ {
		if onStage != nil {
			onStage(stage)
		}
		entries := stages[stage]
		for i := len(entries) - 1; i >= 0; i-- {
			if err := m.call(stage, entries[i]); err != nil {
				m.logger.Warnf("%v", err)
				errs = append(errs, err)
			}
		}
	}

	err := errors.Join(errs...)
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
	return err
}

// call runs one release function, turning a panic into an error.
func (m *manager) call(stage Stage, e entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: release %q panicked: %v", stage, e.label, r)
		}
	}()
	if rerr := e.release(); rerr != nil {
		return fmt.Errorf("%s: release %q: %w", stage, e.label, rerr)
	}
	return nil
}

func (m *manager) Done() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

func (m *manager) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

func (m *manager) Len(stage Stage) int {
	if stage < 0 || stage >= stageCount {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stages[stage])
}
