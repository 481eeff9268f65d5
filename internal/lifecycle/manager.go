package lifecycle

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/forgeworks/lathe/internal/parts"
	"github.com/forgeworks/lathe/internal/state"
	"github.com/forgeworks/lathe/internal/steps"
)

// Tracks persisted step state for the parts of one project and decides
// which steps must re-run.
type Manager struct {
	dirs    parts.ProjectDirs
	options map[string]any
}

// Creates a manager for the given project layout. The options mapping holds
// the project options compared against each state's snapshot.
func NewManager(dirs parts.ProjectDirs, options map[string]any) *Manager {
	return &Manager{dirs: dirs, options: options}
}

// The file a step's state is persisted to.
func (m *Manager) statePath(p *parts.Part, step steps.Step) string {
	return filepath.Join(p.StateDir(), step.Name())
}

// Reads the persisted state for a part and step. Returns nil without error
// when the step never ran.
func (m *Manager) LoadState(p *parts.Part, step steps.Step) (state.StepState, error) {
	return state.Load(m.statePath(p, step), step)
}

// Persists st as the current state of a part and step.
func (m *Manager) SaveState(p *parts.Part, step steps.Step, st state.StepState) error {
	return state.Write(st, m.statePath(p, step))
}

// Why a step must re-run. The zero value reports a clean step.
type DirtyReport struct {
	// The step has no persisted state, it never ran or was cleaned.
	MissingState bool

	// Names of part properties whose values differ from the persisted
	// snapshot, sorted.
	Properties []string

	// Names of project options whose values differ from the persisted
	// snapshot, sorted.
	Options []string
}

// Whether the step must re-run.
func (r *DirtyReport) IsDirty() bool {
	return r != nil && (r.MissingState || len(r.Properties) > 0 || len(r.Options) > 0)
}

// A human-readable explanation of why the step is dirty, empty when it is
// clean.
func (r *DirtyReport) Reason() string {
	if !r.IsDirty() {
		return ""
	}
	if r.MissingState {
		return "never ran"
	}

	var causes []string
	if len(r.Properties) > 0 {
		causes = append(causes, fmt.Sprintf("properties changed: %s", strings.Join(r.Properties, ", ")))
	}
	if len(r.Options) > 0 {
		causes = append(causes, fmt.Sprintf("options changed: %s", strings.Join(r.Options, ", ")))
	}
	return strings.Join(causes, "; ")
}

// Compares the persisted state of a part's step against the part's current
// properties and the project options. Extra names the application-specific
// properties compared in addition to the step's own.
//
// A missing state file means the step must run; an unreadable or malformed
// state file is an error, not a dirty step.
func (m *Manager) CheckStep(p *parts.Part, step steps.Step, extra []string) (*DirtyReport, error) {
	st, err := m.LoadState(p, step)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return &DirtyReport{MissingState: true}, nil
	}

	return &DirtyReport{
		Properties: st.DiffPropertiesOfInterest(p.Properties, extra).Sorted(),
		Options:    st.DiffProjectOptionsOfInterest(m.options).Sorted(),
	}, nil
}

// Removes a step's persisted state and withdraws the content it migrated
// into shared areas. Cleaning a step that never ran is a no-op.
//
// An unreadable state file is removed anyway; without a readable ledger
// there is no migrated content to withdraw.
func (m *Manager) CleanStep(p *parts.Part, step steps.Step) error {
	st, err := m.LoadState(p, step)
	if err != nil {
		if !errors.Is(err, state.ErrInvalidState) {
			return err
		}
		slog.Warn("removing unreadable state file",
			"part", p.Name, "step", step.Name(), "error", err)
		st = nil
	}

	if st != nil {
		for _, partition := range st.Partitions() {
			area, shared := m.sharedAreaDir(step, partition)
			if !shared {
				break
			}
			c := st.Contents(partition)
			if c == nil {
				continue
			}
			if err := CleanArea(c.Files, c.Directories, area); err != nil {
				return err
			}
		}
	}

	if err := os.Remove(m.statePath(p, step)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrClean, err)
	}
	return nil
}

// Cleans every step of a part, newest step first, then removes the part's
// private directories.
func (m *Manager) CleanPart(p *parts.Part) error {
	all := steps.All()
	for i := len(all) - 1; i >= 0; i-- {
		if err := m.CleanStep(p, all[i]); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(p.Dir()); err != nil {
		return fmt.Errorf("%w: %v", ErrClean, err)
	}
	return nil
}

// The shared area a step migrates content into. Pull, overlay, and build
// keep their output in the part's private directories.
func (m *Manager) sharedAreaDir(step steps.Step, partition string) (string, bool) {
	switch step {
	case steps.Stage:
		return m.dirs.StageDir(partition), true
	case steps.Prime:
		return m.dirs.PrimeDir(partition), true
	}
	return "", false
}
