package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/forgeworks/lathe/internal/paths"
	"github.com/forgeworks/lathe/internal/steps"
)

// Creates the step state matching the given step from a generic mapping.
func Unmarshal(step steps.Step, data any) (StepState, error) {
	switch step {
	case steps.Pull:
		return UnmarshalPullState(data)
	case steps.Overlay:
		return UnmarshalOverlayState(data)
	case steps.Build:
		return UnmarshalBuildState(data)
	case steps.Stage:
		return UnmarshalStageState(data)
	case steps.Prime:
		return UnmarshalPrimeState(data)
	}
	return nil, fmt.Errorf("%w: unknown step %q", ErrInvalidState, step)
}

// Reads the persisted state for a step from the given path.
//
// Returns nil with no error when no state has been persisted. Malformed
// state data is an error the caller must treat as fatal, not as "dirty".
func Load(path string, step steps.Step) (StepState, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	return Unmarshal(step, m)
}

// Persists the state to the given path as YAML with hyphenated keys.
//
// Parent directories are created as needed. Writes are spaced out by the
// process-wide rate-limited writer so consecutive states get distinct
// modification timestamps.
func Write(s StepState, path string) error {
	if err := s.validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(s.Marshal())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteState, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteState, err)
	}

	if err := defaultWriter.WriteFile(path, data, paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteState, err)
	}
	return nil
}
