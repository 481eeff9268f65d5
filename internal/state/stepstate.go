package state

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Project option compared by every step: the name of the part supplying
// shared project variables.
const projectVarsPartName = "project-vars-part-name"

// Contextual information collected when a step completed successfully.
//
// Implemented once per lifecycle step (pull, overlay, build, stage, prime).
// Each variant hard-codes the part properties it cares about; everything
// else is shared.
type StepState interface {
	// Returns the subset of part properties this step cares about, plus any
	// caller-supplied extras. Missing keys map to nil.
	PropertiesOfInterest(props map[string]any, extra []string) map[string]any

	// Returns the subset of project options this step cares about.
	ProjectOptionsOfInterest(opts map[string]any) map[string]any

	// Returns the names of relevant properties whose values differ between
	// this state's snapshot and other. A nil value is equal to a missing key.
	DiffPropertiesOfInterest(other map[string]any, extra []string) Set

	// Returns the names of relevant project options whose values differ
	// between this state's snapshot and other.
	DiffProjectOptionsOfInterest(other map[string]any) Set

	// Returns the state as a mapping with hyphenated keys, the exact form
	// accepted back by Unmarshal.
	Marshal() map[string]any

	// Contents, Partitions, and Add are the migration ledger, see
	// [MigrationState].
	Contents(partition string) *MigrationContents
	Partitions() []string
	Add(files, directories Set)

	validate() error
}

// Fields shared by all step states.
type stepData struct {
	MigrationState `mapstructure:",squash"`

	PartProperties map[string]any `mapstructure:"part-properties"`
	ProjectOptions map[string]any `mapstructure:"project-options"`
}

// Returns the project options relevant to every step.
func (d *stepData) ProjectOptionsOfInterest(opts map[string]any) map[string]any {
	return map[string]any{projectVarsPartName: opts[projectVarsPartName]}
}

// Returns the names of relevant project options that differ between this
// state's snapshot and other.
func (d *stepData) DiffProjectOptionsOfInterest(other map[string]any) Set {
	return differingKeys(
		d.ProjectOptionsOfInterest(d.ProjectOptions),
		d.ProjectOptionsOfInterest(other),
	)
}

// The shared part of the marshaled mapping. Partition fields are omitted
// when unset so states written without partitions stay byte-stable.
func (d *stepData) marshalBase() map[string]any {
	m := map[string]any{
		"part-properties": d.PartProperties,
		"project-options": d.ProjectOptions,
		"files":           d.Files.Sorted(),
		"directories":     d.Directories.Sorted(),
	}

	if d.Partition != "" {
		m["partition"] = d.Partition
	}
	if len(d.PartitionsContents) > 0 {
		pc := make(map[string]any, len(d.PartitionsContents))
		for name, c := range d.PartitionsContents {
			pc[name] = map[string]any{
				"files":       c.Files.Sorted(),
				"directories": c.Directories.Sorted(),
			}
		}
		m["partitions-contents"] = pc
	}

	return m
}

// Returns a mapping holding only the given keys plus extras, each looked up
// in props. Missing keys yield nil rather than an error.
func filterKeys(props map[string]any, keys, extra []string) map[string]any {
	out := make(map[string]any, len(keys)+len(extra))
	for _, k := range keys {
		out[k] = props[k]
	}
	for _, k := range extra {
		out[k] = props[k]
	}
	return out
}

// Returns the keys whose values differ between the two mappings. A key
// present with a nil value is equal to the key being absent entirely, so a
// merely omitted property does not count as a change.
func differingKeys(a, b map[string]any) Set {
	diff := Set{}
	for k, av := range a {
		if !valuesEqual(av, b[k]) {
			diff.Insert(k)
		}
	}
	for k, bv := range b {
		if !valuesEqual(a[k], bv) {
			diff.Insert(k)
		}
	}
	return diff
}

// Compares two property values, normalizing typed and generic collections
// so snapshots decoded from YAML compare consistently with values built in
// code.
func valuesEqual(a, b any) bool {
	return reflect.DeepEqual(normalizeValue(a), normalizeValue(b))
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case []string:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = item
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalizeValue(item)
		}
		return out
	}
	return v
}

// Decodes a generic mapping into a state struct. Fails when data is not a
// mapping; unknown keys are ignored.
func decodeState(data, out any) error {
	m, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: state data is not a mapping", ErrInvalidState)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		DecodeHook: decodeSetHook,
	})
	if err != nil {
		return err
	}

	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return nil
}

// Converts YAML sequences into [Set] values during decoding.
func decodeSetHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(Set(nil)) {
		return data, nil
	}

	switch items := data.(type) {
	case []any:
		s := make(Set, len(items))
		for _, item := range items {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("set element %v is not a string", item)
			}
			s[str] = struct{}{}
		}
		return s, nil
	case []string:
		return NewSet(items...), nil
	}

	return data, nil
}
