// Package state persists and compares per-step execution context.
//
// A step state is written when a lifecycle step completes successfully. It
// snapshots the part properties and project options the step cared about at
// that moment, and records which files and directories the step migrated
// into shared areas, with per-partition accounting. On later lifecycle
// passes the persisted snapshot is compared against current configuration
// to decide whether the step is dirty and must run again.
//
// States are persisted as YAML mappings with hyphenated keys, one file per
// part and step. Writes go through a rate-limited writer so that two states
// written back to back never share a modification timestamp.
//
// Example usage:
//
//	st, err := state.Load(part.StateDir()+"/build", steps.Build)
//	if err != nil {
//	    return err
//	}
//	if st == nil || len(st.DiffPropertiesOfInterest(current, nil)) > 0 {
//	    // step is dirty, re-run it
//	}
package state
