// Package lifecycle decides which steps of a part must run and maintains
// the persisted state that records what already ran.
//
// A Manager compares each step's persisted state against the part's current
// properties and the project options. A step is dirty when it never ran or
// when a property or option the step cares about changed since it last ran.
// Cleaning a step removes its state and withdraws the content it migrated
// into the shared stage and prime areas, leaving content contributed by
// other parts in place.
//
// Example usage:
//
//	m := lifecycle.NewManager(dirs, options)
//
//	report, err := m.CheckStep(part, steps.Build, nil)
//	if err != nil {
//	    return err
//	}
//	if report.IsDirty() {
//	    slog.Info("rebuilding", "part", part.Name, "reason", report.Reason())
//	}
package lifecycle
