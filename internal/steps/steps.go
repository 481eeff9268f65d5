// Package steps defines the ordered lifecycle steps a part moves through.
//
// Every part is processed through the same sequence: sources are retrieved
// during pull, the base filesystem is modified during overlay, artifacts are
// produced during build, collected into the shared staging area during stage,
// and filtered into the final payload tree during prime.
package steps

import "fmt"

// A lifecycle step. Steps are ordered; comparing two steps with < or >
// reflects their execution order.
type Step int

const (
	Pull Step = iota + 1
	Overlay
	Build
	Stage
	Prime
)

// All steps in execution order.
func All() []Step {
	return []Step{Pull, Overlay, Build, Stage, Prime}
}

// Whether the step is one of the known lifecycle steps.
func (s Step) IsValid() bool {
	return s >= Pull && s <= Prime
}

// The lowercase step name, used for state file naming and display.
func (s Step) Name() string {
	switch s {
	case Pull:
		return "pull"
	case Overlay:
		return "overlay"
	case Build:
		return "build"
	case Stage:
		return "stage"
	case Prime:
		return "prime"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

func (s Step) String() string {
	return s.Name()
}

// Lists the steps that must have happened before this step.
func (s Step) PreviousSteps() []Step {
	var prev []Step
	for _, other := range All() {
		if other < s {
			prev = append(prev, other)
		}
	}
	return prev
}

// Lists the steps that come after this step.
func (s Step) NextSteps() []Step {
	var next []Step
	for _, other := range All() {
		if other > s {
			next = append(next, other)
		}
	}
	return next
}

// Returns the step a dependent part waits on before this step can run, or
// zero when the step has no cross-part prerequisite. Build and stage depend
// on the staged output of parts listed in "after"; earlier steps do not.
func (s Step) Prerequisite() Step {
	if s <= Overlay {
		return 0
	}
	if s <= Stage {
		return Stage
	}
	return s
}
