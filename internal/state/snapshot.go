package state

// Configuration a completed step ran with, captured by the caller at the
// moment the step finished. Files and Directories describe the content the
// step migrated into its shared area, relative to that area's root.
type Snapshot struct {
	Partition      string
	PartProperties map[string]any
	ProjectOptions map[string]any
	Files          Set
	Directories    Set
}

func (s Snapshot) migration() MigrationState {
	return MigrationState{
		Partition:   s.Partition,
		Files:       s.Files,
		Directories: s.Directories,
	}
}

func (s Snapshot) stepData() stepData {
	return stepData{
		MigrationState: s.migration(),
		PartProperties: s.PartProperties,
		ProjectOptions: s.ProjectOptions,
	}
}

// Creates the state to persist after a pull step ran. Assets records
// provenance details such as resolved source commits.
func NewPullState(snap Snapshot, assets map[string]any) *PullState {
	return &PullState{stepData: snap.stepData(), Assets: assets}
}

// Creates the state to persist after an overlay step ran.
func NewOverlayState(snap Snapshot) *OverlayState {
	return &OverlayState{stepData: snap.stepData()}
}

// Creates the state to persist after a build step ran. Fails when
// overlayHash is not a valid hex string.
func NewBuildState(snap Snapshot, assets map[string]any, overlayHash string) (*BuildState, error) {
	s := &BuildState{stepData: snap.stepData(), Assets: assets, OverlayHash: overlayHash}
	return s, s.validate()
}

// Creates the state to persist after a stage step ran. Fails when
// overlayHash is not a valid hex string.
func NewStageState(snap Snapshot, overlayHash string) (*StageState, error) {
	s := &StageState{stepData: snap.stepData(), OverlayHash: overlayHash}
	return s, s.validate()
}

// Creates the state to persist after a prime step ran.
func NewPrimeState(snap Snapshot, dependencyPaths, primedStagePackages Set) *PrimeState {
	return &PrimeState{
		stepData:            snap.stepData(),
		DependencyPaths:     dependencyPaths,
		PrimedStagePackages: primedStagePackages,
	}
}
