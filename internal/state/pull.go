package state

// Part properties the pull step cares about.
var pullProperties = []string{
	"plugin",
	"source",
	"source-commit",
	"source-depth",
	"source-tag",
	"source-type",
	"source-branch",
	"source-subdir",
	"source-submodules",
	"override-pull",
	"stage-packages",
	"overlay-packages",
}

// Context information for the pull step.
type PullState struct {
	stepData `mapstructure:",squash"`

	Assets map[string]any `mapstructure:"assets"`
}

// Creates a new [PullState] from a generic mapping, validating its fields.
func UnmarshalPullState(data any) (*PullState, error) {
	var s PullState
	if err := decodeState(data, &s); err != nil {
		return nil, err
	}
	return &s, s.validate()
}

func (s *PullState) PropertiesOfInterest(props map[string]any, extra []string) map[string]any {
	return filterKeys(props, pullProperties, extra)
}

func (s *PullState) DiffPropertiesOfInterest(other map[string]any, extra []string) Set {
	return differingKeys(
		s.PropertiesOfInterest(s.PartProperties, extra),
		s.PropertiesOfInterest(other, extra),
	)
}

func (s *PullState) Marshal() map[string]any {
	m := s.marshalBase()
	m["assets"] = s.Assets
	return m
}

func (s *PullState) validate() error {
	return nil
}
