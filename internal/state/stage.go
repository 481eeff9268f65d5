package state

// Part properties the stage step cares about. Callers supply extras for
// application-specific stage properties.
var stageProperties = []string{
	"override-stage",
	"stage",
}

// Context information for the stage step.
type StageState struct {
	stepData `mapstructure:",squash"`

	// Hex-encoded fingerprint of the overlay content staged alongside this
	// part, empty when overlays are not in use.
	OverlayHash string `mapstructure:"overlay-hash"`
}

// Creates a new [StageState] from a generic mapping, validating its fields.
func UnmarshalStageState(data any) (*StageState, error) {
	var s StageState
	if err := decodeState(data, &s); err != nil {
		return nil, err
	}
	return &s, s.validate()
}

func (s *StageState) PropertiesOfInterest(props map[string]any, extra []string) map[string]any {
	return filterKeys(props, stageProperties, extra)
}

func (s *StageState) DiffPropertiesOfInterest(other map[string]any, extra []string) Set {
	return differingKeys(
		s.PropertiesOfInterest(s.PartProperties, extra),
		s.PropertiesOfInterest(other, extra),
	)
}

func (s *StageState) Marshal() map[string]any {
	m := s.marshalBase()
	if s.OverlayHash != "" {
		m["overlay-hash"] = s.OverlayHash
	}
	return m
}

func (s *StageState) validate() error {
	return validateHexString(s.OverlayHash)
}
