package state

// Part properties the overlay step cares about. Callers supply extras for
// application-specific overlay properties.
var overlayProperties = []string{
	"overlay-script",
	"overlay",
}

// Context information for the overlay step.
type OverlayState struct {
	stepData `mapstructure:",squash"`
}

// Creates a new [OverlayState] from a generic mapping, validating its fields.
func UnmarshalOverlayState(data any) (*OverlayState, error) {
	var s OverlayState
	if err := decodeState(data, &s); err != nil {
		return nil, err
	}
	return &s, s.validate()
}

func (s *OverlayState) PropertiesOfInterest(props map[string]any, extra []string) map[string]any {
	return filterKeys(props, overlayProperties, extra)
}

func (s *OverlayState) DiffPropertiesOfInterest(other map[string]any, extra []string) Set {
	return differingKeys(
		s.PropertiesOfInterest(s.PartProperties, extra),
		s.PropertiesOfInterest(other, extra),
	)
}

func (s *OverlayState) Marshal() map[string]any {
	return s.marshalBase()
}

func (s *OverlayState) validate() error {
	return nil
}
