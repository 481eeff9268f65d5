package state

// Part properties the prime step cares about.
var primeProperties = []string{
	"override-prime",
	"prime",
}

// Context information for the prime step.
type PrimeState struct {
	stepData `mapstructure:",squash"`

	// Paths of shared library dependencies pulled into the prime area.
	DependencyPaths Set `mapstructure:"dependency-paths"`

	// Names of stage packages whose content was primed.
	PrimedStagePackages Set `mapstructure:"primed-stage-packages"`
}

// Creates a new [PrimeState] from a generic mapping, validating its fields.
func UnmarshalPrimeState(data any) (*PrimeState, error) {
	var s PrimeState
	if err := decodeState(data, &s); err != nil {
		return nil, err
	}
	return &s, s.validate()
}

// Returns the relevant properties. An absent or empty prime filter is
// equivalent to priming everything, so it normalizes to ["*"].
func (s *PrimeState) PropertiesOfInterest(props map[string]any, extra []string) map[string]any {
	m := filterKeys(props, primeProperties, extra)
	if isEmptyFilter(m["prime"]) {
		m["prime"] = []any{"*"}
	}
	return m
}

func (s *PrimeState) DiffPropertiesOfInterest(other map[string]any, extra []string) Set {
	return differingKeys(
		s.PropertiesOfInterest(s.PartProperties, extra),
		s.PropertiesOfInterest(other, extra),
	)
}

func (s *PrimeState) Marshal() map[string]any {
	m := s.marshalBase()
	m["dependency-paths"] = s.DependencyPaths.Sorted()
	m["primed-stage-packages"] = s.PrimedStagePackages.Sorted()
	return m
}

func (s *PrimeState) validate() error {
	return nil
}

// Whether a prime filter value selects nothing explicitly.
func isEmptyFilter(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}
