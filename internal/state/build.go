package state

import (
	"encoding/hex"
	"fmt"
)

// Part properties the build step cares about.
var buildProperties = []string{
	"after",
	"build-attributes",
	"build-packages",
	"disable-parallel",
	"organize",
	"override-build",
}

// Context information for the build step.
type BuildState struct {
	stepData `mapstructure:",squash"`

	Assets map[string]any `mapstructure:"assets"`

	// Hex-encoded fingerprint of the overlay content visible to this build,
	// empty when overlays are not in use.
	OverlayHash string `mapstructure:"overlay-hash"`
}

// Creates a new [BuildState] from a generic mapping, validating its fields.
func UnmarshalBuildState(data any) (*BuildState, error) {
	var s BuildState
	if err := decodeState(data, &s); err != nil {
		return nil, err
	}
	return &s, s.validate()
}

func (s *BuildState) PropertiesOfInterest(props map[string]any, extra []string) map[string]any {
	return filterKeys(props, buildProperties, extra)
}

func (s *BuildState) DiffPropertiesOfInterest(other map[string]any, extra []string) Set {
	return differingKeys(
		s.PropertiesOfInterest(s.PartProperties, extra),
		s.PropertiesOfInterest(other, extra),
	)
}

func (s *BuildState) Marshal() map[string]any {
	m := s.marshalBase()
	m["assets"] = s.Assets
	if s.OverlayHash != "" {
		m["overlay-hash"] = s.OverlayHash
	}
	return m
}

func (s *BuildState) validate() error {
	return validateHexString(s.OverlayHash)
}

// Fails when the value is non-empty and not a valid hex-encoded byte string.
func validateHexString(value string) error {
	if value == "" {
		return nil
	}
	if _, err := hex.DecodeString(value); err != nil {
		return fmt.Errorf("%w: overlay-hash %q is not a valid hex string", ErrInvalidState, value)
	}
	return nil
}
