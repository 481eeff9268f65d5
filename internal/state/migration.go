package state

import "sort"

// Files and directories contributed by one step to a shared area, for one
// partition. Paths are relative to the shared area root.
type MigrationContents struct {
	Files       Set `mapstructure:"files"`
	Directories Set `mapstructure:"directories"`
}

// Tracks the content a step migrated into shared areas, partition-aware.
//
// The unprefixed Files and Directories sets belong to the state's own
// partition. Content migrated to any other partition is recorded in
// PartitionsContents, keyed by partition name. An empty Partition means
// the only (default) partition.
type MigrationState struct {
	Partition          string                       `mapstructure:"partition"`
	Files              Set                          `mapstructure:"files"`
	Directories        Set                          `mapstructure:"directories"`
	PartitionsContents map[string]MigrationContents `mapstructure:"partitions-contents"`
}

// Returns the content migrated to the given partition, or nil when the
// partition is neither this state's own nor present in PartitionsContents.
// An empty partition selects the default partition.
func (s *MigrationState) Contents(partition string) *MigrationContents {
	if partition == s.Partition {
		return &MigrationContents{Files: s.Files, Directories: s.Directories}
	}
	if c, ok := s.PartitionsContents[partition]; ok {
		return &MigrationContents{Files: c.Files, Directories: c.Directories}
	}
	return nil
}

// Lists every partition this state holds content for: its own partition
// first, then the others sorted by name.
func (s *MigrationState) Partitions() []string {
	out := []string{s.Partition}
	names := make([]string, 0, len(s.PartitionsContents))
	for name := range s.PartitionsContents {
		if name != s.Partition {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return append(out, names...)
}

// Unions the given files and directories into the state's own partition.
// Repeated identical calls leave the state unchanged.
func (s *MigrationState) Add(files, directories Set) {
	if s.Files == nil {
		s.Files = Set{}
	}
	if s.Directories == nil {
		s.Directories = Set{}
	}
	for f := range files {
		s.Files[f] = struct{}{}
	}
	for d := range directories {
		s.Directories[d] = struct{}{}
	}
}
