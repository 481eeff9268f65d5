package cli

import (
	"context"
	"log/slog"

	"github.com/forgeworks/lathe/internal/lifecycle"
)

// Represents the 'lathe clean' command.
type CleanCmd struct {
	Parts []string `arg:"" optional:"" help:"Limit cleaning to the named parts."`
}

// Executes the clean command.
//
// Cleans every step of every selected part, withdrawing migrated content
// from the shared areas and removing the parts' private directories.
func (c *CleanCmd) Run(ctx context.Context) error {
	list, dirs, err := loadProject()
	if err != nil {
		return err
	}

	selected, err := selectParts(list, c.Parts)
	if err != nil {
		return err
	}

	m := lifecycle.NewManager(dirs, map[string]any{})

	for _, p := range selected {
		if err := m.CleanPart(p); err != nil {
			return err
		}
		slog.Info("cleaned", "part", p.Name)
	}
	return nil
}
