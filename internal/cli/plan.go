package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/forgeworks/lathe/internal/lifecycle"
	"github.com/forgeworks/lathe/internal/steps"
)

// Represents the 'lathe plan' command.
type PlanCmd struct {
	Parts []string `arg:"" optional:"" help:"Limit the report to the named parts."`
}

// Executes the plan command.
//
// Checks every step of every selected part against its persisted state and
// prints one line per step that must run, with the reason.
func (c *PlanCmd) Run(ctx context.Context) error {
	list, dirs, err := loadProject()
	if err != nil {
		return err
	}

	selected, err := selectParts(list, c.Parts)
	if err != nil {
		return err
	}

	m := lifecycle.NewManager(dirs, map[string]any{})

	dirty := 0
	for _, p := range selected {
		for _, step := range steps.All() {
			report, err := m.CheckStep(p, step, nil)
			if err != nil {
				return err
			}
			if !report.IsDirty() {
				continue
			}
			dirty++
			fmt.Printf("%s:%s\t%s\n", p.Name, step.Name(), report.Reason())
		}
	}

	if dirty == 0 {
		slog.Info("everything is up to date")
	}
	return nil
}
