// Package migrator upgrades resources from legacy manifest metadata to
// the current resource.hcl configuration format.
//
// Migration is a one-way upgrade: the legacy schema section is converted
// to a generated resource.hcl declaration and removed from package.json.
// All other manifest content is preserved.
package migrator

import (
	"os"
	"path/filepath"

	"github.com/stencil-tools/stencil/internal/config"
	"github.com/stencil-tools/stencil/internal/errors"
	"github.com/stencil-tools/stencil/internal/legacy"
	"github.com/stencil-tools/stencil/internal/manifest"
	"github.com/stencil-tools/stencil/internal/scanner"
)

// Status classifies one resource's migration outcome.
type Status string

const (
	// StatusMigrated means the resource was upgraded
	StatusMigrated Status = "migrated"

	// StatusSkipped means the resource needed no migration
	StatusSkipped Status = "skipped"

	// StatusFailed means the migration attempt failed
	StatusFailed Status = "failed"
)

// Outcome records one resource's migration result.
type Outcome struct {
	// Resource is the processed resource
	Resource *scanner.Resource

	// Status is the outcome classification
	Status Status

	// Reason explains a skip
	Reason string

	// Err is the failure cause for StatusFailed
	Err error
}

// Summary accumulates outcomes for one migration batch. One resource's
// failure never aborts the batch.
type Summary struct {
	Outcomes []*Outcome
}

// Counts returns the migrated/skipped/failed tallies.
func (s *Summary) Counts() (migrated, skipped, failed int) {
	for _, o := range s.Outcomes {
		switch o.Status {
		case StatusMigrated:
			migrated++
		case StatusSkipped:
			skipped++
		case StatusFailed:
			failed++
		}
	}
	return
}

// Migrator drives the migrate workflow.
type Migrator struct{}

// New creates a migrator.
func New() *Migrator {
	return &Migrator{}
}

// Migrate processes each resource independently, accumulating
// per-resource success/skip/failure.
func (m *Migrator) Migrate(resources []*scanner.Resource) *Summary {
	summary := &Summary{}

	for _, res := range resources {
		summary.Outcomes = append(summary.Outcomes, m.migrateOne(res))
	}

	return summary
}

func (m *Migrator) migrateOne(res *scanner.Resource) *Outcome {
	id := res.ID()

	// Already on the current format: nothing to do.
	configPath := filepath.Join(res.Path, config.FileName)
	if _, err := os.Stat(configPath); err == nil {
		return &Outcome{Resource: res, Status: StatusSkipped, Reason: config.FileName + " already exists"}
	}

	man := res.Manifest
	if man == nil {
		loaded, err := manifest.Load(res.Path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return &Outcome{Resource: res, Status: StatusSkipped, Reason: "no " + manifest.Filename}
			}
			return &Outcome{Resource: res, Status: StatusFailed,
				Err: errors.NewMigrateError(id, "read", err)}
		}
		man = loaded
	}

	if !man.HasLegacyMetadata() {
		return &Outcome{Resource: res, Status: StatusSkipped, Reason: "no legacy metadata"}
	}

	cfg := &config.ResourceConfig{
		Slug:        res.Name,
		Name:        man.Name,
		Description: man.Description,
		Pricing:     config.DefaultPricing(),
		Schema:      legacy.ToSchema(man.Legacy),
	}

	src, err := config.Generate(string(res.Type), cfg)
	if err != nil {
		return &Outcome{Resource: res, Status: StatusFailed,
			Err: errors.NewMigrateError(id, "generate", err)}
	}

	if err := os.WriteFile(configPath, src, 0644); err != nil {
		return &Outcome{Resource: res, Status: StatusFailed,
			Err: errors.NewMigrateError(id, "generate", err)}
	}

	man.RemoveLegacyMetadata()
	if err := man.Save(); err != nil {
		// Leave the generated config in place; re-running migrate will
		// skip it and the manifest can be fixed by hand.
		return &Outcome{Resource: res, Status: StatusFailed,
			Err: errors.NewMigrateError(id, "manifest", err)}
	}

	return &Outcome{Resource: res, Status: StatusMigrated}
}
