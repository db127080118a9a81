package main

import (
	"fmt"
)

// DiffFlags are the diff tuning flags shared by diff and watch
type DiffFlags struct {
	Removals  bool     `help:"Report files removed by a revision."`
	Include   []string `short:"i" help:"Only report paths matching these glob patterns (** supported)."`
	Color     string   `help:"Color output: auto, always or never."`
	Algorithm string   `help:"Line diff algorithm: difflib or myers."`
	Context   int      `default:"-1" help:"Context lines around each change."`
	Stat      bool     `help:"Print a per-file summary of added and removed lines instead of hunks."`
}

// apply overlays the flags that were set onto cfg and validates the result
func (f *DiffFlags) apply(cfg *Config) error {
	if f.Removals {
		cfg.Diff.DetectRemovals = true
	}
	if len(f.Include) > 0 {
		cfg.Diff.Include = f.Include
	}
	if f.Color != "" {
		cfg.Output.Color = f.Color
	}
	if f.Algorithm != "" {
		cfg.Diff.Algorithm = f.Algorithm
	}
	if f.Context >= 0 {
		cfg.Diff.ContextLines = f.Context
	}
	return cfg.Validate()
}

// DiffCmd diffs a revision, or the working directory when the revision is HEAD
type DiffCmd struct {
	DiffFlags `embed:""`

	Revision string `arg:"" optional:"" default:"HEAD" help:"Revision to diff against its parents. HEAD diffs the working directory."`
}

func (c *DiffCmd) Run(app *appContext) error {
	s, err := app.openSession()
	if err != nil {
		return err
	}
	defer s.close()

	if err := c.apply(s.config); err != nil {
		return err
	}

	return runDiff(s, c.Revision, c.Stat, NewDiffPrinter(app.stdout, ColorMode(s.config.Output.Color), s.config.Output.Highlight))
}

// runDiff computes one diff and prints it
func runDiff(s *session, revision string, stat bool, printer *DiffPrinter) error {
	s.backend.Configure(s.logger, s.config.UnifiedOptions())
	differ := NewDiffer(s.backend, s.logger, s.config.DiffOptions())

	records, err := differ.Diff(revision)
	if err != nil {
		s.logger.Error("diff failed", err, map[string]any{"revision": revisionLabel(revision)})
		return fmt.Errorf("diff %s: %w", revisionLabel(revision), err)
	}

	if stat {
		return printer.PrintStat(records)
	}
	return printer.PrintRecords(records)
}
