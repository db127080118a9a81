package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// WatchCmd re-runs the working directory diff on every file system change
type WatchCmd struct {
	DiffFlags `embed:""`

	Debounce time.Duration `default:"200ms" help:"Quiet period before a burst of changes triggers a new diff."`
}

func (c *WatchCmd) Run(app *appContext) error {
	s, err := app.openSession()
	if err != nil {
		return err
	}
	defer s.close()

	if err := c.apply(s.config); err != nil {
		return err
	}
	if s.root == "" {
		return fmt.Errorf("watch requires a repository with a working directory")
	}

	watcher, err := NewWatcher(s.root, c.Debounce, s.logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer := NewDiffPrinter(app.stdout, ColorMode(s.config.Output.Color), s.config.Output.Highlight)
	refresh := func() error {
		s.logger.Reset()
		if err := printer.PrintBanner(fmt.Sprintf("treediff %s  %s", s.branchLabel(), time.Now().Format(time.TimeOnly))); err != nil {
			return err
		}
		if err := runDiff(s, HeadRevision, c.Stat, printer); err != nil {
			// keep watching, the next change may fix it
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return nil
	}

	if err := refresh(); err != nil {
		return err
	}
	return watcher.Run(ctx, refresh)
}

func (s *session) branchLabel() string {
	branch, err := s.backend.CurrentBranch()
	if err != nil {
		return "(no branch)"
	}
	return branch
}
