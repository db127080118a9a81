package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

const appVersion = "1.0.0"

// commandLine is the kong grammar of treediff
type commandLine struct {
	Repo     string `short:"C" help:"Path inside the git repository to diff. Default is the current directory." type:"path"`
	Config   string `short:"c" help:"Configuration file. Default is .treediff.toml in the repository root." type:"path"`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error). Overrides the configuration."`

	Diff    DiffCmd    `cmd:"" default:"withargs" help:"Diff a revision against its parents, or the working directory against HEAD."`
	Watch   WatchCmd   `cmd:"" help:"Re-print the working directory diff whenever files change."`
	Version VersionCmd `cmd:"" help:"Print the version."`
}

var cli commandLine

// appContext is shared by every command
type appContext struct {
	repoPath   string
	configPath string
	logLevel   string
	stdout     io.Writer
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("treediff"),
		kong.Description("Structural diff of git trees and working directories."),
		kong.ShortUsageOnError(),
	)

	err := ctx.Run(&appContext{
		repoPath:   cli.Repo,
		configPath: cli.Config,
		logLevel:   cli.LogLevel,
		stdout:     os.Stdout,
	})
	ctx.FatalIfErrorf(err)
}

// session is an opened repository with its configuration and logger
type session struct {
	backend *GitBackend
	config  *Config
	logger  *Logger
	root    string
}

// openSession opens the repository, loads configuration and starts logging
func (app *appContext) openSession() (*session, error) {
	backend, err := OpenGitBackend(app.repoPath, nil, DefaultUnifiedOptions())
	if err != nil {
		return nil, fmt.Errorf("initialize git backend: %w", err)
	}

	root, err := backend.RootPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: get git root path: %v\n", err)
		root = ""
	}

	cfg, err := LoadConfig(app.configPath, root)
	if err != nil {
		return nil, err
	}
	if app.logLevel != "" {
		cfg.Log.Level = app.logLevel
	}

	level, err := ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger, err := NewLogger(level, cfg.Log.File, root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	logger.Info("treediff starting", map[string]any{
		"version": appVersion,
		"root":    root,
	})

	return &session{
		backend: backend,
		config:  cfg,
		logger:  logger,
		root:    root,
	}, nil
}

func (s *session) close() {
	reportLoggerStats(os.Stderr, s.logger)
	if err := s.logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: close logger: %v\n", err)
	}
}

// reportLoggerStats tells the user about logged errors, which otherwise only reach the log file
func reportLoggerStats(w io.Writer, logger *Logger) {
	if !logger.HasErrors() {
		return
	}

	stats := logger.GetStats()
	fmt.Fprintf(w, "\ncompleted with %d error(s)", stats.TotalErrors)
	if path := logger.Path(); path != "" {
		fmt.Fprintf(w, ", see %s", path)
	}
	fmt.Fprintf(w, "\nlast error: %s\n", stats.LastError)
	if stats.TotalWarnings > 0 {
		fmt.Fprintf(w, "warnings: %d\n", stats.TotalWarnings)
	}
}

// VersionCmd prints the version
type VersionCmd struct{}

func (c *VersionCmd) Run(app *appContext) error {
	_, err := fmt.Fprintf(app.stdout, "treediff %s\n", appVersion)
	return err
}
