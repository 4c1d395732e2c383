// Package cli implements the mvnq command-line interface.
//
// This package provides commands for querying Maven Central artifact
// metadata: latest stable version lookup, version listings, declared
// dependency extraction from POMs, and free-text search. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - latest: Resolve the latest version of a groupId:artifactId coordinate
//   - versions: List known versions, newest first
//   - deps: List the dependencies declared in an artifact's POM
//   - search: Free-text search of Maven Central
//   - serve: Run the query operations as an HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Results are
// written to stdout as JSON; logs go to stderr.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mvnq/mvnq/pkg/buildinfo"
	"github.com/mvnq/mvnq/pkg/registry"
	"github.com/mvnq/mvnq/pkg/registry/maven"
)

// appName is the application name used for directories and display.
const appName = "mvnq"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level, false)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "mvnq queries Maven Central artifact metadata",
		Long:         `mvnq is a read-only query tool for Maven Central: resolve latest versions, list version history, extract declared POM dependencies, and search artifacts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/mvnq/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "bypass the metadata cache")

	root.AddCommand(c.latestCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newMavenClient loads configuration and builds the Maven Central client
// shared by all query commands.
func (c *CLI) newMavenClient() (*maven.Client, *Config, error) {
	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Log.JSON {
		c.Logger.SetFormatter(log.JSONFormatter)
	}
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil && c.Logger.GetLevel() != log.DebugLevel {
		c.Logger.SetLevel(level)
	}

	httpClient := registry.New(registry.Config{
		Timeout:      time.Duration(cfg.Registry.TimeoutSeconds) * time.Second,
		MaxRetries:   cfg.Registry.MaxRetries,
		Concurrency:  cfg.Registry.Concurrency,
		MaxBodyBytes: cfg.Registry.MaxPOMBytes,
		UserAgent:    appName + "/" + buildinfo.Version,
	})

	client := maven.NewClient(maven.Config{
		SearchBaseURL:   cfg.Registry.SearchBaseURL,
		RepoBaseURL:     cfg.Registry.RepoBaseURL,
		HTTP:            httpClient,
		DisableCache:    c.noCache || !cfg.Cache.Enabled,
		SearchTTL:       time.Duration(cfg.Cache.SearchTTLSeconds) * time.Second,
		POMTTL:          time.Duration(cfg.Cache.POMTTLSeconds) * time.Second,
		CacheMaxEntries: cfg.Cache.MaxEntries,
		Rows:            cfg.Registry.Rows,
		Logger:          c.Logger,
	})
	return client, cfg, nil
}
