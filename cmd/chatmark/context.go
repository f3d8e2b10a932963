package main

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"chatmark/internal/config"
	"chatmark/internal/logging"
	"chatmark/internal/marker"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// loadRegistry reads every configured marker directory into a fresh registry.
// Per-entry load issues are returned for display, not treated as fatal.
func (c *commandContext) loadRegistry(logger *slog.Logger) (*marker.Registry, []marker.LoadIssue, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	loaded, err := marker.LoadDirs(cfg.Paths.MarkerDirs, logger)
	if err != nil {
		return nil, loaded.Issues, err
	}

	registry, err := marker.NewRegistry(loaded.Definitions)
	if err != nil {
		return nil, loaded.Issues, err
	}
	return registry, loaded.Issues, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// writeJSON encodes v as indented JSON on the command's stdout, for the
// --json variants of the subcommands.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
