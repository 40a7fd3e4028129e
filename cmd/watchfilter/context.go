package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"watchfilter/internal/api"
	"watchfilter/internal/config"
	"watchfilter/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	jsonFlag     *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	runtimeOnce sync.Once
	runtime     *api.Runtime
	logger      *slog.Logger
	runtimeErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		jsonFlag:     jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		if level := c.logLevel(); level != "" {
			cfg.Logging.Level = level
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// ensureRuntime builds the logger and the TMDB-backed components once per
// invocation so every command shares one availability cache.
func (c *commandContext) ensureRuntime() (*api.Runtime, error) {
	c.runtimeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.runtimeErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.runtimeErr = err
			return
		}
		runtime, err := api.NewRuntime(cfg, logger)
		if err != nil {
			c.runtimeErr = err
			return
		}
		c.logger = logger
		c.runtime = runtime
	})
	return c.runtime, c.runtimeErr
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) logLevel() string {
	if c.logLevelFlag == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
