package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"seqdeliver/internal/config"
	"seqdeliver/internal/deliverylog"
	"seqdeliver/internal/dryops"
	"seqdeliver/internal/logging"
)

type commandContext struct {
	configFlag *string
	dryRunFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	invocationOnce sync.Once
	invocationID   string
}

func newCommandContext(configFlag *string, dryRunFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		dryRunFlag: dryRunFlag,
	}
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
		if err := cfg.EnsureDirectories(); err != nil {
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
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			OutputPaths: []string{
				"stderr",
				filepath.Join(cfg.Paths.LogDir, "seqdeliver.log"),
			},
		})
		if err != nil {
			c.loggerErr = fmt.Errorf("initialize logging: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) dryRun() bool {
	return c.dryRunFlag != nil && *c.dryRunFlag
}

func (c *commandContext) runner() (*dryops.Runner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return dryops.NewRunner(c.dryRun(), cfg.RsyncBinary(), logger), nil
}

// invocation returns the id tagging every history row this process
// writes.
func (c *commandContext) invocation() string {
	c.invocationOnce.Do(func() {
		c.invocationID = uuid.NewString()
	})
	return c.invocationID
}

// acquireLock takes the per-host invocation lock so two mutating
// commands cannot interleave. The returned release function is safe to
// defer.
func (c *commandContext) acquireLock() (func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, "seqdeliver.lock")
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lockPath, err)
	}
	if !ok {
		return nil, fmt.Errorf("another seqdeliver invocation is already running (lock %s)", lockPath)
	}
	return func() { _ = lock.Unlock() }, nil
}

// logHistory appends events to the delivery history database. Dry-run
// invocations are never recorded, and history failures never fail the
// command that produced them.
func (c *commandContext) logHistory(ctx context.Context, command string, events []deliverylog.Event) {
	if c.dryRun() || len(events) == 0 {
		return
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return
	}
	store, err := deliverylog.Open(cfg)
	if err != nil {
		logger.Warn("delivery history unavailable", logging.Error(err))
		return
	}
	defer store.Close()

	for _, event := range events {
		event.InvocationID = c.invocation()
		event.Command = command
		if err := store.Append(ctx, event); err != nil {
			logger.Warn("record delivery event", logging.Error(err))
			return
		}
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
