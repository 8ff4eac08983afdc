package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"fslkit/internal/config"
	"fslkit/internal/history"
	"fslkit/internal/imgformat"
	"fslkit/internal/logging"
	"fslkit/internal/run"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	log        *slog.Logger
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
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			c.log = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = err
			c.log = logging.NewNop()
			return
		}
		c.log = logger
	})
	return c.log
}

// applyFormat points FSLOUTPUTTYPE at the requested format for the
// duration of a run, guarded by the file lock so concurrent fslkit
// processes do not race on the environment handoff to the child.
func (c *commandContext) applyFormat(format string) (func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	lock := run.NewLock(cfg.Paths.LockFile)
	if err := lock.Acquire(); err != nil {
		return nil, err
	}
	if _, _, err := imgformat.Set(imgformat.Format(format)); err != nil {
		_ = lock.Release()
		return nil, err
	}
	return func() { _ = lock.Release() }, nil
}

// recordRun appends the invocation to the history database. History is
// best-effort: failures are logged, never fatal.
func (c *commandContext) recordRun(tool, cmdline string, started time.Time, runErr error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return
	}

	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		c.logger().Warn("open history database", "tool", tool, "error", err)
		return
	}
	defer store.Close()

	rec := history.Record{
		Tool:       tool,
		Cmdline:    cmdline,
		Status:     history.StatusCompleted,
		StartedAt:  started.UTC(),
		FinishedAt: time.Now().UTC(),
	}
	if runErr != nil {
		rec.Status = history.StatusFailed
		rec.ExitCode = 1
		rec.Detail = runErr.Error()
	}
	if _, err := store.Record(context.Background(), rec); err != nil {
		c.logger().Warn("record run history", "tool", tool, "error", err)
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
