package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/archive"
	"github.com/glorpus-work/pkgtrack/pkg/cache"
	"github.com/glorpus-work/pkgtrack/pkg/config"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/lock"
	"github.com/glorpus-work/pkgtrack/pkg/metadata"
	"github.com/glorpus-work/pkgtrack/pkg/model"
	"github.com/glorpus-work/pkgtrack/pkg/orchestrator"
	"github.com/glorpus-work/pkgtrack/pkg/refstore"
	"github.com/glorpus-work/pkgtrack/pkg/resolver"
	"github.com/glorpus-work/pkgtrack/pkg/tracking"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	OutputFormat *string
)

// loadConfig loads the configuration and applies the global flags to it.
// The result must not be saved; use loadConfigFile for that.
func loadConfig() (*config.Config, error) {
	cfg, err := loadConfigFile()
	if err != nil {
		return nil, err
	}

	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = strings.ToLower(*OutputFormat)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	return cfg, nil
}

// loadConfigFile loads the configuration as stored and configures the logger
// from it and the global flags.
func loadConfigFile() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level, format := cfg.Settings.LogLevel, cfg.Settings.OutputFormat
	if OutputFormat != nil && *OutputFormat != "" {
		format = strings.ToLower(*OutputFormat)
	}
	if Verbose != nil && *Verbose {
		level = "debug"
	}
	logger.InitLogger(level, logger.OutputFormat(format))
	return cfg, nil
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		// An empty path makes LoadConfig report a descriptive error.
		logger.Warn("Failed to get default config path, using empty path", logger.Fields{"error": err.Error()})
		return ""
	}
	return defaultPath
}

// app bundles the components a command works with.
type app struct {
	cfg      *config.Config
	remotes  []model.Remote
	store    *refstore.GitStore
	tracking *tracking.Set
	cache    *cache.DefaultManager
	orch     *orchestrator.Orchestrator
	lock     *lock.Lock
}

// openApp wires every component from the configuration. Mutating commands
// hold the mirror lock until Close.
func openApp(ctx context.Context, mutating bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	remotes, err := cfg.ModelRemotes()
	if err != nil {
		return nil, fmt.Errorf("%w (add one with 'pkgtrack config add-remote')", err)
	}

	a := &app{cfg: cfg, remotes: remotes}
	if mutating {
		a.lock, err = lock.Acquire(ctx, cfg.GetLockPath(), cfg.Settings.LockTimeout)
		if err != nil {
			return nil, err
		}
	}
	if err := a.wire(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire() error {
	var err error
	a.store, err = refstore.Open(a.cfg.GetMirrorDir(), a.remotes)
	if err != nil {
		return err
	}
	a.cache, err = cache.NewManager(a.store, cache.Options{
		Dir:            a.cfg.GetCacheDir(),
		TTL:            a.cfg.Settings.CacheTTL,
		BuildTimestamp: BuildTimestamp(),
	})
	if err != nil {
		return err
	}
	a.tracking, err = tracking.Open(a.cfg.GetTrackingPath(), a.store, a.remotes, nil)
	if err != nil {
		return err
	}
	a.tracking.SetMembership(a.cache)

	var groups metadata.Lookup
	if url := a.cfg.GetMetadataURL(); url != "" {
		groups = metadata.NewHTTPClient(url, a.cfg.Settings.HTTPTimeout, a.cfg.MetadataAuthenticator())
	}
	res := resolver.New(a.remotes, a.tracking, a.cache, groups)

	a.orch = orchestrator.New(a.remotes, a.tracking, res, a.cache, a.store, archive.NewManager(), orchestrator.Hooks{
		OnEvent: func(e orchestrator.Event) {
			logger.Debug("Progress", logger.Fields{"phase": e.Phase, "id": e.ID, "msg": e.Msg})
		},
	})
	a.orch.Concurrency = a.cfg.Settings.MaxConcurrentFetches
	return nil
}

// Close releases the mirror lock, if held.
func (a *app) Close() {
	if err := a.lock.Release(); err != nil {
		logger.Warn("Failed to release mirror lock", logger.Fields{"error": err.Error()})
	}
}

// reportFailures logs every per-package failure and turns them into the
// command's error.
func reportFailures(failed []*errors.PackageError, total int) error {
	for _, f := range failed {
		logger.Error(f.Error(), logger.Fields{"package": f.Package})
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d packages failed", len(failed), total)
}
