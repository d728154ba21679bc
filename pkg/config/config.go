// Package config loads, validates and saves the pkgtrack configuration: the
// ordered list of package remotes and the settings of the mirror, cache,
// network and output layers. The configuration is a YAML file; missing
// settings take their defaults.
package config

import (
	"bytes"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/pkgtrack/pkg/cache"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/fsutil"
	"github.com/glorpus-work/pkgtrack/pkg/lock"
	"github.com/glorpus-work/pkgtrack/pkg/model"
	"github.com/glorpus-work/pkgtrack/pkg/refstore"
	"github.com/glorpus-work/pkgtrack/pkg/tracking"
)

// Config represents the application configuration.
type Config struct {
	// Remotes in priority order.
	Remotes []*RemoteConfig `yaml:"remotes"`

	// General settings
	Settings Settings `yaml:"settings"`
}

// RemoteConfig represents a single package remote.
type RemoteConfig struct {
	Name      string `yaml:"name"`
	URL       string `yaml:"url"`
	Namespace string `yaml:"namespace,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	// Mirror settings
	MirrorRoot string `yaml:"mirror_root"`

	// Cache settings
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// Network settings
	HTTPTimeout          time.Duration `yaml:"http_timeout"`
	MaxConcurrentFetches int           `yaml:"max_concurrent_fetches"`
	MetadataURL          string        `yaml:"metadata_url"`
	MetadataAuth         *AuthConfig   `yaml:"metadata_auth,omitempty"`

	// Locking
	LockTimeout time.Duration `yaml:"lock_timeout"`

	// Output settings
	OutputFormat string `yaml:"output_format"` // text, json
	LogLevel     string `yaml:"log_level"`     // error, warn, info, debug
}

// Default configuration values.
const (
	// DefaultCacheTTL is how long a remote's package list stays fresh.
	DefaultCacheTTL = time.Hour

	// DefaultHTTPTimeout is the default timeout for metadata requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultMaxConcurrentFetches bounds the remotes fetched in parallel.
	DefaultMaxConcurrentFetches = 4

	// DefaultMetadataURL is the package search endpoint used for group lookups.
	DefaultMetadataURL = "https://archlinux.org/packages/search/json/"

	// MetadataDisabled as metadata_url turns group lookups off.
	MetadataDisabled = "none"

	// DefaultLockTimeout is how long a mutating command waits for the mirror lock.
	DefaultLockTimeout = 10 * time.Second

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2

	// FileName is the configuration file below the config directory.
	FileName = "config.yaml"
)

// DefaultConfig returns a configuration with sensible defaults and no remotes.
func DefaultConfig() *Config {
	mirrorRoot, err := fsutil.GetDataDir()
	if err != nil {
		// Fallback to the working directory if we can't determine the data dir
		mirrorRoot = filepath.Join(".", fsutil.AppName)
	}

	return &Config{
		Remotes: []*RemoteConfig{},
		Settings: Settings{
			MirrorRoot:           mirrorRoot,
			CacheTTL:             DefaultCacheTTL,
			HTTPTimeout:          DefaultHTTPTimeout,
			MaxConcurrentFetches: DefaultMaxConcurrentFetches,
			MetadataURL:          DefaultMetadataURL,
			LockTimeout:          DefaultLockTimeout,
			OutputFormat:         "text",
			LogLevel:             "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigValidation, err.Error())
	}

	return &config, nil
}

// SaveConfig atomically writes the configuration to path.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent)
	if err := encoder.Encode(c); err != nil {
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	if err := encoder.Close(); err != nil {
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	if err := fsutil.WriteFileAtomic(absPath, buf.Bytes(), fsutil.FileModeSecure, time.Time{}); err != nil {
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}
	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigMarshal, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateRemotes(c.Remotes); err != nil {
		return err
	}
	return validateSettings(c.Settings)
}

func validateRemotes(remotes []*RemoteConfig) error {
	names := make(map[string]bool)
	for i, r := range remotes {
		if r == nil || r.Name == "" {
			return errors.ErrEmptyRemoteNameWithIndex(i)
		}
		if r.URL == "" {
			return errors.ErrRemoteURLEmptyWithName(r.Name)
		}
		if names[r.Name] {
			return errors.ErrRemoteExistsWithName(r.Name)
		}
		names[r.Name] = true
		if _, err := model.NewRemote(r.Name, r.URL, r.Namespace); err != nil {
			return err
		}
	}
	return nil
}

func validateSettings(s Settings) error {
	if s.HTTPTimeout < 0 {
		return errors.ErrHTTPTimeoutNegative
	}
	if s.CacheTTL < 0 {
		return errors.ErrCacheTTLNegative
	}
	if s.LockTimeout < 0 {
		return errors.ErrLockTimeoutNegative
	}
	if s.MaxConcurrentFetches < 1 {
		return errors.ErrMaxConcurrentInvalid
	}
	if s.MetadataURL != "" && s.MetadataURL != MetadataDisabled {
		u, err := url.Parse(s.MetadataURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Wrapf(errors.ErrConfigValidation, "metadata_url must be an http(s) URL, got '%s'", s.MetadataURL)
		}
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[s.OutputFormat] {
		return errors.ErrInvalidOutputFormatWithDetails(s.OutputFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errors.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := fsutil.GetConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user config directory")
	}
	return filepath.Join(configDir, FileName), nil
}

// AddRemote appends a remote with the lowest priority.
// Returns an error if a remote with the same name already exists.
func (c *Config) AddRemote(name, url, namespace string) error {
	if c.GetRemote(name) != nil {
		return errors.ErrRemoteExistsWithName(name)
	}
	if _, err := model.NewRemote(name, url, namespace); err != nil {
		return err
	}
	c.Remotes = append(c.Remotes, &RemoteConfig{
		Name:      name,
		URL:       url,
		Namespace: namespace,
	})
	return nil
}

// RemoveRemote removes a remote from the configuration.
func (c *Config) RemoveRemote(name string) bool {
	for i, r := range c.Remotes {
		if r.Name == name {
			c.Remotes = append(c.Remotes[:i], c.Remotes[i+1:]...)
			return true
		}
	}
	return false
}

// GetRemote gets a remote configuration by name.
func (c *Config) GetRemote(name string) *RemoteConfig {
	for i, r := range c.Remotes {
		if r.Name == name {
			return c.Remotes[i]
		}
	}
	return nil
}

// ModelRemotes converts the configured remotes, in priority order, into
// validated values.
func (c *Config) ModelRemotes() ([]model.Remote, error) {
	if len(c.Remotes) == 0 {
		return nil, errors.ErrNoRemotes
	}
	out := make([]model.Remote, 0, len(c.Remotes))
	for _, r := range c.Remotes {
		remote, err := model.NewRemote(r.Name, r.URL, r.Namespace)
		if err != nil {
			return nil, err
		}
		out = append(out, remote)
	}
	return out, nil
}

// GetMetadataURL returns the group lookup endpoint, empty when lookups are disabled.
func (c *Config) GetMetadataURL() string {
	if c.Settings.MetadataURL == MetadataDisabled {
		return ""
	}
	return c.Settings.MetadataURL
}

// GetMirrorRoot returns the absolute mirror root with a leading ~ expanded.
func (c *Config) GetMirrorRoot() string {
	root, err := fsutil.ExpandHome(c.Settings.MirrorRoot)
	if err != nil {
		root = c.Settings.MirrorRoot
	}
	if abs, err := filepath.Abs(root); err == nil {
		return abs
	}
	return root
}

// GetCacheDir returns the directory holding the per-remote package lists.
func (c *Config) GetCacheDir() string {
	return filepath.Join(c.GetMirrorRoot(), cache.DirName)
}

// GetMirrorDir returns the bare repository holding the tracking refs.
func (c *Config) GetMirrorDir() string {
	return filepath.Join(c.GetMirrorRoot(), refstore.MirrorDirName)
}

// GetTrackingPath returns the tracking database path.
func (c *Config) GetTrackingPath() string {
	return filepath.Join(c.GetMirrorRoot(), tracking.FileName)
}

// GetLockPath returns the advisory lock file path.
func (c *Config) GetLockPath() string {
	return filepath.Join(c.GetMirrorRoot(), lock.FileName)
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.MirrorRoot == "" {
		c.Settings.MirrorRoot = defaults.Settings.MirrorRoot
	}
	if c.Settings.CacheTTL == 0 {
		c.Settings.CacheTTL = defaults.Settings.CacheTTL
	}
	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.MaxConcurrentFetches == 0 {
		c.Settings.MaxConcurrentFetches = defaults.Settings.MaxConcurrentFetches
	}
	if c.Settings.MetadataURL == "" {
		c.Settings.MetadataURL = defaults.Settings.MetadataURL
	}
	if c.Settings.LockTimeout == 0 {
		c.Settings.LockTimeout = defaults.Settings.LockTimeout
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Remotes == nil {
		c.Remotes = []*RemoteConfig{}
	}
}
