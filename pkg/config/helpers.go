package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/glorpus-work/pkgtrack/pkg/errors"
)

// SetValue sets a setting by its YAML key. The resulting configuration is
// validated; on error the setting is left unchanged.
// Supported keys:
//   - mirror_root: string
//   - cache_ttl, http_timeout, lock_timeout: duration (e.g. 1h, 30s)
//   - max_concurrent_fetches: integer
//   - metadata_url: URL, or "none" to disable group lookups
//   - output_format: text, json
//   - log_level: error, warn, info, debug
func (c *Config) SetValue(key, value string) error {
	updated := c.Settings
	switch key {
	case "mirror_root":
		updated.MirrorRoot = value
	case "cache_ttl", "http_timeout", "lock_timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %s", key, value)
		}
		switch key {
		case "cache_ttl":
			updated.CacheTTL = d
		case "http_timeout":
			updated.HTTPTimeout = d
		default:
			updated.LockTimeout = d
		}
	case "max_concurrent_fetches":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		updated.MaxConcurrentFetches = n
	case "metadata_url":
		updated.MetadataURL = value
	case "output_format":
		updated.OutputFormat = value
	case "log_level":
		updated.LogLevel = value
	default:
		return fmt.Errorf("%w: %s", errors.ErrUnknownConfigKey, key)
	}
	if err := validateSettings(updated); err != nil {
		return err
	}
	c.Settings = updated
	return nil
}

// GetValue returns a setting by its YAML key.
func (c *Config) GetValue(key string) (string, error) {
	m := c.ToMap()
	v, ok := m[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", errors.ErrUnknownConfigKey, key)
	}
	return v, nil
}

// Keys returns the settings keys in sorted order.
func (c *Config) Keys() []string {
	m := c.ToMap()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToMap flattens the scalar settings into strings keyed by their YAML key.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)

	settingsValue := reflect.ValueOf(c.Settings)
	settingsType := settingsValue.Type()

	for i := 0; i < settingsValue.NumField(); i++ {
		field := settingsType.Field(i)
		yamlTag := field.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}

		// Handle yaml tags with options (e.g., "metadata_auth,omitempty")
		yamlKey := strings.Split(yamlTag, ",")[0]

		fieldValue := settingsValue.Field(i)
		switch {
		case fieldValue.Type() == reflect.TypeOf(time.Duration(0)):
			result[yamlKey] = time.Duration(fieldValue.Int()).String()
		case fieldValue.Kind() == reflect.String:
			result[yamlKey] = fieldValue.String()
		case fieldValue.Kind() == reflect.Int:
			result[yamlKey] = strconv.FormatInt(fieldValue.Int(), 10)
		}
	}

	return result
}
