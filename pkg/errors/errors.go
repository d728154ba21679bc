// Package errors defines the error taxonomy shared by every pkgtrack component.
// Sentinels are matched with the standard library's errors.Is; the helpers in
// this package only add context while keeping the sentinel in the chain.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Resolution and synchronization errors.
var (
	// ErrRemoteUnreachable is returned when a remote cannot be contacted.
	// It terminates the current operation and is never retried automatically.
	ErrRemoteUnreachable = fmt.Errorf("remote unreachable")

	// ErrAuthFailure is returned when the transport rejects our credentials.
	ErrAuthFailure = fmt.Errorf("authentication failed")

	// ErrUnknownPackage is returned when no remote and no group hosts a package.
	ErrUnknownPackage = fmt.Errorf("no remote hosts package")

	// ErrCacheCorrupt marks an unreadable cache file. It is recovered by a rebuild
	// and never returned to callers of the cache.
	ErrCacheCorrupt = fmt.Errorf("cache file corrupt")

	// ErrMetadataLookupFailed marks a failed group lookup. Callers treat it as "no group".
	ErrMetadataLookupFailed = fmt.Errorf("metadata lookup failed")

	// ErrInvariantViolation marks a tracking record without its local ref, or the reverse.
	ErrInvariantViolation = fmt.Errorf("tracking invariant violated")

	// ErrTrackedElsewhere is returned when a package is already tracked under another remote.
	ErrTrackedElsewhere = fmt.Errorf("package already tracked under another remote")

	// ErrRefNotFound is returned by the ref store for a missing local ref.
	ErrRefNotFound = fmt.Errorf("reference not found")

	// ErrMirrorLocked is returned when another process holds the mirror lock.
	ErrMirrorLocked = fmt.Errorf("mirror is locked by another process")

	// ErrTrackingFormat is returned for a tracking database written by an incompatible release.
	ErrTrackingFormat = fmt.Errorf("unsupported tracking database format")
)

// Validation errors.
var (
	ErrInvalidPackageName = fmt.Errorf("invalid package name")
	ErrInvalidRemoteName  = fmt.Errorf("invalid remote name")
	ErrInvalidPath        = fmt.Errorf("invalid path")
	ErrInvalidHash        = fmt.Errorf("invalid object hash")
)

// Config errors.
var (
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileRename  = fmt.Errorf("failed to rename temporary config file")
	ErrConfigMarshal     = fmt.Errorf("failed to marshal config to YAML")
	ErrConfigFileExists  = fmt.Errorf("configuration file already exists")

	ErrEmptyRemoteName       = fmt.Errorf("remote name cannot be empty")
	ErrRemoteURLEmpty        = fmt.Errorf("remote URL cannot be empty")
	ErrRemoteExists          = fmt.Errorf("remote already exists")
	ErrRemoteNotFound        = fmt.Errorf("remote not found")
	ErrNoRemotes             = fmt.Errorf("no remotes configured")
	ErrHTTPTimeoutNegative   = fmt.Errorf("http_timeout cannot be negative")
	ErrCacheTTLNegative      = fmt.Errorf("cache_ttl cannot be negative")
	ErrLockTimeoutNegative   = fmt.Errorf("lock_timeout cannot be negative")
	ErrMaxConcurrentInvalid  = fmt.Errorf("max_concurrent_fetches must be at least 1")
	ErrInvalidOutputFormat   = fmt.Errorf("invalid output format")
	ErrInvalidLogLevel       = fmt.Errorf("invalid log level")
	ErrUnknownConfigKey      = fmt.Errorf("unknown configuration key")
	ErrNoPackagesSpecified   = fmt.Errorf("no packages specified")
	ErrCacheDirectory        = fmt.Errorf("cache directory cannot be empty")
	ErrExportDestinationUsed = fmt.Errorf("export destination already exists")
)

// Wrap wraps an error with additional context.
// If the error is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
// If the error is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsFatal reports whether err must abort a whole batch rather than a single item.
// Only transport-level failures qualify.
func IsFatal(err error) bool {
	return stderrors.Is(err, ErrRemoteUnreachable) || stderrors.Is(err, ErrAuthFailure)
}

// PackageError ties a failure to the package it concerns so that batch
// operations can report every failed item individually.
type PackageError struct {
	Package string
	Err     error
}

func (e *PackageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Package, e.Err)
}

func (e *PackageError) Unwrap() error {
	return e.Err
}

// NewPackageError wraps err for the named package.
func NewPackageError(pkg string, err error) *PackageError {
	return &PackageError{Package: pkg, Err: err}
}

// ErrUnknownPackageWithName creates an unknown-package error naming the package.
func ErrUnknownPackageWithName(name string) error {
	return fmt.Errorf("%w '%s'", ErrUnknownPackage, name)
}

// ErrRemoteUnreachableWithName creates an unreachable error naming the remote.
func ErrRemoteUnreachableWithName(remote string, cause error) error {
	return fmt.Errorf("remote '%s': %w: %v", remote, ErrRemoteUnreachable, cause)
}

// ErrAuthFailureWithName creates an authentication error naming the remote.
func ErrAuthFailureWithName(remote string, cause error) error {
	return fmt.Errorf("remote '%s': %w: %v", remote, ErrAuthFailure, cause)
}

// ErrRemoteNotFoundWithName creates an error for a remote that is not configured.
func ErrRemoteNotFoundWithName(name string) error {
	return fmt.Errorf("%w: %s", ErrRemoteNotFound, name)
}

// ErrEmptyRemoteNameWithIndex is a helper to create a wrapped error with the remote index.
func ErrEmptyRemoteNameWithIndex(i int) error {
	return fmt.Errorf("remote %d: %w", i, ErrEmptyRemoteName)
}

// ErrRemoteURLEmptyWithName is a helper to create a wrapped error with the remote name.
func ErrRemoteURLEmptyWithName(name string) error {
	return fmt.Errorf("remote '%s': %w", name, ErrRemoteURLEmpty)
}

// ErrRemoteExistsWithName is a helper to create a wrapped error with the remote name.
func ErrRemoteExistsWithName(name string) error {
	return fmt.Errorf("remote '%s': %w", name, ErrRemoteExists)
}

// ErrTrackedElsewhereWithName names both the package and the remote that owns it.
func ErrTrackedElsewhereWithName(name, remote string) error {
	return fmt.Errorf("%w: '%s' is tracked under '%s' (untrack it first)", ErrTrackedElsewhere, name, remote)
}

// ErrInvalidOutputFormatWithDetails is a helper to create a wrapped error with the invalid format and valid options.
func ErrInvalidOutputFormatWithDetails(format string) error {
	return fmt.Errorf("%w: '%s', must be one of: text, json", ErrInvalidOutputFormat, format)
}

// ErrInvalidLogLevelWithDetails is a helper to create a wrapped error with the invalid level and valid options.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: '%s', must be one of: error, warn, info, debug", ErrInvalidLogLevel, level)
}
