//go:generate mockgen -destination=./mocks/cache.go . Lister,Manager

package cache

import (
	"context"
	"time"

	"github.com/glorpus-work/pkgtrack/pkg/model"
)

// Lister lists the refs a remote advertises. refstore.Store satisfies it.
type Lister interface {
	ListRemoteRefs(ctx context.Context, remote model.Remote, prefix string) ([]string, error)
}

// Manager is the per-remote cache of advertised package names.
type Manager interface {
	// Get returns the names remote advertises, refreshing a stale or unreadable entry.
	Get(ctx context.Context, remote model.Remote) ([]model.PackageName, error)
	Contains(ctx context.Context, remote model.Remote, name model.PackageName) (bool, error)
	// Refresh rebuilds the entry of remote unconditionally.
	Refresh(ctx context.Context, remote model.Remote) ([]model.PackageName, error)
	IsStale(stamp time.Time) bool
	Clean(options CleanOptions) (*CleanResult, error)
	GetInfo(remotes []model.Remote) (*Info, error)
	GetDirectory() string
}

// CleanOptions specifies what to clean from the cache.
type CleanOptions struct {
	// Remotes limits cleaning to the named remotes. Empty means every entry.
	Remotes []string
}

// CleanResult contains information about what was cleaned.
type CleanResult struct {
	TotalFreed   int64 `json:"total_freed"`
	FilesRemoved int   `json:"files_removed"`
}

// Info describes the cache directory and each configured remote's entry.
type Info struct {
	Directory string      `json:"directory"`
	TotalSize int64       `json:"total_size"`
	Entries   []EntryInfo `json:"entries"`
}

// EntryInfo describes one remote's cache file.
type EntryInfo struct {
	Remote   string    `json:"remote"`
	Path     string    `json:"path"`
	Present  bool      `json:"present"`
	Packages int       `json:"packages"`
	Size     int64     `json:"size"`
	Updated  time.Time `json:"updated"`
	Stale    bool      `json:"stale"`
}
