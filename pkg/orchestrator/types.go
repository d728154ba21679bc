//go:generate mockgen -destination=./mocks/orchestrator.go . Tracker,Resolver,PackageLister,Archiver

package orchestrator

import (
	"context"

	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/model"
	"github.com/glorpus-work/pkgtrack/pkg/refstore"
	"github.com/glorpus-work/pkgtrack/pkg/tracking"
)

// Tracker is the subset of the tracking set used by the orchestrator.
type Tracker interface {
	Track(ctx context.Context, remote model.Remote, name model.PackageName) error
	Untrack(ctx context.Context, remote model.Remote, name model.PackageName) error
	Lookup(name model.PackageName) (model.TrackedPackage, bool)
	All() []model.TrackedPackage
	Reconcile(ctx context.Context) (tracking.Report, error)
}

// Resolver maps requested names to the remote hosting them.
type Resolver interface {
	Resolve(ctx context.Context, name model.PackageName, channel string) (model.Resolution, error)
	ResolveLocal(name model.PackageName, channel string) (model.Resolution, error)
}

// PackageLister returns every package a remote advertises.
type PackageLister interface {
	Get(ctx context.Context, remote model.Remote) ([]model.PackageName, error)
}

// Archiver packs an exported tree into a single file.
type Archiver interface {
	Create(ctx context.Context, sourceDir, archivePath, rootName string) (int, error)
}

// Orchestrator ties the resolver, the tracking set and the mirror together
// for every user-facing operation.
type Orchestrator struct {
	Remotes  []model.Remote
	Tracking Tracker
	Resolver Resolver
	Packages PackageLister
	Store    refstore.Store
	Archiver Archiver
	Hooks    Hooks // Hooks for progress and event notifications

	// Concurrency bounds the remotes fetched at once. Values below 1 mean 1.
	Concurrency int
}

// Event represents a simple progress notification.
type Event struct {
	Phase string // reconciling|resolving|tracking|untracking|fetching|exporting|done|error
	ID    string // package or remote the event concerns
	Msg   string
}

// Hooks carries callbacks for progress events. During Sync OnEvent is called
// from several goroutines.
type Hooks struct {
	OnEvent func(Event)
}

// TrackReport lists the outcome of a Track call per requested package.
type TrackReport struct {
	Tracked []model.Resolution
	Failed  []*errors.PackageError
}

// UntrackReport lists the outcome of an Untrack call per requested package.
type UntrackReport struct {
	Untracked []model.TrackedPackage
	// NotTracked names were not tracked to begin with.
	NotTracked []model.PackageName
	Failed     []*errors.PackageError
}

// SyncReport lists the outcome of a Sync call.
type SyncReport struct {
	// Updated packages match their upstream ref.
	Updated []model.TrackedPackage
	// Changed is the subset of Updated whose ref moved.
	Changed []model.TrackedPackage
	// Failed packages could not be synchronised. Their tracking refs are untouched.
	Failed []*errors.PackageError
	// Fetches counts the fetch calls issued, one per remote at most.
	Fetches int
}

// ExportOptions control Export.
type ExportOptions struct {
	// Dest is the directory receiving the package directory or archive.
	Dest string
	// Subdir restricts the export to one directory of the recipe tree.
	Subdir string
	// Archive writes <Dest>/<name>.tar.gz instead of a directory.
	Archive bool
}

// ExportResult describes a finished export.
type ExportResult struct {
	Resolution model.Resolution `json:"resolution"`
	Path       string           `json:"path"`
	// Files is the number of archived entries; only set for archives.
	Files int `json:"files,omitempty"`
}

// RemotePackages is the package list of one remote.
type RemotePackages struct {
	Remote   string              `json:"remote"`
	Packages []model.PackageName `json:"packages"`
}
