//go:generate mockgen -destination=./mocks/store.go . Store

// Package refstore adapts a bare git repository to the narrow set of ref
// operations pkgtrack needs: listing and fetching package refs from remotes,
// managing local tracking refs, and exporting the tree a ref points at.
package refstore

import (
	"context"

	"github.com/glorpus-work/pkgtrack/pkg/model"
)

// MirrorDirName is the directory below the mirror root holding the bare repository.
const MirrorDirName = "mirror.git"

// Store is the version-control store behind the mirror.
//
// Ref names are full names ("refs/heads/..."), hashes are hex strings.
// Network methods return errors wrapping errors.ErrRemoteUnreachable or
// errors.ErrAuthFailure.
type Store interface {
	// ListRemoteRefs returns the refs advertised by remote whose name starts with prefix.
	ListRemoteRefs(ctx context.Context, remote model.Remote, prefix string) ([]string, error)
	// FetchRefs fetches all refspecs from remote in a single transport session
	// when every source is advertised. Refspecs whose source is not advertised
	// are skipped, at the cost of a listing and a second session.
	FetchRefs(ctx context.Context, remote model.Remote, refspecs []string) error
	// ListLocalRefs returns local refs starting with prefix, sorted.
	ListLocalRefs(ctx context.Context, prefix string) ([]string, error)
	// ResolveLocalRef returns the hash name points at, or errors.ErrRefNotFound.
	ResolveLocalRef(ctx context.Context, name string) (string, error)
	// SetLocalRef creates or force-updates name to point at hash.
	SetLocalRef(ctx context.Context, name, hash string) error
	// DeleteLocalRef removes name. Deleting a missing ref succeeds.
	DeleteLocalRef(ctx context.Context, name string) error
	LocalRefExists(ctx context.Context, name string) (bool, error)
	// ExportTree writes the tree at ref (optionally only subdir) below dest.
	ExportTree(ctx context.Context, ref, subdir, dest string) error
}
