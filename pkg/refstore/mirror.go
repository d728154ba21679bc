package refstore

import (
	"context"
	stderrors "errors"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/model"
)

// stagingPrefix holds refs fetched in the current batch before they are
// promoted to tracking refs.
const stagingPrefix = "refs/pkgtrack/incoming/"

// StagingRef is where a fetch of name from remote lands before promotion.
func StagingRef(remote model.Remote, name model.PackageName) string {
	return stagingPrefix + remote.Name + "/" + remote.Namespace + string(name)
}

// MirrorResult reports the outcome of a Mirror call.
type MirrorResult struct {
	// Updated lists names whose tracking ref now matches upstream.
	Updated []model.PackageName
	// Changed is the subset of Updated whose tracking ref moved.
	Changed []model.PackageName
	// Missing lists names the remote does not advertise.
	Missing []model.PackageName
}

// Mirror brings the tracking refs of names up to date with remote using a
// single FetchRefs call. Refs land in a staging namespace first so that a
// name missing upstream can be told apart from one already mirrored; tracking
// refs of missing names are left untouched.
func Mirror(ctx context.Context, store Store, remote model.Remote, names []model.PackageName) (MirrorResult, error) {
	var result MirrorResult
	names = dedupe(names)
	if len(names) == 0 {
		return result, nil
	}

	refspecs := make([]string, 0, len(names))
	for _, n := range names {
		staging := StagingRef(remote, n)
		if err := store.DeleteLocalRef(ctx, staging); err != nil {
			return result, err
		}
		refspecs = append(refspecs, "+"+remote.RemoteRef(n)+":"+staging)
	}

	if err := store.FetchRefs(ctx, remote, refspecs); err != nil {
		return result, err
	}

	for _, n := range names {
		staging := StagingRef(remote, n)
		hash, err := store.ResolveLocalRef(ctx, staging)
		if stderrors.Is(err, errors.ErrRefNotFound) {
			result.Missing = append(result.Missing, n)
			continue
		}
		if err != nil {
			return result, err
		}

		local := remote.LocalRef(n)
		prev, err := store.ResolveLocalRef(ctx, local)
		if err != nil && !stderrors.Is(err, errors.ErrRefNotFound) {
			return result, err
		}
		if prev != hash {
			if err := store.SetLocalRef(ctx, local, hash); err != nil {
				return result, err
			}
			result.Changed = append(result.Changed, n)
		}
		if err := store.DeleteLocalRef(ctx, staging); err != nil {
			return result, err
		}
		result.Updated = append(result.Updated, n)
	}

	logger.Debug("Mirrored refs", logger.Fields{
		"remote":  remote.Name,
		"updated": len(result.Updated),
		"changed": len(result.Changed),
		"missing": len(result.Missing),
	})
	return result, nil
}

func dedupe(names []model.PackageName) []model.PackageName {
	seen := make(map[model.PackageName]struct{}, len(names))
	out := make([]model.PackageName, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
