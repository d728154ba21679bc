//go:generate mockgen -destination=./mocks/resolver.go . Tracker,Cache

// Package resolver finds the remote that hosts a package. It looks at the
// tracked packages first, then at each remote's cached package list in
// priority order, and finally retries with the package's group as reported
// by the metadata service.
package resolver

import (
	"context"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/metadata"
	"github.com/glorpus-work/pkgtrack/pkg/model"
)

// Tracker answers whether a package is tracked under a remote without
// touching the network.
type Tracker interface {
	IsTracked(remote string, name model.PackageName) bool
}

// Cache answers whether a remote advertises a package, refreshing its list
// when stale.
type Cache interface {
	Contains(ctx context.Context, remote model.Remote, name model.PackageName) (bool, error)
}

// Resolver maps package names to remotes.
type Resolver struct {
	remotes []model.Remote
	tracker Tracker
	cache   Cache
	groups  metadata.Lookup
}

// New creates a resolver over remotes, given in priority order. groups may be
// nil to disable the group fallback.
func New(remotes []model.Remote, tracker Tracker, cache Cache, groups metadata.Lookup) *Resolver {
	return &Resolver{
		remotes: remotes,
		tracker: tracker,
		cache:   cache,
		groups:  groups,
	}
}

// Resolve returns the remote hosting name. A non-empty channel restricts the
// search to the remote of that name. When no remote hosts name itself but one
// hosts its group, the group is returned with ViaGroup set.
func (r *Resolver) Resolve(ctx context.Context, name model.PackageName, channel string) (model.Resolution, error) {
	candidates, err := r.candidates(channel)
	if err != nil {
		return model.Resolution{}, err
	}

	res, ok, err := r.find(ctx, candidates, name)
	if err != nil {
		return model.Resolution{}, err
	}
	if ok {
		res.Requested = name
		return res, nil
	}

	if r.groups != nil {
		if group, found := r.groups.LookupGroup(ctx, name); found && group != name {
			res, ok, err := r.find(ctx, candidates, group)
			if err != nil {
				return model.Resolution{}, err
			}
			if ok {
				res.Requested = name
				res.ViaGroup = true
				logger.Info("Package is built as part of a group", logger.Fields{
					"package": name.String(),
					"group":   group.String(),
					"remote":  res.Remote.Name,
				})
				return res, nil
			}
		}
	}

	return model.Resolution{}, errors.ErrUnknownPackageWithName(name.String())
}

// ResolveLocal resolves name among tracked packages only. It never touches
// the network.
func (r *Resolver) ResolveLocal(name model.PackageName, channel string) (model.Resolution, error) {
	candidates, err := r.candidates(channel)
	if err != nil {
		return model.Resolution{}, err
	}
	if res, ok := r.fastPath(candidates, name); ok {
		res.Requested = name
		return res, nil
	}
	return model.Resolution{}, errors.Wrapf(errors.ErrUnknownPackage, "'%s' is not tracked", name)
}

func (r *Resolver) candidates(channel string) ([]model.Remote, error) {
	if channel == "" {
		return r.remotes, nil
	}
	remote, ok := model.FindRemote(r.remotes, channel)
	if !ok {
		return nil, errors.ErrRemoteNotFoundWithName(channel)
	}
	return []model.Remote{remote}, nil
}

func (r *Resolver) find(ctx context.Context, candidates []model.Remote, name model.PackageName) (model.Resolution, bool, error) {
	if res, ok := r.fastPath(candidates, name); ok {
		return res, true, nil
	}
	for _, remote := range candidates {
		ok, err := r.cache.Contains(ctx, remote, name)
		if err != nil {
			return model.Resolution{}, false, err
		}
		if ok {
			return model.Resolution{Name: name, Remote: remote}, true, nil
		}
	}
	return model.Resolution{}, false, nil
}

func (r *Resolver) fastPath(candidates []model.Remote, name model.PackageName) (model.Resolution, bool) {
	for _, remote := range candidates {
		if r.tracker.IsTracked(remote.Name, name) {
			return model.Resolution{Name: name, Remote: remote, FastPath: true}, true
		}
	}
	return model.Resolution{}, false
}
