package orchestrator

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/archive"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/model"
	"github.com/glorpus-work/pkgtrack/pkg/refstore"
)

// New constructs an Orchestrator from existing managers. Helper for wiring.
func New(remotes []model.Remote, tracker Tracker, resolver Resolver, packages PackageLister, store refstore.Store, archiver Archiver, hooks Hooks) *Orchestrator {
	return &Orchestrator{
		Remotes:  remotes,
		Tracking: tracker,
		Resolver: resolver,
		Packages: packages,
		Store:    store,
		Archiver: archiver,
		Hooks:    hooks,
	}
}

func emit(h Hooks, e Event) {
	if h.OnEvent != nil {
		h.OnEvent(e)
	}
}

// reconcile repairs the tracking set before a mutating operation.
func (o *Orchestrator) reconcile(ctx context.Context) error {
	if o.Tracking == nil {
		return fmt.Errorf("tracking set is not configured")
	}
	emit(o.Hooks, Event{Phase: "reconciling"})
	report, err := o.Tracking.Reconcile(ctx)
	if err != nil {
		return err
	}
	if !report.Empty() {
		logger.Info("Repaired tracking state", logger.Fields{
			"refetched": len(report.Refetched),
			"adopted":   len(report.Adopted),
			"dropped":   len(report.Dropped),
			"removed":   len(report.Removed),
		})
	}
	return nil
}

// Resolve finds the remote hosting arg, given as "name" or "channel/name".
// It changes nothing.
func (o *Orchestrator) Resolve(ctx context.Context, arg string) (model.Resolution, error) {
	if o.Resolver == nil {
		return model.Resolution{}, fmt.Errorf("resolver is not configured")
	}
	channel, name, err := model.ParsePackageArg(arg)
	if err != nil {
		return model.Resolution{}, err
	}
	emit(o.Hooks, Event{Phase: "resolving", ID: name.String()})
	return o.Resolver.Resolve(ctx, name, channel)
}

// Track resolves every argument and tracks the result. Unknown packages are
// reported per item; an unreachable remote aborts the batch.
func (o *Orchestrator) Track(ctx context.Context, args []string) (*TrackReport, error) {
	if o.Resolver == nil {
		return nil, fmt.Errorf("resolver is not configured")
	}
	if err := o.reconcile(ctx); err != nil {
		return nil, err
	}

	report := &TrackReport{}
	for _, arg := range args {
		res, err := o.trackOne(ctx, arg)
		if err != nil {
			if errors.IsFatal(err) {
				emit(o.Hooks, Event{Phase: "error", ID: arg, Msg: err.Error()})
				return report, err
			}
			report.Failed = append(report.Failed, errors.NewPackageError(arg, err))
			continue
		}
		report.Tracked = append(report.Tracked, res)
	}
	emit(o.Hooks, Event{Phase: "done"})
	return report, nil
}

func (o *Orchestrator) trackOne(ctx context.Context, arg string) (model.Resolution, error) {
	channel, name, err := model.ParsePackageArg(arg)
	if err != nil {
		return model.Resolution{}, err
	}
	emit(o.Hooks, Event{Phase: "resolving", ID: name.String()})
	res, err := o.Resolver.Resolve(ctx, name, channel)
	if err != nil {
		return model.Resolution{}, err
	}
	emit(o.Hooks, Event{Phase: "tracking", ID: res.Name.String(), Msg: res.Remote.Name})
	if err := o.Tracking.Track(ctx, res.Remote, res.Name); err != nil {
		return model.Resolution{}, err
	}
	return res, nil
}

// Untrack forgets every argument and deletes its tracking ref. Names that are
// not tracked are reported, not failed.
func (o *Orchestrator) Untrack(ctx context.Context, args []string) (*UntrackReport, error) {
	if o.Resolver == nil {
		return nil, fmt.Errorf("resolver is not configured")
	}
	if err := o.reconcile(ctx); err != nil {
		return nil, err
	}

	report := &UntrackReport{}
	for _, arg := range args {
		channel, name, err := model.ParsePackageArg(arg)
		if err != nil {
			report.Failed = append(report.Failed, errors.NewPackageError(arg, err))
			continue
		}

		res, err := o.Resolver.ResolveLocal(name, channel)
		switch {
		case stderrors.Is(err, errors.ErrUnknownPackage):
			report.NotTracked = append(report.NotTracked, name)
			continue
		case err != nil:
			report.Failed = append(report.Failed, errors.NewPackageError(arg, err))
			continue
		}

		record, _ := o.Tracking.Lookup(res.Name)
		emit(o.Hooks, Event{Phase: "untracking", ID: res.Name.String(), Msg: res.Remote.Name})
		if err := o.Tracking.Untrack(ctx, res.Remote, res.Name); err != nil {
			report.Failed = append(report.Failed, errors.NewPackageError(arg, err))
			continue
		}
		report.Untracked = append(report.Untracked, record)
	}
	emit(o.Hooks, Event{Phase: "done"})
	return report, nil
}

// Sync brings the tracking refs of the named packages, or of every tracked
// package when args is empty, up to date with upstream. Names are grouped by
// remote and each remote is fetched once; remotes are fetched concurrently.
func (o *Orchestrator) Sync(ctx context.Context, args []string) (*SyncReport, error) {
	if o.Store == nil {
		return nil, fmt.Errorf("ref store is not configured")
	}
	if err := o.reconcile(ctx); err != nil {
		return nil, err
	}

	report := &SyncReport{}
	buckets := make(map[string][]model.PackageName)
	if len(args) == 0 {
		for _, p := range o.Tracking.All() {
			buckets[p.Remote] = append(buckets[p.Remote], p.Name)
		}
	} else {
		if o.Resolver == nil {
			return nil, fmt.Errorf("resolver is not configured")
		}
		for _, arg := range args {
			channel, name, err := model.ParsePackageArg(arg)
			if err == nil {
				var res model.Resolution
				res, err = o.Resolver.ResolveLocal(name, channel)
				if err == nil {
					buckets[res.Remote.Name] = append(buckets[res.Remote.Name], res.Name)
					continue
				}
			}
			report.Failed = append(report.Failed, errors.NewPackageError(arg, err))
		}
	}

	for remote, names := range buckets {
		if _, ok := model.FindRemote(o.Remotes, remote); ok {
			continue
		}
		for _, n := range names {
			report.Failed = append(report.Failed, errors.NewPackageError(n.String(), errors.ErrRemoteNotFoundWithName(remote)))
		}
	}
	slices.SortFunc(report.Failed, func(a, b *errors.PackageError) int {
		return strings.Compare(a.Package, b.Package)
	})

	results := make([]refstore.MirrorResult, len(o.Remotes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(o.Concurrency, 1))
	for i, remote := range o.Remotes {
		names := buckets[remote.Name]
		if len(names) == 0 {
			continue
		}
		report.Fetches++
		g.Go(func() error {
			emit(o.Hooks, Event{Phase: "fetching", ID: remote.Name, Msg: fmt.Sprintf("%d packages", len(names))})
			res, err := refstore.Mirror(gctx, o.Store, remote, names)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		emit(o.Hooks, Event{Phase: "error", Msg: err.Error()})
		return report, err
	}

	for i, remote := range o.Remotes {
		res := results[i]
		for _, n := range res.Updated {
			report.Updated = append(report.Updated, o.record(remote, n))
		}
		for _, n := range res.Changed {
			report.Changed = append(report.Changed, o.record(remote, n))
		}
		for _, n := range res.Missing {
			report.Failed = append(report.Failed, errors.NewPackageError(n.String(),
				errors.Wrapf(errors.ErrUnknownPackage, "no longer advertised by remote '%s'", remote.Name)))
		}
	}
	logger.Debug("Synchronised tracked packages", logger.Fields{
		"updated": len(report.Updated),
		"changed": len(report.Changed),
		"failed":  len(report.Failed),
		"fetches": report.Fetches,
	})
	emit(o.Hooks, Event{Phase: "done"})
	return report, nil
}

func (o *Orchestrator) record(remote model.Remote, name model.PackageName) model.TrackedPackage {
	if p, ok := o.Tracking.Lookup(name); ok && p.Remote == remote.Name {
		return p
	}
	return model.TrackedPackage{Remote: remote.Name, Name: name, Ref: remote.LocalRef(name)}
}

// Export resolves and tracks arg, then writes the recipe tree of its tracking
// ref to <Dest>/<name>, or to <Dest>/<name>.tar.gz when opts.Archive is set.
// An existing destination is never overwritten.
func (o *Orchestrator) Export(ctx context.Context, arg string, opts ExportOptions) (*ExportResult, error) {
	if o.Store == nil {
		return nil, fmt.Errorf("ref store is not configured")
	}
	if opts.Archive && o.Archiver == nil {
		return nil, fmt.Errorf("archiver is not configured")
	}
	if opts.Dest == "" {
		return nil, errors.Wrap(errors.ErrInvalidPath, "export destination cannot be empty")
	}

	report, err := o.Track(ctx, []string{arg})
	if err != nil {
		return nil, err
	}
	if len(report.Failed) > 0 {
		return nil, report.Failed[0]
	}
	res := report.Tracked[0]

	target := filepath.Join(opts.Dest, res.Name.String())
	if opts.Archive {
		target += archive.Extension
	}
	if _, err := os.Lstat(target); err == nil {
		return nil, errors.Wrapf(errors.ErrExportDestinationUsed, "%s", target)
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to inspect %s", target)
	}

	ref := res.Remote.LocalRef(res.Name)
	emit(o.Hooks, Event{Phase: "exporting", ID: res.Name.String(), Msg: target})
	result := &ExportResult{Resolution: res, Path: target}
	if !opts.Archive {
		if err := o.Store.ExportTree(ctx, ref, opts.Subdir, target); err != nil {
			_ = os.RemoveAll(target)
			return nil, err
		}
		emit(o.Hooks, Event{Phase: "done"})
		return result, nil
	}

	staging, err := os.MkdirTemp("", "pkgtrack-export-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create staging directory")
	}
	defer func() { _ = os.RemoveAll(staging) }()

	if err := o.Store.ExportTree(ctx, ref, opts.Subdir, staging); err != nil {
		return nil, err
	}
	files, err := o.Archiver.Create(ctx, staging, target, res.Name.String())
	if err != nil {
		return nil, err
	}
	result.Files = files
	emit(o.Hooks, Event{Phase: "done"})
	return result, nil
}

// ListLocal returns every tracked package, sorted by remote then name.
func (o *Orchestrator) ListLocal() []model.TrackedPackage {
	return o.Tracking.All()
}

// ListAll returns the packages advertised by every remote in priority order,
// refreshing stale package lists.
func (o *Orchestrator) ListAll(ctx context.Context) ([]RemotePackages, error) {
	if o.Packages == nil {
		return nil, fmt.Errorf("package cache is not configured")
	}
	out := make([]RemotePackages, len(o.Remotes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(o.Concurrency, 1))
	for i, remote := range o.Remotes {
		g.Go(func() error {
			names, err := o.Packages.Get(gctx, remote)
			if err != nil {
				return err
			}
			out[i] = RemotePackages{Remote: remote.Name, Packages: names}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
