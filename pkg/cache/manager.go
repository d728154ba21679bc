// Package cache keeps, per remote, the full list of package names the remote
// advertises. Entries live in one newline-delimited file per remote whose
// modification time is the entry's timestamp. Entries are replaced whole,
// never patched.
package cache

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/fsutil"
	"github.com/glorpus-work/pkgtrack/pkg/model"
)

// Options configures a DefaultManager.
type Options struct {
	// Dir holds the cache files.
	Dir string
	// TTL defaults to DefaultTTL when zero.
	TTL time.Duration
	// BuildTimestamp invalidates every entry written before it.
	BuildTimestamp time.Time
	// Clock defaults to the real clock.
	Clock clockwork.Clock
}

type entry struct {
	names   []model.PackageName
	members map[model.PackageName]struct{}
	stamp   time.Time
}

// DefaultManager implements Manager on the local filesystem.
type DefaultManager struct {
	directory string
	ttl       time.Duration
	built     time.Time
	clock     clockwork.Clock
	lister    Lister

	// flight collapses concurrent loads of one remote; distinct remotes
	// load in parallel.
	flight singleflight.Group

	mu   sync.Mutex // guards memo
	memo map[string]*entry
}

var _ Manager = (*DefaultManager)(nil)

// NewManager creates a cache manager refreshing entries through lister.
func NewManager(lister Lister, opts Options) (*DefaultManager, error) {
	if opts.Dir == "" {
		return nil, errors.ErrCacheDirectory
	}
	if opts.TTL == 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &DefaultManager{
		directory: opts.Dir,
		ttl:       opts.TTL,
		built:     opts.BuildTimestamp,
		clock:     opts.Clock,
		lister:    lister,
		memo:      make(map[string]*entry),
	}, nil
}

// GetDirectory returns the cache directory path.
func (cm *DefaultManager) GetDirectory() string {
	return cm.directory
}

// Path returns the cache file of remote.
func (cm *DefaultManager) Path(remote string) string {
	return filepath.Join(cm.directory, filePrefix+remote)
}

// IsStale reports whether an entry stamped at stamp must be rebuilt: it is
// older than the TTL, or older than the running build.
func (cm *DefaultManager) IsStale(stamp time.Time) bool {
	if cm.clock.Since(stamp) > cm.ttl {
		return true
	}
	return cm.built.After(stamp)
}

func (cm *DefaultManager) Get(ctx context.Context, remote model.Remote) ([]model.PackageName, error) {
	e, err := cm.entry(ctx, remote)
	if err != nil {
		return nil, err
	}
	return append([]model.PackageName(nil), e.names...), nil
}

func (cm *DefaultManager) Contains(ctx context.Context, remote model.Remote, name model.PackageName) (bool, error) {
	e, err := cm.entry(ctx, remote)
	if err != nil {
		return false, err
	}
	_, ok := e.members[name]
	return ok, nil
}

func (cm *DefaultManager) Refresh(ctx context.Context, remote model.Remote) ([]model.PackageName, error) {
	e, err := cm.refresh(ctx, remote)
	if err != nil {
		return nil, err
	}
	return append([]model.PackageName(nil), e.names...), nil
}

// entry returns a fresh entry for remote from memory, disk or the remote, in that order.
func (cm *DefaultManager) entry(ctx context.Context, remote model.Remote) (*entry, error) {
	if e := cm.memoised(remote.Name); e != nil {
		return e, nil
	}

	v, err, _ := cm.flight.Do(remote.Name, func() (interface{}, error) {
		if e := cm.memoised(remote.Name); e != nil {
			return e, nil
		}

		e, err := cm.load(remote.Name)
		switch {
		case err == nil && !cm.IsStale(e.stamp):
			cm.remember(remote.Name, e)
			return e, nil
		case err == nil:
			logger.Debug("Cache entry is stale", logger.Fields{"remote": remote.Name, "updated": e.stamp})
		case stderrors.Is(err, os.ErrNotExist):
			logger.Debug("No cache entry", logger.Fields{"remote": remote.Name})
		default:
			logger.Debug("Discarding unreadable cache entry", logger.Fields{"remote": remote.Name, "error": err.Error()})
		}
		return cm.refresh(ctx, remote)
	})
	if err != nil {
		return nil, err
	}
	return v.(*entry), nil
}

// memoised returns the in-memory entry of remote if it is still fresh.
func (cm *DefaultManager) memoised(remote string) *entry {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if e, ok := cm.memo[remote]; ok && !cm.IsStale(e.stamp) {
		return e
	}
	return nil
}

func (cm *DefaultManager) remember(remote string, e *entry) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.memo[remote] = e
}

// load reads the cache file of remote. Malformed content yields ErrCacheCorrupt.
func (cm *DefaultManager) load(remote string) (*entry, error) {
	path := cm.Path(remote)
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Wrapf(errors.ErrCacheCorrupt, "%s is not a regular file", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var names []model.PackageName
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		name, err := model.ParsePackageName(line)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCacheCorrupt, "%s: %v", path, err)
		}
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCacheCorrupt, "%s: %v", path, err)
	}
	return newEntry(names, info.ModTime()), nil
}

// refresh lists remote and replaces its entry on disk and in memory.
func (cm *DefaultManager) refresh(ctx context.Context, remote model.Remote) (*entry, error) {
	refs, err := cm.lister.ListRemoteRefs(ctx, remote, remote.RemoteRefPrefix())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to refresh package list of %s", remote.Name)
	}

	names := make([]model.PackageName, 0, len(refs))
	for _, ref := range refs {
		name, ok := remote.NameFromRemoteRef(ref)
		if !ok {
			logger.Debug("Ignoring ref with invalid package name", logger.Fields{"remote": remote.Name, "ref": ref})
			continue
		}
		names = append(names, name)
	}

	now := cm.clock.Now()
	e := newEntry(names, now)

	var buf strings.Builder
	for _, n := range e.names {
		buf.WriteString(string(n))
		buf.WriteByte('\n')
	}
	if err := fsutil.EnsureDir(cm.directory); err != nil {
		return nil, errors.Wrapf(err, "failed to create cache directory %s", cm.directory)
	}
	if err := fsutil.WriteFileAtomic(cm.Path(remote.Name), []byte(buf.String()), fsutil.FileModeDefault, now); err != nil {
		return nil, errors.Wrapf(err, "failed to write cache entry for %s", remote.Name)
	}

	cm.remember(remote.Name, e)
	logger.Debug("Refreshed cache entry", logger.Fields{"remote": remote.Name, "packages": len(e.names)})
	return e, nil
}

// newEntry de-duplicates names keeping their first position.
func newEntry(names []model.PackageName, stamp time.Time) *entry {
	e := &entry{
		names:   make([]model.PackageName, 0, len(names)),
		members: make(map[model.PackageName]struct{}, len(names)),
		stamp:   stamp,
	}
	for _, n := range names {
		if _, dup := e.members[n]; dup {
			continue
		}
		e.members[n] = struct{}{}
		e.names = append(e.names, n)
	}
	return e
}

// Clean removes cache files and forgets their in-memory copies. Every remote
// name is validated before anything is removed.
func (cm *DefaultManager) Clean(options CleanOptions) (*CleanResult, error) {
	for _, r := range options.Remotes {
		if err := model.ValidateRemoteName(r); err != nil {
			return nil, err
		}
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	var paths []string
	if len(options.Remotes) == 0 {
		matches, err := filepath.Glob(filepath.Join(cm.directory, filePrefix+"*"))
		if err != nil {
			return nil, errors.Wrap(err, "failed to list cache entries")
		}
		paths = matches
		cm.memo = make(map[string]*entry)
	} else {
		for _, r := range options.Remotes {
			paths = append(paths, cm.Path(r))
			delete(cm.memo, r)
		}
	}

	result := &CleanResult{}
	for _, p := range paths {
		info, err := os.Lstat(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return result, errors.Wrapf(err, "failed to stat %s", p)
		}
		if err := os.Remove(p); err != nil {
			return result, errors.Wrapf(err, "failed to remove %s", p)
		}
		result.TotalFreed += info.Size()
		result.FilesRemoved++
	}
	return result, nil
}

// GetInfo describes the cache entry of every remote without refreshing anything.
func (cm *DefaultManager) GetInfo(remotes []model.Remote) (*Info, error) {
	info := &Info{Directory: cm.directory}
	for _, r := range remotes {
		ei := EntryInfo{Remote: r.Name, Path: cm.Path(r.Name), Stale: true}
		st, err := os.Stat(ei.Path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, errors.Wrapf(err, "failed to stat %s", ei.Path)
		default:
			ei.Present = true
			ei.Size = st.Size()
			ei.Updated = st.ModTime()
			if e, err := cm.load(r.Name); err == nil {
				ei.Packages = len(e.names)
				ei.Stale = cm.IsStale(e.stamp)
			}
		}
		info.TotalSize += ei.Size
		info.Entries = append(info.Entries, ei)
	}
	return info, nil
}
