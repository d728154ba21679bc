// Package tracking keeps the set of packages the user mirrors. Every record
// (remote, name) is backed by a tracking ref in the mirror; the records live
// in a JSON file next to the mirror so the set survives between runs.
package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/jonboulle/clockwork"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/fsutil"
	"github.com/glorpus-work/pkgtrack/pkg/model"
	"github.com/glorpus-work/pkgtrack/pkg/refstore"
)

const (
	// FileName is the tracking database below the mirror root.
	FileName = "tracked.json"
	// FormatVersion is written into every saved database.
	FormatVersion = "1"
	// supportedFormats lists the database versions this release can read.
	supportedFormats = ">= 1, < 2"
)

type database struct {
	FormatVersion string                  `json:"format_version"`
	LastUpdate    time.Time               `json:"last_update"`
	Packages      []*model.TrackedPackage `json:"packages"`
}

// Membership reports whether a remote still advertises a package.
// cache.DefaultManager satisfies it.
type Membership interface {
	Contains(ctx context.Context, remote model.Remote, name model.PackageName) (bool, error)
}

// Set is the persistent set of tracked packages.
type Set struct {
	path       string
	store      refstore.Store
	remotes    []model.Remote
	clock      clockwork.Clock
	membership Membership

	mu      sync.RWMutex
	records map[model.PackageName]*model.TrackedPackage
}

// Open loads the tracking database at path. A missing file is an empty set.
func Open(path string, store refstore.Store, remotes []model.Remote, clock clockwork.Clock) (*Set, error) {
	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("tracking database path must be absolute: %s: %w", path, errors.ErrInvalidPath)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &Set{
		path:    cleanPath,
		store:   store,
		remotes: remotes,
		clock:   clock,
		records: make(map[model.PackageName]*model.TrackedPackage),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetMembership makes Reconcile adopt an orphan ref only while its remote
// still advertises the package. Without it orphans are always adopted.
func (s *Set) SetMembership(m Membership) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.membership = m
}

// Path returns the location of the tracking database.
func (s *Set) Path() string {
	return s.path
}

func (s *Set) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read tracking database: %w", err)
	}

	var db database
	if err := json.Unmarshal(data, &db); err != nil {
		return errors.Wrapf(errors.ErrTrackingFormat, "failed to parse %s: %v", s.path, err)
	}
	if err := checkFormat(db.FormatVersion); err != nil {
		return err
	}

	for _, p := range db.Packages {
		if p == nil {
			continue
		}
		if _, err := model.ParsePackageName(string(p.Name)); err != nil {
			return errors.Wrapf(errors.ErrTrackingFormat, "invalid record in %s: %v", s.path, err)
		}
		if prev, dup := s.records[p.Name]; dup {
			logger.Warn("Ignoring duplicate tracking record", logger.Fields{
				"package": p.Name.String(), "remote": p.Remote, "kept": prev.Remote,
			})
			continue
		}
		s.records[p.Name] = p
	}
	return nil
}

func checkFormat(v string) error {
	constraint, err := version.NewConstraint(supportedFormats)
	if err != nil {
		return err
	}
	ver, err := version.NewVersion(v)
	if err != nil {
		return errors.Wrapf(errors.ErrTrackingFormat, "invalid format version %q", v)
	}
	if !constraint.Check(ver) {
		return errors.Wrapf(errors.ErrTrackingFormat, "format version %s, this release reads %s", v, supportedFormats)
	}
	return nil
}

// saveLocked must be called with s.mu held.
func (s *Set) saveLocked() error {
	db := database{
		FormatVersion: FormatVersion,
		LastUpdate:    s.clock.Now().UTC(),
		Packages:      s.sortedLocked(),
	}
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tracking database: %w", err)
	}
	if err := fsutil.EnsureFileDir(s.path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", s.path, err)
	}
	if err := fsutil.WriteFileAtomic(s.path, data, fsutil.FileModeDefault, time.Time{}); err != nil {
		return fmt.Errorf("failed to save tracking database: %w", err)
	}
	return nil
}

func (s *Set) sortedLocked() []*model.TrackedPackage {
	out := make([]*model.TrackedPackage, 0, len(s.records))
	for _, p := range s.records {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Remote != out[j].Remote {
			return out[i].Remote < out[j].Remote
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// IsTracked reports whether name is tracked under remote.
func (s *Set) IsTracked(remote string, name model.PackageName) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.records[name]
	return ok && p.Remote == remote
}

// Lookup returns the record of name, whichever remote it is tracked under.
func (s *Set) Lookup(name model.PackageName) (model.TrackedPackage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.records[name]
	if !ok {
		return model.TrackedPackage{}, false
	}
	return *p, true
}

// All returns every record sorted by remote, then name.
func (s *Set) All() []model.TrackedPackage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sorted := s.sortedLocked()
	out := make([]model.TrackedPackage, len(sorted))
	for i, p := range sorted {
		out[i] = *p
	}
	return out
}

// Track makes sure name from remote is mirrored and recorded. Tracking a
// package whose ref already exists costs no network round trip.
func (s *Set) Track(ctx context.Context, remote model.Remote, name model.PackageName) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, recorded := s.records[name]
	if recorded && existing.Remote != remote.Name {
		return errors.ErrTrackedElsewhereWithName(name.String(), existing.Remote)
	}

	ref := remote.LocalRef(name)
	exists, err := s.store.LocalRefExists(ctx, ref)
	if err != nil {
		return err
	}
	if exists && recorded && existing.Ref == ref {
		return nil
	}

	if !exists {
		result, err := refstore.Mirror(ctx, s.store, remote, []model.PackageName{name})
		if err != nil {
			return err
		}
		if len(result.Missing) > 0 {
			return errors.Wrapf(errors.ErrUnknownPackage, "'%s' is not advertised by remote '%s'", name, remote.Name)
		}
	}

	trackedAt := s.clock.Now().UTC()
	if recorded {
		trackedAt = existing.TrackedAt
		if existing.Ref != ref {
			if err := s.store.DeleteLocalRef(ctx, existing.Ref); err != nil {
				return err
			}
		}
	}
	s.records[name] = &model.TrackedPackage{
		Remote:    remote.Name,
		Name:      name,
		Ref:       ref,
		TrackedAt: trackedAt,
	}
	if err := s.saveLocked(); err != nil {
		return err
	}
	logger.Debug("Tracked package", logger.Fields{"package": name.String(), "remote": remote.Name})
	return nil
}

// Untrack removes the record of name and its tracking ref. Untracking a
// package that is not tracked succeeds.
func (s *Set) Untrack(ctx context.Context, remote model.Remote, name model.PackageName) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := remote.LocalRef(name)
	existing, recorded := s.records[name]
	if recorded {
		if existing.Remote != remote.Name {
			return errors.ErrTrackedElsewhereWithName(name.String(), existing.Remote)
		}
		ref = existing.Ref
	}

	if err := s.store.DeleteLocalRef(ctx, ref); err != nil {
		return err
	}
	if !recorded {
		return nil
	}
	delete(s.records, name)
	if err := s.saveLocked(); err != nil {
		return err
	}
	logger.Debug("Untracked package", logger.Fields{"package": name.String(), "remote": remote.Name})
	return nil
}

// Report lists the repairs made by Reconcile.
type Report struct {
	// Refetched records had lost their ref and were mirrored again.
	Refetched []model.TrackedPackage
	// Adopted refs had no record and were recorded.
	Adopted []model.TrackedPackage
	// Dropped records named packages their remote no longer advertises.
	Dropped []model.TrackedPackage
	// Removed refs duplicated a package already tracked under another
	// remote, or were orphans of a package their remote no longer advertises.
	Removed []string
}

// Empty reports whether nothing needed repair.
func (r Report) Empty() bool {
	return len(r.Refetched)+len(r.Adopted)+len(r.Dropped)+len(r.Removed) == 0
}

// Reconcile restores the one-to-one correspondence between records and
// tracking refs left behind by an interrupted run. Records without a ref are
// mirrored again, refs without a record are adopted unless the membership
// check says the package is gone upstream. Only an unreachable remote or an
// authentication failure makes it fail.
func (s *Set) Reconcile(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var report Report
	refs := make(map[string]map[model.PackageName]string, len(s.remotes))
	for _, r := range s.remotes {
		names, err := s.localNames(ctx, r)
		if err != nil {
			return report, err
		}
		refs[r.Name] = names
	}

	for _, r := range s.remotes {
		var lost []model.PackageName
		for _, p := range s.sortedLocked() {
			if p.Remote != r.Name {
				continue
			}
			if _, ok := refs[r.Name][p.Name]; !ok {
				lost = append(lost, p.Name)
			}
		}
		if len(lost) == 0 {
			continue
		}
		if err := s.refetchLocked(ctx, r, lost, &report); err != nil {
			return report, err
		}
	}

	for _, p := range s.sortedLocked() {
		if _, ok := model.FindRemote(s.remotes, p.Remote); !ok {
			logger.Warn("Tracked package belongs to a remote that is no longer configured", logger.Fields{
				"package": p.Name.String(), "remote": p.Remote,
			})
		}
	}

	for _, r := range s.remotes {
		for _, name := range sortedNames(refs[r.Name]) {
			ref := refs[r.Name][name]
			if existing, ok := s.records[name]; ok {
				if existing.Remote == r.Name {
					continue
				}
				warnViolation("ref duplicates a package tracked under another remote", name, r.Name)
				if err := s.store.DeleteLocalRef(ctx, ref); err != nil {
					return report, err
				}
				report.Removed = append(report.Removed, ref)
				continue
			}
			adopt, err := s.advertisedLocked(ctx, r, name)
			if err != nil {
				return report, err
			}
			if !adopt {
				warnViolation("ref without tracking record for a package no longer advertised, removing it", name, r.Name)
				if err := s.store.DeleteLocalRef(ctx, ref); err != nil {
					return report, err
				}
				report.Removed = append(report.Removed, ref)
				continue
			}
			warnViolation("ref without tracking record, adopting it", name, r.Name)
			rec := &model.TrackedPackage{Remote: r.Name, Name: name, Ref: ref, TrackedAt: s.clock.Now().UTC()}
			s.records[name] = rec
			report.Adopted = append(report.Adopted, *rec)
		}
	}

	if report.Empty() {
		return report, nil
	}
	return report, s.saveLocked()
}

// advertisedLocked reports whether an orphan ref of name may be adopted.
// Only fatal lookup errors are returned; other failures keep the ref.
func (s *Set) advertisedLocked(ctx context.Context, remote model.Remote, name model.PackageName) (bool, error) {
	if s.membership == nil {
		return true, nil
	}
	ok, err := s.membership.Contains(ctx, remote, name)
	switch {
	case err == nil:
		return ok, nil
	case errors.IsFatal(err):
		return false, err
	default:
		logger.Warn("Could not check orphan ref upstream, adopting it", logger.Fields{
			"package": name.String(), "remote": remote.Name, "error": err.Error(),
		})
		return true, nil
	}
}

func (s *Set) localNames(ctx context.Context, remote model.Remote) (map[model.PackageName]string, error) {
	refs, err := s.store.ListLocalRefs(ctx, remote.LocalRefPrefix())
	if err != nil {
		return nil, err
	}
	names := make(map[model.PackageName]string, len(refs))
	for _, ref := range refs {
		if name, ok := remote.NameFromLocalRef(ref); ok {
			names[name] = ref
		}
	}
	return names, nil
}

func (s *Set) refetchLocked(ctx context.Context, remote model.Remote, lost []model.PackageName, report *Report) error {
	for _, name := range lost {
		warnViolation("tracking record without ref, fetching it again", name, remote.Name)
	}
	result, err := refstore.Mirror(ctx, s.store, remote, lost)
	if err != nil {
		if errors.IsFatal(err) {
			return err
		}
		logger.Warn("Could not repair tracking refs", logger.Fields{"remote": remote.Name, "error": err.Error()})
		return nil
	}
	for _, name := range result.Updated {
		report.Refetched = append(report.Refetched, *s.records[name])
	}
	for _, name := range result.Missing {
		warnViolation("package vanished upstream, dropping its record", name, remote.Name)
		report.Dropped = append(report.Dropped, *s.records[name])
		delete(s.records, name)
	}
	return nil
}

func warnViolation(msg string, name model.PackageName, remote string) {
	logger.Warn(msg, logger.Fields{
		"package": name.String(),
		"remote":  remote,
		"error":   errors.ErrInvariantViolation.Error(),
	})
}

func sortedNames(m map[model.PackageName]string) []model.PackageName {
	out := make([]model.PackageName, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
