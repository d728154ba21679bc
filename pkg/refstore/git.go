package refstore

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/fsutil"
	"github.com/glorpus-work/pkgtrack/pkg/model"
)

// GitStore implements Store on top of a bare go-git repository.
// Writes to the repository are serialised; remote listings are not.
type GitStore struct {
	path string
	repo *git.Repository
	mu   sync.Mutex
}

var _ Store = (*GitStore)(nil)

// Open opens the bare repository at path, initialising it when absent, and
// makes sure every remote is configured with its current URL.
func Open(path string, remotes []model.Remote) (*GitStore, error) {
	if path == "" {
		return nil, errors.Wrap(errors.ErrInvalidPath, "mirror path cannot be empty")
	}

	repo, err := git.PlainOpen(path)
	if stderrors.Is(err, git.ErrRepositoryNotExists) {
		if err := fsutil.EnsureDir(path); err != nil {
			return nil, errors.Wrapf(err, "failed to create mirror directory %s", path)
		}
		logger.Debug("Initialising mirror repository", logger.Fields{"path": path})
		repo, err = git.PlainInit(path, true)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open mirror repository %s", path)
	}

	s := &GitStore{path: path, repo: repo}
	for _, r := range remotes {
		if err := s.ensureRemote(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Path returns the location of the bare repository.
func (s *GitStore) Path() string {
	return s.path
}

// ensureRemote must not be called with s.mu held.
func (s *GitStore) ensureRemote(r model.Remote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.Remote(r.Name)
	switch {
	case err == nil:
		urls := existing.Config().URLs
		if len(urls) == 1 && urls[0] == r.URL {
			return nil
		}
		logger.Info("Remote URL changed, reconfiguring", logger.Fields{"remote": r.Name, "url": r.URL})
		if err := s.repo.DeleteRemote(r.Name); err != nil {
			return errors.Wrapf(err, "failed to reconfigure remote %s", r.Name)
		}
	case !stderrors.Is(err, git.ErrRemoteNotFound):
		return errors.Wrapf(err, "failed to read remote %s", r.Name)
	}

	_, err = s.repo.CreateRemote(&config.RemoteConfig{
		Name:  r.Name,
		URLs:  []string{r.URL},
		Fetch: []config.RefSpec{config.RefSpec(r.Refspec("*"))},
	})
	if err != nil {
		return errors.Wrapf(err, "failed to configure remote %s", r.Name)
	}
	return nil
}

// ListRemoteRefs lists the remote over a throwaway in-memory remote so that
// concurrent listings never touch the repository storage.
func (s *GitStore) ListRemoteRefs(ctx context.Context, remote model.Remote, prefix string) ([]string, error) {
	refs, err := advertisedRefs(ctx, remote)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Type() != plumbing.HashReference {
			continue
		}
		name := ref.Name().String()
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func advertisedRefs(ctx context.Context, remote model.Remote) ([]*plumbing.Reference, error) {
	r := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: remote.Name,
		URLs: []string{remote.URL},
	})
	refs, err := r.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		if stderrors.Is(err, transport.ErrEmptyRemoteRepository) {
			return nil, nil
		}
		return nil, classifyTransportError(remote.Name, err)
	}
	return refs, nil
}

// FetchRefs fetches the given refspecs from remote. The fetch is tried in
// one session first. go-git rejects an exact refspec whose source the remote
// does not advertise, so only then is the remote listed and the fetch retried
// without the missing sources.
func (s *GitStore) FetchRefs(ctx context.Context, remote model.Remote, refspecs []string) error {
	if len(refspecs) == 0 {
		return nil
	}

	specs := make([]config.RefSpec, 0, len(refspecs))
	for _, raw := range refspecs {
		spec := config.RefSpec(raw)
		if err := spec.Validate(); err != nil {
			return errors.Wrapf(err, "invalid refspec %q", raw)
		}
		specs = append(specs, spec)
	}

	if err := s.ensureRemote(remote); err != nil {
		return err
	}

	err := s.fetch(ctx, remote, specs)
	if !stderrors.Is(err, git.NoMatchingRefSpecError{}) {
		return err
	}

	advertised, err := advertisedRefs(ctx, remote)
	if err != nil {
		return err
	}
	present := make(map[string]struct{}, len(advertised))
	for _, ref := range advertised {
		present[ref.Name().String()] = struct{}{}
	}

	wanted := specs[:0]
	for _, spec := range specs {
		if _, ok := present[spec.Src()]; ok || spec.IsWildcard() {
			wanted = append(wanted, spec)
			continue
		}
		logger.Debug("Skipping refspec without upstream ref", logger.Fields{"remote": remote.Name, "refspec": spec.String()})
	}
	if len(wanted) == 0 {
		return nil
	}
	err = s.fetch(ctx, remote, wanted)
	if stderrors.Is(err, git.NoMatchingRefSpecError{}) {
		return errors.Wrapf(err, "refs of remote '%s' changed during fetch", remote.Name)
	}
	return err
}

// fetch runs one fetch session. Object and ref writes hold s.mu for the
// whole session because go-git storage is not safe for concurrent writers.
func (s *GitStore) fetch(ctx context.Context, remote model.Remote, specs []config.RefSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.Debug("Fetching refs", logger.Fields{"remote": remote.Name, "refs": len(specs)})
	err := s.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remote.Name,
		RefSpecs:   specs,
		Tags:       git.NoTags,
		Force:      true,
	})
	switch {
	case err == nil, stderrors.Is(err, git.NoErrAlreadyUpToDate),
		stderrors.Is(err, transport.ErrEmptyRemoteRepository):
		return nil
	case stderrors.Is(err, git.NoMatchingRefSpecError{}):
		return err
	default:
		return classifyTransportError(remote.Name, err)
	}
}

// ListLocalRefs returns local refs starting with prefix, sorted by name.
func (s *GitStore) ListLocalRefs(ctx context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	iter, err := s.repo.References()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list local refs")
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if name := ref.Name().String(); strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list local refs")
	}
	sort.Strings(names)
	return names, nil
}

func (s *GitStore) ResolveLocalRef(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolve(name)
}

// resolve must be called with s.mu held.
func (s *GitStore) resolve(name string) (string, error) {
	ref, err := s.repo.Reference(plumbing.ReferenceName(name), true)
	if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", errors.Wrap(errors.ErrRefNotFound, name)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", name)
	}
	return ref.Hash().String(), nil
}

func (s *GitStore) SetLocalRef(_ context.Context, name, hash string) error {
	if !plumbing.IsHash(hash) {
		return errors.Wrapf(errors.ErrInvalidHash, "%q for %s", hash, name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ref := plumbing.NewHashReference(plumbing.ReferenceName(name), plumbing.NewHash(hash))
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return errors.Wrapf(err, "failed to set %s", name)
	}
	return nil
}

func (s *GitStore) DeleteLocalRef(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.resolve(name); stderrors.Is(err, errors.ErrRefNotFound) {
		return nil
	}
	if err := s.repo.Storer.RemoveReference(plumbing.ReferenceName(name)); err != nil {
		return errors.Wrapf(err, "failed to delete %s", name)
	}
	return nil
}

func (s *GitStore) LocalRefExists(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.resolve(name)
	if stderrors.Is(err, errors.ErrRefNotFound) {
		return false, nil
	}
	return err == nil, err
}

// classifyTransportError maps go-git transport failures onto the error taxonomy.
func classifyTransportError(remote string, err error) error {
	switch {
	case stderrors.Is(err, transport.ErrAuthenticationRequired),
		stderrors.Is(err, transport.ErrAuthorizationFailed),
		stderrors.Is(err, transport.ErrInvalidAuthMethod):
		return errors.ErrAuthFailureWithName(remote, err)
	default:
		return errors.ErrRemoteUnreachableWithName(remote, err)
	}
}
