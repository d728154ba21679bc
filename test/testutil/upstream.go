// Package testutil holds fixtures shared by pkgtrack tests: throwaway
// upstream git repositories, a fake metadata service and config files.
package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/client"
	"github.com/go-git/go-git/v5/plumbing/transport/server"
	"github.com/stretchr/testify/require"
)

var installTransport sync.Once

// InstallFileTransport serves file:// URLs in-process so tests do not need a
// git binary on PATH.
func InstallFileTransport() {
	installTransport.Do(func() {
		client.InstallProtocol("file", server.DefaultServer)
	})
}

// Upstream is a scratch repository publishing package recipes as branches
// under a namespace, the way a package remote does.
type Upstream struct {
	Dir       string
	URL       string
	Namespace string

	repo    *git.Repository
	commits int
}

// NewUpstream creates an empty upstream publishing under namespace.
func NewUpstream(t *testing.T, namespace string) *Upstream {
	t.Helper()
	InstallFileTransport()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err, "failed to initialise upstream")

	return &Upstream{
		Dir:       dir,
		URL:       "file://" + filepath.ToSlash(filepath.Join(dir, ".git")),
		Namespace: namespace,
		repo:      repo,
	}
}

// Publish commits files as the recipe of name and points the package branch
// at the new commit. A nil files map publishes a single trunk/PKGBUILD.
// It returns the commit hash.
func (u *Upstream) Publish(t *testing.T, name string, files map[string]string) string {
	t.Helper()
	if files == nil {
		files = map[string]string{"trunk/PKGBUILD": "pkgname=" + name + "\n"}
	}

	wt, err := u.repo.Worktree()
	require.NoError(t, err)

	entries, err := os.ReadDir(u.Dir)
	require.NoError(t, err)
	for _, e := range entries {
		if e.Name() == ".git" {
			continue
		}
		require.NoError(t, os.RemoveAll(filepath.Join(u.Dir, e.Name())))
	}
	for rel, content := range files {
		full := filepath.Join(u.Dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	require.NoError(t, wt.AddWithOptions(&git.AddOptions{All: true}))

	u.commits++
	hash, err := wt.Commit("update "+name, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Packager",
			Email: "packager@example.org",
			When:  time.Date(2024, 1, 1, 0, 0, u.commits, 0, time.UTC),
		},
		AllowEmptyCommits: true,
	})
	require.NoError(t, err)

	ref := plumbing.NewHashReference(u.Ref(name), hash)
	require.NoError(t, u.repo.Storer.SetReference(ref))
	return hash.String()
}

// Unpublish deletes the package branch of name.
func (u *Upstream) Unpublish(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, u.repo.Storer.RemoveReference(u.Ref(name)))
}

// Ref is the branch carrying name.
func (u *Upstream) Ref(name string) plumbing.ReferenceName {
	return plumbing.ReferenceName("refs/heads/" + u.Namespace + name)
}

// Head returns the commit the package branch of name points at.
func (u *Upstream) Head(t *testing.T, name string) string {
	t.Helper()
	ref, err := u.repo.Reference(u.Ref(name), true)
	require.NoError(t, err)
	return ref.Hash().String()
}

// SessionCounter counts the upload-pack sessions opened over file:// URLs.
type SessionCounter struct {
	transport.Transport
	sessions atomic.Int32
}

// CountSessions routes file:// URLs through a SessionCounter until the test ends.
func CountSessions(t *testing.T) *SessionCounter {
	t.Helper()
	InstallFileTransport()
	c := &SessionCounter{Transport: server.DefaultServer}
	client.InstallProtocol("file", c)
	t.Cleanup(func() { client.InstallProtocol("file", server.DefaultServer) })
	return c
}

func (c *SessionCounter) NewUploadPackSession(ep *transport.Endpoint, auth transport.AuthMethod) (transport.UploadPackSession, error) {
	c.sessions.Add(1)
	return c.Transport.NewUploadPackSession(ep, auth)
}

// Sessions returns the number of sessions opened so far.
func (c *SessionCounter) Sessions() int {
	return int(c.sessions.Load())
}

// Reset zeroes the counter.
func (c *SessionCounter) Reset() {
	c.sessions.Store(0)
}
