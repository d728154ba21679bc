package tracking

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/pkgtrack/pkg/cache"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/model"
	"github.com/glorpus-work/pkgtrack/pkg/refstore"
	refmocks "github.com/glorpus-work/pkgtrack/pkg/refstore/mocks"
	"github.com/glorpus-work/pkgtrack/test/testutil"
)

var trackedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	set     *Set
	store   *refstore.GitStore
	root    string
	core    model.Remote
	extra   model.Remote
	coreUp  *testutil.Upstream
	extraUp *testutil.Upstream
	clock   *clockwork.FakeClock
}

func setupSet(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		root:    t.TempDir(),
		coreUp:  testutil.NewUpstream(t, model.DefaultNamespace),
		extraUp: testutil.NewUpstream(t, model.DefaultNamespace),
		clock:   clockwork.NewFakeClockAt(trackedAt),
	}
	var err error
	f.core, err = model.NewRemote("core", f.coreUp.URL, "")
	require.NoError(t, err)
	f.extra, err = model.NewRemote("extra", f.extraUp.URL, "")
	require.NoError(t, err)

	f.store, err = refstore.Open(filepath.Join(f.root, refstore.MirrorDirName), f.remotes())
	require.NoError(t, err)
	f.set = f.reopen(t)
	return f
}

func (f *fixture) remotes() []model.Remote {
	return []model.Remote{f.core, f.extra}
}

func (f *fixture) reopen(t *testing.T) *Set {
	t.Helper()
	set, err := Open(filepath.Join(f.root, FileName), f.store, f.remotes(), f.clock)
	require.NoError(t, err)
	return set
}

func (f *fixture) localHash(t *testing.T, remote model.Remote, name model.PackageName) string {
	t.Helper()
	hash, err := f.store.ResolveLocalRef(context.Background(), remote.LocalRef(name))
	require.NoError(t, err)
	return hash
}

func TestTrack(t *testing.T) {
	f := setupSet(t)
	hash := f.coreUp.Publish(t, "vim", nil)

	require.NoError(t, f.set.Track(context.Background(), f.core, "vim"))

	assert.True(t, f.set.IsTracked("core", "vim"))
	assert.False(t, f.set.IsTracked("extra", "vim"))
	assert.Equal(t, hash, f.localHash(t, f.core, "vim"))

	rec, ok := f.reopen(t).Lookup("vim")
	require.True(t, ok, "record persists")
	assert.Equal(t, model.TrackedPackage{
		Remote:    "core",
		Name:      "vim",
		Ref:       "refs/remotes/core/packages/vim",
		TrackedAt: trackedAt,
	}, rec)
}

func TestTrack_IdempotentWithoutNetwork(t *testing.T) {
	f := setupSet(t)
	ctx := context.Background()
	f.coreUp.Publish(t, "vim", nil)
	require.NoError(t, f.set.Track(ctx, f.core, "vim"))

	require.NoError(t, os.RemoveAll(f.coreUp.Dir))
	f.clock.Advance(time.Hour)
	require.NoError(t, f.set.Track(ctx, f.core, "vim"))

	rec, ok := f.set.Lookup("vim")
	require.True(t, ok)
	assert.Equal(t, trackedAt, rec.TrackedAt)
}

func TestTrack_ExistingRefIsAdopted(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := refmocks.NewMockStore(ctrl)
	remote := model.Remote{Name: "core", URL: "https://example.org/core.git", Namespace: "packages/"}

	store.EXPECT().LocalRefExists(gomock.Any(), "refs/remotes/core/packages/vim").Return(true, nil)
	store.EXPECT().FetchRefs(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	set, err := Open(filepath.Join(t.TempDir(), FileName), store, []model.Remote{remote}, nil)
	require.NoError(t, err)
	require.NoError(t, set.Track(context.Background(), remote, "vim"))
	assert.True(t, set.IsTracked("core", "vim"))
}

func TestTrack_UnknownPackage(t *testing.T) {
	f := setupSet(t)
	f.coreUp.Publish(t, "vim", nil)

	err := f.set.Track(context.Background(), f.core, "nano")
	assert.ErrorIs(t, err, errors.ErrUnknownPackage)
	assert.Contains(t, err.Error(), "nano")
	assert.False(t, f.set.IsTracked("core", "nano"))
	assert.NoFileExists(t, f.set.Path())
}

func TestTrack_TrackedElsewhere(t *testing.T) {
	f := setupSet(t)
	ctx := context.Background()
	f.coreUp.Publish(t, "vim", nil)
	f.extraUp.Publish(t, "vim", nil)
	require.NoError(t, f.set.Track(ctx, f.core, "vim"))

	err := f.set.Track(ctx, f.extra, "vim")
	assert.ErrorIs(t, err, errors.ErrTrackedElsewhere)

	err = f.set.Untrack(ctx, f.extra, "vim")
	assert.ErrorIs(t, err, errors.ErrTrackedElsewhere)
	assert.True(t, f.set.IsTracked("core", "vim"))
}

func TestTrack_UnreachableRemote(t *testing.T) {
	f := setupSet(t)
	require.NoError(t, os.RemoveAll(f.coreUp.Dir))

	err := f.set.Track(context.Background(), f.core, "vim")
	assert.ErrorIs(t, err, errors.ErrRemoteUnreachable)
	assert.True(t, errors.IsFatal(err))
}

func TestUntrack(t *testing.T) {
	f := setupSet(t)
	ctx := context.Background()
	f.coreUp.Publish(t, "vim", nil)
	f.coreUp.Publish(t, "emacs", nil)
	require.NoError(t, f.set.Track(ctx, f.core, "vim"))
	require.NoError(t, f.set.Track(ctx, f.core, "emacs"))

	require.NoError(t, f.set.Untrack(ctx, f.core, "vim"))
	assert.False(t, f.set.IsTracked("core", "vim"))
	exists, err := f.store.LocalRefExists(ctx, f.core.LocalRef("vim"))
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, f.set.Untrack(ctx, f.core, "vim"), "untrack is idempotent")
	require.NoError(t, f.set.Untrack(ctx, f.extra, "never-tracked"))

	assert.Equal(t, []model.TrackedPackage{{
		Remote: "core", Name: "emacs", Ref: f.core.LocalRef("emacs"), TrackedAt: trackedAt,
	}}, f.reopen(t).All())
}

func TestAll_Sorted(t *testing.T) {
	f := setupSet(t)
	ctx := context.Background()
	for _, n := range []string{"zsh", "bash"} {
		f.extraUp.Publish(t, n, nil)
		require.NoError(t, f.set.Track(ctx, f.extra, model.PackageName(n)))
	}
	f.coreUp.Publish(t, "vim", nil)
	require.NoError(t, f.set.Track(ctx, f.core, "vim"))

	var got []string
	for _, p := range f.set.All() {
		got = append(got, p.Remote+"/"+p.Name.String())
	}
	assert.Equal(t, []string{"core/vim", "extra/bash", "extra/zsh"}, got)
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "not json", content: "{", want: errors.ErrTrackingFormat},
		{name: "newer format", content: `{"format_version":"2","packages":[]}`, want: errors.ErrTrackingFormat},
		{name: "garbage format", content: `{"format_version":"one","packages":[]}`, want: errors.ErrTrackingFormat},
		{name: "invalid name", content: `{"format_version":"1","packages":[{"remote":"core","name":"a b"}]}`, want: errors.ErrTrackingFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Open(path, nil, nil, nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Open("relative/tracked.json", nil, nil, nil)
	assert.ErrorIs(t, err, errors.ErrInvalidPath)
}

func TestOpen_AcceptsMinorFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `{"format_version":"1.1","packages":[
		{"remote":"core","name":"vim","ref":"refs/remotes/core/packages/vim"},
		{"remote":"extra","name":"vim","ref":"refs/remotes/extra/packages/vim"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	set, err := Open(path, nil, nil, nil)
	require.NoError(t, err)
	assert.True(t, set.IsTracked("core", "vim"), "first duplicate wins")
	assert.Len(t, set.All(), 1)
}

func TestReconcile_NothingToRepair(t *testing.T) {
	f := setupSet(t)
	ctx := context.Background()

	report, err := f.set.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, report.Empty())
	assert.NoFileExists(t, f.set.Path())

	f.coreUp.Publish(t, "vim", nil)
	require.NoError(t, f.set.Track(ctx, f.core, "vim"))
	report, err = f.set.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, report.Empty())
}

func TestReconcile_RefetchesLostRef(t *testing.T) {
	f := setupSet(t)
	ctx := context.Background()
	hash := f.coreUp.Publish(t, "vim", nil)
	require.NoError(t, f.set.Track(ctx, f.core, "vim"))
	require.NoError(t, f.store.DeleteLocalRef(ctx, f.core.LocalRef("vim")))

	report, err := f.set.Reconcile(ctx)
	require.NoError(t, err)
	require.Len(t, report.Refetched, 1)
	assert.Equal(t, model.PackageName("vim"), report.Refetched[0].Name)
	assert.Equal(t, hash, f.localHash(t, f.core, "vim"))
}

func TestReconcile_DropsVanishedPackage(t *testing.T) {
	f := setupSet(t)
	ctx := context.Background()
	f.coreUp.Publish(t, "vim", nil)
	require.NoError(t, f.set.Track(ctx, f.core, "vim"))
	require.NoError(t, f.store.DeleteLocalRef(ctx, f.core.LocalRef("vim")))
	f.coreUp.Unpublish(t, "vim")

	report, err := f.set.Reconcile(ctx)
	require.NoError(t, err)
	require.Len(t, report.Dropped, 1)
	assert.False(t, f.set.IsTracked("core", "vim"))
	assert.Empty(t, f.reopen(t).All())
}

func TestReconcile_AdoptsOrphanRef(t *testing.T) {
	f := setupSet(t)
	ctx := context.Background()
	f.extraUp.Publish(t, "zsh", nil)
	_, err := refstore.Mirror(ctx, f.store, f.extra, []model.PackageName{"zsh"})
	require.NoError(t, err)

	report, err := f.set.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.TrackedPackage{{
		Remote: "extra", Name: "zsh", Ref: f.extra.LocalRef("zsh"), TrackedAt: trackedAt,
	}}, report.Adopted)
	assert.True(t, f.reopen(t).IsTracked("extra", "zsh"))
}

func TestReconcile_OrphanRefMembership(t *testing.T) {
	tests := []struct {
		name      string
		unpublish bool
		adopted   bool
	}{
		{name: "still advertised", adopted: true},
		{name: "gone upstream", unpublish: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupSet(t)
			ctx := context.Background()
			f.extraUp.Publish(t, "zsh", nil)
			f.extraUp.Publish(t, "fish", nil)
			_, err := refstore.Mirror(ctx, f.store, f.extra, []model.PackageName{"zsh"})
			require.NoError(t, err)
			if tt.unpublish {
				f.extraUp.Unpublish(t, "zsh")
			}

			cm, err := cache.NewManager(f.store, cache.Options{Dir: filepath.Join(f.root, cache.DirName)})
			require.NoError(t, err)
			f.set.SetMembership(cm)

			report, err := f.set.Reconcile(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.adopted, f.set.IsTracked("extra", "zsh"))

			exists, err := f.store.LocalRefExists(ctx, f.extra.LocalRef("zsh"))
			require.NoError(t, err)
			assert.Equal(t, tt.adopted, exists)
			if tt.adopted {
				assert.Len(t, report.Adopted, 1)
				assert.Empty(t, report.Removed)
			} else {
				assert.Empty(t, report.Adopted)
				assert.Equal(t, []string{f.extra.LocalRef("zsh")}, report.Removed)
			}
		})
	}
}

func TestReconcile_OrphanMembershipUnreachableIsFatal(t *testing.T) {
	f := setupSet(t)
	ctx := context.Background()
	f.extraUp.Publish(t, "zsh", nil)
	_, err := refstore.Mirror(ctx, f.store, f.extra, []model.PackageName{"zsh"})
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(f.extraUp.Dir))

	cm, err := cache.NewManager(f.store, cache.Options{Dir: filepath.Join(f.root, cache.DirName)})
	require.NoError(t, err)
	f.set.SetMembership(cm)

	_, err = f.set.Reconcile(ctx)
	assert.ErrorIs(t, err, errors.ErrRemoteUnreachable)
	assert.False(t, f.set.IsTracked("extra", "zsh"))
}

func TestReconcile_RemovesDuplicateRef(t *testing.T) {
	f := setupSet(t)
	ctx := context.Background()
	f.coreUp.Publish(t, "vim", nil)
	f.extraUp.Publish(t, "vim", nil)
	require.NoError(t, f.set.Track(ctx, f.core, "vim"))
	_, err := refstore.Mirror(ctx, f.store, f.extra, []model.PackageName{"vim"})
	require.NoError(t, err)

	report, err := f.set.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{f.extra.LocalRef("vim")}, report.Removed)
	assert.True(t, f.set.IsTracked("core", "vim"))

	exists, err := f.store.LocalRefExists(ctx, f.extra.LocalRef("vim"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestReconcile_UnreachableIsFatal(t *testing.T) {
	f := setupSet(t)
	ctx := context.Background()
	f.coreUp.Publish(t, "vim", nil)
	require.NoError(t, f.set.Track(ctx, f.core, "vim"))
	require.NoError(t, f.store.DeleteLocalRef(ctx, f.core.LocalRef("vim")))
	require.NoError(t, os.RemoveAll(f.coreUp.Dir))

	_, err := f.set.Reconcile(ctx)
	assert.True(t, errors.IsFatal(err))
	assert.True(t, f.set.IsTracked("core", "vim"), "record is kept for a later repair")
}
