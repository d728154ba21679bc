package resolver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/pkgtrack/pkg/errors"
	metamocks "github.com/glorpus-work/pkgtrack/pkg/metadata/mocks"
	"github.com/glorpus-work/pkgtrack/pkg/model"
	"github.com/glorpus-work/pkgtrack/pkg/resolver"
	resmocks "github.com/glorpus-work/pkgtrack/pkg/resolver/mocks"
)

var (
	core  = model.Remote{Name: "core", URL: "https://example.org/core.git", Namespace: "packages/"}
	extra = model.Remote{Name: "extra", URL: "https://example.org/extra.git", Namespace: "packages/"}
)

type fixture struct {
	tracker *resmocks.MockTracker
	cache   *resmocks.MockCache
	groups  *metamocks.MockLookup
	res     *resolver.Resolver
}

// setupResolver wires mocks answering from tracked and advertised, keyed by
// remote name. Calls are checked by the individual tests.
func setupResolver(t *testing.T, tracked, advertised map[string][]model.PackageName) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		tracker: resmocks.NewMockTracker(ctrl),
		cache:   resmocks.NewMockCache(ctrl),
		groups:  metamocks.NewMockLookup(ctrl),
	}
	f.tracker.EXPECT().IsTracked(gomock.Any(), gomock.Any()).DoAndReturn(
		func(remote string, name model.PackageName) bool {
			return contains(tracked[remote], name)
		}).AnyTimes()
	f.cache.EXPECT().Contains(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, remote model.Remote, name model.PackageName) (bool, error) {
			return contains(advertised[remote.Name], name), nil
		}).AnyTimes()
	f.res = resolver.New([]model.Remote{core, extra}, f.tracker, f.cache, f.groups)
	return f
}

func contains(names []model.PackageName, name model.PackageName) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func TestResolve(t *testing.T) {
	tracked := map[string][]model.PackageName{"extra": {"zsh"}}
	advertised := map[string][]model.PackageName{
		"core":  {"vim", "bash"},
		"extra": {"vim", "zsh", "emacs"},
	}

	tests := []struct {
		name    string
		pkg     model.PackageName
		channel string
		want    model.Resolution
	}{
		{
			name: "tracked package takes the fast path",
			pkg:  "zsh",
			want: model.Resolution{Requested: "zsh", Name: "zsh", Remote: extra, FastPath: true},
		},
		{
			name: "first remote in priority order wins",
			pkg:  "vim",
			want: model.Resolution{Requested: "vim", Name: "vim", Remote: core},
		},
		{
			name: "later remote is searched",
			pkg:  "emacs",
			want: model.Resolution{Requested: "emacs", Name: "emacs", Remote: extra},
		},
		{
			name:    "channel restricts the search",
			pkg:     "vim",
			channel: "extra",
			want:    model.Resolution{Requested: "vim", Name: "vim", Remote: extra},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupResolver(t, tracked, advertised)
			got, err := f.res.Resolve(context.Background(), tt.pkg, tt.channel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_FastPathSkipsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracker := resmocks.NewMockTracker(ctrl)
	cache := resmocks.NewMockCache(ctrl)
	tracker.EXPECT().IsTracked("core", model.PackageName("vim")).Return(true)
	cache.EXPECT().Contains(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	got, err := resolver.New([]model.Remote{core, extra}, tracker, cache, nil).
		Resolve(context.Background(), "vim", "")
	require.NoError(t, err)
	assert.True(t, got.FastPath)
	assert.Equal(t, core, got.Remote)
}

func TestResolve_ChannelIgnoresOtherRemotes(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracker := resmocks.NewMockTracker(ctrl)
	cache := resmocks.NewMockCache(ctrl)
	tracker.EXPECT().IsTracked("extra", model.PackageName("vim")).Return(false)
	cache.EXPECT().Contains(gomock.Any(), extra, model.PackageName("vim")).Return(true, nil)

	got, err := resolver.New([]model.Remote{core, extra}, tracker, cache, nil).
		Resolve(context.Background(), "vim", "extra")
	require.NoError(t, err)
	assert.Equal(t, extra, got.Remote)
}

func TestResolve_UnknownChannel(t *testing.T) {
	f := setupResolver(t, nil, nil)
	_, err := f.res.Resolve(context.Background(), "vim", "community")
	assert.ErrorIs(t, err, errors.ErrRemoteNotFound)

	_, err = f.res.ResolveLocal("vim", "community")
	assert.ErrorIs(t, err, errors.ErrRemoteNotFound)
}

func TestResolve_GroupFallback(t *testing.T) {
	f := setupResolver(t, nil, map[string][]model.PackageName{"extra": {"foo"}})
	f.groups.EXPECT().LookupGroup(gomock.Any(), model.PackageName("python-foo")).Return(model.PackageName("foo"), true).Times(1)

	got, err := f.res.Resolve(context.Background(), "python-foo", "")
	require.NoError(t, err)
	assert.Equal(t, model.Resolution{Requested: "python-foo", Name: "foo", Remote: extra, ViaGroup: true}, got)
}

func TestResolve_GroupFallbackViaTrackedGroup(t *testing.T) {
	f := setupResolver(t, map[string][]model.PackageName{"core": {"foo"}}, nil)
	f.groups.EXPECT().LookupGroup(gomock.Any(), model.PackageName("python-foo")).Return(model.PackageName("foo"), true)

	got, err := f.res.Resolve(context.Background(), "python-foo", "")
	require.NoError(t, err)
	assert.True(t, got.ViaGroup)
	assert.True(t, got.FastPath)
	assert.Equal(t, core, got.Remote)
}

func TestResolve_Unknown(t *testing.T) {
	tests := []struct {
		name  string
		group model.PackageName
		found bool
	}{
		{name: "no group", found: false},
		{name: "group is the package itself", group: "nano", found: true},
		{name: "group unknown too", group: "nano-base", found: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupResolver(t, nil, map[string][]model.PackageName{"core": {"vim"}})
			f.groups.EXPECT().LookupGroup(gomock.Any(), model.PackageName("nano")).Return(tt.group, tt.found).Times(1)

			_, err := f.res.Resolve(context.Background(), "nano", "")
			assert.ErrorIs(t, err, errors.ErrUnknownPackage)
			assert.Contains(t, err.Error(), "nano")
		})
	}
}

func TestResolve_NoGroupLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracker := resmocks.NewMockTracker(ctrl)
	cache := resmocks.NewMockCache(ctrl)
	tracker.EXPECT().IsTracked(gomock.Any(), gomock.Any()).Return(false).AnyTimes()
	cache.EXPECT().Contains(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()

	_, err := resolver.New([]model.Remote{core}, tracker, cache, nil).Resolve(context.Background(), "nano", "")
	assert.ErrorIs(t, err, errors.ErrUnknownPackage)
}

func TestResolve_CacheFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracker := resmocks.NewMockTracker(ctrl)
	cache := resmocks.NewMockCache(ctrl)
	groups := metamocks.NewMockLookup(ctrl)
	tracker.EXPECT().IsTracked(gomock.Any(), gomock.Any()).Return(false).AnyTimes()
	cache.EXPECT().Contains(gomock.Any(), core, gomock.Any()).
		Return(false, errors.ErrAuthFailureWithName("core", assert.AnError))
	groups.EXPECT().LookupGroup(gomock.Any(), gomock.Any()).Times(0)

	_, err := resolver.New([]model.Remote{core, extra}, tracker, cache, groups).Resolve(context.Background(), "vim", "")
	assert.ErrorIs(t, err, errors.ErrAuthFailure)
	assert.True(t, errors.IsFatal(err))
}

func TestResolve_FastAndSlowPathsAgree(t *testing.T) {
	advertised := map[string][]model.PackageName{"core": {"vim"}, "extra": {"vim"}}
	ctx := context.Background()

	slow, err := setupResolver(t, nil, advertised).res.Resolve(ctx, "vim", "")
	require.NoError(t, err)
	require.False(t, slow.FastPath)

	tracked := map[string][]model.PackageName{slow.Remote.Name: {"vim"}}
	fast, err := setupResolver(t, tracked, advertised).res.Resolve(ctx, "vim", "")
	require.NoError(t, err)
	require.True(t, fast.FastPath)
	assert.Equal(t, slow.Remote, fast.Remote)
	assert.Equal(t, slow.Name, fast.Name)
}

func TestResolveLocal(t *testing.T) {
	ctrl := gomock.NewController(t)
	tracker := resmocks.NewMockTracker(ctrl)
	cache := resmocks.NewMockCache(ctrl)
	tracker.EXPECT().IsTracked("core", gomock.Any()).Return(false).AnyTimes()
	tracker.EXPECT().IsTracked("extra", model.PackageName("zsh")).Return(true).AnyTimes()
	tracker.EXPECT().IsTracked("extra", gomock.Any()).Return(false).AnyTimes()
	cache.EXPECT().Contains(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	res := resolver.New([]model.Remote{core, extra}, tracker, cache, nil)

	got, err := res.ResolveLocal("zsh", "")
	require.NoError(t, err)
	assert.Equal(t, model.Resolution{Requested: "zsh", Name: "zsh", Remote: extra, FastPath: true}, got)

	_, err = res.ResolveLocal("zsh", "core")
	assert.ErrorIs(t, err, errors.ErrUnknownPackage)

	_, err = res.ResolveLocal("vim", "")
	assert.ErrorIs(t, err, errors.ErrUnknownPackage)
}
