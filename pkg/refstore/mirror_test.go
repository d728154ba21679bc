package refstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/model"
	refmocks "github.com/glorpus-work/pkgtrack/pkg/refstore/mocks"
)

func TestMirror(t *testing.T) {
	store, up, remote := setupStore(t)
	ctx := context.Background()
	vimHash := up.Publish(t, "vim", nil)
	up.Publish(t, "emacs", nil)

	names := []model.PackageName{"vim", "emacs", "bogus", "vim"}
	result, err := Mirror(ctx, store, remote, names)
	require.NoError(t, err)

	assert.Equal(t, []model.PackageName{"vim", "emacs"}, result.Updated)
	assert.Equal(t, []model.PackageName{"vim", "emacs"}, result.Changed)
	assert.Equal(t, []model.PackageName{"bogus"}, result.Missing)

	hash, err := store.ResolveLocalRef(ctx, remote.LocalRef("vim"))
	require.NoError(t, err)
	assert.Equal(t, vimHash, hash)

	staging, err := store.ListLocalRefs(ctx, stagingPrefix)
	require.NoError(t, err)
	assert.Empty(t, staging, "staging refs are cleaned up")

	// Nothing moved upstream: still updated, nothing changed.
	result, err = Mirror(ctx, store, remote, []model.PackageName{"vim"})
	require.NoError(t, err)
	assert.Equal(t, []model.PackageName{"vim"}, result.Updated)
	assert.Empty(t, result.Changed)
}

func TestMirror_MissingUpstreamKeepsLocalRef(t *testing.T) {
	store, up, remote := setupStore(t)
	ctx := context.Background()
	hash := up.Publish(t, "vim", nil)

	_, err := Mirror(ctx, store, remote, []model.PackageName{"vim"})
	require.NoError(t, err)

	up.Unpublish(t, "vim")
	result, err := Mirror(ctx, store, remote, []model.PackageName{"vim"})
	require.NoError(t, err)
	assert.Equal(t, []model.PackageName{"vim"}, result.Missing)

	local, err := store.ResolveLocalRef(ctx, remote.LocalRef("vim"))
	require.NoError(t, err)
	assert.Equal(t, hash, local)
}

func TestMirror_SingleFetchPerCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := refmocks.NewMockStore(ctrl)
	remote, err := model.NewRemote("core", "https://example.org/core.git", "")
	require.NoError(t, err)
	ctx := context.Background()
	hash := "0123456789abcdef0123456789abcdef01234567"

	store.EXPECT().DeleteLocalRef(ctx, StagingRef(remote, "a")).Return(nil).Times(2)
	store.EXPECT().DeleteLocalRef(ctx, StagingRef(remote, "b")).Return(nil)
	store.EXPECT().FetchRefs(ctx, remote, []string{
		"+refs/heads/packages/a:refs/pkgtrack/incoming/core/packages/a",
		"+refs/heads/packages/b:refs/pkgtrack/incoming/core/packages/b",
	}).Return(nil).Times(1)
	store.EXPECT().ResolveLocalRef(ctx, StagingRef(remote, "a")).Return(hash, nil)
	store.EXPECT().ResolveLocalRef(ctx, StagingRef(remote, "b")).Return("", errors.ErrRefNotFound)
	store.EXPECT().ResolveLocalRef(ctx, remote.LocalRef("a")).Return("", errors.ErrRefNotFound)
	store.EXPECT().SetLocalRef(ctx, remote.LocalRef("a"), hash).Return(nil)

	result, err := Mirror(ctx, store, remote, []model.PackageName{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []model.PackageName{"a"}, result.Updated)
	assert.Equal(t, []model.PackageName{"b"}, result.Missing)
}

func TestMirror_FetchFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := refmocks.NewMockStore(ctrl)
	remote := model.Remote{Name: "core", URL: "https://example.org", Namespace: "packages/"}
	ctx := context.Background()

	store.EXPECT().DeleteLocalRef(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().FetchRefs(gomock.Any(), remote, gomock.Len(1)).
		Return(errors.ErrRemoteUnreachableWithName("core", assert.AnError))

	_, err := Mirror(ctx, store, remote, []model.PackageName{"vim"})
	assert.ErrorIs(t, err, errors.ErrRemoteUnreachable)
}

func TestMirror_NoNames(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := refmocks.NewMockStore(ctrl)

	result, err := Mirror(context.Background(), store, model.Remote{Name: "core"}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Updated)
}
