package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/pkgtrack/pkg/errors"
)

func TestParsePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "vim", false},
		{"with dashes and dots", "python-requests.2", false},
		{"with plus", "gtk+", false},
		{"uppercase kept", "ZeroMQ", false},
		{"empty", "", true},
		{"dot", ".", true},
		{"dotdot", "..", true},
		{"slash", "extra/vim", true},
		{"space", "vim x", true},
		{"tab", "vim\tx", true},
		{"tilde", "vim~1", true},
		{"caret", "vim^", true},
		{"colon", "a:b", true},
		{"glob", "vi*", true},
		{"bracket", "vi[m]", true},
		{"backslash", `vi\m`, true},
		{"lock suffix", "vim.lock", true},
		{"leading dash", "-vim", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePackageName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidPackageName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestParsePackageArg(t *testing.T) {
	tests := []struct {
		name        string
		arg         string
		wantChannel string
		wantName    PackageName
		wantErr     error
	}{
		{"bare name", "vim", "", "vim", nil},
		{"channel form", "extra/vim", "extra", "vim", nil},
		{"empty name after channel", "extra/", "", "", errors.ErrInvalidPackageName},
		{"empty channel", "/vim", "", "", errors.ErrInvalidRemoteName},
		{"nested path", "extra/sub/vim", "", "", errors.ErrInvalidPackageName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channel, name, err := ParsePackageArg(tt.arg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantChannel, channel)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestNewRemote(t *testing.T) {
	r, err := NewRemote("core", "https://example.org/core.git", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultNamespace, r.Namespace)

	r, err = NewRemote("aur", "https://example.org/aur.git", "pkgs")
	require.NoError(t, err)
	assert.Equal(t, "pkgs/", r.Namespace)

	_, err = NewRemote("", "https://example.org", "")
	assert.ErrorIs(t, err, errors.ErrEmptyRemoteName)

	_, err = NewRemote("a/b", "https://example.org", "")
	assert.ErrorIs(t, err, errors.ErrInvalidRemoteName)

	_, err = NewRemote("core", "  ", "")
	assert.ErrorIs(t, err, errors.ErrRemoteURLEmpty)

	_, err = NewRemote("core", "https://example.org", "/abs")
	assert.ErrorIs(t, err, errors.ErrInvalidRemoteName)
}

func TestRemoteRefs(t *testing.T) {
	r, err := NewRemote("core", "https://example.org/core.git", "packages/")
	require.NoError(t, err)
	vim := MustPackageName("vim")

	assert.Equal(t, "refs/heads/packages/vim", r.RemoteRef(vim))
	assert.Equal(t, "refs/remotes/core/packages/vim", r.LocalRef(vim))
	assert.Equal(t, "+refs/heads/packages/vim:refs/remotes/core/packages/vim", r.Refspec(vim))

	name, ok := r.NameFromRemoteRef("refs/heads/packages/vim")
	assert.True(t, ok)
	assert.Equal(t, vim, name)

	_, ok = r.NameFromRemoteRef("refs/heads/main")
	assert.False(t, ok)

	_, ok = r.NameFromRemoteRef("refs/heads/packages/bad name")
	assert.False(t, ok)

	name, ok = r.NameFromLocalRef("refs/remotes/core/packages/vim")
	assert.True(t, ok)
	assert.Equal(t, vim, name)

	_, ok = r.NameFromLocalRef("refs/remotes/extra/packages/vim")
	assert.False(t, ok)
}

func TestFindRemote(t *testing.T) {
	remotes := []Remote{{Name: "core"}, {Name: "extra"}}

	r, ok := FindRemote(remotes, "extra")
	assert.True(t, ok)
	assert.Equal(t, "extra", r.Name)

	_, ok = FindRemote(remotes, "community")
	assert.False(t, ok)
}
