package metadata

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/auth"
	authmocks "github.com/glorpus-work/pkgtrack/pkg/auth/mocks"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/model"
	"github.com/glorpus-work/pkgtrack/test/testutil"
)

func TestLookupGroup(t *testing.T) {
	srv := testutil.NewMetadataServer(t, map[string]string{
		"python-foo": "foo",
		"foo":        "foo",
	})
	client := NewHTTPClient(srv.URL+"/packages/search/json/", 5*time.Second, nil)
	ctx := context.Background()

	group, ok := client.LookupGroup(ctx, "python-foo")
	assert.True(t, ok)
	assert.Equal(t, model.PackageName("foo"), group)

	group, ok = client.LookupGroup(ctx, "foo")
	assert.True(t, ok)
	assert.Equal(t, model.PackageName("foo"), group)

	_, ok = client.LookupGroup(ctx, "unknown")
	assert.False(t, ok)
	assert.Equal(t, 3, srv.Requests())
}

func TestLookupGroup_Disabled(t *testing.T) {
	srv := testutil.NewMetadataServer(t, map[string]string{"a": "b"})

	group, ok := NewHTTPClient("", time.Second, nil).LookupGroup(context.Background(), "a")
	assert.False(t, ok)
	assert.Empty(t, group)
	assert.Zero(t, srv.Requests())
}

func TestLookupGroup_SendsHeaders(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_, _ = w.Write([]byte(`{"valid":true,"results":[{"pkgname":"libc++","pkgbase":"c"}]}`))
	}))
	defer srv.Close()

	group, err := NewHTTPClient(srv.URL+"?repo=core", time.Second, nil).lookup(context.Background(), "libc++")
	require.NoError(t, err)
	assert.Equal(t, model.PackageName("c"), group)
	require.NotNil(t, got)
	assert.Equal(t, "pkgtrack/1.0", got.Header.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "libc++", got.URL.Query().Get("name"))
	assert.Equal(t, "core", got.URL.Query().Get("repo"))
}

func TestLookup_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`},
		{name: "not found", status: http.StatusNotFound, body: ``},
		{name: "malformed json", status: http.StatusOK, body: `{"valid":`},
		{name: "invalid query", status: http.StatusOK, body: `{"valid":false,"results":[]}`},
		{name: "no results", status: http.StatusOK, body: `{"valid":true,"results":[]}`},
		{name: "other package only", status: http.StatusOK, body: `{"valid":true,"results":[{"pkgname":"bar","pkgbase":"baz"}]}`},
		{name: "empty pkgbase", status: http.StatusOK, body: `{"valid":true,"results":[{"pkgname":"foo","pkgbase":""}]}`},
		{name: "invalid pkgbase", status: http.StatusOK, body: `{"valid":true,"results":[{"pkgname":"foo","pkgbase":"../x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTPClient(srv.URL, time.Second, nil).lookup(context.Background(), "foo")
			assert.ErrorIs(t, err, errors.ErrMetadataLookupFailed)
		})
	}
}

func TestLookup_BadURL(t *testing.T) {
	for _, u := range []string{"ftp://example.org/search", "://broken", "/relative"} {
		_, err := NewHTTPClient(u, time.Second, nil).lookup(context.Background(), "foo")
		assert.ErrorIs(t, err, errors.ErrMetadataLookupFailed, u)
	}
}

func TestLookupGroup_TimeoutIsSwallowed(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	var buf bytes.Buffer
	logger.SetTestOutput(&buf)
	defer logger.UnsetTestOutput()
	logger.SetLevel("debug")
	defer logger.SetLevel("info")

	_, ok := NewHTTPClient(srv.URL, 50*time.Millisecond, nil).LookupGroup(context.Background(), "foo")
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "Metadata lookup failed")
	assert.Contains(t, buf.String(), "foo")
}

func TestLookup_AppliesCredentials(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"valid":true,"results":[{"pkgname":"foo","pkgbase":"foo-base"}]}`))
	}))
	defer srv.Close()

	client := NewHTTPClient(srv.URL, time.Second, &auth.BearerAuth{Token: "secret"})
	group, err := client.lookup(context.Background(), "foo")
	require.NoError(t, err)
	assert.Equal(t, model.PackageName("foo-base"), group)
	assert.Equal(t, "Bearer secret", got)
}

func TestLookup_CredentialFailure(t *testing.T) {
	srv := testutil.NewMetadataServer(t, map[string]string{"foo": "foo-base"})
	ctrl := gomock.NewController(t)
	authenticator := authmocks.NewMockAuthenticator(ctrl)
	authenticator.EXPECT().Apply(gomock.Any()).Return(auth.ErrInvalidCredentials)
	authenticator.EXPECT().Type().Return(auth.HeaderAuthType)

	_, err := NewHTTPClient(srv.URL, time.Second, authenticator).lookup(context.Background(), "foo")
	assert.ErrorIs(t, err, errors.ErrMetadataLookupFailed)
	assert.Zero(t, srv.Requests(), "nothing is sent without credentials")
}
