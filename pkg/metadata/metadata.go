//go:generate mockgen -destination=./mocks/lookup.go . Lookup
// Package metadata asks an external package search service which group
// (pkgbase) a package name belongs to. Lookups never fail loudly: any
// problem is logged at debug level and reported as "no group".
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/auth"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/model"
)

// maxResponseSize bounds the body read from the search service.
const maxResponseSize = 1 << 20

// Lookup maps a package name to the group that builds it.
type Lookup interface {
	// LookupGroup returns the group of name, or false when it is unknown or
	// the service could not be asked.
	LookupGroup(ctx context.Context, name model.PackageName) (model.PackageName, bool)
}

// HTTPClient queries a search endpoint of the form <url>?name=<package>
// answering {"valid": true, "results": [{"pkgname": ..., "pkgbase": ...}]}.
type HTTPClient struct {
	client    *http.Client
	baseURL   string
	userAgent string
	auth      auth.Authenticator
}

var _ Lookup = (*HTTPClient)(nil)

// NewHTTPClient creates a lookup client. An empty baseURL disables lookups;
// authenticator may be nil.
func NewHTTPClient(baseURL string, timeout time.Duration, authenticator auth.Authenticator) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		userAgent: "pkgtrack/1.0",
		auth:      authenticator,
	}
}

type searchResult struct {
	PkgName string `json:"pkgname"`
	PkgBase string `json:"pkgbase"`
}

type searchResponse struct {
	Valid   bool           `json:"valid"`
	Results []searchResult `json:"results"`
}

func (hc *HTTPClient) LookupGroup(ctx context.Context, name model.PackageName) (model.PackageName, bool) {
	if hc.baseURL == "" {
		return "", false
	}
	group, err := hc.lookup(ctx, name)
	if err != nil {
		logger.Debug("Metadata lookup failed", logger.Fields{"package": name.String(), "error": err.Error()})
		return "", false
	}
	return group, true
}

func (hc *HTTPClient) lookup(ctx context.Context, name model.PackageName) (model.PackageName, error) {
	searchURL, err := hc.buildSearchURL(name)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, http.NoBody)
	if err != nil {
		return "", errors.Wrapf(errors.ErrMetadataLookupFailed, "failed to create request: %v", err)
	}
	req.Header.Set("User-Agent", hc.userAgent)
	req.Header.Set("Accept", "application/json")
	if hc.auth != nil {
		if err := hc.auth.Apply(req); err != nil {
			return "", errors.Wrapf(errors.ErrMetadataLookupFailed, "failed to apply %s credentials: %v", hc.auth.Type(), err)
		}
	}

	resp, err := hc.client.Do(req)
	if err != nil {
		return "", errors.Wrapf(errors.ErrMetadataLookupFailed, "request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Wrapf(errors.ErrMetadataLookupFailed, "unexpected status code: %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&body); err != nil {
		return "", errors.Wrapf(errors.ErrMetadataLookupFailed, "invalid response: %v", err)
	}
	if !body.Valid {
		return "", errors.Wrap(errors.ErrMetadataLookupFailed, "service rejected the query")
	}

	for _, r := range body.Results {
		if r.PkgName != string(name) || r.PkgBase == "" {
			continue
		}
		group, err := model.ParsePackageName(r.PkgBase)
		if err != nil {
			return "", errors.Wrapf(errors.ErrMetadataLookupFailed, "invalid group %q: %v", r.PkgBase, err)
		}
		return group, nil
	}
	return "", errors.Wrapf(errors.ErrMetadataLookupFailed, "no result for %s", name)
}

func (hc *HTTPClient) buildSearchURL(name model.PackageName) (string, error) {
	parsedURL, err := url.Parse(hc.baseURL)
	if err != nil {
		return "", errors.Wrapf(errors.ErrMetadataLookupFailed, "invalid metadata URL: %v", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return "", errors.Wrap(errors.ErrMetadataLookupFailed, fmt.Sprintf("unsupported metadata URL scheme %q", parsedURL.Scheme))
	}
	query := parsedURL.Query()
	query.Set("name", string(name))
	parsedURL.RawQuery = query.Encode()
	return parsedURL.String(), nil
}
