package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// MetadataServer fakes the package search endpoint. Groups maps a package
// name to its pkgbase; names absent from the map return no results.
type MetadataServer struct {
	*httptest.Server
	Groups   map[string]string
	requests atomic.Int64
}

// NewMetadataServer starts a metadata server that is closed with the test.
func NewMetadataServer(t *testing.T, groups map[string]string) *MetadataServer {
	t.Helper()
	ms := &MetadataServer{Groups: groups}
	ms.Server = httptest.NewServer(http.HandlerFunc(ms.handle))
	t.Cleanup(ms.Close)
	return ms
}

// Requests returns the number of lookups served so far.
func (ms *MetadataServer) Requests() int {
	return int(ms.requests.Load())
}

func (ms *MetadataServer) handle(w http.ResponseWriter, r *http.Request) {
	ms.requests.Add(1)

	type result struct {
		PkgName string `json:"pkgname"`
		PkgBase string `json:"pkgbase"`
	}
	resp := struct {
		Version int      `json:"version"`
		Valid   bool     `json:"valid"`
		Results []result `json:"results"`
	}{Version: 2, Valid: true, Results: []result{}}

	name := r.URL.Query().Get("name")
	if base, ok := ms.Groups[name]; ok {
		resp.Results = append(resp.Results, result{PkgName: name, PkgBase: base})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
