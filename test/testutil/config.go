package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// ConfigRemote is one remote of a test configuration.
type ConfigRemote struct {
	Name string
	URL  string
}

// WriteConfig writes <dir>/config.yaml with the mirror below <dir>/mirror and
// returns its path. Group lookups are disabled unless settings sets
// metadata_url. settings values are written verbatim.
func WriteConfig(t *testing.T, dir string, settings map[string]string, remotes ...ConfigRemote) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")

	merged := map[string]string{
		"mirror_root":  quote(filepath.Join(dir, "mirror")),
		"metadata_url": "none",
		"http_timeout": "5s",
		"lock_timeout": "1s",
	}
	for k, v := range settings {
		merged[k] = v
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("settings:\n")
	for _, k := range keys {
		b.WriteString("  " + k + ": " + merged[k] + "\n")
	}
	if len(remotes) == 0 {
		b.WriteString("remotes: []\n")
	} else {
		b.WriteString("remotes:\n")
		for _, r := range remotes {
			b.WriteString("  - name: " + r.Name + "\n")
			b.WriteString("    url: " + quote(r.URL) + "\n")
		}
	}

	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
}
