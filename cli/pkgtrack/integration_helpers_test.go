//go:build integration

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/model"
	"github.com/glorpus-work/pkgtrack/test/testutil"
)

// env is a configuration with two remotes backed by scratch upstreams.
type env struct {
	dir     string
	cfgPath string
	core    *testutil.Upstream
	extra   *testutil.Upstream
}

func newEnv(t *testing.T, settings map[string]string) *env {
	t.Helper()
	e := &env{
		dir:   t.TempDir(),
		core:  testutil.NewUpstream(t, model.DefaultNamespace),
		extra: testutil.NewUpstream(t, model.DefaultNamespace),
	}
	e.cfgPath = testutil.WriteConfig(t, e.dir, settings,
		testutil.ConfigRemote{Name: "core", URL: e.core.URL},
		testutil.ConfigRemote{Name: "extra", URL: e.extra.URL},
	)
	return e
}

// run executes the CLI with the environment's config and returns stdout.
// Log output is captured separately and returned second.
func (e *env) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, append([]string{"--config", e.cfgPath}, args...)...)
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, logs bytes.Buffer
	logger.SetTestOutput(&logs)
	defer logger.UnsetTestOutput()

	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&logs)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), logs.String(), err
}
