package bootstrap

import (
	"context"
	"path/filepath"

	"github.com/simonhull/shuffle/internal/testrunner"
)

// ScenarioOptions adds the test runners to a bootstrap run.
type ScenarioOptions struct {
	Options
	Deno *testrunner.DenoRunner
}

func (h *Handle) denoConfig(nc *NetworkContext, testDir string) testrunner.DenoConfig {
	return testrunner.DenoConfig{
		ProjectPath: h.ProjectPath,
		Home:        h.Home,
		NetworkURL:  nc.JSONRPCURL,
		RESTURL:     nc.RESTURL,
		KeyPath:     h.TestKeyPath,
		Sender:      h.TestAddress,
		TestDir:     testDir,
	}
}

// RunSamplePackageEndToEnd bootstraps a project, runs its Move unit tests,
// then runs the e2e Deno tests against the deployed package.
func RunSamplePackageEndToEnd(ctx context.Context, nc *NetworkContext, opts ScenarioOptions) error {
	h, err := Bootstrap(ctx, nc, opts.Options)
	if err != nil {
		return err
	}
	if err := testrunner.RunMoveUnitTests(ctx, opts.Compiler, h.ProjectPath, opts.Out); err != nil {
		return err
	}
	return opts.Deno.Run(ctx, h.denoConfig(nc, filepath.Join(h.ProjectPath, testrunner.E2EDir)))
}

// RunTypescriptSDKIntegration bootstraps a project and runs its SDK
// integration tests.
func RunTypescriptSDKIntegration(ctx context.Context, nc *NetworkContext, opts ScenarioOptions) error {
	h, err := Bootstrap(ctx, nc, opts.Options)
	if err != nil {
		return err
	}
	return opts.Deno.Run(ctx, h.denoConfig(nc, filepath.Join(h.ProjectPath, testrunner.IntegrationDir)))
}
