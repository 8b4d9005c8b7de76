// Package testrunner runs a project's Move unit tests and its Deno test
// suites against a live network.
package testrunner

import (
	"context"
	"io"
	"path/filepath"

	"github.com/simonhull/shuffle/internal/account"
	"github.com/simonhull/shuffle/internal/compiler"
	"github.com/simonhull/shuffle/internal/errs"
	"github.com/simonhull/shuffle/internal/exec"
	"github.com/simonhull/shuffle/internal/project"
)

// Environment variables passed to Deno tests.
const (
	EnvProjectPath    = "PROJECT_PATH"
	EnvShuffleHome    = "SHUFFLE_HOME"
	EnvShuffleNetwork = "SHUFFLE_NETWORK"
	EnvRESTURL        = "SHUFFLE_REST_URL"
	EnvPrivateKeyPath = "PRIVATE_KEY_PATH"
	EnvSenderAddress  = "SENDER_ADDRESS"
)

const (
	// E2EDir holds the tests that exercise generated bindings.
	E2EDir = "e2e"
	// IntegrationDir holds SDK integration tests.
	IntegrationDir = "integration"
)

// RunMoveUnitTests runs the unit tests of the project's main package.
func RunMoveUnitTests(ctx context.Context, c compiler.Compiler, root string, out io.Writer) error {
	pkgDir := project.MainPackagePath(root)
	if err := c.Test(ctx, pkgDir, out); err != nil {
		return errs.New(errs.ErrTestRunner, "move unit tests", err)
	}
	return nil
}

// DenoConfig is what a Deno test run needs to reach the network.
type DenoConfig struct {
	ProjectPath string
	Home        project.Home
	NetworkURL  string // JSON-RPC endpoint
	RESTURL     string
	KeyPath     string
	Sender      account.Address
	TestDir     string // Defaults to <ProjectPath>/e2e
}

// Env returns the environment entries for a test run.
func (c DenoConfig) Env() []string {
	return []string{
		EnvProjectPath + "=" + c.ProjectPath,
		EnvShuffleHome + "=" + c.Home.Dir(),
		EnvShuffleNetwork + "=" + c.NetworkURL,
		EnvRESTURL + "=" + c.RESTURL,
		EnvPrivateKeyPath + "=" + c.KeyPath,
		EnvSenderAddress + "=" + c.Sender.Hex(),
	}
}

// DenoRunner runs deno test.
type DenoRunner struct {
	Binary   string // Defaults to "deno"
	Executor *exec.Executor
}

// NewDenoRunner returns a runner using executor, or the default executor
// when nil.
func NewDenoRunner(executor *exec.Executor) *DenoRunner {
	if executor == nil {
		executor = exec.NewExecutor(nil)
	}
	return &DenoRunner{Binary: "deno", Executor: executor}
}

// Args returns the deno arguments for testDir.
func Args(testDir string) []string {
	return []string{"test", "--unstable", "--allow-env", "--allow-read", "--allow-net", testDir}
}

// Run runs the Deno tests in cfg.TestDir from the project root.
func (r *DenoRunner) Run(ctx context.Context, cfg DenoConfig) error {
	testDir := cfg.TestDir
	if testDir == "" {
		testDir = filepath.Join(cfg.ProjectPath, E2EDir)
	}
	binary := r.Binary
	if binary == "" {
		binary = "deno"
	}

	err := exec.NewGenericCommand(r.Executor, binary).
		WithArgs(Args(testDir)...).
		WithEnv(cfg.Env()...).
		WithDir(cfg.ProjectPath).
		WithSpinner("Running deno tests in " + filepath.Base(testDir)).
		Run(ctx)
	if err != nil {
		return errs.New(errs.ErrTestRunner, testDir, err)
	}
	return nil
}
