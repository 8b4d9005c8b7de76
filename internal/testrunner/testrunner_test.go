package testrunner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/shuffle/internal/account"
	"github.com/simonhull/shuffle/internal/compiler"
	"github.com/simonhull/shuffle/internal/errs"
	"github.com/simonhull/shuffle/internal/exec"
	"github.com/simonhull/shuffle/internal/project"
)

type fakeCompiler struct {
	pkgDir string
	err    error
}

func (f *fakeCompiler) Compile(ctx context.Context, pkgDir string, cfg compiler.BuildConfig, out io.Writer) (*compiler.CompiledPackage, error) {
	return nil, errors.New("unexpected compile")
}

func (f *fakeCompiler) Test(ctx context.Context, pkgDir string, out io.Writer) error {
	f.pkgDir = pkgDir
	return f.err
}

func TestRunMoveUnitTests(t *testing.T) {
	c := &fakeCompiler{}
	require.NoError(t, RunMoveUnitTests(context.Background(), c, "/proj", nil))
	assert.Equal(t, filepath.Join("/proj", "main"), c.pkgDir)

	c.err = errors.New("1 test failed")
	err := RunMoveUnitTests(context.Background(), c, "/proj", nil)
	assert.ErrorIs(t, err, errs.ErrTestRunner)
	assert.Contains(t, err.Error(), "1 test failed")
}

func mockDeno(name string, args ...string) *osexec.Cmd {
	cs := []string{"-test.run=TestHelperProcess", "--", name}
	cs = append(cs, args...)
	cmd := osexec.Command(os.Args[0], cs...)
	cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	return cmd
}

// TestHelperProcess plays deno: it prints its arguments and environment and
// fails when the test directory is named "failing".
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}

	fmt.Println("args:", strings.Join(args, " "))
	for _, key := range []string{EnvProjectPath, EnvShuffleHome, EnvShuffleNetwork, EnvRESTURL, EnvPrivateKeyPath, EnvSenderAddress} {
		fmt.Printf("%s=%s\n", key, os.Getenv(key))
	}
	wd, _ := os.Getwd()
	fmt.Println("wd:", wd)

	if filepath.Base(args[len(args)-1]) == "failing" {
		fmt.Fprintln(os.Stderr, "FAILED | 0 passed | 1 failed")
		os.Exit(1)
	}
	os.Exit(0)
}

func denoConfig(t *testing.T) DenoConfig {
	root := t.TempDir()
	sender, _ := account.ParseAddress("0xa550c18")
	return DenoConfig{
		ProjectPath: root,
		Home:        project.NewHome("/tmp/home/.shuffle"),
		NetworkURL:  "http://127.0.0.1:8080/v1",
		RESTURL:     "http://127.0.0.1:8081",
		KeyPath:     "/tmp/home/.shuffle/accounts/test/dev.key",
		Sender:      sender,
	}
}

func TestDenoRunner_Run(t *testing.T) {
	var stdout bytes.Buffer
	runner := NewDenoRunner(exec.NewExecutor(&exec.Options{Stdout: &stdout, Stderr: io.Discard, Command: mockDeno}))
	cfg := denoConfig(t)

	require.NoError(t, runner.Run(context.Background(), cfg))

	out := stdout.String()
	assert.Contains(t, out, "args: deno test --unstable --allow-env --allow-read --allow-net "+filepath.Join(cfg.ProjectPath, "e2e"))
	assert.Contains(t, out, "PROJECT_PATH="+cfg.ProjectPath)
	assert.Contains(t, out, "SHUFFLE_HOME=/tmp/home/.shuffle")
	assert.Contains(t, out, "SHUFFLE_NETWORK=http://127.0.0.1:8080/v1")
	assert.Contains(t, out, "SHUFFLE_REST_URL=http://127.0.0.1:8081")
	assert.Contains(t, out, "PRIVATE_KEY_PATH=/tmp/home/.shuffle/accounts/test/dev.key")
	assert.Contains(t, out, "SENDER_ADDRESS=0x0000000000000000000000000a550c18")
	assert.Contains(t, out, "wd: ")
}

func TestDenoRunner_Failure(t *testing.T) {
	runner := NewDenoRunner(exec.NewExecutor(&exec.Options{Stdout: io.Discard, Stderr: io.Discard, Command: mockDeno}))
	cfg := denoConfig(t)
	cfg.TestDir = filepath.Join(cfg.ProjectPath, "failing")

	err := runner.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrTestRunner)
	assert.Equal(t, 1, exec.ExitCode(err))
}
