package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrToolNotFound means the external binary is not on PATH.
var ErrToolNotFound = errors.New("tool not found")

// installHints are printed when a known tool is missing.
var installHints = map[string]string{
	"move": "install the Move CLI and make sure `move` is on your PATH",
	"deno": "install Deno from https://deno.land",
}

// CommandError reports a tool that ran and exited unsuccessfully.
type CommandError struct {
	Command  string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Executor runs external commands (move, deno) with streamed output
type Executor struct {
	stdout  io.Writer
	stderr  io.Writer
	env     []string
	dir     string
	spinner bool

	// For mocking in tests
	commandFunc func(name string, args ...string) *exec.Cmd
}

// Options configures command execution
type Options struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Env     []string // Additional environment variables
	Dir     string   // Working directory
	Spinner bool     // Show spinner for long-running commands when stderr is a terminal

	// Command overrides process construction (tests use a helper process)
	Command func(name string, args ...string) *exec.Cmd
}

// NewExecutor creates an executor. A nil opts streams to the process's
// stdout and stderr with spinners enabled.
func NewExecutor(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{Spinner: true}
	}

	e := &Executor{
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		env:         opts.Env,
		dir:         opts.Dir,
		spinner:     opts.Spinner,
		commandFunc: opts.Command,
	}
	if e.stdout == nil {
		e.stdout = os.Stdout
	}
	if e.stderr == nil {
		e.stderr = os.Stderr
	}
	if e.commandFunc == nil {
		e.commandFunc = exec.Command
	}
	return e
}

// WithOutput returns a copy of the executor writing to the given streams.
// A nil stream keeps the current one.
func (e *Executor) WithOutput(stdout, stderr io.Writer) *Executor {
	c := *e
	if stdout != nil {
		c.stdout = stdout
	}
	if stderr != nil {
		c.stderr = stderr
	}
	return &c
}

// derive returns a copy with extra environment entries and, when dir is
// set, a different working directory.
func (e *Executor) derive(env []string, dir string) *Executor {
	c := *e
	c.env = append(append([]string(nil), e.env...), env...)
	if dir != "" {
		c.dir = dir
	}
	return &c
}

func (e *Executor) command(name string, args []string) *exec.Cmd {
	cmd := e.commandFunc(name, args...)
	if e.dir != "" {
		cmd.Dir = e.dir
	}
	if len(e.env) > 0 {
		if cmd.Env == nil {
			cmd.Env = os.Environ()
		}
		cmd.Env = append(cmd.Env, e.env...)
	}
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	return cmd
}

// Run executes a command, streaming its output. Cancelling ctx kills the
// process.
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	cmd := e.command(name, args)
	label := strings.Join(append([]string{name}, args...), " ")

	if err := cmd.Start(); err != nil {
		return startError(name, label, err)
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-waitErr
		return &CommandError{Command: label, ExitCode: -1, Err: fmt.Errorf("cancelled: %w", ctx.Err())}
	case err := <-waitErr:
		if err == nil {
			return nil
		}
		return &CommandError{Command: label, ExitCode: ExitCode(err), Err: err}
	}
}

func startError(name, label string, err error) error {
	if !errors.Is(err, exec.ErrNotFound) && !strings.Contains(err.Error(), "executable file not found") {
		return &CommandError{Command: label, ExitCode: -1, Err: err}
	}
	hint := installHints[name]
	if hint == "" {
		hint = "install it and try again"
	}
	return fmt.Errorf("%w: %s (%s): %v", ErrToolNotFound, name, hint, err)
}

// RunWithSpinner runs a command behind a progress spinner. Output is
// buffered while the spinner is visible and replayed to stderr, prefixed
// with the tool name, if the command fails. When stderr is not a terminal
// or the executor was built without Spinner, it falls back to Run.
func (e *Executor) RunWithSpinner(ctx context.Context, message string, name string, args ...string) error {
	if !e.spinner || !isTerminal(e.stderr) {
		return e.Run(ctx, name, args...)
	}

	captured := &lockedBuffer{}
	quiet := e.WithOutput(captured, captured)

	p := tea.NewProgram(newSpinnerModel(message), tea.WithOutput(e.stderr), tea.WithInput(nil))
	uiDone := make(chan struct{})
	go func() {
		defer close(uiDone)
		_, _ = p.Run()
	}()

	err := quiet.Run(ctx, name, args...)
	p.Send(spinnerDoneMsg{err: err})
	<-uiDone

	replayOnFailure(err, captured.Bytes(), name, e.stderr)
	return err
}

// replayOnFailure writes output captured behind a spinner so a failing
// tool's diagnostics are not lost.
func replayOnFailure(err error, output []byte, name string, w io.Writer) {
	if err == nil || len(output) == 0 {
		return
	}
	pw := NewPrefixWriter(w, name+" │ ")
	_, _ = pw.Write(output)
	_ = pw.Flush()
}

// ExitCode extracts the process exit code from an error returned by Run.
// It returns -1 when err does not come from a finished process.
func ExitCode(err error) int {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode >= 0 {
		return cmdErr.ExitCode
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Bytes()
}

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle))
	return &spinnerModel{spinner: s, message: message}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done, m.err = true, msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	switch {
	case !m.done:
		return m.spinner.View() + " " + m.message + "..."
	case m.err != nil:
		return "❌ " + m.message + "\n"
	default:
		return "✅ " + m.message + "\n"
	}
}

// GenericCommand provides a fluent API for building and executing commands
type GenericCommand struct {
	executor   *Executor
	command    string
	args       []string
	env        []string
	dir        string
	spinnerMsg string
}

// NewGenericCommand creates a new generic command builder
func NewGenericCommand(executor *Executor, command string) *GenericCommand {
	return &GenericCommand{executor: executor, command: command}
}

// WithArgs adds arguments to the command
func (g *GenericCommand) WithArgs(args ...string) *GenericCommand {
	g.args = append(g.args, args...)
	return g
}

// WithEnv adds environment variables
func (g *GenericCommand) WithEnv(env ...string) *GenericCommand {
	g.env = append(g.env, env...)
	return g
}

// WithDir sets the working directory
func (g *GenericCommand) WithDir(dir string) *GenericCommand {
	g.dir = dir
	return g
}

// WithSpinner shows message behind a spinner while the command runs.
func (g *GenericCommand) WithSpinner(message string) *GenericCommand {
	g.spinnerMsg = message
	return g
}

// Run executes the command. The executor itself is not modified.
func (g *GenericCommand) Run(ctx context.Context) error {
	e := g.executor.derive(g.env, g.dir)
	if g.spinnerMsg != "" {
		return e.RunWithSpinner(ctx, g.spinnerMsg, g.command, g.args...)
	}
	return e.Run(ctx, g.command, g.args...)
}

// String returns the command line, for logs.
func (g *GenericCommand) String() string {
	return strings.Join(append([]string{g.command}, g.args...), " ")
}
