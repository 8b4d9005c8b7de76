package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// kind is one message style: an icon and a lipgloss style.
type kind struct {
	icon  string
	style lipgloss.Style
}

var (
	success = kind{"✅ ", lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)}
	failure = kind{"❌ ", lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)}
	warning = kind{"⚠️  ", lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))}
	info    = kind{"ℹ️  ", lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))}
	step    = kind{"   ", lipgloss.NewStyle().Foreground(lipgloss.Color("240"))}
	debug   = kind{"🔍 ", lipgloss.NewStyle().Foreground(lipgloss.Color("240"))}
)

var (
	verboseMode bool
	out         io.Writer = os.Stdout
)

// SetVerbose enables or disables Verbose messages. The CLI calls it from
// the --verbose flag.
func SetVerbose(v bool) {
	verboseMode = v
}

// SetWriter redirects all output. Passing nil restores os.Stdout.
func SetWriter(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	out = w
}

// Writer returns the current output destination. Build progress from the
// compiler is streamed here.
func Writer() io.Writer {
	return out
}

func (k kind) print(msg string) {
	fmt.Fprintln(out, k.style.Render(k.icon+msg))
}

// Success reports a completed operation.
//
//	output.Success("Generated TypeScript bindings")
func Success(msg string) { success.print(msg) }

// Error reports a failure. The CLI prints the error that ended a command
// with it before exiting non-zero.
func Error(msg string) { failure.print(msg) }

// Warn reports something the user should look at that did not fail the
// command.
func Warn(msg string) { warning.print(msg) }

// Info prints an informational message.
func Info(msg string) { info.print(msg) }

// Step prints an indented follow-up step.
//
//	output.Step("cd helloblockchain")
//	output.Step("shuffle build")
func Step(msg string) { step.print(msg) }

// Verbose prints a debug message only if verbose mode is enabled.
func Verbose(msg string) {
	if verboseMode {
		debug.print(msg)
	}
}
