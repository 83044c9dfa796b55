// Package ui isolates terminal concerns behind a small reporting
// interface so the orchestration logic never touches a real console.
// Progress is a cooperative side channel with no effect on control
// flow.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Reporter is the capability the orchestrator is handed: report
// progress and print messages with a severity.
type Reporter interface {
	Progress(percent int)
	Info(msg string)
	Success(msg string)
	Warn(msg string)
	Error(msg string)
}

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")) // red
	panelStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	panelValueStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")) // blue
)

// Console writes styled messages to a writer.
type Console struct {
	out io.Writer
}

// NewConsole returns a Console reporter writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Progress prints the completed percentage of the current operation.
func (c *Console) Progress(percent int) {
	fmt.Fprintf(c.out, "[%3d%%]\n", percent)
}

// Info prints a routine status message.
func (c *Console) Info(msg string) {
	c.print(infoStyle, msg)
}

// Success prints a completed-step message.
func (c *Console) Success(msg string) {
	c.print(successStyle, msg)
}

// Warn prints a non-fatal problem the user should see.
func (c *Console) Warn(msg string) {
	c.print(warnStyle, msg)
}

// Error prints a fatal problem.
func (c *Console) Error(msg string) {
	c.print(errorStyle, msg)
}

func (c *Console) print(style lipgloss.Style, msg string) {
	fmt.Fprintf(c.out, "\n%s\n", style.Render(msg))
}

// VersionPanel renders a bordered panel holding a labeled version, the
// way version information is presented to the user.
func VersionPanel(label, version string) string {
	content := fmt.Sprintf("%s: %s", label, panelValueStyle.Render(version))
	return panelStyle.Render(content)
}

// Discard is a Reporter that drops everything; used in tests.
type Discard struct{}

func (Discard) Progress(int)   {}
func (Discard) Info(string)    {}
func (Discard) Success(string) {}
func (Discard) Warn(string)    {}
func (Discard) Error(string)   {}

var _ Reporter = (*Console)(nil)
var _ Reporter = Discard{}
