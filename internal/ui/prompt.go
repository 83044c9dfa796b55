package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// IsTTY reports whether stdin is an interactive terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Confirm asks a y/N question and reads one line from reader. It
// defaults to declining: empty input, EOF, and non-TTY environments
// all answer false. Destructive commands gate on this before acting.
func Confirm(writer io.Writer, reader io.Reader, prompt string) bool {
	if !IsTTY() {
		return false
	}

	fmt.Fprintf(writer, "%s [y/N] ", prompt)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
