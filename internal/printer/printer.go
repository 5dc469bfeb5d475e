// Package printer formats operator output for the admin CLI
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

func init() {
	// NO_COLOR disables colors; otherwise they stay on even without a TTY
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Success prints a green line prefixed with a checkmark
func Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	green.Fprintln(stdout, msg)
}

func Info(format string, a ...any) {
	fmt.Fprintf(stdout, format+"\n", a...)
}

func Warning(format string, a ...any) {
	yellow.Fprintf(stdout, "⚠️  %s\n", fmt.Sprintf(format, a...))
}

// Step announces one stage of a multi-stage command
func Step(format string, a ...any) {
	cyan.Fprintf(stdout, "→ %s\n", fmt.Sprintf(format, a...))
}

// Table prints aligned key/value rows in the given order
func Table(rows [][2]string) {
	width := 0
	for _, r := range rows {
		if len(r[0]) > width {
			width = len(r[0])
		}
	}
	for _, r := range rows {
		fmt.Fprintf(stdout, "  %-*s  %s\n", width, r[0], r[1])
	}
}

// Error prints title, explanation and suggestions to stderr and returns an
// error carrying only the title, so cobra's own error output stays silent
func Error(title, explanation string, suggestions []string) error {
	red.Fprintf(stderr, "%s\n\n", title)
	if explanation != "" {
		fmt.Fprintf(stderr, "%s\n", explanation)
	}

	switch len(suggestions) {
	case 0:
	case 1:
		fmt.Fprintf(stderr, "\n%s\n", suggestions[0])
	default:
		fmt.Fprintf(stderr, "\nEither:\n")
		for i, s := range suggestions {
			fmt.Fprintf(stderr, "  %d. %s\n", i+1, s)
		}
	}

	return fmt.Errorf("%s", title)
}
