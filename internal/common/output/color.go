package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	// Package status colors
	Outdated = color.New(color.FgYellow)
	Current  = color.New(color.FgGreen)
	NotFound = color.New(color.FgMagenta)
	Failed   = color.New(color.FgRed)

	// Message colors
	Success = color.New(color.FgGreen)
	Warning = color.New(color.FgYellow)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Dim     = color.New(color.Faint)

	// Structural colors
	Header  = color.New(color.FgWhite, color.Bold)
	Package = color.New(color.FgBlue, color.Bold)
	Version = color.New(color.FgGreen, color.Bold)
)

// NoColor disables color output
func NoColor() {
	color.NoColor = true
}

// ForceColor enables color output even when not a TTY
func ForceColor() {
	color.NoColor = false
}

// IsTerminal returns true if stdout is a terminal
func IsTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// StatusColor returns the color used for a package status
func StatusColor(status string) *color.Color {
	switch status {
	case "outdated":
		return Outdated
	case "current":
		return Current
	case "not-found":
		return NotFound
	case "error":
		return Failed
	default:
		return color.New(color.Reset)
	}
}

// PrintSuccess writes a success message to w
func PrintSuccess(w io.Writer, format string, args ...interface{}) {
	Success.Fprintf(w, "✓ "+format+"\n", args...)
}

// PrintError writes an error message to w
func PrintError(w io.Writer, format string, args ...interface{}) {
	Error.Fprintf(w, "✗ "+format+"\n", args...)
}

// PrintWarning writes a warning message to w
func PrintWarning(w io.Writer, format string, args ...interface{}) {
	Warning.Fprintf(w, "⚠ "+format+"\n", args...)
}

// PrintInfo writes an info message to w
func PrintInfo(w io.Writer, format string, args ...interface{}) {
	Info.Fprintf(w, "→ "+format+"\n", args...)
}

// FormatStatus formats a status string with appropriate color
func FormatStatus(status string) string {
	c := StatusColor(status)
	return c.Sprintf("[%s]", status)
}

// FormatUpgrade renders "pkg: current -> newest" with the package name
// and the newest version highlighted
func FormatUpgrade(pkg, current, newest string) string {
	return fmt.Sprintf("%s: %s -> %s", Package.Sprint(pkg), current, Version.Sprint(newest))
}
