package output

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestColorOutputMatchesStatus(t *testing.T) {
	ForceColor()
	defer NoColor()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	statusColorCodes := map[string]string{
		"outdated":  "\x1b[33m", // Yellow
		"current":   "\x1b[32m", // Green
		"not-found": "\x1b[35m", // Magenta
		"error":     "\x1b[31m", // Red
	}

	statusGen := gen.OneConstOf("outdated", "current", "not-found", "error")

	properties.Property("FormatStatus contains correct ANSI code for status", prop.ForAll(
		func(status string) bool {
			return strings.Contains(FormatStatus(status), statusColorCodes[status])
		},
		statusGen,
	))

	properties.Property("FormatStatus output contains the status text", prop.ForAll(
		func(status string) bool {
			return strings.Contains(FormatStatus(status), status)
		},
		statusGen,
	))

	properties.TestingRun(t)
}

func TestUnknownStatusUsesReset(t *testing.T) {
	if StatusColor("bogus") == nil {
		t.Fatal("StatusColor should never return nil")
	}
}

func TestNoColorDisablesANSICodes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("colored strings contain no ANSI codes when NoColor is set", prop.ForAll(
		func(text string) bool {
			NoColor()
			defer ForceColor()

			colors := []*color.Color{Outdated, Current, NotFound, Failed, Success, Error, Info, Warning, Package, Version}
			for _, c := range colors {
				if strings.Contains(c.Sprintf("%s", text), "\x1b[") {
					return false
				}
			}
			return true
		},
		gen.AlphaString(),
	))

	properties.Property("FormatUpgrade is plain text when NoColor is set", prop.ForAll(
		func(pkg, current, newest string) bool {
			NoColor()
			defer ForceColor()

			return FormatUpgrade(pkg, current, newest) == pkg+": "+current+" -> "+newest
		},
		gen.Identifier(),
		gen.NumString(),
		gen.NumString(),
	))

	properties.TestingRun(t)
	NoColor()
}

func TestPrintHelpersWriteToWriter(t *testing.T) {
	NoColor()

	tests := []struct {
		name  string
		print func(io.Writer, string, ...interface{})
		want  string
	}{
		{"success", PrintSuccess, "✓ cleared 3 entries\n"},
		{"error", PrintError, "✗ cleared 3 entries\n"},
		{"warning", PrintWarning, "⚠ cleared 3 entries\n"},
		{"info", PrintInfo, "→ cleared 3 entries\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.print(&buf, "cleared %d entries", 3)
			if buf.String() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}
