package outdated

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/opensuse-tools/osutil/internal/common/output"
)

func sampleReport() *Report {
	return &Report{
		Maintainer: "alice",
		Repository: tumbleweed,
		CheckedAt:  time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC),
		Results: []Result{
			{Package: "broken", Status: StatusError, Error: "unable to get project information from repology for package broken"},
			{Package: "cmake", Project: "devel:tools:building", Status: StatusOutdated, CurrentVersion: "3.29.0", NewestVersion: "3.30.1"},
			{Package: "vim", Project: "editors", Status: StatusCurrent, CurrentVersion: "9.1.0"},
			{Package: "zstd", Project: "Archiving", Status: StatusNotFound},
		},
	}
}

func render(t *testing.T, opts RenderOptions) (string, string) {
	t.Helper()
	output.NoColor()
	var out, errOut bytes.Buffer
	if err := Render(&out, &errOut, sampleReport(), opts); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return out.String(), errOut.String()
}

func TestRenderText(t *testing.T) {
	out, errOut := render(t, RenderOptions{Format: FormatText})

	if out != "cmake: 3.29.0 -> 3.30.1\n" {
		t.Errorf("Unexpected stdout:\n%s", out)
	}
	if !strings.Contains(errOut, "package broken") {
		t.Errorf("Errors should go to stderr, got %q", errOut)
	}
}

func TestRenderTextShowNotFound(t *testing.T) {
	out, _ := render(t, RenderOptions{ShowNotFound: true})

	if !strings.Contains(out, "Could not find package zstd") {
		t.Errorf("Expected not-found line, got:\n%s", out)
	}
	if strings.Contains(out, "vim") {
		t.Error("Current packages should be hidden by default")
	}
}

func TestRenderTextShowCurrent(t *testing.T) {
	out, _ := render(t, RenderOptions{ShowCurrent: true})

	if !strings.Contains(out, "vim: 9.1.0 (up to date)") {
		t.Errorf("Expected current line, got:\n%s", out)
	}
	if strings.Contains(out, "zstd") {
		t.Error("Not-found packages should be hidden without ShowNotFound")
	}
}

func TestRenderTable(t *testing.T) {
	out, errOut := render(t, RenderOptions{Format: FormatTable, ShowNotFound: true})

	for _, want := range []string{"Package", "cmake", "3.29.0", "3.30.1", "zstd", "not-found", "broken"} {
		if !strings.Contains(out, want) {
			t.Errorf("Table should contain %q:\n%s", want, out)
		}
	}
	if errOut != "" {
		t.Errorf("Table output should not write to stderr, got %q", errOut)
	}
}

func TestRenderJSON(t *testing.T) {
	out, _ := render(t, RenderOptions{Format: FormatJSON})

	var decoded Report
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Invalid JSON: %v\n%s", err, out)
	}
	if decoded.Maintainer != "alice" || decoded.Repository != tumbleweed {
		t.Errorf("Unexpected header: %+v", decoded)
	}
	if len(decoded.Results) != 2 {
		t.Fatalf("Expected outdated and error results, got %+v", decoded.Results)
	}
	if decoded.Results[1].Package != "cmake" || decoded.Results[1].NewestVersion != "3.30.1" {
		t.Errorf("Unexpected result: %+v", decoded.Results[1])
	}
	if !strings.Contains(out, `"current_version": "3.29.0"`) {
		t.Errorf("Expected snake_case keys:\n%s", out)
	}
}

func TestRenderYAML(t *testing.T) {
	out, _ := render(t, RenderOptions{Format: FormatYAML, ShowNotFound: true, ShowCurrent: true})

	var decoded Report
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Invalid YAML: %v\n%s", err, out)
	}
	if len(decoded.Results) != 4 {
		t.Errorf("Expected all 4 results, got %d", len(decoded.Results))
	}
	if !strings.Contains(out, "status: not-found") {
		t.Errorf("Expected status field:\n%s", out)
	}
}

func TestRenderEmptyJSONHasArray(t *testing.T) {
	var out bytes.Buffer
	report := &Report{Maintainer: "alice", Repository: tumbleweed}
	if err := Render(&out, &out, report, RenderOptions{Format: FormatJSON}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"results": []`) {
		t.Errorf("Expected empty results array, got:\n%s", out.String())
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	var out bytes.Buffer
	err := Render(&out, &out, sampleReport(), RenderOptions{Format: "xml"})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}
