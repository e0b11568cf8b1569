package outdated

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"

	"github.com/opensuse-tools/osutil/internal/common/output"
)

// ErrUnsupportedFormat is returned for an unknown output format
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Output formats
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the accepted output formats
var Formats = []string{FormatText, FormatTable, FormatJSON, FormatYAML}

// RenderOptions selects what is printed
type RenderOptions struct {
	Format       string
	ShowNotFound bool
	ShowCurrent  bool
}

// Visible returns the results the options select. Outdated packages and
// failed lookups are always included.
func (o RenderOptions) Visible(results []Result) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		switch r.Status {
		case StatusNotFound:
			if !o.ShowNotFound {
				continue
			}
		case StatusCurrent:
			if !o.ShowCurrent {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// Render writes report to w. In text format, lookup errors go to errW.
func Render(w, errW io.Writer, report *Report, opts RenderOptions) error {
	visible := opts.Visible(report.Results)

	switch opts.Format {
	case "", FormatText:
		return renderText(w, errW, visible)
	case FormatTable:
		return renderTable(w, visible)
	case FormatJSON, FormatYAML:
		filtered := *report
		filtered.Results = visible
		return renderMachine(w, &filtered, opts.Format)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.Format)
	}
}

func renderText(w, errW io.Writer, results []Result) error {
	for _, r := range results {
		var err error
		switch r.Status {
		case StatusOutdated:
			_, err = fmt.Fprintln(w, output.FormatUpgrade(r.Package, r.CurrentVersion, r.NewestVersion))
		case StatusCurrent:
			_, err = fmt.Fprintln(w, output.Dim.Sprintf("%s: %s (up to date)", r.Package, r.CurrentVersion))
		case StatusNotFound:
			_, err = fmt.Fprintln(w, output.NotFound.Sprintf("Could not find package %s", r.Package))
		case StatusError:
			_, err = fmt.Fprintln(errW, output.Error.Sprint(r.Error))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func renderTable(w io.Writer, results []Result) error {
	var buf bytes.Buffer
	table := tablewriter.NewTable(&buf,
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.Off}},
		})))
	table.Header(output.Header.Sprint("Package"), "Status", "Current", "Newest", "Project")

	data := make([][]string, len(results))
	for i, r := range results {
		newest := r.NewestVersion
		if r.Status == StatusError {
			newest = r.Error
		}
		data[i] = []string{
			r.Package,
			output.FormatStatus(string(r.Status)),
			r.CurrentVersion,
			newest,
			r.Project,
		}
	}

	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("error formatting table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("error rendering table: %w", err)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func renderMachine(w io.Writer, report *Report, format string) error {
	var data []byte
	var err error

	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(report); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		data = buf.Bytes()
	}

	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}
	_, err = w.Write(data)
	return err
}
