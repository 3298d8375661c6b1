package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"raisingate/internal/errors"
	"raisingate/internal/gate"
)

// Format selects how a gate report is rendered
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts the format names used on the command line
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	case FormatJSON, FormatMarkdown, FormatHTML:
		return f, nil
	default:
		return "", errors.InvalidInput(fmt.Sprintf("unknown report format %q", s))
	}
}

// Write renders r to w in the given format
func Write(w io.Writer, r *gate.Report, format Format) error {
	switch format {
	case FormatText:
		return Text(w, r)
	case FormatJSON:
		return JSON(w, r)
	case FormatMarkdown:
		_, err := w.Write(Markdown(r))
		return err
	case FormatHTML:
		_, err := w.Write(HTML(r))
		return err
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown report format %q", format))
	}
}

// Text prints one status line per check in the wording the validation
// script has always used. Column mismatches are followed by the expected and
// found lists; other failures list their details indented. A halted report
// stops after the structural checks.
func Text(w io.Writer, r *gate.Report) error {
	var b strings.Builder
	for _, res := range r.Results {
		b.WriteString(res.Message)
		b.WriteByte('\n')
		if res.Pass {
			continue
		}
		for _, d := range res.Details {
			if res.Check != gate.CheckColumns {
				b.WriteString("  - ")
			}
			b.WriteString(d)
			b.WriteByte('\n')
		}
	}
	if !r.Halted {
		b.WriteString("Validation complete!\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// JSON writes the report as indented JSON
func JSON(w io.Writer, r *gate.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Markdown renders the report as a Markdown document
func Markdown(r *gate.Report) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# Validation report\n\n")
	fmt.Fprintf(&b, "- **Source:** `%s`\n", r.Source)
	fmt.Fprintf(&b, "- **Rows:** %d\n", r.Rows)
	fmt.Fprintf(&b, "- **Report:** `%s`\n", r.ID)
	fmt.Fprintf(&b, "- **Created:** %s\n", r.CreatedAt)
	fmt.Fprintf(&b, "- **Verdict:** %s\n\n", verdict(r))

	b.WriteString("| Check | Status | Message |\n")
	b.WriteString("|---|---|---|\n")
	for _, res := range r.Results {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", res.Check, status(res), escapeCell(res.Message))
	}

	for _, res := range r.Results {
		if len(res.Details) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", res.Check)
		for _, d := range res.Details {
			fmt.Fprintf(&b, "- %s\n", d)
		}
	}

	if r.Halted {
		b.WriteString("\n> Statistical checks were skipped after a structural failure.\n")
	}
	return b.Bytes()
}

// HTML renders the Markdown report as a standalone HTML page
func HTML(r *gate.Report) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse(Markdown(r))

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Validation report: " + r.Source,
	})
	return markdown.Render(doc, renderer)
}

func status(res gate.Result) string {
	switch {
	case res.Advisory:
		return "advisory"
	case res.Pass:
		return "pass"
	default:
		return "FAIL"
	}
}

func verdict(r *gate.Report) string {
	switch {
	case r.Halted:
		return "halted"
	case r.Passed():
		return "passed"
	default:
		return fmt.Sprintf("failed (%d)", len(r.Failures()))
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
