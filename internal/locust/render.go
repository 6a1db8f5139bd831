package locust

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Format selects the output representation of a comparison.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// RenderOptions controls comparison output.
type RenderOptions struct {
	Format      Format
	Colorize    bool // ANSI colors in text output
	ShowVerdict bool // verdict column in markdown output
}

// Render writes the comparison to w in the requested format.
func Render(w io.Writer, c *Comparison, opts RenderOptions) error {
	switch opts.Format {
	case FormatText, "":
		return renderText(w, c, opts.Colorize)
	case FormatMarkdown:
		return renderMarkdown(w, c, opts.ShowVerdict)
	case FormatJSON:
		return renderJSON(w, c)
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}

// --- text ---

func renderText(w io.Writer, c *Comparison, colorize bool) error {
	styles := newTextStyles(w, colorize)

	printTextSection(w, "Aggregated", c.Aggregated, styles)
	for _, s := range c.Endpoints {
		printTextSection(w, "Endpoint: "+s.Key, s, styles)
	}
	if len(c.Features) > 0 {
		fmt.Fprintf(w, "\n%s\n%s\n", "HTML Features", strings.Repeat("-", len("HTML Features")))
		for _, s := range c.Features {
			printTextSection(w, "Feature: "+s.Key, s, styles)
		}
	}
	return nil
}

type textStyles struct {
	colorize bool
	better   lipgloss.Style
	worse    lipgloss.Style
}

// newTextStyles forces the ANSI profile when color is requested so output is
// stable whether or not stdout is a terminal (the flag, not TTY detection,
// decides).
func newTextStyles(w io.Writer, colorize bool) textStyles {
	r := lipgloss.NewRenderer(w)
	if colorize {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return textStyles{
		colorize: colorize,
		better:   r.NewStyle().Foreground(lipgloss.Color("2")),
		worse:    r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

func (st textStyles) pct(metric string, d MetricDelta) string {
	s := formatPct(d.PctChange)
	if !st.colorize {
		return s
	}
	switch VerdictFor(metric, d.PctChange) {
	case VerdictBetter:
		return st.better.Render(s)
	case VerdictWorse:
		return st.worse.Render(s)
	default:
		return s
	}
}

func printTextSection(w io.Writer, title string, s Section, styles textStyles) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))

	headers := []string{"Metric", "Base", "Current", "Diff", "% Change"}
	rows := make([][]string, 0, len(s.Fields()))
	for _, field := range s.Fields() {
		d := s.Delta(field)
		rows = append(rows, []string{
			field,
			formatNumber(d.Base),
			formatNumber(d.Current),
			formatDiff(d.Diff),
			styles.pct(field, d),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := lipgloss.Width(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	printPadded(w, headers, widths)
	seps := make([]string, len(headers))
	for i := range headers {
		seps[i] = strings.Repeat("-", widths[i])
	}
	printPadded(w, seps, widths)
	for _, row := range rows {
		printPadded(w, row, widths)
	}
}

// printPadded left-justifies cells to visible width (ANSI-aware) with a
// two-space gutter.
func printPadded(w io.Writer, cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		pad := widths[i] - lipgloss.Width(cell)
		if pad < 0 {
			pad = 0
		}
		parts[i] = cell + strings.Repeat(" ", pad)
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
}

// --- markdown ---

func renderMarkdown(w io.Writer, c *Comparison, showVerdict bool) error {
	fmt.Fprintln(w, "# Locust Performance Comparison")

	fmt.Fprintln(w, "\n## Aggregated")
	printMarkdownTable(w, c.Aggregated, showVerdict)

	for _, s := range c.Endpoints {
		fmt.Fprintf(w, "\n### Endpoint: %s\n", s.Key)
		printMarkdownTable(w, s, showVerdict)
	}

	if len(c.Features) > 0 {
		fmt.Fprintln(w, "\n## HTML Features")
		for _, s := range c.Features {
			fmt.Fprintf(w, "\n### Feature: %s\n", s.Key)
			printMarkdownTable(w, s, showVerdict)
		}
	}
	return nil
}

func printMarkdownTable(w io.Writer, s Section, showVerdict bool) {
	headers := []string{"Metric", "Base", "Current", "Diff", "% Change"}
	if showVerdict {
		headers = append(headers, "Verdict")
	}
	fmt.Fprintf(w, "| %s |\n", strings.Join(headers, " | "))
	fmt.Fprintf(w, "|%s\n", strings.Repeat(" --- |", len(headers)))

	for _, field := range s.Fields() {
		d := s.Delta(field)
		cells := []string{
			field,
			formatNumber(d.Base),
			formatNumber(d.Current),
			formatDiff(d.Diff),
			formatPct(d.PctChange),
		}
		if showVerdict {
			cells = append(cells, VerdictEmoji(VerdictFor(field, d.PctChange)))
		}
		fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | "))
	}
}

// --- json ---

func renderJSON(w io.Writer, c *Comparison) error {
	out := make(map[string]map[string]MetricDelta)

	addSection := func(key string, s Section) {
		entry := make(map[string]MetricDelta)
		for _, field := range s.AllFields() {
			entry[field] = s.Delta(field)
		}
		out[key] = entry
	}

	addSection(AggregatedKey, c.Aggregated)
	for _, s := range c.Endpoints {
		addSection(s.Key, s)
	}
	for _, s := range c.Features {
		addSection("HTML:"+s.Key, s)
	}

	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}

// --- number formatting ---

func formatNumber(v *float64) string {
	if v == nil {
		return "-"
	}
	if isIntegral(*v) {
		return fmt.Sprintf("%d", int64(math.Round(*v)))
	}
	return fmt.Sprintf("%.3f", *v)
}

func formatDiff(v *float64) string {
	if v == nil {
		return "-"
	}
	if isIntegral(*v) {
		return fmt.Sprintf("%+d", int64(math.Round(*v)))
	}
	return fmt.Sprintf("%+.3f", *v)
}

func formatPct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", *v)
}

func isIntegral(v float64) bool {
	return math.Abs(v-math.Round(v)) < 1e-9
}
