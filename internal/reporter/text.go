package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tinovyatkin/earthscan/internal/dependency"
)

type styles struct {
	file    lipgloss.Style
	name    lipgloss.Style
	value   lipgloss.Style
	skipped lipgloss.Style
	marker  lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		file:    r.NewStyle().Bold(true).Underline(true),
		name:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		value:   r.NewStyle().Foreground(lipgloss.Color("10")),
		skipped: r.NewStyle().Faint(true),
		marker:  r.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// PrintText writes one block per dependency with the lines an update
// would rewrite.
//
// Example output:
//
//	Earthfile
//	build golang:1.22 (docker.io/library/golang)
//	--------------------
//	   3 |     ARG GO_VERSION=1.22
//	   4 | >>> FROM golang:$GO_VERSION
//	--------------------
func PrintText(w io.Writer, results []FileResult, opts Options) error {
	st := newStyles(w, opts.Color)
	for _, res := range results {
		deps := res.Deps
		if !opts.ShowSkipped {
			deps = withoutSkipped(deps)
		}
		if len(deps) == 0 {
			continue
		}

		fmt.Fprintf(w, "%s\n", st.file.Render(res.File))
		for _, d := range deps {
			printDependency(w, st, d, string(res.Source))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func withoutSkipped(deps []dependency.Descriptor) []dependency.Descriptor {
	var out []dependency.Descriptor
	for _, d := range deps {
		if !d.Skipped() {
			out = append(out, d)
		}
	}
	return out
}

func printDependency(w io.Writer, st styles, d dependency.Descriptor, source string) {
	if d.Skipped() {
		fmt.Fprintf(w, "%s\n", st.skipped.Render(fmt.Sprintf("%s %s (skipped: %s)", d.DepType, d.ReplaceString, d.SkipReason)))
		return
	}

	version := d.CurrentValue
	if d.CurrentDigest != "" {
		version += "@" + d.CurrentDigest
	}
	line := fmt.Sprintf("%s %s", d.DepType, st.name.Render(d.DepName))
	if version != "" {
		line += ":" + st.value.Render(version)
	}
	if ref := parseImageRef(d); ref != nil {
		line += fmt.Sprintf(" (%s/%s)", ref.Domain(), ref.Path())
	}
	if d.Versioning != "" {
		line += " [" + d.Versioning + "]"
	}
	fmt.Fprintln(w, line)

	printSpan(w, st, d, source)
}

// printSpan renders the lines covered by the replace string of d, padded
// with one line of context on each side. The span is looked up from
// d.Offset onwards.
func printSpan(w io.Writer, st styles, d dependency.Descriptor, source string) {
	span := d.ReplaceString
	if span == "" || d.Offset < 0 || d.Offset > len(source) {
		return
	}
	idx := strings.Index(source[d.Offset:], span)
	if idx < 0 {
		return
	}
	idx += d.Offset
	lines := strings.Split(source, "\n")
	start := strings.Count(source[:idx], "\n")
	end := start + strings.Count(strings.TrimSuffix(span, "\n"), "\n")

	from := max(start-1, 0)
	to := min(end+1, len(lines)-1)

	fmt.Fprintf(w, "--------------------\n")
	for i := from; i <= to; i++ {
		pfx := "   "
		if i >= start && i <= end {
			pfx = st.marker.Render(">>>")
		}
		fmt.Fprintf(w, " %3d | %s %s\n", i+1, pfx, strings.TrimRight(lines[i], "\r"))
	}
	fmt.Fprintf(w, "--------------------\n")
}
