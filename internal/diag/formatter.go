package diag

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Formatter renders diagnostics to a writer, with source snippets and
// terminal-gated color. It caches loaded source files by path since the
// same file is usually re-read for several diagnostics in one phase.
type Formatter struct {
	w           *os.File
	color       bool
	sourceCache map[string]string
}

// NewFormatter returns a formatter writing to w. Color is enabled only
// when w is a real terminal.
func NewFormatter(w *os.File) *Formatter {
	return &Formatter{
		w:           w,
		color:       isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()),
		sourceCache: make(map[string]string),
	}
}

func (f *Formatter) loadSource(path string) string {
	if path == "" {
		return ""
	}
	if src, ok := f.sourceCache[path]; ok {
		return src
	}
	data, err := os.ReadFile(path)
	if err != nil {
		f.sourceCache[path] = ""
		return ""
	}
	src := string(data)
	f.sourceCache[path] = src
	return src
}

const (
	ansiReset     = "\x1b[0m"
	ansiBoldRed   = "\x1b[1;31m"
	ansiBoldYel   = "\x1b[1;33m"
	ansiBold      = "\x1b[1m"
	ansiBoldGreen = "\x1b[1;32m"
)

func (f *Formatter) paint(code, s string) string {
	if !f.color {
		return s
	}
	return code + s + ansiReset
}

// Format renders a single diagnostic to the formatter's writer.
func (f *Formatter) Format(d Diagnostic) {
	sev := string(d.Severity)
	if sev == "" {
		sev = "error"
	}
	sevColor := ansiBoldRed
	if d.Severity == SeverityWarning {
		sevColor = ansiBoldYel
	} else if d.Severity == SeverityNote {
		sevColor = ansiBoldGreen
	}
	fmt.Fprintf(f.w, "%s: %s\n", f.paint(sevColor, sev), f.paint(ansiBold, d.Message))

	if d.Path != "" {
		fmt.Fprintf(f.w, "%s %s:%d:%d\n", f.paint(ansiBoldYel, "  -->"), d.Path, d.Span.StartLine, d.Span.StartCol)
		f.printSourceLine(d.Path, d.Span)
	}

	for _, note := range d.Notes {
		fmt.Fprintf(f.w, "  = note: %s\n", note)
	}
}

func (f *Formatter) printSourceLine(path string, span Span) {
	src := f.loadSource(path)
	if src == "" {
		return
	}
	lines := strings.Split(src, "\n")
	if span.StartLine < 1 || span.StartLine > len(lines) {
		return
	}
	line := lines[span.StartLine-1]
	gutter := fmt.Sprintf("%d", span.StartLine)
	fmt.Fprintf(f.w, "%s |\n", strings.Repeat(" ", len(gutter)+1))
	fmt.Fprintf(f.w, " %s | %s\n", gutter, line)

	width := span.EndCol - span.StartCol
	if span.EndLine != span.StartLine || width < 1 {
		width = 1
	}
	caret := strings.Repeat(" ", span.StartCol-1) + strings.Repeat("^", width)
	fmt.Fprintf(f.w, "%s | %s\n", strings.Repeat(" ", len(gutter)+1), f.paint(ansiBoldRed, caret))
}

// FormatAll renders every diagnostic in order, returning the number of
// entries with Severity == SeverityError or an empty Severity.
func (f *Formatter) FormatAll(diags []Diagnostic) int {
	errCount := 0
	for _, d := range diags {
		f.Format(d)
		if d.Severity == SeverityError || d.Severity == "" {
			errCount++
		}
	}
	return errCount
}
