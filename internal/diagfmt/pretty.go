package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"nlib/internal/diag"
	"nlib/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty prints diagnostics in a human-readable form:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//	  12 | i32 abs(i32 x,);
//	     |               ^
//	  note: <path>:<line>:<col>: <message>
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		writeDiagnostic(w, p, d, fs, opts)
	}
}

// PrettyError prints a load failure. Positioned *diag.Error values get the
// full diagnostic layout; anything else is printed as a single line.
func PrettyError(w io.Writer, err error, fs *source.FileSet, opts PrettyOpts) {
	if err == nil {
		return
	}
	p := newPalette(opts.Color)
	de, ok := diag.AsError(err)
	if !ok {
		fmt.Fprintf(w, "%s: %s\n", p.err.Sprint("error"), err)
		return
	}
	if de.Pos.Line == 0 || fs == nil || fs.Get(de.Span.File) == nil {
		if de.Path != "" {
			fmt.Fprintf(w, "%s: ", formatPath(de.Path, opts.PathMode, opts.BaseDir))
		}
		fmt.Fprintf(w, "%s %s: %s\n", p.err.Sprint("ERROR"), p.code.Sprint(de.Code.ID()), de.Diagnostic().Message)
		return
	}
	writeDiagnostic(w, p, de.Diagnostic(), fs, opts)
}

func writeDiagnostic(w io.Writer, p palette, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	var f *source.File
	if fs != nil {
		f = fs.Get(d.Primary.File)
	}
	sev := p.severity(d.Severity)
	if f == nil {
		fmt.Fprintf(w, "%s %s: %s\n", sev.Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
		return
	}

	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(f.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col,
		sev.Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
	writeSnippet(w, p, f, start, end, opts.Context)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			writeNote(w, p, n, fs, opts)
		}
	}
}

func writeNote(w io.Writer, p palette, n diag.Note, fs *source.FileSet, opts PrettyOpts) {
	f := fs.Get(n.Span.File)
	if f == nil {
		fmt.Fprintf(w, "  %s: %s\n", p.note.Sprint("note"), n.Msg)
		return
	}
	pos, _ := fs.Resolve(n.Span)
	fmt.Fprintf(w, "  %s: %s:%d:%d: %s\n", p.note.Sprint("note"),
		formatPath(f.Path, opts.PathMode, opts.BaseDir), pos.Line, pos.Col, n.Msg)
}

func writeSnippet(w io.Writer, p palette, f *source.File, start, end source.LineCol, context int) {
	if start.Line == 0 {
		return
	}
	first := start.Line
	if context > 0 {
		if uint32(context) >= first {
			first = 1
		} else {
			first -= uint32(context)
		}
	}
	gutterWidth := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, "  %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), f.GetLine(ln))
	}

	line := f.GetLine(start.Line)
	from := clampCol(start.Col, line)
	to := len(line)
	if end.Line == start.Line {
		to = clampCol(end.Col, line)
	}
	pad := caretPad(line[:from])
	width := 1
	if to > from {
		width = max(runewidth.StringWidth(line[from:to]), 1)
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "  %s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), pad, p.caret.Sprint(marker))
}

// clampCol переводит 1-based колонку в байтовый индекс строки.
func clampCol(col uint32, line string) int {
	if col == 0 {
		return 0
	}
	idx := int(col) - 1
	return min(idx, len(line))
}

// caretPad повторяет ширину префикса, сохраняя табы.
func caretPad(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}
