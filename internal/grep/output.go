package grep

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/mgutz/ansi"
)

// Output handles all output formatting with optional color and hyperlink support.
type Output struct {
	stdout     io.Writer
	stderr     io.Writer
	hyperlinks bool

	red     func(string) string
	magenta func(string) string
	yellow  func(string) string
}

// NewOutput creates a new Output with optional color and hyperlink support.
func NewOutput(stdout, stderr io.Writer, colorize, hyperlinks bool) *Output {
	color := func(name string) func(string) string {
		if colorize {
			return ansi.ColorFunc(name)
		}
		return ansi.ColorFunc("")
	}

	return &Output{
		stdout:     stdout,
		stderr:     stderr,
		hyperlinks: hyperlinks,
		red:        color("red+b"),
		magenta:    color("magenta"),
		yellow:     color("yellow"),
	}
}

func makeHyperlink(url, text string) string {
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// fileURL returns a file:// URL for path, or "" if it cannot be made absolute.
func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	return "file://" + filepath.ToSlash(abs)
}

// prefix formats the path portion of an output line.
func (o *Output) prefix(path string) string {
	formatted := o.magenta(path)
	if o.hyperlinks {
		if url := fileURL(path); url != "" {
			formatted = makeHyperlink(url, formatted)
		}
	}
	return formatted
}

// Highlight wraps line[start:end] in the match color.
func (o *Output) Highlight(line string, start, end int) string {
	if start >= end {
		return line
	}
	return line[:start] + o.red(line[start:end]) + line[end:]
}

// Line writes a selected line, prefixed with path when path is non-empty.
func (o *Output) Line(path, line string) {
	if path == "" {
		fmt.Fprintf(o.stdout, "%s\n", line)
		return
	}
	fmt.Fprintf(o.stdout, "%s:%s\n", o.prefix(path), line)
}

// Binary writes the notice for a binary file whose bytes match.
func (o *Output) Binary(path string) {
	fmt.Fprintf(o.stdout, "%s: binary file matches\n", path)
}

// Errorf writes a formatted per-file error message to stderr.
func (o *Output) Errorf(format string, args ...any) {
	fmt.Fprintf(o.stderr, format+"\n", args...)
}

// Warningf writes a formatted warning message to stderr.
func (o *Output) Warningf(format string, args ...any) {
	fmt.Fprintf(o.stderr, o.yellow("Warning: ")+format+"\n", args...)
}
