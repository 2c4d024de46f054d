// Package render provides output formatting for the console.
// Separates presentation from command logic.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Writer wraps an io.Writer with formatting utilities.
type Writer struct {
	out io.Writer
}

// NewWriter creates a Writer that writes to the given io.Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w}
}

// Stdout returns a Writer that writes to os.Stdout.
func Stdout() *Writer {
	return NewWriter(os.Stdout)
}

// Print writes formatted text.
func (w *Writer) Print(format string, args ...any) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes formatted text with newline.
func (w *Writer) Println(format string, args ...any) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Line writes a blank line.
func (w *Writer) Line() {
	fmt.Fprintln(w.out)
}

// Text writes s followed by a newline, without interpreting verbs.
func (w *Writer) Text(s string) {
	fmt.Fprintln(w.out, s)
}

// Error writes a user-facing error as "** msg **".
func (w *Writer) Error(msg string) {
	fmt.Fprintf(w.out, "** %s **\n", msg)
}

// Problem writes an interpreter-level complaint as "*** msg".
func (w *Writer) Problem(format string, args ...any) {
	fmt.Fprintf(w.out, "*** "+format+"\n", args...)
}

// Topics writes a titled, ruled list of names packed into rows no wider
// than width.
func (w *Writer) Topics(header string, names []string, width int) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintln(w.out, color.New(color.Bold).Sprint(header))
	fmt.Fprintln(w.out, strings.Repeat("=", len(header)))
	for _, row := range Columnize(names, width) {
		fmt.Fprintln(w.out, row)
	}
	fmt.Fprintln(w.out)
}

// Columnize packs names into rows separated by two spaces, with every
// column padded to its widest entry. Names are laid out column-major.
func Columnize(names []string, width int) []string {
	if len(names) == 0 {
		return nil
	}
	for nrows := 1; nrows < len(names); nrows++ {
		ncols := (len(names) + nrows - 1) / nrows
		colWidths := make([]int, ncols)
		total := -2
		for col := 0; col < ncols; col++ {
			for row := 0; row < nrows; row++ {
				i := row + nrows*col
				if i < len(names) && len(names[i]) > colWidths[col] {
					colWidths[col] = len(names[i])
				}
			}
			total += colWidths[col] + 2
		}
		if total <= width {
			return layout(names, nrows, colWidths)
		}
	}
	return names
}

func layout(names []string, nrows int, colWidths []int) []string {
	rows := make([]string, 0, nrows)
	for row := 0; row < nrows; row++ {
		var cells []string
		for col := range colWidths {
			i := row + nrows*col
			if i >= len(names) {
				break
			}
			cells = append(cells, names[i])
		}
		for j := 0; j < len(cells)-1; j++ {
			cells[j] = fmt.Sprintf("%-*s", colWidths[j], cells[j])
		}
		rows = append(rows, strings.Join(cells, "  "))
	}
	return rows
}
