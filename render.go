package objcompare

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// NoDifferences is the text shown when two documents are equal
const NoDifferences = "no differences"

// Output is what the controller hands to a renderer after each event:
// either NoChanges, an ordered list of change rows, or a single error row
type Output struct {
	NoChanges bool
	Rows      []DisplayRow
}

// IsError reports whether this output is a parse error in place of a diff
func (o Output) IsError() bool {
	return len(o.Rows) == 1 && o.Rows[0].Category == CategoryError
}

// Renderer projects controller output onto a presentation surface. Each call
// replaces whatever the previous call presented
type Renderer interface {
	Render(out Output) error
}

// RendererFunc adapts a function to the Renderer interface
type RendererFunc func(out Output) error

// Render calls f
func (f RendererFunc) Render(out Output) error { return f(out) }

// clearScreen moves the cursor home & erases the terminal
const clearScreen = "\x1b[H\x1b[2J"

// TextRenderer writes output as an aligned text table
type TextRenderer struct {
	w      io.Writer
	clear  bool
	colors map[string]*color.Color
}

// TextRendererOption adjusts a TextRenderer
type TextRendererOption func(r *TextRenderer)

// OptionColor turns ANSI colouring of rows by category on or off
func OptionColor(enabled bool) TextRendererOption {
	return func(r *TextRenderer) {
		for _, c := range r.colors {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// OptionClearScreen erases the terminal before each render so the table
// replaces the previous one in place
func OptionClearScreen(clear bool) TextRendererOption {
	return func(r *TextRenderer) { r.clear = clear }
}

// NewTextRenderer creates a renderer writing to w. colour defaults to off
func NewTextRenderer(w io.Writer, opts ...TextRendererOption) *TextRenderer {
	r := &TextRenderer{
		w: w,
		colors: map[string]*color.Color{
			Removed.String(): color.New(color.FgRed),
			Changed.String(): color.New(color.FgBlue),
			Created.String(): color.New(color.FgGreen),
			CategoryError:    color.New(color.FgHiRed, color.Bold),
			"":               color.New(color.Faint),
		},
	}
	OptionColor(false)(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes the full table for out
func (r *TextRenderer) Render(out Output) error {
	buf := &strings.Builder{}
	if r.clear {
		buf.WriteString(clearScreen)
	}

	if out.NoChanges {
		buf.WriteString(r.colors[""].Sprint(NoDifferences))
		buf.WriteByte('\n')
		_, err := io.WriteString(r.w, buf.String())
		return err
	}

	widths := columnWidths(out.Rows)
	for _, row := range out.Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			if i == len(row.Cells)-1 {
				cells[i] = cell
				continue
			}
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		line := strings.TrimRight(strings.Join(cells, "  "), " ")
		if c, ok := r.colors[row.Category]; ok {
			line = c.Sprint(line)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	if _, err := io.WriteString(r.w, buf.String()); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	return nil
}

func columnWidths(rows []DisplayRow) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row.Cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}
