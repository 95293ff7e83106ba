package objcompare

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	// ObjectPlaceholder stands in for any object value in a descriptor
	ObjectPlaceholder = "{...}"
	// ArrayPlaceholder stands in for any array value in a descriptor
	ArrayPlaceholder = "[...]"
	// DefaultSeparator sits between the old & new descriptors of a Changed row
	DefaultSeparator = " → "
	// CategoryError is the display category of a parse error row
	CategoryError = "error"
)

// DisplayRow is the rendering-ready projection of a change or a parse error.
// Category is a styling label, Cells are ordered columns
type DisplayRow struct {
	Category string   `json:"category"`
	Cells    []string `json:"cells"`
}

// FormatValue renders a document as a compact literal. strings are quoted,
// numbers use their shortest form, and objects & arrays always collapse to
// a fixed placeholder regardless of depth. nil renders as the empty string
func FormatValue(d *Document) string {
	switch d.Type() {
	case NTObject:
		return ObjectPlaceholder
	case NTArray:
		return ArrayPlaceholder
	case NTString:
		return quote(d.StringValue())
	case NTNumber:
		return formatNumber(d.NumberValue())
	case NTBool:
		return strconv.FormatBool(d.BoolValue())
	case NTNull:
		return "null"
	}
	return ""
}

// Describe renders a value descriptor: the literal followed by its type name
// in parens, eg: `"a" (string)`. nil describes as the empty string
func Describe(d *Document) string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("%s (%s)", FormatValue(d), d.Type())
}

// Formatter projects changes into display rows
type Formatter struct {
	// Separator is placed between descriptors of Changed rows
	Separator string
}

// NewFormatter returns a formatter using DefaultSeparator
func NewFormatter() *Formatter {
	return &Formatter{Separator: DefaultSeparator}
}

// Row projects a single change into cells: label, path, descriptors
func (f *Formatter) Row(c *Change) DisplayRow {
	sep := ""
	if c.Kind == Changed {
		sep = f.Separator
	}
	return DisplayRow{
		Category: c.Kind.String(),
		Cells:    []string{c.Kind.Label(), c.Path.String(), Describe(c.Old) + sep + Describe(c.New)},
	}
}

// Rows sorts changes into display order and projects each one into a row
func (f *Formatter) Rows(changes Changes) []DisplayRow {
	sorted := Sort(changes)
	rows := make([]DisplayRow, len(sorted))
	for i, c := range sorted {
		rows[i] = f.Row(c)
	}
	return rows
}

// Row projects a change using the default formatter
func Row(c *Change) DisplayRow { return NewFormatter().Row(c) }

// Rows sorts & projects changes using the default formatter
func Rows(changes Changes) []DisplayRow { return NewFormatter().Rows(changes) }

// ErrorRow is the row shown in place of a diff when side cannot be parsed
func ErrorRow(side, reason string) DisplayRow {
	return DisplayRow{
		Category: CategoryError,
		Cells:    []string{"ERROR", side, reason},
	}
}

// formatNumber writes numbers the way a browser prints them: integers
// without a fraction, exponents only for very large or very small values
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// quote renders s as a JSON string literal without HTML escaping
func quote(s string) string {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// FormatPrettyString is FormatPretty into a string
func FormatPrettyString(changes Changes, colorTTY bool) (string, error) {
	buf := &bytes.Buffer{}
	if err := FormatPretty(buf, changes, colorTTY); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FormatPretty writes one "-", "~" or "+" line per change to w, in the
// order Sort gives. colorTTY wraps removals in red, changes in blue and
// creations in green
func FormatPretty(w io.Writer, changes Changes, colorTTY bool) error {
	for _, c := range Sort(changes) {
		var line string
		switch c.Kind {
		case Created:
			line = fmt.Sprintf("+ %s: %s", c.Path, FormatValue(c.New))
		case Removed:
			line = fmt.Sprintf("- %s: %s", c.Path, FormatValue(c.Old))
		case Changed:
			line = fmt.Sprintf("~ %s: %s%s%s", c.Path, FormatValue(c.Old), DefaultSeparator, FormatValue(c.New))
		}
		if _, err := fmt.Fprintln(w, paint(colorTTY, kindColors[c.Kind], line)); err != nil {
			return err
		}
	}
	return nil
}

const (
	ansiReset   = "\x1b[0m"
	ansiNeutral = "\x1b[37m"
)

var kindColors = map[Kind]string{
	Removed: "\x1b[31m",
	Changed: "\x1b[34m",
	Created: "\x1b[32m",
}

// paint wraps s in an ANSI colour sequence when enabled
func paint(enabled bool, code, s string) string {
	if !enabled {
		return s
	}
	return code + s + ansiReset
}

// FormatPrettyStats summarizes node count change & created, removed and
// changed node tallies on one line
func FormatPrettyStats(st *Stats) string {
	return formatStats(st, false)
}

// FormatPrettyStatsColor is FormatPrettyStats with each tally coloured like
// its change kind
func FormatPrettyStatsColor(st *Stats) string {
	return formatStats(st, true)
}

func formatStats(st *Stats, color bool) string {
	if st == nil {
		return ""
	}

	delta := st.NodeChange()
	deltaColor, sign := ansiNeutral, ""
	switch {
	case delta > 0:
		deltaColor, sign = kindColors[Created], "+"
	case delta < 0:
		deltaColor = kindColors[Removed]
	}
	word := "elements"
	if delta == 1 || delta == -1 {
		word = "element"
	}

	buf := &strings.Builder{}
	fmt.Fprintf(buf, "%s%s.",
		paint(color, deltaColor, fmt.Sprintf("%s%d ", sign, delta)),
		paint(color, ansiNeutral, word))
	fmt.Fprintf(buf, " %s", paint(color, kindColors[Created], fmt.Sprintf("%d %s.", st.Creates, plural(st.Creates, "creation"))))
	fmt.Fprintf(buf, " %s", paint(color, kindColors[Removed], fmt.Sprintf("%d %s.", st.Removes, plural(st.Removes, "removal"))))
	fmt.Fprintf(buf, " %s", paint(color, kindColors[Changed], fmt.Sprintf("%d %s.", st.Changes, plural(st.Changes, "change"))))
	buf.WriteByte('\n')
	return buf.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
