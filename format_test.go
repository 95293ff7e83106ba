package objcompare

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDescribe(t *testing.T) {
	cases := []struct {
		in     *Document
		expect string
	}{
		{nil, ""},
		{Number(1), "1 (number)"},
		{Number(-2.5), "-2.5 (number)"},
		{Number(1e21), "1e+21 (number)"},
		{Number(0.0000001), "1e-07 (number)"},
		{Number(math.Inf(1)), "Infinity (number)"},
		{String("apples"), `"apples" (string)`},
		{String(`say "hi" <b>`), `"say \"hi\" <b>" (string)`},
		{String(""), `"" (string)`},
		{Bool(false), "false (boolean)"},
		{Null(), "null (null)"},
		{Array(Number(1), Number(2)), "[...] (array)"},
		{Array(), "[...] (array)"},
		{Object(), "{...} (object)"},
		{Object(Field{"a", Object(Field{"b", Array(Object())})}), "{...} (object)"},
	}

	for i, c := range cases {
		if got := Describe(c.in); got != c.expect {
			t.Errorf("case %d: want %q, got %q", i, c.expect, got)
		}
	}
}

func TestFormatValueRoundTrip(t *testing.T) {
	scalars := []*Document{
		Number(0),
		Number(42),
		Number(-17.25),
		Number(123456789012),
		Number(1e-9),
		Number(3e300),
		String("plain"),
		String("with \"quotes\" and\nnewlines\t"),
		String("123"),
		String("true"),
		String("ünïcödé → ✓"),
		Bool(true),
		Bool(false),
		Null(),
	}

	for _, d := range scalars {
		lit := FormatValue(d)
		res := Parse(lit)
		if !res.OK() {
			t.Errorf("%s: re-reading literal failed: %s", lit, res.Err)
			continue
		}
		if res.Doc.Type() != d.Type() {
			t.Errorf("%s: type mismatch. want %s, got %s", lit, d.Type(), res.Doc.Type())
		}
		if !res.Doc.Equal(d) {
			t.Errorf("%s: value mismatch after round trip", lit)
		}
	}
}

func TestFormatValueCollapsesNesting(t *testing.T) {
	deep := Array()
	for i := 0; i < 10; i++ {
		deep = Array(Object(Field{"level", deep}))
	}
	if got := FormatValue(deep); got != ArrayPlaceholder {
		t.Errorf("want %s, got %s", ArrayPlaceholder, got)
	}
	if got := FormatValue(Object(Field{"a", deep})); got != ObjectPlaceholder {
		t.Errorf("want %s, got %s", ObjectPlaceholder, got)
	}
}

func TestRows(t *testing.T) {
	changes := Changes{
		{Kind: Created, Path: Path{StringAddr("x")}, New: Array(Number(1), Number(2))},
		{Kind: Changed, Path: Path{StringAddr("a")}, Old: Number(1), New: Number(2)},
		{Kind: Removed, Path: Path{StringAddr("b"), IndexAddr(0)}, Old: String("gone")},
	}

	expect := []DisplayRow{
		{Category: "remove", Cells: []string{"REMOVE", "b.0", `"gone" (string)`}},
		{Category: "change", Cells: []string{"CHANGE", "a", "1 (number) → 2 (number)"}},
		{Category: "create", Cells: []string{"CREATE", "x", "[...] (array)"}},
	}

	if diff := cmp.Diff(expect, Rows(changes)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	f := &Formatter{Separator: " => "}
	row := f.Row(changes[1])
	if got := row.Cells[2]; got != "1 (number) => 2 (number)" {
		t.Errorf("custom separator not applied: %q", got)
	}
}

func TestErrorRow(t *testing.T) {
	row := ErrorRow("old", "mapping values are not allowed in this context")
	expect := DisplayRow{Category: CategoryError, Cells: []string{"ERROR", "old", "mapping values are not allowed in this context"}}
	if diff := cmp.Diff(expect, row); diff != "" {
		t.Errorf("error row mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatPretty(t *testing.T) {
	changes := Changes{
		{Kind: Created, Path: Path{StringAddr("a")}, New: Number(5)},
		{Kind: Changed, Path: Path{StringAddr("b")}, Old: Number(4), New: Number(5)},
		{Kind: Removed, Path: Path{StringAddr("c")}, Old: Number(5)},
	}

	str, err := FormatPrettyString(changes, false)
	if err != nil {
		t.Fatal(err)
	}
	expect := "- c: 5\n~ b: 4 → 5\n+ a: 5\n"
	if str != expect {
		t.Errorf("want:\n%s\ngot:\n%s", expect, str)
	}

	str, err = FormatPrettyString(changes[:1], true)
	if err != nil {
		t.Fatal(err)
	}
	if expect := "\x1b[32m+ a: 5\x1b[0m\n"; str != expect {
		t.Errorf("want %q, got %q", expect, str)
	}
}

func TestFormatStatsPretty(t *testing.T) {
	cases := []struct {
		description string
		input       *Stats
		expect      string
	}{
		{"all plural",
			&Stats{Left: 2, Right: 6, Creates: 6, Changes: 2, Removes: 2},
			"+4 elements. 6 creations. 2 removals. 2 changes.\n",
		},
		{"all singular",
			&Stats{Left: 2, Right: 1, Creates: 1, Changes: 1, Removes: 1},
			"-1 element. 1 creation. 1 removal. 1 change.\n",
		},
	}

	for i, c := range cases {
		got := FormatPrettyStats(c.input)
		if got != c.expect {
			t.Errorf("%d %s\nwant:\n%s\ngot:\n%s", i, c.description, c.expect, got)
		}
	}
}

func TestFormatStatsColor(t *testing.T) {
	got := FormatPrettyStatsColor(&Stats{Left: 3, Right: 2, Removes: 1})
	expect := "\x1b[31m-1 \x1b[0m\x1b[37melement\x1b[0m." +
		" \x1b[32m0 creations.\x1b[0m" +
		" \x1b[31m1 removal.\x1b[0m" +
		" \x1b[34m0 changes.\x1b[0m\n"
	if got != expect {
		t.Errorf("want %q, got %q", expect, got)
	}
}

func TestFormatStatsNull(t *testing.T) {
	got := FormatPrettyStats(nil)
	expect := ``
	if got != expect {
		t.Errorf("want:\n%s\ngot:\n%s", expect, got)
	}
}
