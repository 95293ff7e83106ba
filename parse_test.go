package objcompare

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseJSON(t *testing.T) {
	res := Parse(`{"name": "objcompare", "tags": ["json", "yaml"], "n": 1.5, "ok": true, "none": null}`)
	if !res.OK() {
		t.Fatalf("unexpected error: %s", res.Err)
	}

	expect := Object(
		Field{"name", String("objcompare")},
		Field{"tags", Array(String("json"), String("yaml"))},
		Field{"n", Number(1.5)},
		Field{"ok", Bool(true)},
		Field{"none", Null()},
	)
	if !res.Doc.Equal(expect) {
		t.Errorf("document mismatch. got: %s", FormatValue(res.Doc))
	}
	if diff := cmp.Diff([]string{"name", "tags", "n", "ok", "none"}, res.Doc.Keys()); diff != "" {
		t.Errorf("key order mismatch (-want +got):\n%s", diff)
	}
}

func TestParseScalars(t *testing.T) {
	cases := []struct {
		text   string
		expect *Document
	}{
		{`42`, Number(42)},
		{`-0`, Number(0)},
		{`"text"`, String("text")},
		{`true`, Bool(true)},
		{`null`, Null()},
		{`1e400`, Number(math.Inf(1))},
		// yaml-only scalar forms
		{`plain text`, String("plain text")},
		{`~`, Null()},
		{`0x1F`, Number(31)},
		{`1_000`, Number(1000)},
		{`.inf`, Number(math.Inf(1))},
		{`2024-01-02`, String("2024-01-02")},
	}

	for _, c := range cases {
		res := Parse(c.text)
		if !res.OK() {
			t.Errorf("%q: unexpected error: %s", c.text, res.Err)
			continue
		}
		if !res.Doc.Equal(c.expect) {
			t.Errorf("%q: want %s, got %s", c.text, Describe(c.expect), Describe(res.Doc))
		}
	}
}

func TestParseYAMLFallback(t *testing.T) {
	text := `
name: objcompare
tags:
  - json
  - yaml
nested:
  flag: no
  count: 3
`
	res := Parse(text)
	if !res.OK() {
		t.Fatalf("unexpected error: %s", res.Err)
	}

	// yaml.v3 follows YAML 1.2 core, where "no" is a plain string
	expect := Object(
		Field{"name", String("objcompare")},
		Field{"tags", Array(String("json"), String("yaml"))},
		Field{"nested", Object(Field{"flag", String("no")}, Field{"count", Number(3)})},
	)
	if !res.Doc.Equal(expect) {
		t.Errorf("document mismatch. got: %s", FormatValue(res.Doc))
	}
}

func TestParseEquivalentFormats(t *testing.T) {
	a := mustParse(t, `{"a": [1, 2, {"b": null}], "c": "d"}`)
	b := mustParse(t, "c: d\na:\n  - 1\n  - 2\n  - b: ~\n")
	if !a.Equal(b) {
		t.Errorf("JSON & YAML forms of the same value should be equal")
	}
	if changes := Diff(a, b); len(changes) != 0 {
		t.Errorf("expected no changes, got %d", len(changes))
	}
}

func TestParseEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t\n", "# only a comment\n"} {
		res := Parse(text)
		if res.OK() {
			t.Errorf("%q: expected an error", text)
			continue
		}
		if !res.Err.Empty() {
			t.Errorf("%q: expected an empty-input error, got %q", text, res.Err.Reason)
		}
		if !errors.Is(res.Err, ErrEmptyInput) {
			t.Errorf("%q: error should wrap ErrEmptyInput", text)
		}
		if res.Doc != nil {
			t.Errorf("%q: a failed parse must not carry a document", text)
		}
	}

	if got := Parse("").Err.Reason; got != "empty input" {
		t.Errorf("want reason %q, got %q", "empty input", got)
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{
		`not: valid: yaml: {`,
		`{"a": [1, 2}`,
		`a: "unterminated`,
		`[unterminated`,
	}

	for _, text := range cases {
		res := Parse(text)
		if res.OK() {
			t.Errorf("%q: expected an error", text)
			continue
		}
		if res.Err.Empty() {
			t.Errorf("%q: expected a syntax error, got empty input", text)
		}
		if !errors.Is(res.Err, ErrInvalidSyntax) {
			t.Errorf("%q: error should wrap ErrInvalidSyntax", text)
		}
		if res.Err.Reason == "" {
			t.Errorf("%q: reason must not be empty", text)
		}
		if strings.HasPrefix(res.Err.Reason, "yaml:") {
			t.Errorf("%q: reason should not carry the decoder prefix: %q", text, res.Err.Reason)
		}
	}
}

func TestParseJSONStrict(t *testing.T) {
	if _, err := ParseJSON(`{"a": 1} {"b": 2}`); err == nil {
		t.Error("expected trailing data to be rejected")
	}
	if _, err := ParseJSON(`a: 1`); err == nil {
		t.Error("expected yaml to be rejected")
	}
	if _, err := ParseJSON(" "); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("want ErrEmptyInput, got %v", err)
	}

	d, err := ParseJSON(`{"a": 1, "a": 2}`)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := d.Get("a"); !v.Equal(Number(2)) || d.Len() != 1 {
		t.Errorf("repeated key should keep a single entry with the last value")
	}
}

func TestParseYAMLAliases(t *testing.T) {
	text := `
base: &base
  host: localhost
  port: 80
dev:
  <<: *base
  port: 8080
copy: *base
`
	d, err := ParseYAML(text)
	if err != nil {
		t.Fatal(err)
	}

	dev, ok := d.Get("dev")
	if !ok {
		t.Fatal("missing dev key")
	}
	expect := Object(Field{"port", Number(8080)}, Field{"host", String("localhost")})
	if !dev.Equal(expect) {
		t.Errorf("merge mismatch. got: %s", FormatValue(dev))
	}

	base, _ := d.Get("base")
	cp, _ := d.Get("copy")
	if !base.Equal(cp) {
		t.Errorf("alias should resolve to the anchored value")
	}
}

func TestParseYAMLMultipleDocuments(t *testing.T) {
	// only the first document in a stream is read
	d := mustParse(t, "a: 1\n---\nb: 2\n")
	if !d.Equal(Object(Field{"a", Number(1)})) {
		t.Errorf("got %s", FormatValue(d))
	}
}

// nestedAnchors builds a document where each level holds ten aliases of the
// level before it
func nestedAnchors(levels int) string {
	buf := &strings.Builder{}
	buf.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= levels; i++ {
		prev := fmt.Sprintf("*l%d", i-1)
		items := make([]string, 10)
		for j := range items {
			items[j] = prev
		}
		fmt.Fprintf(buf, "l%d: &l%d [%s]\n", i, i, strings.Join(items, ", "))
	}
	return buf.String()
}

func TestParseYAMLAliasesShared(t *testing.T) {
	d := mustParse(t, nestedAnchors(4))
	if d.Count() != 123456 {
		t.Errorf("want 123456 nodes, got %d", d.Count())
	}

	// every alias resolves to the same anchored document
	l3, _ := d.Get("l3")
	l4, _ := d.Get("l4")
	if l4.Index(0) != l3 || l4.Index(9) != l3 {
		t.Error("aliases should share the anchored document")
	}
}

func TestParseYAMLAliasExpansionLimit(t *testing.T) {
	res := Parse(nestedAnchors(6))
	if res.OK() {
		t.Fatal("expected exponentially nested aliases to be rejected")
	}
	if !errors.Is(res.Err, ErrInvalidSyntax) {
		t.Errorf("error should wrap ErrInvalidSyntax, got %q", res.Err.Reason)
	}
	if !strings.Contains(res.Err.Reason, "aliases expand to more than") {
		t.Errorf("unexpected reason %q", res.Err.Reason)
	}
}

func TestParseYAMLSelfReference(t *testing.T) {
	res := Parse("a: &a [1, *a]\n")
	if res.OK() {
		t.Fatal("expected a self-referencing anchor to be rejected")
	}
}
