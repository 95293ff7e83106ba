package objcompare

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyInput is wrapped by parse errors for input that holds no document
	ErrEmptyInput = errors.New("empty input")
	// ErrInvalidSyntax is wrapped by parse errors for input neither JSON nor
	// YAML can read
	ErrInvalidSyntax = errors.New("invalid syntax")
)

// ParseError describes text that could not be read as a document. Reason is
// the human-readable message shown to the user
type ParseError struct {
	Reason string
	err    error
}

// Error implements the error interface
func (e *ParseError) Error() string { return e.Reason }

// Unwrap exposes the sentinel error classifying this failure
func (e *ParseError) Unwrap() error { return e.err }

// Empty reports whether this error is an empty-input failure rather than a
// syntax error
func (e *ParseError) Empty() bool { return errors.Is(e.err, ErrEmptyInput) }

// ParseResult holds exactly one of a parsed document or a parse error
type ParseResult struct {
	Doc *Document
	Err *ParseError
}

// OK reports whether parsing produced a document
func (r ParseResult) OK() bool { return r.Err == nil && r.Doc != nil }

// Parse reads text as JSON, falling back to YAML. JSON is tried first as the
// stricter grammar; YAML is a superset that accepts most of what JSON
// rejects. When both fail the YAML error is reported. Parse never panics and
// has no side effects
func Parse(text string) ParseResult {
	if strings.TrimSpace(text) == "" {
		return ParseResult{Err: &ParseError{Reason: ErrEmptyInput.Error(), err: ErrEmptyInput}}
	}

	if doc, err := parseJSON(text); err == nil {
		return ParseResult{Doc: doc}
	}

	doc, err := parseYAML(text)
	if err != nil {
		if errors.Is(err, ErrEmptyInput) {
			return ParseResult{Err: &ParseError{Reason: "no document found", err: ErrEmptyInput}}
		}
		return ParseResult{Err: &ParseError{Reason: strings.TrimPrefix(err.Error(), "yaml: "), err: ErrInvalidSyntax}}
	}
	return ParseResult{Doc: doc}
}

// ParseJSON reads text as strict JSON only
func ParseJSON(text string) (*Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	return parseJSON(text)
}

// ParseYAML reads text as YAML only
func ParseYAML(text string) (*Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	return parseYAML(text)
}

func parseJSON(text string) (*Document, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	doc, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset())
		}
		return nil, err
	}
	return doc, nil
}

func decodeJSONValue(dec *json.Decoder) (*Document, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch x := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case json.Number:
		return Number(parseFloat(x.String())), nil
	case json.Delim:
		switch x {
		case '[':
			var items []*Document
			for dec.More() {
				it, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, it)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return Array(items...), nil
		case '{':
			var fields []Field
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("invalid object key %v at offset %d", kt, dec.InputOffset())
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				fields = append(fields, Field{Key: key, Value: v})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return Object(fields...), nil
		}
	}
	return nil, fmt.Errorf("unexpected token %v at offset %d", tok, dec.InputOffset())
}

// parseFloat reads a numeric literal. out-of-range values saturate to
// infinity rather than failing
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

func parseYAML(text string) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || (root.Kind == yaml.DocumentNode && len(root.Content) == 0) {
		return nil, ErrEmptyInput
	}
	r := &yamlReader{anchors: map[*yaml.Node]*Document{}}
	return r.read(&root, 0)
}

const (
	// maxAliasDepth bounds nesting, guarding against self-referencing
	// anchors
	maxAliasDepth = 1000
	// maxAliasNodes bounds the nodes all aliases in one document may expand
	// to, guarding against exponentially nested anchors
	maxAliasNodes = 1000000
)

// yamlReader converts a yaml node tree into a document. anchored nodes are
// converted once and shared by every alias that refers to them
type yamlReader struct {
	anchors  map[*yaml.Node]*Document
	expanded int
}

func (r *yamlReader) read(n *yaml.Node, depth int) (*Document, error) {
	if depth > maxAliasDepth {
		return nil, fmt.Errorf("line %d: document nested too deeply", n.Line)
	}
	if d, ok := r.anchors[n]; ok {
		return d, nil
	}

	d, err := r.convert(n, depth)
	if err != nil {
		return nil, err
	}
	if n.Anchor != "" {
		r.anchors[n] = d
	}
	return d, nil
}

func (r *yamlReader) convert(n *yaml.Node, depth int) (*Document, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return r.read(n.Content[0], depth+1)
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown alias %q", n.Line, n.Value)
		}
		d, err := r.read(n.Alias, depth+1)
		if err != nil {
			return nil, err
		}
		r.expanded += d.Count()
		if r.expanded > maxAliasNodes {
			return nil, fmt.Errorf("line %d: aliases expand to more than %d nodes", n.Line, maxAliasNodes)
		}
		return d, nil
	case yaml.SequenceNode:
		items := make([]*Document, len(n.Content))
		for i, ch := range n.Content {
			d, err := r.read(ch, depth+1)
			if err != nil {
				return nil, err
			}
			items[i] = d
		}
		return Array(items...), nil
	case yaml.MappingNode:
		fields, err := r.fields(n, depth)
		if err != nil {
			return nil, err
		}
		return Object(fields...), nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return nil, fmt.Errorf("line %d: unsupported yaml node", n.Line)
}

// fields flattens a mapping node, expanding "<<" merge keys. explicitly
// written keys take precedence over merged ones
func (r *yamlReader) fields(n *yaml.Node, depth int) ([]Field, error) {
	var (
		own    []Field
		merged []Field
	)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			srcs := []*yaml.Node{v}
			if v.Kind == yaml.SequenceNode {
				srcs = v.Content
			}
			for _, src := range srcs {
				d, err := r.read(src, depth+1)
				if err != nil {
					return nil, err
				}
				if d.Type() != NTObject {
					return nil, fmt.Errorf("line %d: map merge requires map or sequence of maps as the value", v.Line)
				}
				for _, key := range d.Keys() {
					val, _ := d.Get(key)
					merged = append(merged, Field{Key: key, Value: val})
				}
			}
			continue
		}

		key, err := r.key(k, depth)
		if err != nil {
			return nil, err
		}
		val, err := r.read(v, depth+1)
		if err != nil {
			return nil, err
		}
		own = append(own, Field{Key: key, Value: val})
	}

	if len(merged) == 0 {
		return own, nil
	}

	// earlier merge sources win over later ones, explicit keys win over all
	seen := map[string]bool{}
	for _, f := range own {
		seen[f.Key] = true
	}
	fields := own
	for _, f := range merged {
		if !seen[f.Key] {
			seen[f.Key] = true
			fields = append(fields, f)
		}
	}
	return fields, nil
}

// key stringifies a mapping key. scalar keys use their source text, complex
// keys use their JSON encoding
func (r *yamlReader) key(k *yaml.Node, depth int) (string, error) {
	for k.Kind == yaml.AliasNode && k.Alias != nil {
		k = k.Alias
	}
	if k.Kind == yaml.ScalarNode {
		if k.ShortTag() == "!!null" {
			return "null", nil
		}
		return k.Value, nil
	}
	d, err := r.read(k, depth+1)
	if err != nil {
		return "", err
	}
	data, err := d.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func yamlScalar(n *yaml.Node) (*Document, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Number(float64(i)), nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return Number(float64(u)), nil
		}
		return Number(parseFloat(strings.ReplaceAll(n.Value, "_", ""))), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return Number(f), nil
	default:
		// strings, timestamps, binary & custom tags all keep their source text
		return String(n.Value), nil
	}
}
