package objcompare

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"hash/fnv"
	"math"
	"sort"
	"strconv"
)

// NodeType defines all of the atoms in our universe, or the types of data we
// will encounter while generating a diff
type NodeType uint8

const (
	// NTUnknown defines a type outside our universe, should never be encountered
	NTUnknown NodeType = iota
	// NTObject is a mapping of unique string keys to documents
	NTObject
	// NTArray is an ordered sequence of documents
	NTArray
	// NTString is a text scalar
	NTString
	// NTNumber is a numeric scalar. integers & floats are not distinguished
	NTNumber
	// NTBool is a boolean scalar
	NTBool
	// NTNull is the null scalar
	NTNull
)

// String returns the type name used in value descriptors
func (nt NodeType) String() string {
	switch nt {
	case NTObject:
		return "object"
	case NTArray:
		return "array"
	case NTString:
		return "string"
	case NTNumber:
		return "number"
	case NTBool:
		return "boolean"
	case NTNull:
		return "null"
	default:
		return "unknown"
	}
}

// Compound reports whether values of this type contain child documents
func (nt NodeType) Compound() bool {
	return nt == NTObject || nt == NTArray
}

// NewHash returns a new hash interface, wrapped in a function for easy
// hash algorithm switching. default is 64-bit FNV 1 for fast, cheap,
// (non-cryptographic) hashing
var NewHash = func() hash.Hash {
	return fnv.New64()
}

// hashStr converts a hash sum to a string using hex encoding
func hashStr(sum []byte) string {
	return hex.EncodeToString(sum)
}

// Document is the canonical in-memory form of a parsed JSON or YAML value.
// Documents are immutable once constructed; every constructor computes the
// content hash and weight of the node up front
type Document struct {
	t NodeType

	b bool
	n float64
	s string

	items  []*Document
	keys   []string
	fields map[string]*Document

	hash   []byte
	weight int
	count  int
}

// Field is a single key/value pair used to construct an object
type Field struct {
	Key   string
	Value *Document
}

// Null returns a null document
func Null() *Document {
	return scalar(NTNull, "null", func(d *Document) {})
}

// Bool returns a boolean document
func Bool(b bool) *Document {
	return scalar(NTBool, strconv.FormatBool(b), func(d *Document) { d.b = b })
}

// Number returns a numeric document. negative zero is normalized to zero
func Number(f float64) *Document {
	if f == 0 {
		f = 0
	}
	return scalar(NTNumber, formatNumber(f), func(d *Document) { d.n = f })
}

// String returns a text document
func String(s string) *Document {
	return scalar(NTString, s, func(d *Document) { d.s = s })
}

func scalar(t NodeType, repr string, set func(d *Document)) *Document {
	h := NewHash()
	h.Write([]byte{byte(t)})
	h.Write([]byte(repr))
	d := &Document{
		t:      t,
		hash:   h.Sum(nil),
		weight: len(repr),
		count:  1,
	}
	set(d)
	return d
}

// Array returns a sequence document holding items in order. nil items are
// stored as null
func Array(items ...*Document) *Document {
	d := &Document{t: NTArray, items: make([]*Document, len(items)), weight: 1, count: 1}
	h := NewHash()
	h.Write([]byte{byte(NTArray)})
	for i, it := range items {
		if it == nil {
			it = Null()
		}
		d.items[i] = it
		h.Write(it.hash)
		d.weight += it.weight
		d.count += it.count
	}
	d.hash = h.Sum(nil)
	return d
}

// Object returns a mapping document. Keys keep the order they are first
// given in; a repeated key keeps its first position and takes the last value
func Object(fields ...Field) *Document {
	d := &Document{t: NTObject, fields: make(map[string]*Document, len(fields)), weight: 1, count: 1}
	for _, f := range fields {
		v := f.Value
		if v == nil {
			v = Null()
		}
		if _, exists := d.fields[f.Key]; !exists {
			d.keys = append(d.keys, f.Key)
		}
		d.fields[f.Key] = v
	}

	// keys are hashed in sorted order so insertion order never affects equality
	sorted := make([]string, len(d.keys))
	copy(sorted, d.keys)
	sort.Strings(sorted)

	h := NewHash()
	h.Write([]byte{byte(NTObject)})
	for _, k := range sorted {
		ch := d.fields[k]
		h.Write([]byte(strconv.Quote(k)))
		h.Write(ch.hash)
		d.weight += len(k) + ch.weight
		d.count += ch.count
	}
	d.hash = h.Sum(nil)
	return d
}

// FromInterface builds a document from the generic go types produced by
// unmarshaling into an interface{}:
//   map[string]interface{}, []interface{},
//   string, float64 (or any int type), bool, nil
func FromInterface(v interface{}) (*Document, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Document:
		return x, nil
	case bool:
		return Bool(x), nil
	case string:
		return String(x), nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, err
		}
		return Number(f), nil
	case []interface{}:
		items := make([]*Document, len(x))
		for i, it := range x {
			d, err := FromInterface(it)
			if err != nil {
				return nil, fmt.Errorf("%d: %w", i, err)
			}
			items[i] = d
		}
		return Array(items...), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, len(keys))
		for i, k := range keys {
			d, err := FromInterface(x[k])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			fields[i] = Field{Key: k, Value: d}
		}
		return Object(fields...), nil
	default:
		return nil, fmt.Errorf("unexpected type: %T", v)
	}
}

// MustFromInterface is FromInterface that panics on error. intended for tests
// and package-level literals
func MustFromInterface(v interface{}) *Document {
	d, err := FromInterface(v)
	if err != nil {
		panic(err)
	}
	return d
}

// Type returns the kind of value this document holds
func (d *Document) Type() NodeType {
	if d == nil {
		return NTUnknown
	}
	return d.t
}

// BoolValue returns the boolean held by a NTBool document
func (d *Document) BoolValue() bool { return d.b }

// NumberValue returns the number held by a NTNumber document
func (d *Document) NumberValue() float64 { return d.n }

// StringValue returns the text held by a NTString document
func (d *Document) StringValue() string { return d.s }

// Len returns the number of children of a compound document, 0 for scalars
func (d *Document) Len() int {
	switch d.t {
	case NTArray:
		return len(d.items)
	case NTObject:
		return len(d.keys)
	}
	return 0
}

// Index returns the i-th item of an array, or nil if out of range
func (d *Document) Index(i int) *Document {
	if d.t != NTArray || i < 0 || i >= len(d.items) {
		return nil
	}
	return d.items[i]
}

// Keys lists object keys in insertion order
func (d *Document) Keys() []string {
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Get returns the value stored under key in an object
func (d *Document) Get(key string) (*Document, bool) {
	if d.t != NTObject {
		return nil, false
	}
	v, ok := d.fields[key]
	return v, ok
}

// At resolves a path relative to this document
func (d *Document) At(p Path) (*Document, bool) {
	n := d
	for _, a := range p {
		switch x := a.(type) {
		case StringAddr:
			var ok bool
			if n, ok = n.Get(string(x)); !ok {
				return nil, false
			}
		case IndexAddr:
			if n = n.Index(int(x)); n == nil {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return n, true
}

// Hash returns a byte hash of this node's content & any child nodes
func (d *Document) Hash() []byte { return d.hash }

// HashString is Hash in hex encoding
func (d *Document) HashString() string { return hashStr(d.hash) }

// Weight is a byte-ish count of this node & all descendants
func (d *Document) Weight() int { return d.weight }

// Count returns the number of nodes in this document, including itself
func (d *Document) Count() int { return d.count }

// Equal reports deep structural equality. Object key order is ignored, NaN
// equals NaN so a document always equals itself
func (d *Document) Equal(b *Document) bool {
	if d == b {
		return true
	}
	if d == nil || b == nil || d.t != b.t {
		return false
	}
	if !bytes.Equal(d.hash, b.hash) {
		return false
	}
	switch d.t {
	case NTNull:
		return true
	case NTBool:
		return d.b == b.b
	case NTNumber:
		return d.n == b.n || (math.IsNaN(d.n) && math.IsNaN(b.n))
	case NTString:
		return d.s == b.s
	case NTArray:
		if len(d.items) != len(b.items) {
			return false
		}
		for i, it := range d.items {
			if !it.Equal(b.items[i]) {
				return false
			}
		}
		return true
	case NTObject:
		if len(d.keys) != len(b.keys) {
			return false
		}
		for k, v := range d.fields {
			bv, ok := b.fields[k]
			if !ok || !v.Equal(bv) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface converts a document back into generic go types
func (d *Document) Interface() interface{} {
	switch d.Type() {
	case NTBool:
		return d.b
	case NTNumber:
		return d.n
	case NTString:
		return d.s
	case NTArray:
		arr := make([]interface{}, len(d.items))
		for i, it := range d.items {
			arr[i] = it.Interface()
		}
		return arr
	case NTObject:
		obj := make(map[string]interface{}, len(d.keys))
		for k, v := range d.fields {
			obj[k] = v.Interface()
		}
		return obj
	}
	return nil
}

// MarshalJSON encodes the document, writing object keys in insertion order.
// non-finite numbers have no JSON form and are written as null
func (d *Document) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := d.writeJSON(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) writeJSON(buf *bytes.Buffer) error {
	switch d.Type() {
	case NTBool:
		buf.WriteString(strconv.FormatBool(d.b))
	case NTNumber:
		if math.IsNaN(d.n) || math.IsInf(d.n, 0) {
			buf.WriteString("null")
		} else {
			buf.WriteString(formatNumber(d.n))
		}
	case NTString:
		buf.WriteString(quote(d.s))
	case NTArray:
		buf.WriteByte('[')
		for i, it := range d.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case NTObject:
		buf.WriteByte('{')
		for i, k := range d.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(quote(k))
			buf.WriteByte(':')
			if err := d.fields[k].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
	return nil
}

// Walk visits a document in top-down (prefix) order, passing each node & its
// path from the root. Returning false from fn skips the children of that node
func Walk(d *Document, fn func(p Path, d *Document) bool) {
	walk(d, Path{}, fn)
}

func walk(d *Document, p Path, fn func(p Path, d *Document) bool) {
	if d == nil || !fn(p, d) {
		return
	}
	switch d.t {
	case NTArray:
		for i, it := range d.items {
			walk(it, p.Append(IndexAddr(i)), fn)
		}
	case NTObject:
		for _, k := range d.keys {
			walk(d.fields[k], p.Append(StringAddr(k)), fn)
		}
	}
}
