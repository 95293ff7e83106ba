package objcompare

import (
	"strconv"
	"strings"
)

// Addr is a single step into a document: a mapping key or a sequence index
type Addr interface {
	String() string
	Value() interface{}
	Eq(b Addr) bool
}

// StringAddr is a mapping key
type StringAddr string

// String returns the key
func (a StringAddr) String() string { return string(a) }

// Value returns the key as an interface
func (a StringAddr) Value() interface{} { return string(a) }

// Eq checks for equality with another address
func (a StringAddr) Eq(b Addr) bool {
	if sa, ok := b.(StringAddr); ok {
		return a == sa
	}
	return false
}

// IndexAddr is a zero-based sequence index
type IndexAddr int

// String returns the index in base 10
func (a IndexAddr) String() string { return strconv.Itoa(int(a)) }

// Value returns the index as an int
func (a IndexAddr) Value() interface{} { return int(a) }

// Eq checks for equality with another address
func (a IndexAddr) Eq(b Addr) bool {
	if ia, ok := b.(IndexAddr); ok {
		return a == ia
	}
	return false
}

// Path locates one node within a document, root first. The empty path is
// the document root
type Path []Addr

// Append returns a new path extended by a. The receiver is never modified,
// so sibling paths never share a backing array
func (p Path) Append(a Addr) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, a)
}

// String joins path segments with dots. This is the form changes are sorted
// and displayed by
func (p Path) String() string {
	strs := make([]string, len(p))
	for i, a := range p {
		strs[i] = a.String()
	}
	return strings.Join(strs, ".")
}

// Pointer renders the path as an RFC 6901 JSON pointer
func (p Path) Pointer() string {
	if len(p) == 0 {
		return ""
	}
	buf := &strings.Builder{}
	for _, a := range p {
		buf.WriteByte('/')
		buf.WriteString(pointerEscaper.Replace(a.String()))
	}
	return buf.String()
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Eq reports whether two paths address the same node
func (p Path) Eq(b Path) bool {
	if len(p) != len(b) {
		return false
	}
	for i, a := range p {
		if !a.Eq(b[i]) {
			return false
		}
	}
	return true
}
