package objcompare

import (
	"encoding/json"
	"fmt"
)

// Kind defines the operation of a Change
type Kind uint8

const (
	// Removed means a path resolves in the old document but not the new one
	Removed Kind = iota + 1
	// Changed means a path resolves on both sides to different values, or to
	// values of different types
	Changed
	// Created means a path resolves in the new document but not the old one
	Created
)

// String returns the lower-case kind name, which doubles as the display
// category
func (k Kind) String() string {
	switch k {
	case Removed:
		return "remove"
	case Changed:
		return "change"
	case Created:
		return "create"
	default:
		return "unknown"
	}
}

// Label is the upper-case kind name shown as the first cell of a row
func (k Kind) Label() string {
	switch k {
	case Removed:
		return "REMOVE"
	case Changed:
		return "CHANGE"
	case Created:
		return "CREATE"
	default:
		return "UNKNOWN"
	}
}

// Precedence orders kinds for display: removals first, then changes, then
// creations
func (k Kind) Precedence() int {
	switch k {
	case Removed:
		return 0
	case Changed:
		return 1
	case Created:
		return 2
	default:
		return 3
	}
}

// MarshalJSON encodes the kind as its name
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON reads a kind name
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "remove":
		*k = Removed
	case "change":
		*k = Changed
	case "create":
		*k = Created
	default:
		return fmt.Errorf("unknown change kind %q", s)
	}
	return nil
}

// Change is one structural difference between two documents. Changes are
// derived values: Created carries no Old, Removed carries no New, Changed
// carries both
type Change struct {
	Kind Kind
	Path Path
	Old  *Document
	New  *Document
}

// Reverse returns the change that describes the same difference read from
// new to old
func (c *Change) Reverse() *Change {
	r := &Change{Path: c.Path, Old: c.New, New: c.Old}
	switch c.Kind {
	case Removed:
		r.Kind = Created
	case Created:
		r.Kind = Removed
	default:
		r.Kind = c.Kind
	}
	return r
}

// MarshalJSON implements a custom JSON Marshaller, writing a compact
// [kind, pointer, old, new] array
func (c *Change) MarshalJSON() ([]byte, error) {
	v := []interface{}{c.Kind, c.Path.Pointer(), nullable(c.Old), nullable(c.New)}
	return json.Marshal(v)
}

func nullable(d *Document) interface{} {
	if d == nil {
		return nil
	}
	return d
}

// Changes is a list of changes
type Changes []*Change

// Len returns the number of changes
func (cs Changes) Len() int { return len(cs) }

// Reverse flips every change so the list describes new → old
func (cs Changes) Reverse() Changes {
	rev := make(Changes, len(cs))
	for i, c := range cs {
		rev[i] = c.Reverse()
	}
	return rev
}

// Count returns the number of changes of kind k
func (cs Changes) Count(k Kind) int {
	n := 0
	for _, c := range cs {
		if c.Kind == k {
			n++
		}
	}
	return n
}
