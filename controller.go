package objcompare

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/craigbuckler/objcompare/store"
)

// Side identifies one of the two input slots
type Side int

const (
	// Old is the left-hand, original document
	Old Side = iota
	// New is the right-hand, updated document
	New
)

// Valid reports whether s is Old or New
func (s Side) Valid() bool { return s == Old || s == New }

// Other returns the opposite side
func (s Side) Other() Side {
	if s == Old {
		return New
	}
	return Old
}

// String returns the side name
func (s Side) String() string {
	switch s {
	case Old:
		return "old"
	case New:
		return "new"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// State summarizes which sides currently hold a valid document
type State int

const (
	// Empty means neither side holds a document
	Empty State = iota
	// PartialLeft means only the old side holds a document
	PartialLeft
	// PartialRight means only the new side holds a document
	PartialRight
	// Ready means both sides hold documents and a diff is shown
	Ready
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case PartialLeft:
		return "partial-left"
	case PartialRight:
		return "partial-right"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// slot is the last known state of one input
type slot struct {
	id   string
	name string
	text string
	doc  *Document
	err  *ParseError
}

// Controller owns the two live document slots. Each Update re-parses only
// the side that changed, keeps the other side's last good document, and
// re-renders the full diff whenever both sides are valid
type Controller struct {
	mu        sync.Mutex
	sides     [2]*slot
	renderer  Renderer
	store     store.TextStore
	formatter *Formatter
	log       *slog.Logger
	stats     Stats
	last      Output
}

// ControllerOption adjusts a Controller
type ControllerOption func(c *Controller)

// OptionStore persists the text of each successfully parsed edit, and lets
// Restore reload it
func OptionStore(s store.TextStore) ControllerOption {
	return func(c *Controller) { c.store = s }
}

// OptionLogger sets the logger. default discards all output
func OptionLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) { c.log = l }
}

// OptionSideNames sets the names error rows use for each side
func OptionSideNames(old, new string) ControllerOption {
	return func(c *Controller) {
		c.sides[Old].name = old
		c.sides[New].name = new
	}
}

// OptionStoreIDs sets the keys each side's text is persisted under
func OptionStoreIDs(old, new string) ControllerOption {
	return func(c *Controller) {
		c.sides[Old].id = old
		c.sides[New].id = new
	}
}

// OptionFormatter sets the formatter used to build rows
func OptionFormatter(f *Formatter) ControllerOption {
	return func(c *Controller) { c.formatter = f }
}

// empty is the parse failure every side starts with
var empty = Parse("").Err

// NewController creates a controller in the Empty state. r may be nil when
// only Output values are needed
func NewController(r Renderer, opts ...ControllerOption) *Controller {
	c := &Controller{
		sides: [2]*slot{
			{id: "dataold", name: "old", err: empty},
			{id: "datanew", name: "new", err: empty},
		},
		renderer:  r,
		formatter: NewFormatter(),
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.last = c.compute(Old)
	return c
}

// Restore reloads each side's stored text and applies it as if it had just
// been entered. Sides with no stored text are entered as empty. Without a
// store each side's current text is re-entered
func (c *Controller) Restore() (Output, error) {
	var out Output
	for _, side := range []Side{Old, New} {
		text := c.Text(side)
		if c.store != nil {
			id := c.sides[side].id
			stored, ok, err := c.store.Load(id)
			if err != nil {
				return c.Output(), fmt.Errorf("loading %s text: %w", side, err)
			}
			if !ok {
				c.log.Debug("no stored text", "side", side, "id", id)
			}
			text = stored
		}
		out = c.Update(side, text)
	}
	return out, nil
}

// Update handles an input event for side: text is re-parsed for that side
// only, and the resulting output is rendered & returned. Events for a side
// other than Old or New are ignored
func (c *Controller) Update(side Side, text string) Output {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !side.Valid() {
		c.log.Warn("ignoring update for unknown side", "side", int(side))
		return c.last
	}

	s := c.sides[side]
	s.text = text
	res := Parse(text)
	if res.OK() {
		s.doc, s.err = res.Doc, nil
		c.persist(s)
	} else {
		s.doc, s.err = nil, res.Err
		c.log.Debug("parse failed", "side", side, "reason", res.Err.Reason)
	}

	out := c.compute(side)
	c.last = out
	if c.renderer != nil {
		if err := c.renderer.Render(out); err != nil {
			c.log.Error("render failed", "err", err)
		}
	}
	return out
}

func (c *Controller) persist(s *slot) {
	if c.store == nil || s.id == "" {
		return
	}
	if err := c.store.Save(s.id, s.text); err != nil {
		c.log.Warn("saving text failed", "id", s.id, "err", err)
	}
}

// compute picks the output for the current slots. an error on the side just
// edited wins over an error on the other side; a diff is only shown when
// neither side has an error
func (c *Controller) compute(edited Side) Output {
	for _, side := range []Side{edited, edited.Other()} {
		if s := c.sides[side]; s.err != nil {
			return Output{Rows: []DisplayRow{ErrorRow(s.name, s.err.Reason)}}
		}
	}

	old, new := c.sides[Old].doc, c.sides[New].doc
	changes := Diff(old, new, OptionSetStats(&c.stats))
	c.log.Debug("diff computed", "changes", len(changes), "left", c.stats.Left, "right", c.stats.Right)
	if len(changes) == 0 {
		return Output{NoChanges: true}
	}
	return Output{Rows: c.formatter.Rows(changes)}
}

// Output returns the most recently computed output
func (c *Controller) Output() Output {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// State reports which sides hold a valid document
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	old, new := c.sides[Old].doc != nil, c.sides[New].doc != nil
	switch {
	case old && new:
		return Ready
	case old:
		return PartialLeft
	case new:
		return PartialRight
	}
	return Empty
}

// Doc returns the last good document for side, or nil
func (c *Controller) Doc(side Side) *Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !side.Valid() {
		return nil
	}
	return c.sides[side].doc
}

// Err returns the current parse error for side, or nil
func (c *Controller) Err(side Side) *ParseError {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !side.Valid() {
		return nil
	}
	return c.sides[side].err
}

// Text returns the last text entered for side
func (c *Controller) Text(side Side) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !side.Valid() {
		return ""
	}
	return c.sides[side].text
}

// Stats returns statistics from the most recent diff
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
