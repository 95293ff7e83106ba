package objcompare

// Diff computes the changes that turn the old document into the new one.
// Comparison is structural: objects are compared key by key, arrays index by
// index, and scalars by type & value. The result is unordered; pass it to
// Sort for display order. Diff of a document against itself is always empty.
//
// A nil document is treated as absent: Diff(nil, d) yields a single Created
// change at the root
func Diff(old, new *Document, opts ...DiffOption) Changes {
	cfg := &DiffConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	d := &diff{cfg: cfg}
	d.compare(Path{}, old, new)

	if cfg.Stats != nil {
		d.calcStats(old, new)
	}
	return d.changes
}

// DiffConfig are any possible configuration parameters for calculating diffs
type DiffConfig struct {
	// Provide a non-nil stats pointer & diff will populate it with data from
	// the diff process
	Stats *Stats
}

// DiffOption is a function that adjusts a config, zero or more DiffOptions
// can be passed to the Diff function
type DiffOption func(cfg *DiffConfig)

// OptionSetStats will set the passed-in stats pointer when Diff is called
func OptionSetStats(st *Stats) DiffOption {
	return func(cfg *DiffConfig) {
		cfg.Stats = st
	}
}

// diff accumulates changes over one recursive comparison
type diff struct {
	cfg     *DiffConfig
	changes Changes
}

func (d *diff) emit(k Kind, p Path, old, new *Document) {
	d.changes = append(d.changes, &Change{Kind: k, Path: p, Old: old, New: new})
}

// compare emits at most one change for p itself, recursing only when both
// sides are the same compound type
func (d *diff) compare(p Path, old, new *Document) {
	switch {
	case old == nil && new == nil:
		return
	case old == nil:
		d.emit(Created, p, nil, new)
		return
	case new == nil:
		d.emit(Removed, p, old, nil)
		return
	}

	if old.Equal(new) {
		return
	}

	if old.t != new.t || !old.t.Compound() {
		d.emit(Changed, p, old, new)
		return
	}

	switch old.t {
	case NTObject:
		d.compareObjects(p, old, new)
	case NTArray:
		d.compareArrays(p, old, new)
	}
}

func (d *diff) compareObjects(p Path, old, new *Document) {
	for _, k := range old.keys {
		nv, ok := new.fields[k]
		if !ok {
			d.emit(Removed, p.Append(StringAddr(k)), old.fields[k], nil)
			continue
		}
		d.compare(p.Append(StringAddr(k)), old.fields[k], nv)
	}
	for _, k := range new.keys {
		if _, ok := old.fields[k]; !ok {
			d.emit(Created, p.Append(StringAddr(k)), nil, new.fields[k])
		}
	}
}

func (d *diff) compareArrays(p Path, old, new *Document) {
	shorter := len(old.items)
	if len(new.items) < shorter {
		shorter = len(new.items)
	}
	for i := 0; i < shorter; i++ {
		d.compare(p.Append(IndexAddr(i)), old.items[i], new.items[i])
	}
	for i := shorter; i < len(old.items); i++ {
		d.emit(Removed, p.Append(IndexAddr(i)), old.items[i], nil)
	}
	for i := shorter; i < len(new.items); i++ {
		d.emit(Created, p.Append(IndexAddr(i)), nil, new.items[i])
	}
}

func (d *diff) calcStats(old, new *Document) {
	st := d.cfg.Stats
	*st = Stats{}
	if old != nil {
		st.Left = old.Count()
		st.LeftWeight = old.Weight()
	}
	if new != nil {
		st.Right = new.Count()
		st.RightWeight = new.Weight()
	}
	for _, c := range d.changes {
		switch c.Kind {
		case Created:
			st.Creates += c.New.Count()
		case Removed:
			st.Removes += c.Old.Count()
		case Changed:
			st.Changes++
		}
	}
}
