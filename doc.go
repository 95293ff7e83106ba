// Package objcompare is a structured data differ for JSON & YAML documents.
// It's intended for interactive use: two inputs are edited live, and after
// every edit the differences between the two parsed documents are shown as
// a classified, sorted list.
//
// Text is read into a canonical Document: a tree of two compound types,
//   object (string keys to documents)
//   array  (ordered documents)
// and four scalar types:
//   string, number, boolean, null
// JSON is tried first as the stricter grammar, falling back to YAML.
//
// Diff compares two documents structurally, producing one Change per path
// that was removed, changed or created. Objects are compared key by key and
// arrays index by index; a value that changes type is a single change at its
// path, not a removal plus a creation. Equal documents produce no changes.
//
// Sort orders changes for display: removals, then changes, then creations,
// each ascending by dot-joined path. Rows projects sorted changes into
// DisplayRow values with compact value descriptors, eg: `"a" (string)`,
// where nested objects & arrays collapse to {...} & [...].
//
// Controller ties these together. It holds the last good document for each
// side, re-parses only the side that changed, and hands the resulting Output
// to a Renderer
package objcompare
