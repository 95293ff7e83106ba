package objcompare

import "sort"

// Sort returns a copy of changes in display order: removals, then changes,
// then creations, each group ascending by dot-joined path. The sort is
// stable, so changes with equal kind & path keep their input order
func Sort(changes Changes) Changes {
	sorted := make(Changes, len(changes))
	copy(sorted, changes)

	keys := make(map[*Change]string, len(sorted))
	for _, c := range sorted {
		keys[c] = c.Path.String()
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if pa, pb := a.Kind.Precedence(), b.Kind.Precedence(); pa != pb {
			return pa < pb
		}
		return keys[a] < keys[b]
	})
	return sorted
}
