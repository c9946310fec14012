package graph

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// nameSorter orders entities by display name using Catalan collation.
// Ties keep id order so the result does not depend on map iteration.
type nameSorter struct {
	col *collate.Collator
}

func newNameSorter() *nameSorter {
	return &nameSorter{col: collate.New(language.Catalan)}
}

func sortByName[T any](s *nameSorter, items []T, name, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		return id(items[i]) < id(items[j])
	})
	sort.SliceStable(items, func(i, j int) bool {
		return s.col.CompareString(name(items[i]), name(items[j])) < 0
	})
}

func setToSlice[T any](set map[string]T) []T {
	res := make([]T, 0, len(set))
	for _, v := range set {
		res = append(res, v)
	}
	return res
}
