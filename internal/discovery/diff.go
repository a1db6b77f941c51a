package discovery

import (
	"slices"
	"strings"

	"git.home.luguber.info/inful/refreshd/internal/config"
)

// SameIDs reports whether configured and discovered contain the same set of
// trimmed model ids. Order, duplicates and non-id attributes are ignored.
func SameIDs(configured, discovered []config.ModelDefinition) bool {
	a, b := idSet(configured), idSet(discovered)
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

// Diff lists ids present on only one side.
type Diff struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// Empty reports whether the id sets are equal.
func (d Diff) Empty() bool { return len(d.Added) == 0 && len(d.Removed) == 0 }

// Compare returns the sorted ids added and removed going from configured to discovered.
func Compare(configured, discovered []config.ModelDefinition) Diff {
	a, b := idSet(configured), idSet(discovered)
	d := Diff{Added: []string{}, Removed: []string{}}
	for id := range b {
		if _, ok := a[id]; !ok {
			d.Added = append(d.Added, id)
		}
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			d.Removed = append(d.Removed, id)
		}
	}
	slices.Sort(d.Added)
	slices.Sort(d.Removed)
	return d
}

// IDs returns the sorted, de-duplicated trimmed ids of models.
func IDs(models []config.ModelDefinition) []string {
	set := idSet(models)
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func idSet(models []config.ModelDefinition) map[string]struct{} {
	set := make(map[string]struct{}, len(models))
	for _, m := range models {
		set[strings.TrimSpace(m.ID)] = struct{}{}
	}
	return set
}
