package discovery

import (
	"slices"
	"testing"

	"pgregory.net/rapid"

	"git.home.luguber.info/inful/refreshd/internal/config"
)

func drawModels(t *rapid.T, label string) []config.ModelDefinition {
	ids := rapid.SliceOfN(rapid.StringMatching(`[ ]?[a-f][ ]?`), 0, 8).Draw(t, label)
	out := make([]config.ModelDefinition, 0, len(ids))
	for _, id := range ids {
		out = append(out, config.ModelDefinition{ID: id, Name: "n-" + id})
	}
	return out
}

func TestSameIDsProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := drawModels(t, "a")
		b := drawModels(t, "b")

		if SameIDs(a, b) != SameIDs(b, a) {
			t.Fatalf("SameIDs is not symmetric")
		}
		if !SameIDs(a, a) {
			t.Fatalf("SameIDs is not reflexive")
		}

		shuffled := slices.Clone(a)
		slices.Reverse(shuffled)
		shuffled = append(shuffled, a...)
		if !SameIDs(a, shuffled) {
			t.Fatalf("order and duplicates must not matter")
		}

		if SameIDs(a, b) != Compare(a, b).Empty() {
			t.Fatalf("SameIDs and Compare disagree")
		}
	})
}

func TestCompareProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := drawModels(t, "configured")
		b := drawModels(t, "discovered")
		d := Compare(a, b)

		if !slices.IsSorted(d.Added) || !slices.IsSorted(d.Removed) {
			t.Fatalf("diff is not sorted: %+v", d)
		}
		rev := Compare(b, a)
		if !slices.Equal(d.Added, rev.Removed) || !slices.Equal(d.Removed, rev.Added) {
			t.Fatalf("Compare is not antisymmetric: %+v vs %+v", d, rev)
		}
		for _, id := range d.Added {
			if slices.Contains(d.Removed, id) {
				t.Fatalf("id %q both added and removed", id)
			}
		}
	})
}
