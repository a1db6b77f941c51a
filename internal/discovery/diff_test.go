package discovery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/refreshd/internal/config"
)

func TestSameIDs(t *testing.T) {
	cases := []struct {
		name string
		a, b []config.ModelDefinition
		want bool
	}{
		{"order ignored", defs("a", "b"), defs("b", "a"), true},
		{"whitespace trimmed", defs("a"), defs(" a\t"), true},
		{"duplicates collapse", defs("a", "a", "b"), defs("a", "b"), true},
		{"changed member", defs("a", "b"), defs("a", "c"), false},
		{"superset", defs("a"), defs("a", "b"), false},
		{"both empty", nil, nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, SameIDs(tc.a, tc.b))
		})
	}
}

func TestSameIDsIgnoresAttributes(t *testing.T) {
	a := []config.ModelDefinition{{ID: "m", Name: "One", ContextWindow: 4096}}
	b := []config.ModelDefinition{{ID: "m", Name: "Two", ContextWindow: 8192}}
	require.True(t, SameIDs(a, b))
}

func TestCompare(t *testing.T) {
	d := Compare(defs("a", "b", "d"), defs("a", "c", "e"))
	require.Equal(t, []string{"c", "e"}, d.Added)
	require.Equal(t, []string{"b", "d"}, d.Removed)
	require.False(t, d.Empty())
	require.True(t, Compare(defs("x"), defs("x")).Empty())
}

func TestIDs(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, IDs(defs("b", " a", "b")))
	require.Empty(t, IDs(nil))
}
