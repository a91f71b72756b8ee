package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSet_AddHasDelete(t *testing.T) {
	s := New("a", "b")
	require.True(t, s.Has("a"))
	require.False(t, s.Has("c"))

	s.Add("c")
	require.True(t, s.Has("c"))

	s.Delete("a")
	require.False(t, s.Has("a"))
}

func TestSet_AddIsIdempotent(t *testing.T) {
	s := New[string]()
	s.Add("x")
	s.Add("x")
	require.Len(t, s, 1)
}

func TestSortedStrings_DeterministicOrder(t *testing.T) {
	s := New("structz", "structa", "structm")
	require.Equal(t, []string{"structa", "structm", "structz"}, SortedStrings(s))
}

func TestSortedStrings_EmptySet(t *testing.T) {
	require.Empty(t, SortedStrings(New[string]()))
}
