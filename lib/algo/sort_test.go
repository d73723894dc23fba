package algo

import (
	randv2 "math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xseq/lib/infra"
	"github.com/benz9527/xseq/lib/seq"
)

func randomValues(r *randv2.Rand, n, bound int) []int {
	values := make([]int, n)
	for i := range values {
		values[i] = r.IntN(bound) - bound/2
	}
	return values
}

func requireOrdered[E any](t *testing.T, s seq.Sequence[E], cmp Comparator[E]) {
	t.Helper()
	for i := 1; i < s.Len(); i++ {
		require.False(t, cmp(s.At(i), s.At(i-1)), "index %d breaks the order", i)
	}
}

func requirePermutation(t *testing.T, expected, actual []int) {
	t.Helper()
	e, a := slices.Clone(expected), slices.Clone(actual)
	slices.Sort(e)
	slices.Sort(a)
	require.Equal(t, e, a)
}

func TestSortT(t *testing.T) {
	testcases := []struct {
		name     string
		values   []int
		expected []int
	}{
		{"empty", nil, []int{}},
		{"single", []int{7}, []int{7}},
		{"pair", []int{1, 2}, []int{2, 1}},
		{"unordered", []int{4, 1, 3, 2}, []int{4, 3, 2, 1}},
		{"negatives", []int{4, 3, -1, 5, 2, -2}, []int{5, 4, 3, 2, -1, -2}},
		{"duplicates", []int{2, 3, 2, 1, 3}, []int{3, 3, 2, 2, 1}},
		{"already descending", []int{5, 4, 3}, []int{5, 4, 3}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			in := seq.ValueList(tc.values...)
			require.Equal(tt, tc.expected, seq.Unwrap(SortT(in)))
			// The input is not consumed.
			require.Equal(tt, len(tc.values), in.Len())
			for i, v := range tc.values {
				require.Equal(tt, v, in.At(i).Value())
			}
		})
	}
}

func TestSortTFunc_Less(t *testing.T) {
	s := SortTFunc(seq.New(4, 1, 3, 2), Less[int])
	require.Equal(t, []int{1, 2, 3, 4}, s.Values())

	words := SortTFunc(seq.New("pear", "apple", "fig"), Less[string])
	require.Equal(t, []string{"apple", "fig", "pear"}, words.Values())

	require.True(t, SortTFunc[int](nil, Less[int]).IsEmpty())
	require.Panics(t, func() { SortTFunc(seq.New(1, 2), nil) })
}

func TestSortTFunc_Properties(t *testing.T) {
	r := randv2.New(randv2.NewPCG(7, 11))
	comparators := map[string]Comparator[int]{
		"less":    Less[int],
		"greater": Greater[int],
	}
	for round := 0; round < 50; round++ {
		values := randomValues(r, r.IntN(40), 30)
		for name, cmp := range comparators {
			s := seq.FromSlice(values)
			sorted := SortTFunc(s, cmp)
			require.Equal(t, len(values), sorted.Len(), name)
			requirePermutation(t, values, sorted.Values())
			requireOrdered(t, sorted, cmp)
			require.True(t, seq.Equal(sorted, SortTFunc(sorted, cmp)), "%s is not idempotent", name)
			require.Equal(t, values, s.Values())
		}
	}
}

func TestSortTFunc_ComparisonCount(t *testing.T) {
	const n = 64
	r := randv2.New(randv2.NewPCG(3, 5))
	values := r.Perm(n)

	comparisons := 0
	counting := func(a, b int) bool {
		comparisons++
		return a > b
	}
	sorted := SortTFunc(seq.FromSlice(values), counting)
	requireOrdered(t, sorted, Greater[int])

	// ceil(log2(64)) comparisons at most per insertion.
	require.LessOrEqual(t, comparisons, n*6)
	require.Greater(t, comparisons, 0)
}

func TestStableSortTFunc(t *testing.T) {
	type item struct {
		key   int
		label string
	}
	byKeyDesc := func(a, b item) bool { return a.key > b.key }
	in := seq.New(
		item{1, "a"}, item{2, "b"}, item{1, "c"}, item{2, "d"}, item{3, "e"}, item{1, "f"},
	)
	sorted := StableSortTFunc(in, byKeyDesc)
	labels := make([]string, 0, sorted.Len())
	sorted.Foreach(func(_ int, e item) bool {
		labels = append(labels, e.label)
		return true
	})
	require.Equal(t, []string{"e", "b", "d", "a", "c", "f"}, labels)
}

func TestSortTFunc_ThreeWayAndMarkers(t *testing.T) {
	cmp := FromThreeWay[int](infra.ThreeWayCompare[int])
	require.Equal(t, []int{-3, 0, 9}, seq.Unwrap(SortTFunc(seq.ValueList(9, -3, 0), cmp)))

	types := seq.TypeList(seq.Marker[int8]{}, seq.Marker[int64]{}, seq.Marker[int16]{}, seq.Marker[int32]{})
	sorted := SortTFunc(types, GreaterSize[seq.Element])
	names := Transform(sorted, func(e seq.Element) string { return e.String() })
	require.Equal(t, []string{"int64", "int32", "int16", "int8"}, names.Values())
}
