package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThreeWayCompare(t *testing.T) {
	testcases := []struct {
		name     string
		i, j     int
		expected int64
	}{
		{"equal", 3, 3, 0},
		{"greater", 4, 3, 1},
		{"less", -1, 3, -1},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			assert.Equal(tt, tc.expected, ThreeWayCompare(tc.i, tc.j))
		})
	}

	var cmp OrderedKeyComparator[string] = ThreeWayCompare[string]
	assert.Equal(t, int64(-1), cmp("a", "b"))
	assert.Equal(t, int64(1), ThreeWayCompare(2.5, 1.5))
}
