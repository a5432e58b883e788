package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		occupied int
		capacity int
		want     Status
	}{
		{0, 10, StatusEmpty},
		{5, 0, StatusEmpty},
		{0, 0, StatusEmpty},
		{-3, 10, StatusEmpty},
		{3, 10, StatusPartial},
		{7, 10, StatusPartial},
		{8, 10, StatusAlmostFull},
		{9, 10, StatusAlmostFull},
		{10, 10, StatusFull},
		{11, 10, StatusOverbooked},
		{4, 5, StatusAlmostFull},
		{1, 1, StatusFull},
		{2, 1, StatusOverbooked},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.occupied, tc.capacity),
			"occupied=%d capacity=%d", tc.occupied, tc.capacity)
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(5, 0))
	assert.Equal(t, 0.0, Percentage(-1, 10))
	assert.Equal(t, 50.0, Percentage(5, 10))
	assert.Equal(t, 67.0, Percentage(2, 3))
	assert.Equal(t, 110.0, Percentage(11, 10))
}
