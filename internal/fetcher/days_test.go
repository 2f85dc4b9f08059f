package fetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayBounds(t *testing.T) {
	now := time.Date(2024, 5, 2, 6, 30, 0, 0, time.UTC)

	start, end := DayBounds(now, 1)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).Unix(), start)
	assert.Equal(t, time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC).Unix(), end)

	start, end = DayBounds(now, 0)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC).Unix(), start)
	assert.Equal(t, int64(86399), end-start)
}

func TestDayBoundsUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2024, 5, 2, 3, 0, 0, 0, loc) // 2024-05-01 17:00 UTC

	start, _ := DayBounds(now, 1)
	assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC).Unix(), start)
}

func TestParseDayOffsets(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want []int
	}{
		{"default", nil, []int{2}},
		{"single day", []string{"3"}, []int{3}},
		{"range", []string{"2", "5"}, []int{2, 3, 4, 5}},
		{"swapped range", []string{"5", "2"}, []int{2, 3, 4, 5}},
		{"same day range", []string{"4", "4"}, []int{4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDayOffsets(tc.args)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDayOffsetsErrors(t *testing.T) {
	_, err := ParseDayOffsets([]string{"two"})
	assert.Error(t, err)

	_, err = ParseDayOffsets([]string{"-1"})
	assert.Error(t, err)

	_, err = ParseDayOffsets([]string{"1", "2", "3"})
	assert.ErrorIs(t, err, ErrTooManyArgs)
}
