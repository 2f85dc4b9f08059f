package fetcher

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

const defaultDaysAgo = 2

var ErrTooManyArgs = errors.New("expected at most two day offsets")

// DayBounds returns the inclusive unix-second range of the UTC calendar day
// daysAgo days before now.
func DayBounds(now time.Time, daysAgo int) (int64, int64) {
	today := now.UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -daysAgo)
	end := start.AddDate(0, 0, 1).Add(-time.Second)

	return start.Unix(), end.Unix()
}

// ParseDayOffsets turns historical-run arguments into the ordered list of
// days to fetch: none means two days ago, one is a single day, two are an
// inclusive range given in either order.
func ParseDayOffsets(args []string) ([]int, error) {
	if len(args) > 2 {
		return nil, fmt.Errorf("%w, got %d", ErrTooManyArgs, len(args))
	}

	bounds := make([]int, 0, 2)
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid day offset %q: %w", arg, err)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid day offset %d: must not be negative", n)
		}
		bounds = append(bounds, n)
	}

	switch len(bounds) {
	case 0:
		return []int{defaultDaysAgo}, nil
	case 1:
		return bounds, nil
	}

	from, to := bounds[0], bounds[1]
	if from > to {
		from, to = to, from
	}

	days := make([]int, 0, to-from+1)
	for d := from; d <= to; d++ {
		days = append(days, d)
	}

	return days, nil
}
