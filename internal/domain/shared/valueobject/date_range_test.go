package valueobject

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDateRange(t *testing.T) {
	t.Run("truncates to calendar days", func(t *testing.T) {
		r, err := NewDateRange(
			time.Date(2013, 10, 10, 15, 30, 0, 0, time.UTC),
			time.Date(2013, 10, 20, 23, 59, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		assert.Equal(t, day(2013, 10, 10), r.Start())
		assert.Equal(t, day(2013, 10, 20), r.End())
		assert.Equal(t, 11, r.Days())
	})

	t.Run("single day range", func(t *testing.T) {
		r, err := NewDateRange(day(2013, 10, 10), day(2013, 10, 10))
		require.NoError(t, err)
		assert.Equal(t, 1, r.Days())
	})

	t.Run("rejects end before start", func(t *testing.T) {
		_, err := NewDateRange(day(2013, 10, 10), day(2013, 10, 9))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "before start")
	})
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2013-10-05", "2013-10-12")
	require.NoError(t, err)
	assert.Equal(t, "2013-10-05..2013-10-12", r.String())

	_, err = ParseDateRange("2013/10/05", "2013-10-12")
	assert.Error(t, err)
}

func TestDateRange_OverlapDays(t *testing.T) {
	query := MustNewDateRange(day(2013, 10, 10), day(2013, 10, 20))

	tests := []struct {
		name     string
		other    DateRange
		expected int
	}{
		{"partial overlap at start", MustNewDateRange(day(2013, 10, 5), day(2013, 10, 12)), 3},
		{"fully inside", MustNewDateRange(day(2013, 10, 13), day(2013, 10, 17)), 5},
		{"partial overlap at end", MustNewDateRange(day(2013, 10, 18), day(2013, 10, 25)), 3},
		{"touching on one day", MustNewDateRange(day(2013, 10, 20), day(2013, 10, 30)), 1},
		{"disjoint before", MustNewDateRange(day(2013, 9, 1), day(2013, 10, 9)), 0},
		{"disjoint after", MustNewDateRange(day(2013, 10, 21), day(2013, 10, 30)), 0},
		{"covering", MustNewDateRange(day(2013, 1, 1), day(2013, 12, 31)), 11},
		{"open ended", OpenDateRange(day(2013, 10, 15)), 6},
		{"zero value", DateRange{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, query.OverlapDays(tt.other))
			assert.Equal(t, tt.expected, tt.other.OverlapDays(query))
		})
	}
}

func TestDateRange_OpenEnded(t *testing.T) {
	r := OpenDateRange(day(2013, 10, 1))
	assert.True(t, r.IsOpen())
	assert.Equal(t, FarFuture, r.End())
	assert.Equal(t, 12808, r.Days())

	err := r.EachDay(func(time.Time) error { return nil })
	assert.Error(t, err)
}

func TestDateRange_Intersect(t *testing.T) {
	a := MustNewDateRange(day(2013, 10, 5), day(2013, 10, 12))
	b := MustNewDateRange(day(2013, 10, 10), day(2013, 10, 20))

	common, ok := a.Intersect(b)
	require.True(t, ok)
	assert.Equal(t, "2013-10-10..2013-10-12", common.String())

	_, ok = a.Intersect(MustNewDateRange(day(2013, 11, 1), day(2013, 11, 2)))
	assert.False(t, ok)
}

func TestDateRange_Subtract(t *testing.T) {
	r := MustNewDateRange(day(2013, 10, 1), day(2013, 10, 31))

	t.Run("hole in the middle", func(t *testing.T) {
		parts := r.Subtract(MustNewDateRange(day(2013, 10, 10), day(2013, 10, 20)))
		require.Len(t, parts, 2)
		assert.Equal(t, "2013-10-01..2013-10-09", parts[0].String())
		assert.Equal(t, "2013-10-21..2013-10-31", parts[1].String())
	})

	t.Run("covering removes everything", func(t *testing.T) {
		assert.Empty(t, r.Subtract(OpenDateRange(day(2013, 1, 1))))
	})

	t.Run("disjoint keeps range", func(t *testing.T) {
		parts := r.Subtract(MustNewDateRange(day(2014, 1, 1), day(2014, 1, 2)))
		require.Len(t, parts, 1)
		assert.True(t, parts[0].Equal(r))
	})
}

func TestDateRange_Contains(t *testing.T) {
	r := MustNewDateRange(day(2013, 10, 1), day(2013, 10, 30))
	assert.True(t, r.Contains(day(2013, 10, 1)))
	assert.True(t, r.Contains(time.Date(2013, 10, 30, 22, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(day(2013, 10, 31)))
	assert.False(t, r.Contains(day(2013, 9, 30)))
}

func TestDateRange_EachDay(t *testing.T) {
	r := MustNewDateRange(day(2013, 10, 30), day(2013, 11, 2))

	var seen []string
	err := r.EachDay(func(d time.Time) error {
		seen = append(seen, d.Format(DateLayout))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2013-10-30", "2013-10-31", "2013-11-01", "2013-11-02"}, seen)

	stop := errors.New("stop")
	count := 0
	err = r.EachDay(func(time.Time) error {
		count++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, count)
}
