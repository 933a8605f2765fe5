package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", Interval{Start: 480, End: 540}, Interval{Start: 480, End: 540}, true},
		{"adjacent, no overlap", Interval{Start: 480, End: 540}, Interval{Start: 540, End: 600}, false},
		{"partial overlap", Interval{Start: 480, End: 570}, Interval{Start: 540, End: 600}, true},
		{"disjoint", Interval{Start: 480, End: 540}, Interval{Start: 600, End: 660}, false},
		{"contained", Interval{Start: 480, End: 600}, Interval{Start: 510, End: 540}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a), "overlap must be symmetric")
		})
	}
}

func TestSlotSetOnHalfHourGrid(t *testing.T) {
	slots := SlotSet(420, 600, 60)
	require.NotEmpty(t, slots)
	for _, s := range slots {
		assert.Zero(t, (s.Start-420)%GridStep, "start must fall on the grid")
		assert.Equal(t, 60, s.Duration())
		assert.LessOrEqual(t, s.End, 600)
	}
}

func TestSlotSetDeduplicatesAcrossDurations(t *testing.T) {
	slots := SlotSet(420, 540, 60, 90)
	seen := make(map[Interval]int)
	for _, s := range slots {
		seen[s]++
	}
	for iv, count := range seen {
		assert.Equal(t, 1, count, "interval %v should appear once", iv)
	}
}

func TestOverlapsLunch(t *testing.T) {
	assert.True(t, OverlapsLunch(Interval{Start: 690, End: 750}))
	assert.True(t, OverlapsLunch(Interval{Start: 750, End: 810}))
	assert.False(t, OverlapsLunch(Interval{Start: 780, End: 840}))
	assert.False(t, OverlapsLunch(Interval{Start: 600, End: 720}))
}

func TestIntervalInternerMemoizesOverlap(t *testing.T) {
	n := newIntervalInterner()
	a := n.intern(Interval{Start: 480, End: 540})
	b := n.intern(Interval{Start: 510, End: 570})
	assert.True(t, n.overlaps(a, b))
	assert.True(t, n.overlaps(b, a), "cache key must be order-insensitive")

	c := n.intern(Interval{Start: 480, End: 540})
	assert.Equal(t, a, c, "identical intervals intern to the same id")
}
