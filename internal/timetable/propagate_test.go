package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lena958/iload/internal/models"
)

func TestAC3RemovesUnsupportedGroups(t *testing.T) {
	c := testConstraints()

	// s1 has only one candidate that clashes (same room, same day) with
	// s2's only candidate. AC3 must empty whichever of the two domains it
	// revises first.
	domains := Domains{
		"s1": Domain{NewGroup("s1", "I1", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"}})},
		"s2": Domain{NewGroup("s2", "I2", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"}})},
	}
	neighbors := BuildNeighbors([]string{"s1", "s2"})

	ok := AC3(c, domains, neighbors, 0, nil)
	assert.False(t, ok)
	assert.True(t, len(domains["s1"]) == 0 || len(domains["s2"]) == 0, "one of the clashing domains must be emptied")
}

func TestAC3KeepsConsistentDomains(t *testing.T) {
	c := testConstraints()
	domains := Domains{
		"s1": Domain{NewGroup("s1", "I1", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"}})},
		"s2": Domain{NewGroup("s2", "I2", []Meeting{{Day: models.Tuesday, Start: 480, End: 540, RoomID: "R1"}})},
	}
	neighbors := BuildNeighbors([]string{"s1", "s2"})

	ok := AC3(c, domains, neighbors, 0, nil)
	require.True(t, ok)
	assert.Len(t, domains["s1"], 1)
	assert.Len(t, domains["s2"], 1)
}

func TestAC3TrimThresholdSkipsWideDomainsFromInitialQueue(t *testing.T) {
	c := testConstraints()
	buildDomains := func() Domains {
		var wide Domain
		for start := 480; start < 480+10*60; start += 60 {
			wide = append(wide, NewGroup("s1", "I1", []Meeting{{Day: models.Monday, Start: start, End: start + 60, RoomID: "R1"}}))
		}
		return Domains{
			"s1": wide,
			"s2": Domain{NewGroup("s2", "I1", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"}})},
		}
	}
	neighbors := BuildNeighbors([]string{"s1", "s2"})

	// s1's domain (10 candidates) exceeds the threshold (3), so the arc
	// revising it against s2 is never queued; its one candidate that
	// actually conflicts with s2 (same instructor, room, and overlapping
	// time) survives untouched. This is the heuristic's tradeoff, not a
	// correctness guarantee: the leftover conflict is caught later by
	// search's own consistency checks.
	trimmed := buildDomains()
	ok := AC3(c, trimmed, neighbors, 3, nil)
	require.True(t, ok)
	assert.Len(t, trimmed["s1"], 10)

	// With trimming disabled the same arc runs and prunes the conflicting
	// candidate normally.
	untrimmed := buildDomains()
	ok = AC3(c, untrimmed, neighbors, 0, nil)
	require.True(t, ok)
	assert.Len(t, untrimmed["s1"], 9)
}

func TestBuildNeighborsIsSymmetric(t *testing.T) {
	neighbors := BuildNeighbors([]string{"a", "b", "c"})
	assert.ElementsMatch(t, []string{"b", "c"}, neighbors["a"])
	assert.ElementsMatch(t, []string{"a", "c"}, neighbors["b"])
}
