package timetable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Lena958/iload/internal/models"
)

// Meeting is one weekly occurrence inside a Group: a day/time/room triple
// sharing the Group's subject and instructor.
type Meeting struct {
	Day    models.Day
	Start  int
	End    int
	RoomID string
	// Role is the room type this meeting must be held in; ValidGroup
	// rejects a meeting whose room has a different type. A combined Major
	// group's lab meetings carry Lab, or Lecture when the generator falls
	// back to lecture rooms for the lab subgroup.
	Role models.RoomType
}

// Interval returns the Meeting's time window.
func (m Meeting) Interval() Interval {
	return Interval{Start: m.Start, End: m.End}
}

// Group is an immutable candidate value for one subject variable: the
// weekly meeting set realizing its pattern.
type Group struct {
	SubjectID    string
	InstructorID string
	Meetings     []Meeting

	key string // computed once by NewGroup/canonicalKey
}

// Len returns the number of weekly sessions this Group contains.
func (g Group) Len() int {
	return len(g.Meetings)
}

// Key returns the Group's stable canonical key (sorted days, sorted rooms),
// used for compatibility-cache lookups and deterministic value ordering.
func (g *Group) Key() string {
	if g.key == "" {
		g.key = canonicalKey(g.Meetings)
	}
	return g.key
}

func canonicalKey(meetings []Meeting) string {
	sorted := make([]Meeting, len(meetings))
	copy(sorted, meetings)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Day != sorted[j].Day {
			return models.WeekDayOrder[sorted[i].Day] < models.WeekDayOrder[sorted[j].Day]
		}
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].RoomID < sorted[j].RoomID
	})
	var b strings.Builder
	for i, m := range sorted {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%s:%d-%d:%s", m.Day, m.Start, m.End, m.RoomID)
	}
	return b.String()
}

// NewGroup constructs a Group and precomputes its canonical key.
func NewGroup(subjectID, instructorID string, meetings []Meeting) Group {
	g := Group{SubjectID: subjectID, InstructorID: instructorID, Meetings: meetings}
	g.key = canonicalKey(meetings)
	return g
}

// Domain is the set of Groups available to one subject variable.
type Domain []Group

// SortForSearch orders a Domain ascending by size (prefer fewer weekly
// sessions) then by canonical key, the search's value-ordering heuristic.
func (d Domain) SortForSearch() {
	sort.Slice(d, func(i, j int) bool {
		if len(d[i].Meetings) != len(d[j].Meetings) {
			return len(d[i].Meetings) < len(d[j].Meetings)
		}
		return d[i].Key() < d[j].Key()
	})
}
