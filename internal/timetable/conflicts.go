package timetable

import (
	"fmt"
	"sort"

	"github.com/Lena958/iload/internal/models"
)

// DetectConflicts scans a set of committed Sessions for instructor and room
// double-bookings. Sessions are bucketed by day, then sorted by
// start time within each bucket so overlaps can be found with a single
// forward scan per bucket rather than a pairwise O(n^2) comparison across
// the whole dataset.
func DetectConflicts(sessions []models.Session) []models.Conflict {
	byDay := make(map[models.Day][]models.Session)
	for _, s := range sessions {
		byDay[s.Day] = append(byDay[s.Day], s)
	}

	var conflicts []models.Conflict
	for _, bucket := range byDay {
		sort.Slice(bucket, func(i, j int) bool {
			if bucket[i].Start != bucket[j].Start {
				return bucket[i].Start < bucket[j].Start
			}
			return bucket[i].ID < bucket[j].ID
		})
		conflicts = append(conflicts, scanBucket(bucket)...)
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].Session1ID != conflicts[j].Session1ID {
			return conflicts[i].Session1ID < conflicts[j].Session1ID
		}
		return conflicts[i].Session2ID < conflicts[j].Session2ID
	})
	return conflicts
}

// scanBucket walks sessions already sorted by start time. For each session
// it only needs to compare against later sessions whose start precedes its
// end, since earlier sessions were already compared against it.
func scanBucket(bucket []models.Session) []models.Conflict {
	var out []models.Conflict
	for i := 0; i < len(bucket); i++ {
		a := bucket[i]
		ivA := Interval{Start: a.Start, End: a.End}
		for j := i + 1; j < len(bucket); j++ {
			b := bucket[j]
			if b.Start >= a.End {
				break
			}
			ivB := Interval{Start: b.Start, End: b.End}
			if !ivA.Overlaps(ivB) {
				continue
			}
			if a.InstructorID == b.InstructorID {
				out = append(out, newConflict(a, b, models.InstructorDoubleBook,
					fmt.Sprintf("instructor %s is booked for both sessions on %s", a.InstructorID, a.Day)))
			}
			if a.RoomID == b.RoomID {
				out = append(out, newConflict(a, b, models.RoomDoubleBook,
					fmt.Sprintf("room %s is booked for both sessions on %s", a.RoomID, a.Day)))
			}
		}
	}
	return out
}

func newConflict(a, b models.Session, kind models.ConflictKind, description string) models.Conflict {
	s1, s2 := a.ID, b.ID
	if s2 < s1 {
		s1, s2 = s2, s1
	}
	return models.Conflict{
		Session1ID:     s1,
		Session2ID:     s2,
		Kind:           kind,
		Description:    description,
		Recommendation: recommendationFor(kind),
		Status:         models.ConflictUnresolved,
	}
}

func recommendationFor(kind models.ConflictKind) string {
	switch kind {
	case models.InstructorDoubleBook:
		return "reassign one session to a different time or instructor"
	case models.RoomDoubleBook:
		return "reassign one session to a different room or time"
	default:
		return "manual review required"
	}
}

// MergeConflicts reconciles newly detected conflicts against previously
// recorded ones so re-running detection is idempotent: conflicts that still
// reproduce keep their existing Status (so a human's Resolved marking
// survives), and conflicts no longer present are dropped.
func MergeConflicts(existing, detected []models.Conflict) []models.Conflict {
	existingByKey := make(map[[2]string]models.Conflict, len(existing))
	for _, e := range existing {
		existingByKey[conflictKey(e)] = e
	}

	merged := make([]models.Conflict, 0, len(detected))
	for _, d := range detected {
		if prev, ok := existingByKey[conflictKey(d)]; ok {
			d.Status = prev.Status
		}
		merged = append(merged, d)
	}
	return merged
}

func conflictKey(c models.Conflict) [2]string {
	return [2]string{c.Session1ID + "|" + string(c.Kind), c.Session2ID}
}
