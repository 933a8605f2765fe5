package timetable

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/Lena958/iload/internal/models"
	ierrors "github.com/Lena958/iload/pkg/errors"
	"github.com/Lena958/iload/pkg/workpool"
)

// GenerateDomains builds the candidate Domain for every subject in
// snapshot, independently and in parallel. A failure
// generating one subject's domain is retried synchronously by workpool.Run
// and never aborts the others; only a domain that ends up empty after a
// successful generation pass is reported, via diag, as DiagEmptyDomain.
func GenerateDomains(ctx context.Context, logger *zap.Logger, workers int, snapshot *Snapshot, constraints *Constraints, diag Diagnostics) (Domains, error) {
	subjects := snapshot.Subjects
	tasks := make([]workpool.Task[Domain], len(subjects))
	for i, subject := range subjects {
		subject := subject
		seed := snapshot.Seed + int64(i)
		tasks[i] = func(ctx context.Context) (Domain, error) {
			return generateSubjectDomain(subject, snapshot, constraints, seed)
		}
	}

	results := workpool.Run(ctx, logger, workers, tasks)

	domains := make(Domains, len(subjects))
	anyEmpty := false
	for i, res := range results {
		subject := subjects[i]
		if res.Err != nil {
			emit(ctx, diag, DiagCandidateException, subject.ID, res.Err.Error())
			anyEmpty = true
			continue
		}
		if len(res.Value) == 0 {
			emit(ctx, diag, DiagEmptyDomain, subject.ID, "no legal candidate groups survived generation")
			anyEmpty = true
		}
		domains[subject.ID] = res.Value
	}

	if anyEmpty {
		return domains, ierrors.ErrDomainEmpty
	}
	return domains, nil
}

func emit(ctx context.Context, diag Diagnostics, kind DiagnosticKind, subjectID, message string) {
	if diag == nil {
		return
	}
	diag.Emit(ctx, DiagnosticRecord{Kind: kind, SubjectID: subjectID, Message: message})
}

// generateSubjectDomain enumerates every legal candidate Group for one
// subject: every (time slot, room) combination consistent with its pattern,
// filtered by room/program eligibility, duration/lunch invariants, and
// conflicts against the externally locked approved sessions, then capped
// and diversified with a seeded shuffle if a DomainCap is configured.
func generateSubjectDomain(subject models.Subject, snapshot *Snapshot, constraints *Constraints, seed int64) (Domain, error) {
	pattern, err := ClassifyPattern(subject)
	if err != nil {
		return nil, err
	}
	if subject.InstructorID == nil {
		return nil, nil
	}
	instructorID := *subject.InstructorID

	lectureRooms := roomsOfType(snapshot.Rooms, models.RoomTypeLecture, snapshot.RoomPrograms, subject.Program)
	labRooms := roomsOfType(snapshot.Rooms, models.RoomTypeLab, snapshot.RoomPrograms, subject.Program)
	labRole := models.RoomTypeLab
	if len(labRooms) == 0 {
		// Fall back to lecture-type rooms for the lab subgroup when no lab
		// room exists for this program; those meetings carry the Lecture
		// role so they pass the room-type check.
		labRooms = lectureRooms
		labRole = models.RoomTypeLecture
	}

	var domain Domain

	switch pattern.Kind {
	case PatternCombined:
		lectureSlots := SlotSet(snapshot.WindowStart, snapshot.WindowEnd, 60)
		labSlots := SlotSet(snapshot.WindowStart, snapshot.WindowEnd, 90)
		for _, lr := range lectureRooms {
			for _, ls := range lectureSlots {
				for _, labr := range labRooms {
					for _, labs := range labSlots {
						meetings := buildMeetings(pattern.LectureDays, ls, lr, models.RoomTypeLecture)
						meetings = append(meetings, buildMeetings(pattern.LabDays, labs, labr, labRole)...)
						g := NewGroup(subject.ID, instructorID, meetings)
						if acceptGroup(subject, g, snapshot, constraints) {
							domain = append(domain, g)
						}
					}
				}
			}
		}
	default:
		slots := SlotSet(snapshot.WindowStart, snapshot.WindowEnd, pattern.Duration)
		for _, room := range lectureRooms {
			for _, slot := range slots {
				meetings := buildMeetings(pattern.Days, slot, room, models.RoomTypeLecture)
				g := NewGroup(subject.ID, instructorID, meetings)
				if acceptGroup(subject, g, snapshot, constraints) {
					domain = append(domain, g)
				}
			}
		}
	}

	if snapshot.DomainCap > 0 && len(domain) > snapshot.DomainCap {
		shuffleDomain(domain, seed)
		domain = domain[:snapshot.DomainCap]
	}

	return domain, nil
}

func buildMeetings(days []models.Day, slot Interval, roomID string, role models.RoomType) []Meeting {
	meetings := make([]Meeting, 0, len(days))
	for _, d := range days {
		meetings = append(meetings, Meeting{Day: d, Start: slot.Start, End: slot.End, RoomID: roomID, Role: role})
	}
	return meetings
}

// acceptGroup applies the cheap, per-candidate filters a Group must pass
// before it enters a subject's domain: invariant checks against constraints,
// a standalone load-feasibility check against its own instructor's MaxLoad,
// and non-collision with the externally locked approved sessions. The load
// check here is a single-Group static bound, not an accumulating budget;
// search's own loadTracker still enforces the running total across every
// subject assigned to the same instructor.
func acceptGroup(subject models.Subject, g Group, snapshot *Snapshot, constraints *Constraints) bool {
	if err := constraints.ValidGroup(subject, g); err != nil {
		return false
	}
	if instructor, ok := snapshot.Instructors[g.InstructorID]; ok && g.Len() > instructor.MaxLoad {
		return false
	}
	return !conflictsWithApproved(g, snapshot.ApprovedSessions)
}

// conflictsWithApproved reports whether g collides, on instructor or room,
// with any externally locked approved Session; those sessions are fixed
// and never revisited by the search, so the generator excludes candidates
// that would double-book against them up front.
func conflictsWithApproved(g Group, approved []models.Session) bool {
	for _, m := range g.Meetings {
		for _, a := range approved {
			if a.Day != m.Day {
				continue
			}
			if !(Interval{Start: m.Start, End: m.End}).Overlaps(Interval{Start: a.Start, End: a.End}) {
				continue
			}
			if a.InstructorID == g.InstructorID || a.RoomID == m.RoomID {
				return true
			}
		}
	}
	return false
}

func roomsOfType(rooms map[string]models.Room, t models.RoomType, programs models.RoomProgramMap, program string) []models.Room {
	var out []models.Room
	for _, r := range rooms {
		if r.Type != t {
			continue
		}
		if !programs.Admits(r.ID, program) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// shuffleDomain applies a seeded Fisher-Yates shuffle so domain-cap
// trimming diversifies across runs deterministically rather than always
// keeping the same lexicographic prefix.
func shuffleDomain(domain Domain, seed int64) {
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(domain), func(i, j int) {
		domain[i], domain[j] = domain[j], domain[i]
	})
}
