package timetable

import (
	"context"

	"github.com/google/uuid"

	"github.com/Lena958/iload/internal/models"
	ierrors "github.com/Lena958/iload/pkg/errors"
)

// BuildDiff turns a completed Assignment into the CommitDiff the commit
// boundary applies: delete every provisional session for the assigned
// subjects in the period, then insert one Session per Meeting in every
// assigned Group.
func BuildDiff(assignment Assignment, semester, schoolYear string) CommitDiff {
	subjectIDs := make([]string, 0, len(assignment))
	var toInsert []models.Session

	for subjectID, g := range assignment {
		subjectIDs = append(subjectIDs, subjectID)
		for _, m := range g.Meetings {
			approved := false
			toInsert = append(toInsert, models.Session{
				ID:           uuid.NewString(),
				SubjectID:    subjectID,
				InstructorID: g.InstructorID,
				RoomID:       m.RoomID,
				Day:          m.Day,
				Start:        m.Start,
				End:          m.End,
				Semester:     semester,
				SchoolYear:   schoolYear,
				Approved:     &approved,
			})
		}
	}

	return CommitDiff{
		ToDelete: SessionPredicate{SubjectIDs: subjectIDs, Semester: semester, SchoolYear: schoolYear},
		ToInsert: toInsert,
	}
}

// Commit applies diff through committer and wraps any failure as a
// BoundaryFailure: the run is defined to have no side effects unless
// committer itself reports success.
func Commit(ctx context.Context, committer Committer, diff CommitDiff) error {
	if err := committer.Commit(ctx, diff); err != nil {
		return ierrors.Wrap(err, ierrors.ErrBoundaryFailure.Code, ierrors.ErrBoundaryFailure.Status, ierrors.ErrBoundaryFailure.Message)
	}
	return nil
}

// ApproveSession re-validates one provisional session against every other
// non-rejected session using the same overlap predicate as the conflict
// detector, then marks it approved if nothing conflicts. It
// never invokes search: approval is a narrow, single-session check, not a
// re-run of generation.
func ApproveSession(ctx context.Context, approver SessionApprover, sessionID string) error {
	candidate, err := approver.PendingSession(ctx, sessionID)
	if err != nil {
		return ierrors.Wrap(err, ierrors.ErrBoundaryFailure.Code, ierrors.ErrBoundaryFailure.Status, ierrors.ErrBoundaryFailure.Message)
	}

	others, err := approver.OtherSessions(ctx, sessionID)
	if err != nil {
		return ierrors.Wrap(err, ierrors.ErrBoundaryFailure.Code, ierrors.ErrBoundaryFailure.Status, ierrors.ErrBoundaryFailure.Message)
	}

	candidateInterval := Interval{Start: candidate.Start, End: candidate.End}
	for _, other := range others {
		if other.Day != candidate.Day {
			continue
		}
		if !candidateInterval.Overlaps(Interval{Start: other.Start, End: other.End}) {
			continue
		}
		if other.InstructorID == candidate.InstructorID || other.RoomID == candidate.RoomID {
			return ierrors.ErrConflict
		}
	}

	if err := approver.MarkApproved(ctx, sessionID); err != nil {
		return ierrors.Wrap(err, ierrors.ErrBoundaryFailure.Code, ierrors.ErrBoundaryFailure.Status, ierrors.ErrBoundaryFailure.Message)
	}
	return nil
}
