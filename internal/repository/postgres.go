// Package repository implements the scheduling input and output ports
// against Postgres using sqlx.
package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Lena958/iload/internal/models"
	"github.com/Lena958/iload/internal/timetable"
)

// TimetableRepository implements timetable.Loader and timetable.Committer
// against a Postgres database.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository wraps an existing *sqlx.DB connection.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

type subjectRow struct {
	ID             string  `db:"id"`
	Code           string  `db:"code"`
	Name           string  `db:"name"`
	Units          int     `db:"units"`
	Program        string  `db:"program"`
	Classification string  `db:"classification"`
	InstructorID   *string `db:"instructor_id"`
}

type instructorRow struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Status  string `db:"employment_status"`
	MaxLoad int    `db:"max_load"`
}

type roomRow struct {
	ID    string `db:"id"`
	Label string `db:"label"`
	Type  string `db:"room_type"`
}

type roomProgramRow struct {
	RoomID  string `db:"room_id"`
	Program string `db:"program"`
}

type sessionRow struct {
	ID           string `db:"id"`
	SubjectID    string `db:"subject_id"`
	InstructorID string `db:"instructor_id"`
	RoomID       string `db:"room_id"`
	Day          string `db:"day"`
	StartMinute  int    `db:"start_minute"`
	EndMinute    int    `db:"end_minute"`
	Semester     string `db:"semester"`
	SchoolYear   string `db:"school_year"`
	Approved     bool   `db:"approved"`
}

// Load implements timetable.Loader. It pulls every subject lacking an
// approved session for the requested period, along with the instructor,
// room, room/program, and already-approved session tables the generator
// and constraint kernel need. A subject row missing a required field is
// left out of the Snapshot and reported to diag naming the missing field.
func (r *TimetableRepository) Load(ctx context.Context, req timetable.SnapshotRequest, diag timetable.Diagnostics) (*timetable.Snapshot, error) {
	var subjectRows []subjectRow
	const subjectQuery = `
		SELECT s.id, s.code, s.name, s.units, s.program, s.classification, s.instructor_id
		FROM subjects s
		WHERE NOT EXISTS (
			SELECT 1 FROM sessions sess
			WHERE sess.subject_id = s.id
			  AND sess.semester = $1
			  AND sess.school_year = $2
			  AND sess.approved
		)`
	if err := r.db.SelectContext(ctx, &subjectRows, subjectQuery, req.Semester, req.SchoolYear); err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}

	var instructorRows []instructorRow
	if err := r.db.SelectContext(ctx, &instructorRows, `SELECT id, name, employment_status, max_load FROM instructors`); err != nil {
		return nil, fmt.Errorf("load instructors: %w", err)
	}

	var roomRows []roomRow
	if err := r.db.SelectContext(ctx, &roomRows, `SELECT id, label, room_type FROM rooms`); err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}

	var roomProgramRows []roomProgramRow
	if err := r.db.SelectContext(ctx, &roomProgramRows, `SELECT room_id, program FROM room_programs`); err != nil {
		return nil, fmt.Errorf("load room programs: %w", err)
	}

	var sessionRows []sessionRow
	const approvedQuery = `
		SELECT id, subject_id, instructor_id, room_id, day, start_minute, end_minute, semester, school_year, approved
		FROM sessions
		WHERE semester = $1 AND school_year = $2 AND approved`
	if err := r.db.SelectContext(ctx, &sessionRows, approvedQuery, req.Semester, req.SchoolYear); err != nil {
		return nil, fmt.Errorf("load approved sessions: %w", err)
	}

	snapshot := &timetable.Snapshot{
		Instructors:      make(map[string]models.Instructor, len(instructorRows)),
		Rooms:            make(map[string]models.Room, len(roomRows)),
		RoomPrograms:     make(models.RoomProgramMap, len(roomRows)),
		Semester:         req.Semester,
		SchoolYear:       req.SchoolYear,
		WindowStart:      req.WindowStart,
		WindowEnd:        req.WindowEnd,
		Seed:             req.Seed,
		NodeBudget:       req.NodeBudget,
		DomainCap:        req.DomainCap,
		AC3TrimThreshold: req.AC3TrimThreshold,
	}

	for _, row := range subjectRows {
		if field, missing := missingSubjectField(row); missing {
			emitSkipped(ctx, diag, row.ID, field)
			continue
		}
		snapshot.Subjects = append(snapshot.Subjects, models.Subject{
			ID:             row.ID,
			Code:           row.Code,
			Name:           row.Name,
			Units:          row.Units,
			Program:        row.Program,
			Classification: models.Classification(row.Classification),
			InstructorID:   row.InstructorID,
		})
	}
	for _, row := range instructorRows {
		snapshot.Instructors[row.ID] = models.Instructor{
			ID: row.ID, Name: row.Name,
			Status:  models.EmploymentStatus(row.Status),
			MaxLoad: row.MaxLoad,
		}
	}
	for _, row := range roomRows {
		snapshot.Rooms[row.ID] = models.Room{ID: row.ID, Label: row.Label, Type: models.RoomType(row.Type)}
	}
	for _, row := range roomProgramRows {
		if snapshot.RoomPrograms[row.RoomID] == nil {
			snapshot.RoomPrograms[row.RoomID] = make(map[string]struct{})
		}
		snapshot.RoomPrograms[row.RoomID][row.Program] = struct{}{}
	}
	for _, row := range sessionRows {
		approved := row.Approved
		snapshot.ApprovedSessions = append(snapshot.ApprovedSessions, models.Session{
			ID:           row.ID,
			SubjectID:    row.SubjectID,
			InstructorID: row.InstructorID,
			RoomID:       row.RoomID,
			Day:          models.Day(row.Day),
			Start:        row.StartMinute,
			End:          row.EndMinute,
			Semester:     row.Semester,
			SchoolYear:   row.SchoolYear,
			Approved:     &approved,
		})
	}

	return snapshot, nil
}

// missingSubjectField reports the first required field absent from row, if
// any, so the caller can name it in a SkippedSubject diagnostic.
func missingSubjectField(row subjectRow) (field string, missing bool) {
	switch {
	case row.InstructorID == nil:
		return "instructor_id", true
	case row.Units < 1:
		return "units", true
	case row.Classification == "":
		return "classification", true
	default:
		return "", false
	}
}

func emitSkipped(ctx context.Context, diag timetable.Diagnostics, subjectID, field string) {
	if diag == nil {
		return
	}
	diag.Emit(ctx, timetable.DiagnosticRecord{
		Kind:      timetable.DiagSkippedSubject,
		SubjectID: subjectID,
		Message:   fmt.Sprintf("subject skipped: missing required field %q", field),
	})
}

// Sessions loads every approved session for one period, for conflict
// detection.
func (r *TimetableRepository) Sessions(ctx context.Context, semester, schoolYear string) ([]models.Session, error) {
	var rows []sessionRow
	const query = `
		SELECT id, subject_id, instructor_id, room_id, day, start_minute, end_minute, semester, school_year, approved
		FROM sessions
		WHERE semester = $1 AND school_year = $2 AND approved`
	if err := r.db.SelectContext(ctx, &rows, query, semester, schoolYear); err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	out := make([]models.Session, 0, len(rows))
	for _, row := range rows {
		approved := row.Approved
		out = append(out, models.Session{
			ID:           row.ID,
			SubjectID:    row.SubjectID,
			InstructorID: row.InstructorID,
			RoomID:       row.RoomID,
			Day:          models.Day(row.Day),
			Start:        row.StartMinute,
			End:          row.EndMinute,
			Semester:     row.Semester,
			SchoolYear:   row.SchoolYear,
			Approved:     &approved,
		})
	}
	return out, nil
}

// Commit implements timetable.Committer: it deletes every provisional
// (non-approved) session for the assigned subjects in the period, then
// inserts the new sessions, inside a single transaction.
func (r *TimetableRepository) Commit(ctx context.Context, diff timetable.CommitDiff) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if len(diff.ToDelete.SubjectIDs) > 0 {
		const deleteQuery = `
			DELETE FROM sessions
			WHERE semester = $1 AND school_year = $2 AND NOT approved AND subject_id = ANY($3)`
		if _, err := tx.ExecContext(ctx, deleteQuery, diff.ToDelete.Semester, diff.ToDelete.SchoolYear, pq.Array(diff.ToDelete.SubjectIDs)); err != nil {
			return fmt.Errorf("delete provisional sessions: %w", err)
		}
	}

	const insertQuery = `
		INSERT INTO sessions (id, subject_id, instructor_id, room_id, day, start_minute, end_minute, semester, school_year, approved)
		VALUES (:id, :subject_id, :instructor_id, :room_id, :day, :start_minute, :end_minute, :semester, :school_year, :approved)`
	for _, s := range diff.ToInsert {
		approved := false
		if s.Approved != nil {
			approved = *s.Approved
		}
		row := sessionRow{
			ID: s.ID, SubjectID: s.SubjectID, InstructorID: s.InstructorID, RoomID: s.RoomID,
			Day: string(s.Day), StartMinute: s.Start, EndMinute: s.End,
			Semester: s.Semester, SchoolYear: s.SchoolYear, Approved: approved,
		}
		if _, err := tx.NamedExecContext(ctx, insertQuery, row); err != nil {
			return fmt.Errorf("insert session %s: %w", s.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// PendingSession implements timetable.SessionApprover: it loads the
// single provisional session awaiting approval.
func (r *TimetableRepository) PendingSession(ctx context.Context, sessionID string) (models.Session, error) {
	var row sessionRow
	const query = `
		SELECT id, subject_id, instructor_id, room_id, day, start_minute, end_minute, semester, school_year, approved
		FROM sessions WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, sessionID); err != nil {
		return models.Session{}, fmt.Errorf("load pending session %s: %w", sessionID, err)
	}
	approved := row.Approved
	return models.Session{
		ID: row.ID, SubjectID: row.SubjectID, InstructorID: row.InstructorID, RoomID: row.RoomID,
		Day: models.Day(row.Day), Start: row.StartMinute, End: row.EndMinute,
		Semester: row.Semester, SchoolYear: row.SchoolYear, Approved: &approved,
	}, nil
}

// OtherSessions implements timetable.SessionApprover: every session in the
// same period other than sessionID itself, excluding ones already known
// to have been rejected (rows are deleted on rejection, so "not rejected"
// is simply "still present").
func (r *TimetableRepository) OtherSessions(ctx context.Context, sessionID string) ([]models.Session, error) {
	var rows []sessionRow
	const query = `
		SELECT o.id, o.subject_id, o.instructor_id, o.room_id, o.day, o.start_minute, o.end_minute, o.semester, o.school_year, o.approved
		FROM sessions o
		JOIN sessions s ON s.semester = o.semester AND s.school_year = o.school_year
		WHERE s.id = $1 AND o.id <> $1`
	if err := r.db.SelectContext(ctx, &rows, query, sessionID); err != nil {
		return nil, fmt.Errorf("load other sessions for %s: %w", sessionID, err)
	}
	out := make([]models.Session, 0, len(rows))
	for _, row := range rows {
		approved := row.Approved
		out = append(out, models.Session{
			ID: row.ID, SubjectID: row.SubjectID, InstructorID: row.InstructorID, RoomID: row.RoomID,
			Day: models.Day(row.Day), Start: row.StartMinute, End: row.EndMinute,
			Semester: row.Semester, SchoolYear: row.SchoolYear, Approved: &approved,
		})
	}
	return out, nil
}

// MarkApproved implements timetable.SessionApprover.
func (r *TimetableRepository) MarkApproved(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE sessions SET approved = true WHERE id = $1`, sessionID); err != nil {
		return fmt.Errorf("mark session %s approved: %w", sessionID, err)
	}
	return nil
}

// ConflictStore persists materialized Conflict records.
type ConflictStore struct {
	db *sqlx.DB
}

// NewConflictStore wraps an existing *sqlx.DB connection.
func NewConflictStore(db *sqlx.DB) *ConflictStore {
	return &ConflictStore{db: db}
}

type conflictRow struct {
	Session1ID     string `db:"session1_id"`
	Session2ID     string `db:"session2_id"`
	Kind           string `db:"kind"`
	Description    string `db:"description"`
	Recommendation string `db:"recommendation"`
	Status         string `db:"status"`
}

// Existing loads every previously recorded conflict for merging against a
// freshly detected set.
func (s *ConflictStore) Existing(ctx context.Context) ([]models.Conflict, error) {
	var rows []conflictRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT session1_id, session2_id, kind, description, recommendation, status FROM conflicts`); err != nil {
		return nil, fmt.Errorf("load existing conflicts: %w", err)
	}
	out := make([]models.Conflict, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Conflict{
			Session1ID:     row.Session1ID,
			Session2ID:     row.Session2ID,
			Kind:           models.ConflictKind(row.Kind),
			Description:    row.Description,
			Recommendation: row.Recommendation,
			Status:         models.ConflictStatus(row.Status),
		})
	}
	return out, nil
}

// Save upserts the merged conflict set, keyed on (session1_id, session2_id, kind).
func (s *ConflictStore) Save(ctx context.Context, conflicts []models.Conflict) error {
	const upsertQuery = `
		INSERT INTO conflicts (session1_id, session2_id, kind, description, recommendation, status)
		VALUES (:session1_id, :session2_id, :kind, :description, :recommendation, :status)
		ON CONFLICT (session1_id, session2_id, kind)
		DO UPDATE SET description = EXCLUDED.description, recommendation = EXCLUDED.recommendation, status = EXCLUDED.status`
	for _, c := range conflicts {
		row := conflictRow{
			Session1ID: c.Session1ID, Session2ID: c.Session2ID, Kind: string(c.Kind),
			Description: c.Description, Recommendation: c.Recommendation, Status: string(c.Status),
		}
		if _, err := s.db.NamedExecContext(ctx, upsertQuery, row); err != nil {
			return fmt.Errorf("save conflict %s/%s: %w", c.Session1ID, c.Session2ID, err)
		}
	}
	return nil
}

// Resolve flips one conflict's status to Resolved without re-running
// detection.
func (s *ConflictStore) Resolve(ctx context.Context, session1ID, session2ID string, kind models.ConflictKind) error {
	const query = `
		UPDATE conflicts SET status = $1
		WHERE session1_id = $2 AND session2_id = $3 AND kind = $4`
	if _, err := s.db.ExecContext(ctx, query, models.ConflictResolved, session1ID, session2ID, kind); err != nil {
		return fmt.Errorf("resolve conflict %s/%s: %w", session1ID, session2ID, err)
	}
	return nil
}
