package timetable

import (
	"context"

	"github.com/Lena958/iload/internal/models"
)

// Snapshot is the immutable input to one engine run: every value the
// loader normalizes from the external data source.
type Snapshot struct {
	Subjects          []models.Subject
	Instructors       map[string]models.Instructor
	Rooms             map[string]models.Room
	RoomPrograms      models.RoomProgramMap
	ApprovedSessions  []models.Session
	Semester          string
	SchoolYear        string
	WindowStart       int
	WindowEnd         int
	Seed              int64
	NodeBudget        int
	DomainCap         int
	AC3TrimThreshold  int
}

// SnapshotRequest carries the caller-supplied parameters for one run.
type SnapshotRequest struct {
	Semester         string
	SchoolYear       string
	WindowStart      int
	WindowEnd        int
	Seed             int64
	NodeBudget       int
	DomainCap        int
	AC3TrimThreshold int
}

// Loader is the SchedulingInput port: it supplies a Snapshot
// for one (semester, school year) period. Implementations normalize day
// strings, classification, and times, and only include subjects lacking
// an approved assignment for the target period. Any subject row missing a
// required field (instructor, units, classification) is left out of the
// Snapshot and reported to diag as DiagSkippedSubject naming the missing
// field; diag may be nil.
type Loader interface {
	Load(ctx context.Context, req SnapshotRequest, diag Diagnostics) (*Snapshot, error)
}

// SessionPredicate selects which provisional sessions the commit boundary
// deletes before inserting the accepted assignment.
type SessionPredicate struct {
	SubjectIDs []string
	Semester   string
	SchoolYear string
}

// CommitDiff is the output of a successful search run: delete the
// provisional sessions for the assigned subjects, then insert one Session
// row per session in every assigned Group.
type CommitDiff struct {
	ToDelete SessionPredicate
	ToInsert []models.Session
}

// Committer is the SchedulingOutput port. Commit must apply
// both halves of the diff atomically; a rejected commit leaves external
// state untouched.
type Committer interface {
	Commit(ctx context.Context, diff CommitDiff) error
}

// DiagnosticKind enumerates the structured diagnostic records the engine
// emits.
type DiagnosticKind string

const (
	DiagSkippedSubject     DiagnosticKind = "SkippedSubject"
	DiagEmptyDomain        DiagnosticKind = "EmptyDomain"
	DiagAC3Failure         DiagnosticKind = "AC3Failure"
	DiagSearchFailure      DiagnosticKind = "SearchFailure"
	DiagBudgetExhausted    DiagnosticKind = "BudgetExhausted"
	DiagCandidateException DiagnosticKind = "CandidateException"
)

// DiagnosticRecord is one structured diagnostic.
type DiagnosticRecord struct {
	Kind      DiagnosticKind
	SubjectID string
	Message   string
}

// Diagnostics is the Diagnostics port. Emit must never block
// the run; a nil Diagnostics is valid and simply discards records.
type Diagnostics interface {
	Emit(ctx context.Context, rec DiagnosticRecord)
}

// SessionApprover is the port behind the single-session approve workflow:
// re-checking one provisional session against every other non-rejected
// session before marking it approved, without running search.
type SessionApprover interface {
	PendingSession(ctx context.Context, sessionID string) (models.Session, error)
	OtherSessions(ctx context.Context, sessionID string) ([]models.Session, error)
	MarkApproved(ctx context.Context, sessionID string) error
}

// DiagnosticsCollector is an in-memory Diagnostics sink, used by callers
// (including the CLI facade) that want to inspect every record emitted by
// a run rather than stream them elsewhere.
type DiagnosticsCollector struct {
	records []DiagnosticRecord
}

// Emit appends rec to the collector.
func (c *DiagnosticsCollector) Emit(_ context.Context, rec DiagnosticRecord) {
	c.records = append(c.records, rec)
}

// Records returns every diagnostic collected so far.
func (c *DiagnosticsCollector) Records() []DiagnosticRecord {
	return c.records
}
