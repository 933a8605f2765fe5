// Package dto defines the request/response shapes the CLI facade and
// service layer exchange, validated with go-playground/validator.
package dto

import "github.com/Lena958/iload/internal/timetable"

// GenerateRequest is the validated input to one generation run.
type GenerateRequest struct {
	Semester         string `validate:"required"`
	SchoolYear       string `validate:"required"`
	WindowStart      int    `validate:"gte=0"`
	WindowEnd        int    `validate:"gtfield=WindowStart"`
	Seed             int64
	NodeBudget       int `validate:"gte=0"`
	DomainCap        int `validate:"gte=0"`
	AC3TrimThreshold int `validate:"gte=0"`
}

// ToSnapshotRequest converts a validated GenerateRequest into the engine's
// SnapshotRequest.
func (r GenerateRequest) ToSnapshotRequest() timetable.SnapshotRequest {
	return timetable.SnapshotRequest{
		Semester:         r.Semester,
		SchoolYear:       r.SchoolYear,
		WindowStart:      r.WindowStart,
		WindowEnd:        r.WindowEnd,
		Seed:             r.Seed,
		NodeBudget:       r.NodeBudget,
		DomainCap:        r.DomainCap,
		AC3TrimThreshold: r.AC3TrimThreshold,
	}
}

// GenerateResponse summarizes a completed run for display or for a caller
// deciding whether to approve the proposal.
type GenerateResponse struct {
	RunID           string
	SubjectsPlaced  int
	SessionsCreated int
	NodesExplored   int
	Diagnostics     []DiagnosticView
}

// DiagnosticView is the display-friendly form of a timetable.DiagnosticRecord.
type DiagnosticView struct {
	Kind      string
	SubjectID string
	Message   string
}

// ConflictsRequest selects which committed period to scan for conflicts.
type ConflictsRequest struct {
	Semester   string `validate:"required"`
	SchoolYear string `validate:"required"`
}

// ConflictView is the display-friendly form of a models.Conflict.
type ConflictView struct {
	Session1ID     string
	Session2ID     string
	Kind           string
	Description    string
	Recommendation string
	Status         string
}
