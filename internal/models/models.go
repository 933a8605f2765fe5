// Package models defines the semantic entities of the timetabling domain.
// Subject, Instructor, Room and RoomProgramMap are externally
// owned and read-only from the engine's point of view; Session is the only
// type the engine ever writes, and only through the commit boundary.
package models

// Classification is the coarse subject classification that governs
// pattern selection.
type Classification string

const (
	ClassificationMajor   Classification = "Major"
	ClassificationGeneral Classification = "General"
)

// EmploymentStatus governs per-instructor scheduling rules.
type EmploymentStatus string

const (
	EmploymentPermanent EmploymentStatus = "Permanent"
	EmploymentPartTime  EmploymentStatus = "PartTime"
	EmploymentOther     EmploymentStatus = "Other"
)

// RoomType distinguishes lecture rooms from labs.
type RoomType string

const (
	RoomTypeLecture RoomType = "Lecture"
	RoomTypeLab     RoomType = "Lab"
)

// Day enumerates the Mon-Fri scheduling week.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
)

// WeekDayOrder fixes a canonical Mon..Fri ordering, used for sorting sessions
// and groups deterministically.
var WeekDayOrder = map[Day]int{
	Monday: 0, Tuesday: 1, Wednesday: 2, Thursday: 3, Friday: 4,
}

// Subject is a course section awaiting assignment. InstructorID is a
// pointer because the source data allows it to be absent; a
// Subject with a nil InstructorID, zero Units, or empty Classification is
// dropped by the loader with a SkippedSubject diagnostic.
type Subject struct {
	ID             string
	Code           string
	Name           string
	Units          int
	Program        string
	Classification Classification
	InstructorID   *string
}

// Instructor is externally owned and read-only to the core.
type Instructor struct {
	ID      string
	Name    string
	Status  EmploymentStatus
	MaxLoad int // sessions per week
}

// Room is externally owned and read-only to the core.
type Room struct {
	ID    string
	Label string
	Type  RoomType
}

// RoomProgramMap is a many-to-many room -> allowed-program relation. A room
// absent from this map, or mapped to an empty set, admits any program.
type RoomProgramMap map[string]map[string]struct{}

// Admits reports whether roomID may host subjects tagged with program.
// Empty program tags and rooms with no entry (or an empty set) are
// universally compatible.
func (m RoomProgramMap) Admits(roomID, program string) bool {
	if program == "" {
		return true
	}
	programs, ok := m[roomID]
	if !ok || len(programs) == 0 {
		return true
	}
	_, allowed := programs[program]
	return allowed
}

// Session is a single weekly meeting instance: one subject, one instructor,
// one room, one day, one time window.
type Session struct {
	ID           string
	SubjectID    string
	InstructorID string
	RoomID       string
	Day          Day
	Start        int // minutes-since-midnight
	End          int
	Semester     string
	SchoolYear   string
	Approved     *bool
}

// ConflictKind distinguishes the two resource-exclusion violations the
// detector reports.
type ConflictKind string

const (
	InstructorDoubleBook ConflictKind = "InstructorDoubleBook"
	RoomDoubleBook       ConflictKind = "RoomDoubleBook"
)

// ConflictStatus tracks whether a human has acted on a detected conflict.
type ConflictStatus string

const (
	ConflictUnresolved ConflictStatus = "Unresolved"
	ConflictResolved   ConflictStatus = "Resolved"
)

// Conflict is a materialized record of two overlapping committed sessions.
type Conflict struct {
	Session1ID     string
	Session2ID     string
	Kind           ConflictKind
	Description    string
	Recommendation string
	Status         ConflictStatus
}
