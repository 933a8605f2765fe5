package timetable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lena958/iload/internal/models"
)

func testSnapshot() *Snapshot {
	instructorID := "I1"
	return &Snapshot{
		Subjects: []models.Subject{
			{ID: "s1", Units: 1, Classification: models.ClassificationGeneral, Program: "BSCS", InstructorID: &instructorID},
		},
		Instructors: map[string]models.Instructor{
			"I1": {ID: "I1", Status: models.EmploymentOther, MaxLoad: 20},
		},
		Rooms: map[string]models.Room{
			"R1": {ID: "R1", Type: models.RoomTypeLecture},
			"R2": {ID: "R2", Type: models.RoomTypeLecture},
		},
		RoomPrograms: models.RoomProgramMap{},
		WindowStart:  420,
		WindowEnd:    600,
	}
}

func TestGenerateSubjectDomainProducesLegalGroups(t *testing.T) {
	snapshot := testSnapshot()
	c := NewConstraints(snapshot.Rooms, snapshot.RoomPrograms, snapshot.Instructors)

	domain, err := generateSubjectDomain(snapshot.Subjects[0], snapshot, c, 1)
	require.NoError(t, err)
	require.NotEmpty(t, domain)
	for _, g := range domain {
		assert.NoError(t, c.ValidGroup(snapshot.Subjects[0], g))
		assert.Len(t, g.Meetings, 1, "1-unit subject has a single Monday meeting")
		assert.Equal(t, models.Monday, g.Meetings[0].Day)
	}
}

func TestGenerateSubjectDomainExcludesApprovedConflicts(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.ApprovedSessions = []models.Session{
		{ID: "locked", InstructorID: "I1", RoomID: "R1", Day: models.Monday, Start: 420, End: 480},
	}
	c := NewConstraints(snapshot.Rooms, snapshot.RoomPrograms, snapshot.Instructors)

	domain, err := generateSubjectDomain(snapshot.Subjects[0], snapshot, c, 1)
	require.NoError(t, err)
	for _, g := range domain {
		for _, m := range g.Meetings {
			if m.RoomID == "R1" {
				assert.False(t, m.Start < 480 && m.End > 420, "must not collide with the locked session")
			}
		}
	}
}

func TestGenerateSubjectDomainRespectsDomainCap(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.DomainCap = 2
	c := NewConstraints(snapshot.Rooms, snapshot.RoomPrograms, snapshot.Instructors)

	domain, err := generateSubjectDomain(snapshot.Subjects[0], snapshot, c, 7)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(domain), 2)
}

func TestGenerateSubjectDomainExcludesOverLoadCandidates(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.Instructors["I1"] = models.Instructor{ID: "I1", Status: models.EmploymentOther, MaxLoad: 0}
	c := NewConstraints(snapshot.Rooms, snapshot.RoomPrograms, snapshot.Instructors)

	domain, err := generateSubjectDomain(snapshot.Subjects[0], snapshot, c, 1)
	require.NoError(t, err)
	assert.Empty(t, domain, "every candidate has one meeting, exceeding an instructor with MaxLoad 0")
}

func TestGenerateDomainsEmitsEmptyDomainDiagnostic(t *testing.T) {
	snapshot := testSnapshot()
	snapshot.Rooms = map[string]models.Room{} // no rooms at all: every candidate is impossible
	c := NewConstraints(snapshot.Rooms, snapshot.RoomPrograms, snapshot.Instructors)
	collector := &DiagnosticsCollector{}

	_, err := GenerateDomains(context.Background(), nil, 2, snapshot, c, collector)
	assert.Error(t, err)
	require.NotEmpty(t, collector.Records())
	assert.Equal(t, DiagEmptyDomain, collector.Records()[0].Kind)
}
