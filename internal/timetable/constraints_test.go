package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lena958/iload/internal/models"
)

func testConstraints() *Constraints {
	rooms := map[string]models.Room{
		"R1": {ID: "R1", Label: "Room 1", Type: models.RoomTypeLecture},
		"L1": {ID: "L1", Label: "Lab 1", Type: models.RoomTypeLab},
	}
	instructors := map[string]models.Instructor{
		"I1": {ID: "I1", Status: models.EmploymentPermanent, MaxLoad: 10},
		"I2": {ID: "I2", Status: models.EmploymentPartTime, MaxLoad: 6},
	}
	return NewConstraints(rooms, nil, instructors)
}

func TestValidGroupRejectsWrongRoomType(t *testing.T) {
	c := testConstraints()
	subject := models.Subject{ID: "s1", Program: "BSCS"}
	g := NewGroup("s1", "I1", []Meeting{
		{Day: models.Monday, Start: 480, End: 540, RoomID: "L1", Role: models.RoomTypeLecture},
	})
	err := c.ValidGroup(subject, g)
	assert.Error(t, err)
}

func TestValidGroupRejectsIllegalDuration(t *testing.T) {
	c := testConstraints()
	subject := models.Subject{ID: "s1"}
	g := NewGroup("s1", "I1", []Meeting{
		{Day: models.Monday, Start: 480, End: 545, RoomID: "R1", Role: models.RoomTypeLecture},
	})
	assert.Error(t, c.ValidGroup(subject, g))
}

func TestValidGroupRejectsPermanentLunchOverlap(t *testing.T) {
	c := testConstraints()
	subject := models.Subject{ID: "s1"}
	g := NewGroup("s1", "I1", []Meeting{
		{Day: models.Monday, Start: 690, End: 750, RoomID: "R1", Role: models.RoomTypeLecture},
	})
	assert.Error(t, c.ValidGroup(subject, g))
}

func TestValidGroupAllowsPartTimeLunchOverlap(t *testing.T) {
	c := testConstraints()
	subject := models.Subject{ID: "s2"}
	g := NewGroup("s2", "I2", []Meeting{
		{Day: models.Monday, Start: 690, End: 750, RoomID: "R1", Role: models.RoomTypeLecture},
	})
	require.NoError(t, c.ValidGroup(subject, g))
}

func TestCompatibleSameInstructorOverlappingDay(t *testing.T) {
	c := testConstraints()
	a := NewGroup("s1", "I1", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"}})
	b := NewGroup("s2", "I1", []Meeting{{Day: models.Monday, Start: 510, End: 570, RoomID: "L1"}})
	assert.False(t, c.Compatible(a, b))
}

func TestCompatibleSameRoomOverlappingDay(t *testing.T) {
	c := testConstraints()
	a := NewGroup("s1", "I1", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"}})
	b := NewGroup("s2", "I2", []Meeting{{Day: models.Monday, Start: 510, End: 570, RoomID: "R1"}})
	assert.False(t, c.Compatible(a, b))
}

func TestCompatibleDifferentDaysNeverConflict(t *testing.T) {
	c := testConstraints()
	a := NewGroup("s1", "I1", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"}})
	b := NewGroup("s2", "I1", []Meeting{{Day: models.Tuesday, Start: 480, End: 540, RoomID: "R1"}})
	assert.True(t, c.Compatible(a, b))
}

func TestCompatibleMemoizesResult(t *testing.T) {
	c := testConstraints()
	a := NewGroup("s1", "I1", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"}})
	b := NewGroup("s2", "I2", []Meeting{{Day: models.Monday, Start: 600, End: 660, RoomID: "L1"}})

	first := c.Compatible(a, b)
	second := c.Compatible(b, a)
	assert.Equal(t, first, second)
	assert.Len(t, c.compatible, 1)
}
