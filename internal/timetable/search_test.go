package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lena958/iload/internal/models"
)

func TestSearchFindsCompatibleAssignment(t *testing.T) {
	c := testConstraints()
	subjects := map[string]models.Subject{
		"s1": {ID: "s1"},
		"s2": {ID: "s2"},
	}
	instructors := map[string]models.Instructor{
		"I1": {ID: "I1", Status: models.EmploymentPermanent, MaxLoad: 10},
		"I2": {ID: "I2", Status: models.EmploymentOther, MaxLoad: 10},
	}
	domains := Domains{
		"s1": Domain{NewGroup("s1", "I1", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"}})},
		"s2": Domain{NewGroup("s2", "I2", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "L1"}})},
	}

	result, err := Search(c, subjects, instructors, domains, 0)
	require.NoError(t, err)
	assert.Len(t, result.Assignment, 2)
}

func TestSearchReturnsInfeasibleWhenNoCombinationWorks(t *testing.T) {
	c := testConstraints()
	subjects := map[string]models.Subject{
		"s1": {ID: "s1"},
		"s2": {ID: "s2"},
	}
	instructors := map[string]models.Instructor{
		"I1": {ID: "I1", Status: models.EmploymentPermanent, MaxLoad: 10},
	}
	// Both subjects only have a candidate taught by the same instructor in
	// the same room at an overlapping time: no assignment can satisfy both.
	domains := Domains{
		"s1": Domain{NewGroup("s1", "I1", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"}})},
		"s2": Domain{NewGroup("s2", "I1", []Meeting{{Day: models.Monday, Start: 510, End: 570, RoomID: "R1"}})},
	}

	_, err := Search(c, subjects, instructors, domains, 0)
	assert.Error(t, err)
}

func TestSearchRespectsLoadBudget(t *testing.T) {
	c := testConstraints()
	subjects := map[string]models.Subject{
		"s1": {ID: "s1"},
		"s2": {ID: "s2"},
	}
	instructors := map[string]models.Instructor{
		"I1": {ID: "I1", Status: models.EmploymentOther, MaxLoad: 1},
	}
	domains := Domains{
		"s1": Domain{NewGroup("s1", "I1", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"}})},
		"s2": Domain{NewGroup("s2", "I1", []Meeting{{Day: models.Tuesday, Start: 480, End: 540, RoomID: "R1"}})},
	}

	_, err := Search(c, subjects, instructors, domains, 0)
	assert.Error(t, err, "instructor's MaxLoad of 1 cannot cover two one-session subjects")
}

func TestSearchEnforcesPartTimeTwoDayRule(t *testing.T) {
	c := testConstraints()
	subjects := map[string]models.Subject{
		"s1": {ID: "s1"},
		"s2": {ID: "s2"},
	}
	instructors := map[string]models.Instructor{
		"I2": {ID: "I2", Status: models.EmploymentPartTime, MaxLoad: 10},
	}
	// Both candidate Groups meet only on Monday, so a PartTime instructor
	// with two Groups assigned would never span two distinct days.
	domains := Domains{
		"s1": Domain{NewGroup("s1", "I2", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"}})},
		"s2": Domain{NewGroup("s2", "I2", []Meeting{{Day: models.Monday, Start: 600, End: 660, RoomID: "R1"}})},
	}

	_, err := Search(c, subjects, instructors, domains, 0)
	assert.Error(t, err)
}

func TestSearchExemptsSinglePartTimeGroupFromTwoDayRule(t *testing.T) {
	c := testConstraints()
	subjects := map[string]models.Subject{"s1": {ID: "s1"}}
	instructors := map[string]models.Instructor{
		"I2": {ID: "I2", Status: models.EmploymentPartTime, MaxLoad: 10},
	}
	domains := Domains{
		"s1": Domain{NewGroup("s1", "I2", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"}})},
	}

	result, err := Search(c, subjects, instructors, domains, 0)
	require.NoError(t, err)
	assert.Len(t, result.Assignment, 1)
}

func TestSearchReturnsBudgetExhausted(t *testing.T) {
	c := testConstraints()
	subjects := map[string]models.Subject{"s1": {ID: "s1"}, "s2": {ID: "s2"}}
	instructors := map[string]models.Instructor{
		"I1": {ID: "I1", Status: models.EmploymentOther, MaxLoad: 10},
	}
	domains := Domains{
		"s1": Domain{NewGroup("s1", "I1", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"}})},
		"s2": Domain{NewGroup("s2", "I1", []Meeting{{Day: models.Monday, Start: 600, End: 660, RoomID: "L1"}})},
	}

	_, err := Search(c, subjects, instructors, domains, 1)
	assert.Error(t, err)
}
