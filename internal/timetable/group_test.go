package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lena958/iload/internal/models"
)

func TestCanonicalKeyIsOrderIndependent(t *testing.T) {
	a := []Meeting{
		{Day: models.Friday, Start: 480, End: 540, RoomID: "R2"},
		{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"},
	}
	b := []Meeting{
		{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"},
		{Day: models.Friday, Start: 480, End: 540, RoomID: "R2"},
	}
	assert.Equal(t, canonicalKey(a), canonicalKey(b))
}

func TestCanonicalKeyDiffersOnRoom(t *testing.T) {
	a := NewGroup("s1", "i1", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"}})
	b := NewGroup("s1", "i1", []Meeting{{Day: models.Monday, Start: 480, End: 540, RoomID: "R2"}})
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestDomainSortForSearchOrdersBySizeThenKey(t *testing.T) {
	big := NewGroup("s1", "i1", []Meeting{
		{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"},
		{Day: models.Wednesday, Start: 480, End: 540, RoomID: "R1"},
	})
	small := NewGroup("s1", "i1", []Meeting{
		{Day: models.Monday, Start: 480, End: 540, RoomID: "R1"},
	})
	domain := Domain{big, small}
	domain.SortForSearch()
	assert.Equal(t, small.Key(), domain[0].Key())
	assert.Equal(t, big.Key(), domain[1].Key())
}
