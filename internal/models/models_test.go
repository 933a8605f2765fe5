package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomProgramMapAdmitsEmptyProgramAlways(t *testing.T) {
	m := RoomProgramMap{"R1": {"BSCS": struct{}{}}}
	assert.True(t, m.Admits("R1", ""))
}

func TestRoomProgramMapAdmitsUnlistedRoom(t *testing.T) {
	m := RoomProgramMap{"R1": {"BSCS": struct{}{}}}
	assert.True(t, m.Admits("R2", "BSIT"))
}

func TestRoomProgramMapAdmitsWhenMappedToEmptySet(t *testing.T) {
	m := RoomProgramMap{"R1": {}}
	assert.True(t, m.Admits("R1", "BSIT"))
}

func TestRoomProgramMapRejectsUnlistedProgram(t *testing.T) {
	m := RoomProgramMap{"R1": {"BSCS": struct{}{}}}
	assert.False(t, m.Admits("R1", "BSIT"))
}
