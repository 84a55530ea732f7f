package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/hotel-app/models"
	"github.com/yeremiapane/hotel-app/registry"
)

func TestIsValidStatus(t *testing.T) {
	assert.True(t, registry.IsValidStatus(models.RoomStatusAvailable))
	assert.True(t, registry.IsValidStatus(models.RoomStatusOccupied))
	assert.True(t, registry.IsValidStatus(models.RoomStatusCleaning))
	assert.True(t, registry.IsValidStatus(models.RoomStatusMaintenance))
	assert.False(t, registry.IsValidStatus("available")) // case sensitive
	assert.False(t, registry.IsValidStatus(""))
	assert.False(t, registry.IsValidStatus("BROKEN"))
}

func TestOccupiedIsNeverAManualTarget(t *testing.T) {
	for _, from := range []string{
		models.RoomStatusAvailable, models.RoomStatusOccupied,
		models.RoomStatusCleaning, models.RoomStatusMaintenance,
	} {
		assert.False(t, registry.CanManualTransition(from, models.RoomStatusOccupied),
			"%s -> OCCUPIED must be rejected", from)
	}
}

func TestManualTransitionTable(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{models.RoomStatusAvailable, models.RoomStatusAvailable, true}, // idempotent no-op
		{models.RoomStatusAvailable, models.RoomStatusCleaning, true},
		{models.RoomStatusAvailable, models.RoomStatusMaintenance, true},
		{models.RoomStatusCleaning, models.RoomStatusAvailable, true},
		{models.RoomStatusCleaning, models.RoomStatusMaintenance, true},
		{models.RoomStatusCleaning, models.RoomStatusCleaning, false},
		{models.RoomStatusMaintenance, models.RoomStatusAvailable, true},
		{models.RoomStatusMaintenance, models.RoomStatusCleaning, true},
		{models.RoomStatusOccupied, models.RoomStatusAvailable, false},
		{models.RoomStatusOccupied, models.RoomStatusCleaning, false},
		{models.RoomStatusOccupied, models.RoomStatusMaintenance, true}, // emergency path
		{"BROKEN", models.RoomStatusAvailable, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, registry.CanManualTransition(c.from, c.to),
			"%s -> %s", c.from, c.to)
	}
}
