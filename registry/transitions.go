package registry

import "github.com/yeremiapane/hotel-app/models"

// Transition types untuk audit trail
const (
	TransitionManual    = "manual"
	TransitionAutomatic = "automatic"
)

// manualTransitions is the authoritative room status state machine for
// direct (manual) requests. OCCUPIED is never a manual target: rooms only
// become occupied through check-in, and only leave OCCUPIED through
// check-out or an emergency move to MAINTENANCE.
// AVAILABLE -> AVAILABLE is an idempotent no-op and still succeeds.
var manualTransitions = map[string]map[string]bool{
	models.RoomStatusAvailable: {
		models.RoomStatusAvailable:   true,
		models.RoomStatusCleaning:    true,
		models.RoomStatusMaintenance: true,
	},
	models.RoomStatusCleaning: {
		models.RoomStatusAvailable:   true,
		models.RoomStatusMaintenance: true,
	},
	models.RoomStatusMaintenance: {
		models.RoomStatusAvailable: true,
		models.RoomStatusCleaning:  true,
	},
	models.RoomStatusOccupied: {
		models.RoomStatusMaintenance: true, // emergency only
	},
}

// IsValidStatus cek apakah status termasuk enum yang dikenal
func IsValidStatus(status string) bool {
	switch status {
	case models.RoomStatusAvailable, models.RoomStatusOccupied,
		models.RoomStatusCleaning, models.RoomStatusMaintenance:
		return true
	}
	return false
}

// CanManualTransition reports whether a direct status edit from -> to is
// permitted. Every call site goes through this one table; there are no
// inline status conditionals elsewhere.
func CanManualTransition(from, to string) bool {
	allowed, ok := manualTransitions[from]
	if !ok {
		return false
	}
	return allowed[to]
}
