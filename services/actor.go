package services

import (
	"github.com/yeremiapane/hotel-app/audit"
	"github.com/yeremiapane/hotel-app/models"
)

// Actor is the authenticated caller context supplied by the auth layer
// before any coordinator call.
type Actor struct {
	ID   uint
	Role string // admin, staff, client
}

// AuditID -> identitas actor untuk audit trail
func (a Actor) AuditID() string {
	return audit.ActorUser(a.ID)
}

// IsStaff reports whether the actor can run front-desk operations.
func (a Actor) IsStaff() bool {
	return a.Role == models.RoleStaff || a.Role == models.RoleAdmin
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// IsKnownRole cek apakah role termasuk yang dikenal sistem
func (a Actor) IsKnownRole() bool {
	switch a.Role {
	case models.RoleAdmin, models.RoleStaff, models.RoleClient:
		return true
	}
	return false
}
