package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/hotel-app/apperrors"
	"github.com/yeremiapane/hotel-app/models"
)

// Reserved system actor identities. These never collide with "user:<id>".
const (
	ActorSweeper = "system:sweeper"
)

// Action tags
const (
	ActionRoomCreate       = "room.create"
	ActionRoomUpdate       = "room.update"
	ActionRoomDelete       = "room.delete"
	ActionRoomStatusChange = "room.status_change"
	ActionBookingCreate    = "booking.create"
	ActionBookingCheckIn   = "booking.check_in"
	ActionBookingCheckOut  = "booking.check_out"
	ActionBookingExpire    = "booking.expire_sweep"
	ActionPaymentRecord    = "payment.record"
)

// ActorUser menghasilkan identitas audit untuk user biasa
func ActorUser(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// Store is the only code path in the application with insert capability on
// audit_entries. It exposes Log plus read queries and nothing else; there
// is no update or delete method to misuse, so immutability is structural.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Log -> append one entry. Details must at least carry previous_value,
// new_value and affected_entity_id for state changes.
func (s *Store) Log(actorID, action string, details map[string]interface{}) (*models.AuditEntry, error) {
	if actorID == "" {
		return nil, apperrors.NewValidation("audit entry requires an actor")
	}
	if action == "" {
		return nil, apperrors.NewValidation("audit entry requires an action")
	}
	if len(details) == 0 {
		return nil, apperrors.NewValidation("audit entry requires details")
	}

	raw, err := json.Marshal(details)
	if err != nil {
		return nil, apperrors.NewValidation("audit details not serializable: %v", err)
	}

	entry := models.AuditEntry{
		ActorID:   actorID,
		Action:    action,
		Details:   string(raw),
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByActor -> entri untuk satu actor, terbaru dulu
func (s *Store) FindByActor(actorID string, limit, offset int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := s.db.Where("actor_id = ?", actorID).
		Order("created_at DESC").
		Limit(normalizeLimit(limit)).Offset(offset).
		Find(&entries).Error
	return entries, err
}

// FindByAction -> entri untuk satu action tag, terbaru dulu
func (s *Store) FindByAction(action string, limit, offset int) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	err := s.db.Where("action = ?", action).
		Order("created_at DESC").
		Limit(normalizeLimit(limit)).Offset(offset).
		Find(&entries).Error
	return entries, err
}

// FindByTimeRange -> entri dalam rentang waktu [from, to]
func (s *Store) FindByTimeRange(from, to time.Time, limit, offset int) ([]models.AuditEntry, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidation("time range end precedes start")
	}
	var entries []models.AuditEntry
	err := s.db.Where("created_at >= ? AND created_at <= ?", from, to).
		Order("created_at DESC").
		Limit(normalizeLimit(limit)).Offset(offset).
		Find(&entries).Error
	return entries, err
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 50
	}
	return limit
}
