package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yeremiapane/hotel-app/apperrors"
	"github.com/yeremiapane/hotel-app/audit"
	"github.com/yeremiapane/hotel-app/hub"
	"github.com/yeremiapane/hotel-app/models"
	"github.com/yeremiapane/hotel-app/registry"
	"github.com/yeremiapane/hotel-app/utils"
)

// RoomService adalah resource registry: pemilik entitas Room dan satu-
// satunya jalur mutasi status manual. Transisi dicek lewat tabel transisi
// di package registry, bukan conditional tersebar.
type RoomService struct {
	db    *gorm.DB
	locks *RoomLocker
	audit *audit.Store
	bus   Broadcaster
}

func NewRoomService(db *gorm.DB, locks *RoomLocker, auditStore *audit.Store, bus Broadcaster) *RoomService {
	return &RoomService{db: db, locks: locks, audit: auditStore, bus: bus}
}

type RoomRequest struct {
	RoomNumber    string
	Category      string
	PricePerNight float64
}

// CreateRoom -> admin menambahkan kamar baru, status awal AVAILABLE
func (rs *RoomService) CreateRoom(actor Actor, req RoomRequest) (*models.Room, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewAuthorization("creating rooms requires admin access")
	}
	if req.RoomNumber == "" {
		return nil, apperrors.NewValidation("room number is required")
	}
	if req.PricePerNight <= 0 {
		return nil, apperrors.NewValidation("nightly rate must be positive")
	}
	if req.Category == "" {
		req.Category = "standard"
	}

	room := models.Room{
		RoomNumber:    req.RoomNumber,
		Category:      req.Category,
		PricePerNight: req.PricePerNight,
		Status:        models.RoomStatusAvailable,
	}
	err := rs.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Room{}).Where("room_number = ?", req.RoomNumber).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.NewConflict("room number %s already exists", req.RoomNumber)
		}
		return tx.Create(&room).Error
	})
	if err != nil {
		return nil, asAppError(err, "create room")
	}

	rs.writeAudit(actor.AuditID(), audit.ActionRoomCreate, map[string]interface{}{
		"previous_value":     "NONE",
		"new_value":          room.Status,
		"affected_entity_id": room.ID,
		"room_number":        room.RoomNumber,
		"price_per_night":    room.PricePerNight,
	})
	rs.publishRoom("created", room)

	utils.InfoLogger.Printf("New room created: %s (rate=%s)", room.RoomNumber, utils.FormatCurrency(room.PricePerNight))
	return &room, nil
}

// UpdateRoomPricing -> admin mengubah tarif per malam
func (rs *RoomService) UpdateRoomPricing(actor Actor, roomID uint, pricePerNight float64) (*models.Room, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.NewAuthorization("updating room pricing requires admin access")
	}
	if pricePerNight <= 0 {
		return nil, apperrors.NewValidation("nightly rate must be positive")
	}

	rs.locks.Lock(roomID)
	defer rs.locks.Unlock(roomID)

	var room models.Room
	var previous float64
	err := rs.db.Transaction(func(tx *gorm.DB) error {
		if err := lockedRead(tx, &room, roomID, "room"); err != nil {
			return err
		}
		previous = room.PricePerNight
		room.PricePerNight = pricePerNight
		return tx.Save(&room).Error
	})
	if err != nil {
		return nil, asAppError(err, "update room pricing")
	}

	rs.writeAudit(actor.AuditID(), audit.ActionRoomUpdate, map[string]interface{}{
		"previous_value":     previous,
		"new_value":          room.PricePerNight,
		"affected_entity_id": room.ID,
		"field":              "price_per_night",
	})
	rs.publishRoom("updated", room)

	utils.InfoLogger.Printf("Room %s rate changed to %s", room.RoomNumber, utils.FormatCurrency(room.PricePerNight))
	return &room, nil
}

// DeleteRoom -> admin menghapus kamar. Ditolak selama masih ada booking
// aktif yang mereferensikan kamar ini.
func (rs *RoomService) DeleteRoom(actor Actor, roomID uint) error {
	if !actor.IsAdmin() {
		return apperrors.NewAuthorization("deleting rooms requires admin access")
	}

	rs.locks.Lock(roomID)
	defer rs.locks.Unlock(roomID)

	var room models.Room
	err := rs.db.Transaction(func(tx *gorm.DB) error {
		if err := lockedRead(tx, &room, roomID, "room"); err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&models.Booking{}).
			Where("room_id = ?", roomID).
			Where("status IN ?", []string{models.BookingStatusConfirmed, models.BookingStatusCheckedIn}).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperrors.NewConflict("room %s still has %d active booking(s)", room.RoomNumber, active)
		}
		return tx.Delete(&room).Error
	})
	if err != nil {
		return asAppError(err, "delete room")
	}

	rs.writeAudit(actor.AuditID(), audit.ActionRoomDelete, map[string]interface{}{
		"previous_value":     room.Status,
		"new_value":          "DELETED",
		"affected_entity_id": room.ID,
		"room_number":        room.RoomNumber,
	})
	rs.publishRoom("deleted", room)

	utils.InfoLogger.Printf("Room %s deleted", room.RoomNumber)
	return nil
}

// SetStatus -> transisi status manual, divalidasi lewat tabel transisi.
// OCCUPIED tidak pernah bisa dijadikan target manual, apapun role-nya, dan
// transisi ke AVAILABLE ditolak selama masih ada booking CHECKED_IN.
func (rs *RoomService) SetStatus(actor Actor, roomID uint, newStatus string) (*models.Room, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewAuthorization("changing room status requires staff access")
	}
	if !registry.IsValidStatus(newStatus) {
		return nil, apperrors.NewValidation("unknown room status %q", newStatus)
	}

	rs.locks.Lock(roomID)
	defer rs.locks.Unlock(roomID)

	var room models.Room
	var previous string
	err := rs.db.Transaction(func(tx *gorm.DB) error {
		if err := lockedRead(tx, &room, roomID, "room"); err != nil {
			return err
		}

		previous = room.Status
		if !registry.CanManualTransition(previous, newStatus) {
			return apperrors.NewInvalidTransition("room status %s -> %s is not permitted", previous, newStatus)
		}

		if newStatus == models.RoomStatusAvailable {
			var checkedIn int64
			if err := tx.Model(&models.Booking{}).
				Where("room_id = ?", roomID).
				Where("status = ?", models.BookingStatusCheckedIn).
				Count(&checkedIn).Error; err != nil {
				return err
			}
			if checkedIn > 0 {
				return apperrors.NewInvalidTransition("room %s has a checked-in booking and cannot become AVAILABLE", room.RoomNumber)
			}
		}

		room.Status = newStatus
		return tx.Save(&room).Error
	})
	if err != nil {
		return nil, asAppError(err, "set room status")
	}

	rs.writeAudit(actor.AuditID(), audit.ActionRoomStatusChange, map[string]interface{}{
		"previous_value":     previous,
		"new_value":          room.Status,
		"affected_entity_id": room.ID,
		"previous_status":    previous,
		"new_status":         room.Status,
		"transition_type":    registry.TransitionManual,
	})
	rs.publishRoom("status_changed", room)

	utils.InfoLogger.Printf("Room %s status changed %s -> %s", room.RoomNumber, previous, room.Status)
	return &room, nil
}

// GetRoom -> detail satu kamar
func (rs *RoomService) GetRoom(roomID uint) (*models.Room, error) {
	var room models.Room
	if err := rs.db.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("room %d not found", roomID)
		}
		utils.ErrorLogger.Printf("Error loading room %d: %v", roomID, err)
		return nil, apperrors.NewInternal()
	}
	return &room, nil
}

// ListByStatus -> daftar kamar, opsional difilter status. Query read-only,
// tidak ikut lock.
func (rs *RoomService) ListByStatus(status string) ([]models.Room, error) {
	if status != "" && !registry.IsValidStatus(status) {
		return nil, apperrors.NewValidation("unknown room status %q", status)
	}

	q := rs.db.Order("room_number asc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		utils.ErrorLogger.Printf("Error listing rooms: %v", err)
		return nil, apperrors.NewInternal()
	}
	return rooms, nil
}

// DashboardStats menghitung jumlah kamar per status
func (rs *RoomService) DashboardStats() map[string]int64 {
	stats := map[string]int64{}
	var total int64
	for _, status := range []string{
		models.RoomStatusAvailable, models.RoomStatusOccupied,
		models.RoomStatusCleaning, models.RoomStatusMaintenance,
	} {
		var count int64
		rs.db.Model(&models.Room{}).Where("status = ?", status).Count(&count)
		stats[status] = count
		total += count
	}
	stats["total"] = total
	return stats
}

func (rs *RoomService) writeAudit(actorID, action string, details map[string]interface{}) {
	if _, err := rs.audit.Log(actorID, action, details); err != nil {
		utils.ErrorLogger.Printf("Error writing audit entry for %s: %v", action, err)
	}
}

func (rs *RoomService) publishRoom(action string, room models.Room) {
	rs.bus.Publish(hub.EventRoomUpdate, map[string]interface{}{
		"action": action,
		"room":   room,
		"stats":  rs.DashboardStats(),
	})
}
