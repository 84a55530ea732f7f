package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/hotel-app/apperrors"
	"github.com/yeremiapane/hotel-app/audit"
	"github.com/yeremiapane/hotel-app/hub"
	"github.com/yeremiapane/hotel-app/models"
	"github.com/yeremiapane/hotel-app/utils"
)

// LateCheckoutFactor -> denda keterlambatan: 50% dari tarif satu malam,
// dikenakan sekali saat checkout lewat dari akhir hari check_out_date.
const LateCheckoutFactor = 0.5

// Payment methods
var validPaymentMethods = map[string]bool{
	"cash":     true,
	"card":     true,
	"transfer": true,
}

// Broadcaster is the post-commit publish handle. The websocket hub
// implements it in production; tests inject a recorder.
type Broadcaster interface {
	Publish(event string, payload interface{})
}

// Coordinator executes every state-changing operation as one atomic unit:
//
//  1. acquire the room lock
//  2. re-read current state inside the transaction (SELECT ... FOR UPDATE)
//  3. re-validate preconditions under the lock
//  4. apply the mutations
//  5. commit, or roll back leaving zero side effects
//  6. after commit, still under the lock: write one audit entry, then
//     publish to subscribers
//
// Holding the lock through step 6 makes per-room publish order equal
// commit order. Nothing else in the codebase writes room or booking state.
type Coordinator struct {
	db     *gorm.DB
	ledger *BookingService
	locks  *RoomLocker
	audit  *audit.Store
	bus    Broadcaster
}

// NewCoordinator wires the coordinator. The lock table is shared with the
// room service so manual status edits and coordinator units on the same
// room serialize against each other.
func NewCoordinator(db *gorm.DB, ledger *BookingService, locks *RoomLocker, auditStore *audit.Store, bus Broadcaster) *Coordinator {
	return &Coordinator{
		db:     db,
		ledger: ledger,
		locks:  locks,
		audit:  auditStore,
		bus:    bus,
	}
}

type ReserveRequest struct {
	UserID   uint
	RoomID   uint
	CheckIn  time.Time
	CheckOut time.Time
}

type PaymentRequest struct {
	Amount float64
	Method string
	Notes  string
}

// Reserve -> buat booking baru kalau rentang tanggalnya bebas konflik.
// Konflik dicek ulang di bawah lock, jadi dari dua request bersamaan untuk
// kamar dan tanggal yang tumpang tindih hanya satu yang berhasil.
func (co *Coordinator) Reserve(actor Actor, req ReserveRequest) (*models.Booking, error) {
	if !actor.IsKnownRole() {
		return nil, apperrors.NewAuthorization("role %q may not reserve rooms", actor.Role)
	}
	if req.UserID == 0 {
		req.UserID = actor.ID
	}
	if actor.Role == models.RoleClient && req.UserID != actor.ID {
		return nil, apperrors.NewAuthorization("clients may only reserve for themselves")
	}
	if !req.CheckOut.After(req.CheckIn) {
		return nil, apperrors.NewValidation("check-out date must be after check-in date")
	}

	co.locks.Lock(req.RoomID)
	defer co.locks.Unlock(req.RoomID)

	var booking models.Booking
	err := co.db.Transaction(func(tx *gorm.DB) error {
		// Re-read kamar di bawah lock, jangan percaya pembacaan pre-lock
		var room models.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, req.RoomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("room %d not found", req.RoomID)
			}
			return err
		}

		conflicts, err := co.ledger.FindConflicts(tx, room.ID, req.CheckIn, req.CheckOut, 0)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return apperrors.NewConflict("room %s already has a reservation overlapping the requested dates", room.RoomNumber)
		}

		nights := nightsBetween(req.CheckIn, req.CheckOut)
		booking = models.Booking{
			ReferenceCode: "BK-" + uuid.NewString(),
			UserID:        req.UserID,
			RoomID:        room.ID,
			CheckInDate:   req.CheckIn,
			CheckOutDate:  req.CheckOut,
			TotalCost:     float64(nights) * room.PricePerNight,
			Status:        models.BookingStatusConfirmed,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		booking.Room = room
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "reserve")
	}

	// Setelah commit: audit dulu, baru broadcast, masih di dalam lock kamar
	co.writeAudit(actor.AuditID(), audit.ActionBookingCreate, map[string]interface{}{
		"previous_value":     "NONE",
		"new_value":          booking.Status,
		"affected_entity_id": booking.ID,
		"room_id":            booking.RoomID,
		"check_in_date":      booking.CheckInDate,
		"check_out_date":     booking.CheckOutDate,
		"total_cost":         booking.TotalCost,
	})
	co.bus.Publish(hub.EventBookingUpdate, map[string]interface{}{
		"action":  "created",
		"booking": booking,
		"room":    booking.Room,
		"guest":   booking.GuestLabel(),
		"nights":  booking.Nights(),
	})

	utils.InfoLogger.Printf("Booking %d created for room %s (%s - %s)",
		booking.ID, booking.Room.RoomNumber,
		booking.CheckInDate.Format("2006-01-02"), booking.CheckOutDate.Format("2006-01-02"))
	return &booking, nil
}

// CheckIn -> booking CONFIRMED menjadi CHECKED_IN, kamar menjadi OCCUPIED.
// Ini satu-satunya jalur masuk ke status OCCUPIED.
func (co *Coordinator) CheckIn(actor Actor, bookingID uint) (*models.Booking, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewAuthorization("check-in requires staff access")
	}

	roomID, err := co.roomIDForBooking(bookingID)
	if err != nil {
		return nil, err
	}

	co.locks.Lock(roomID)
	defer co.locks.Unlock(roomID)

	var booking models.Booking
	var room models.Room
	var prevRoomStatus string
	err = co.db.Transaction(func(tx *gorm.DB) error {
		if err := lockedRead(tx, &booking, bookingID, "booking"); err != nil {
			return err
		}
		if err := lockedRead(tx, &room, booking.RoomID, "room"); err != nil {
			return err
		}

		if booking.Status != models.BookingStatusConfirmed {
			return apperrors.NewValidation("booking %d is %s, only a CONFIRMED booking can check in", booking.ID, booking.Status)
		}
		if startOfDay(time.Now()).Before(startOfDay(booking.CheckInDate)) {
			return apperrors.NewValidation("check-in date %s has not been reached", booking.CheckInDate.Format("2006-01-02"))
		}

		prevRoomStatus = room.Status
		booking.Status = models.BookingStatusCheckedIn
		room.Status = models.RoomStatusOccupied
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}
		if err := tx.Save(&room).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "check-in")
	}
	booking.Room = room

	co.writeAudit(actor.AuditID(), audit.ActionBookingCheckIn, map[string]interface{}{
		"previous_value":       models.BookingStatusConfirmed,
		"new_value":            booking.Status,
		"affected_entity_id":   booking.ID,
		"room_id":              room.ID,
		"room_previous_status": prevRoomStatus,
		"room_new_status":      room.Status,
		"transition_type":      "automatic",
	})
	co.bus.Publish(hub.EventOperationUpdate, map[string]interface{}{
		"action":       "check_in",
		"booking":      booking,
		"room":         room,
		"guest":        booking.GuestLabel(),
		"late_penalty": 0.0,
	})

	utils.InfoLogger.Printf("Booking %d checked in, room %s now %s", booking.ID, room.RoomNumber, room.Status)
	return &booking, nil
}

// CheckOut -> booking CHECKED_IN menjadi CHECKED_OUT, kamar menjadi
// CLEANING. Checkout lewat akhir hari check_out_date kena denda 50% tarif
// satu malam, ditambahkan ke total_cost.
func (co *Coordinator) CheckOut(actor Actor, bookingID uint) (*models.Booking, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewAuthorization("check-out requires staff access")
	}

	roomID, err := co.roomIDForBooking(bookingID)
	if err != nil {
		return nil, err
	}

	co.locks.Lock(roomID)
	defer co.locks.Unlock(roomID)

	var booking models.Booking
	var room models.Room
	var latePenalty float64
	var prevRoomStatus string
	err = co.db.Transaction(func(tx *gorm.DB) error {
		if err := lockedRead(tx, &booking, bookingID, "booking"); err != nil {
			return err
		}
		if err := lockedRead(tx, &room, booking.RoomID, "room"); err != nil {
			return err
		}

		if booking.Status != models.BookingStatusCheckedIn {
			return apperrors.NewValidation("booking %d is %s, only a CHECKED_IN booking can check out", booking.ID, booking.Status)
		}

		if time.Now().After(endOfDay(booking.CheckOutDate)) {
			latePenalty = room.PricePerNight * LateCheckoutFactor
			booking.TotalCost += latePenalty
		}

		prevRoomStatus = room.Status
		booking.Status = models.BookingStatusCheckedOut
		room.Status = models.RoomStatusCleaning
		if err := tx.Save(&booking).Error; err != nil {
			return err
		}
		if err := tx.Save(&room).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "check-out")
	}
	booking.Room = room

	co.writeAudit(actor.AuditID(), audit.ActionBookingCheckOut, map[string]interface{}{
		"previous_value":       models.BookingStatusCheckedIn,
		"new_value":            booking.Status,
		"affected_entity_id":   booking.ID,
		"room_id":              room.ID,
		"room_previous_status": prevRoomStatus,
		"room_new_status":      room.Status,
		"transition_type":      "automatic",
		"late_penalty":         latePenalty,
		"total_cost":           booking.TotalCost,
	})
	co.bus.Publish(hub.EventOperationUpdate, map[string]interface{}{
		"action":       "check_out",
		"booking":      booking,
		"room":         room,
		"guest":        booking.GuestLabel(),
		"late_penalty": latePenalty,
	})

	utils.InfoLogger.Printf("Booking %d checked out (late penalty %s), room %s now %s",
		booking.ID, utils.FormatCurrency(latePenalty), room.RoomNumber, room.Status)
	return &booking, nil
}

// RecordPayment -> catat pembayaran untuk booking. Tidak mengubah status
// booking maupun kamar.
func (co *Coordinator) RecordPayment(actor Actor, bookingID uint, req PaymentRequest) (*models.Payment, error) {
	if !actor.IsStaff() {
		return nil, apperrors.NewAuthorization("recording payments requires staff access")
	}
	if req.Amount <= 0 {
		return nil, apperrors.NewValidation("payment amount must be positive")
	}
	if req.Method == "" {
		req.Method = "cash"
	}
	if !validPaymentMethods[req.Method] {
		return nil, apperrors.NewValidation("unknown payment method %q", req.Method)
	}

	roomID, err := co.roomIDForBooking(bookingID)
	if err != nil {
		return nil, err
	}

	co.locks.Lock(roomID)
	defer co.locks.Unlock(roomID)

	var booking models.Booking
	var room models.Room
	var payment models.Payment
	err = co.db.Transaction(func(tx *gorm.DB) error {
		if err := lockedRead(tx, &booking, bookingID, "booking"); err != nil {
			return err
		}
		if err := lockedRead(tx, &room, booking.RoomID, "room"); err != nil {
			return err
		}

		if booking.Status == models.BookingStatusCancelled {
			return apperrors.NewValidation("cannot record a payment on a cancelled booking")
		}

		recordedBy := actor.ID
		payment = models.Payment{
			BookingID:  booking.ID,
			Amount:     req.Amount,
			Method:     req.Method,
			Notes:      req.Notes,
			RecordedBy: &recordedBy,
		}
		return tx.Create(&payment).Error
	})
	if err != nil {
		return nil, asAppError(err, "record payment")
	}
	booking.Room = room

	co.writeAudit(actor.AuditID(), audit.ActionPaymentRecord, map[string]interface{}{
		"previous_value":     "NONE",
		"new_value":          payment.Amount,
		"affected_entity_id": payment.ID,
		"booking_id":         booking.ID,
		"method":             payment.Method,
	})
	co.bus.Publish(hub.EventOperationUpdate, map[string]interface{}{
		"action":       "payment_recorded",
		"booking":      booking,
		"room":         room,
		"late_penalty": 0.0,
	})

	utils.InfoLogger.Printf("Payment of %s recorded for booking %d", utils.FormatCurrency(payment.Amount), booking.ID)
	return &payment, nil
}

// roomIDForBooking -> lookup pre-lock hanya untuk kunci lock; state-nya
// dibaca ulang di dalam transaksi.
func (co *Coordinator) roomIDForBooking(bookingID uint) (uint, error) {
	var booking models.Booking
	if err := co.db.Select("id", "room_id").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.NewNotFound("booking %d not found", bookingID)
		}
		utils.ErrorLogger.Printf("Error resolving room for booking %d: %v", bookingID, err)
		return 0, apperrors.NewInternal()
	}
	return booking.RoomID, nil
}

func (co *Coordinator) writeAudit(actorID, action string, details map[string]interface{}) {
	if _, err := co.audit.Log(actorID, action, details); err != nil {
		utils.ErrorLogger.Printf("Error writing audit entry for %s: %v", action, err)
	}
}

// lockedRead -> SELECT ... FOR UPDATE ke satu row by primary key
func lockedRead(tx *gorm.DB, dest interface{}, id uint, kind string) error {
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("%s %d not found", kind, id)
		}
		return err
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// endOfDay -> tengah malam setelah tanggal t
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1)
}

// asAppError melewatkan error bertipe apa adanya dan menggeneralisasi
// kegagalan internal jadi satu kind buram.
func asAppError(err error, op string) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	utils.ErrorLogger.Printf("Error during %s: %v", op, err)
	return apperrors.NewInternal()
}
