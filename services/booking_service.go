package services

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/hotel-app/apperrors"
	"github.com/yeremiapane/hotel-app/models"
	"github.com/yeremiapane/hotel-app/utils"
)

// BookingService adalah ledger reservasi: deteksi konflik tanggal,
// perhitungan biaya, dan query booking. Semua mutasi booking berjalan
// lewat Coordinator, bukan lewat service ini.
type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

// nightsBetween -> ceiling selisih hari kalender
func nightsBetween(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// Quote menghitung jumlah malam dan total biaya untuk rentang tanggal.
// Mengikuti kontrak lamanya: salah rentang atau kamar tidak ada sama-sama
// dianggap input tidak valid.
func (bs *BookingService) Quote(roomID uint, checkIn, checkOut time.Time) (int, float64, error) {
	if !checkOut.After(checkIn) {
		return 0, 0, apperrors.NewValidation("check-out date must be after check-in date")
	}

	var room models.Room
	if err := bs.db.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, apperrors.NewValidation("room %d not found", roomID)
		}
		utils.ErrorLogger.Printf("Error loading room %d for quote: %v", roomID, err)
		return 0, 0, apperrors.NewInternal()
	}

	nights := nightsBetween(checkIn, checkOut)
	return nights, float64(nights) * room.PricePerNight, nil
}

// FindConflicts returns every booking on the room whose active interval
// overlaps [checkIn, checkOut). The half-open overlap test is
// existing.check_in < new.check_out AND existing.check_out > new.check_in,
// so boundary-touching stays (checkout day = next check-in day) do not
// conflict. Pass the transaction handle when running under the
// coordinator's lock; excludeBookingID=0 means exclude nothing.
func (bs *BookingService) FindConflicts(tx *gorm.DB, roomID uint, checkIn, checkOut time.Time, excludeBookingID uint) ([]models.Booking, error) {
	if tx == nil {
		tx = bs.db
	}

	q := tx.Where("room_id = ?", roomID).
		Where("status IN ?", []string{models.BookingStatusConfirmed, models.BookingStatusCheckedIn}).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
	if excludeBookingID != 0 {
		q = q.Where("id <> ?", excludeBookingID)
	}

	var conflicts []models.Booking
	if err := q.Find(&conflicts).Error; err != nil {
		return nil, err
	}
	return conflicts, nil
}

// GetBooking -> detail satu booking beserta kamarnya
func (bs *BookingService) GetBooking(bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := bs.db.Preload("Room").First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("booking %d not found", bookingID)
		}
		utils.ErrorLogger.Printf("Error loading booking %d: %v", bookingID, err)
		return nil, apperrors.NewInternal()
	}
	return &booking, nil
}

// ListAll -> seluruh booking, terbaru dulu
func (bs *BookingService) ListAll() ([]models.Booking, error) {
	var bookings []models.Booking
	if err := bs.db.Preload("Room").Order("created_at desc").Find(&bookings).Error; err != nil {
		utils.ErrorLogger.Printf("Error listing bookings: %v", err)
		return nil, apperrors.NewInternal()
	}
	return bookings, nil
}

// ListForUser -> booking milik satu user
func (bs *BookingService) ListForUser(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := bs.db.Preload("Room").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&bookings).Error; err != nil {
		utils.ErrorLogger.Printf("Error listing bookings for user %d: %v", userID, err)
		return nil, apperrors.NewInternal()
	}
	return bookings, nil
}

// ListPayments -> pembayaran yang tercatat untuk satu booking
func (bs *BookingService) ListPayments(bookingID uint) ([]models.Payment, error) {
	if _, err := bs.GetBooking(bookingID); err != nil {
		return nil, err
	}
	var payments []models.Payment
	if err := bs.db.Where("booking_id = ?", bookingID).
		Order("created_at asc").
		Find(&payments).Error; err != nil {
		utils.ErrorLogger.Printf("Error listing payments for booking %d: %v", bookingID, err)
		return nil, apperrors.NewInternal()
	}
	return payments, nil
}
