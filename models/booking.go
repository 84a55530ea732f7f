package models

import (
	"fmt"
	"time"
)

// Booking status values
const (
	BookingStatusConfirmed  = "CONFIRMED"
	BookingStatusCheckedIn  = "CHECKED_IN"
	BookingStatusCheckedOut = "CHECKED_OUT"
	BookingStatusCancelled  = "CANCELLED"
)

// Booking represents a claim on a room for a date range.
// CheckOutDate is exclusive: a booking that checks out on the same
// day another checks in is not a conflict.
type Booking struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReferenceCode string    `gorm:"type:varchar(64);uniqueIndex" json:"reference_code"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RoomID        uint      `gorm:"not null;index" json:"room_id"`
	Room          Room      `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	CheckInDate   time.Time `gorm:"not null" json:"check_in_date"`
	CheckOutDate  time.Time `gorm:"not null" json:"check_out_date"`
	TotalCost     float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_cost"`
	Status        string    `gorm:"type:varchar(20);not null;default:'CONFIRMED'" json:"status"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

// Nights menghitung jumlah malam antara check-in dan check-out
func (b *Booking) Nights() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
}

// GuestLabel menghasilkan label tamu berdasarkan ID
func (b *Booking) GuestLabel() string {
	return fmt.Sprintf("GUEST-%d-%d", b.UserID, b.ID)
}
