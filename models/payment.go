package models

import (
	"time"
)

// Payment represents a payment recorded against a booking.
// Recording a payment never mutates room or booking status.
type Payment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	BookingID  uint      `json:"booking_id" gorm:"not null;index"`
	Booking    Booking   `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	Amount     float64   `json:"amount" gorm:"type:decimal(10,2);not null"`
	Method     string    `json:"method" gorm:"type:varchar(20);not null;default:'cash'"` // cash, card, transfer
	Notes      string    `json:"notes"`
	RecordedBy *uint     `json:"recorded_by"` // staff who recorded the payment
	CreatedAt  time.Time `json:"created_at" gorm:"not null"`
}
