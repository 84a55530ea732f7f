package models

import "time"

// Room status values
const (
	RoomStatusAvailable   = "AVAILABLE"
	RoomStatusOccupied    = "OCCUPIED"
	RoomStatusCleaning    = "CLEANING"
	RoomStatusMaintenance = "MAINTENANCE"
)

type Room struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RoomNumber    string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"room_number"`
	Category      string    `gorm:"type:varchar(50);not null;default:'standard'" json:"category"`
	PricePerNight float64   `gorm:"type:decimal(10,2);not null" json:"price_per_night"`
	Status        string    `gorm:"type:varchar(20);not null;default:'AVAILABLE'" json:"status"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}
