package models

import (
	"time"
)

// Booking is one table reservation. Records are never deleted; cancellation
// only flips Status.
type Booking struct {
	BookingID string `gorm:"primaryKey;column:booking_id;size:32" json:"booking_id"`
	Seq       int64  `gorm:"column:seq;uniqueIndex;not null" json:"-"`

	Name      string `gorm:"column:name;size:255;not null" json:"name"`
	Email     string `gorm:"column:email;size:255;index;not null" json:"email"`
	Phone     string `gorm:"column:phone;size:64" json:"phone"`
	Date      string `gorm:"column:date;size:64" json:"date"`
	Time      string `gorm:"column:time;size:64" json:"time"`
	PartySize int    `gorm:"column:people;not null" json:"people"`

	Status BookingStatus `gorm:"column:status;size:16;index;not null" json:"status"`

	CreatedAt time.Time `gorm:"column:created_at" json:"timestamp"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }
