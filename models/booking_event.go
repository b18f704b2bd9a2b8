package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is the audit row written alongside every booking mutation.
// Payload carries the booking snapshot as it was after the change.
type BookingEvent struct {
	ID         string         `gorm:"primaryKey;column:id;size:36" json:"id"`
	Type       string         `gorm:"column:type;size:64;index;not null" json:"type"`
	BookingID  string         `gorm:"column:booking_id;size:32;index;not null" json:"booking_id"`
	Payload    datatypes.JSON `gorm:"column:payload" json:"payload"`
	OccurredAt time.Time      `gorm:"column:occurred_at;index" json:"occurred_at"`
}

func (BookingEvent) TableName() string { return "booking_events" }
