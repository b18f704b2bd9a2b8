package models

import "time"

type Feedback struct {
	ID          string    `gorm:"primaryKey;column:id;size:36" json:"id"`
	BookingID   string    `gorm:"column:booking_id;size:64;index" json:"booking_id"`
	Text        string    `gorm:"column:feedback;type:text;not null" json:"feedback"`
	SubmittedAt time.Time `gorm:"column:submitted_at" json:"timestamp"`
}

func (Feedback) TableName() string { return "feedback" }
