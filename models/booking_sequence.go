package models

// BookingSequence holds the next value handed out by the sequence allocator.
type BookingSequence struct {
	Name      string `gorm:"primaryKey;column:name;size:64"`
	NextValue int64  `gorm:"column:next_value;not null"`
}

func (BookingSequence) TableName() string { return "booking_sequences" }
