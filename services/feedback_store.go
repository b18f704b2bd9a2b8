package services

import (
	"context"
	"strings"
	"time"

	"royal-dine/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackStore is an append-only log of guest feedback. The booking id is
// recorded as given and never checked against the booking store.
type FeedbackStore struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewFeedbackStore(db *gorm.DB) *FeedbackStore {
	return &FeedbackStore{DB: db, now: time.Now}
}

func (s *FeedbackStore) Append(ctx context.Context, bookingID, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", invalid("feedback", "is required")
	}

	entry := models.Feedback{
		ID:          uuid.NewString(),
		BookingID:   strings.TrimSpace(bookingID),
		Text:        text,
		SubmittedAt: s.now(),
	}
	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		return "", persistence("save feedback", err)
	}
	return entry.ID, nil
}

func (s *FeedbackStore) ListByBooking(ctx context.Context, bookingID string) ([]models.Feedback, error) {
	var list []models.Feedback
	if err := s.DB.WithContext(ctx).
		Where("booking_id = ?", strings.TrimSpace(bookingID)).
		Order("submitted_at asc").
		Find(&list).Error; err != nil {
		return nil, persistence("list feedback", err)
	}
	return list, nil
}
