package services

import (
	"context"
	"errors"
	"sync"

	"royal-dine/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const BookingSequenceName = "booking"

// SequenceAllocator hands out strictly increasing numbers from a counter row.
// A value is never handed out twice, even if the caller fails to use it.
type SequenceAllocator struct {
	DB   *gorm.DB
	Name string

	mu sync.Mutex
}

func NewSequenceAllocator(db *gorm.DB, name string) *SequenceAllocator {
	return &SequenceAllocator{DB: db, Name: name}
}

func (a *SequenceAllocator) Next(ctx context.Context) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var value int64
	err := a.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq models.BookingSequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", a.Name).
			Take(&seq).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			seq = models.BookingSequence{Name: a.Name, NextValue: 1}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		}

		value = seq.NextValue
		return tx.Model(&models.BookingSequence{}).
			Where("name = ?", a.Name).
			Update("next_value", seq.NextValue+1).Error
	})
	if err != nil {
		return 0, persistence("allocate booking sequence", err)
	}
	return value, nil
}
