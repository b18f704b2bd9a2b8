package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"royal-dine/models"
	"royal-dine/utils"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingInput is what a caller supplies to create a booking.
type BookingInput struct {
	Name      string
	Email     string
	Phone     string
	Date      string
	Time      string
	PartySize int
}

func (in BookingInput) normalized() BookingInput {
	return BookingInput{
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Date:      strings.TrimSpace(in.Date),
		Time:      strings.TrimSpace(in.Time),
		PartySize: in.PartySize,
	}
}

func (in BookingInput) Validate() error {
	switch {
	case in.Name == "":
		return invalid("name", "is required")
	case in.Email == "":
		return invalid("email", "is required")
	case in.Date == "":
		return invalid("date", "is required")
	case in.Time == "":
		return invalid("time", "is required")
	case in.PartySize < 1:
		return invalid("people", "must be at least 1")
	}
	return nil
}

// BookingStore owns the booking records. Create and Cancel are serialized;
// Find and List may run concurrently with each other.
type BookingStore struct {
	DB  *gorm.DB
	Seq *SequenceAllocator

	mu  sync.RWMutex
	now func() time.Time
}

func NewBookingStore(db *gorm.DB, seq *SequenceAllocator) *BookingStore {
	return &BookingStore{DB: db, Seq: seq, now: time.Now}
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func (s *BookingStore) newEvent(typ string, b models.Booking) (models.BookingEvent, error) {
	payload, err := json.Marshal(b)
	if err != nil {
		return models.BookingEvent{}, fmt.Errorf("failed to encode booking event: %w", err)
	}
	return models.BookingEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		BookingID:  b.BookingID,
		Payload:    datatypes.JSON(payload),
		OccurredAt: s.now(),
	}, nil
}

// Create validates the input, mints a new id and persists a confirmed booking.
// If the insert fails the minted id is burned.
func (s *BookingStore) Create(ctx context.Context, in BookingInput) (models.Booking, error) {
	in = in.normalized()
	if err := in.Validate(); err != nil {
		return models.Booking{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.Seq.Next(ctx)
	if err != nil {
		return models.Booking{}, err
	}

	booking := models.Booking{
		BookingID: utils.FormatBookingID(n),
		Seq:       n,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Date:      in.Date,
		Time:      in.Time,
		PartySize: in.PartySize,
		Status:    models.BookingConfirmed,
		CreatedAt: s.now(),
	}

	var stored models.Booking
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		if err := tx.Where("booking_id = ?", booking.BookingID).Take(&stored).Error; err != nil {
			return err
		}
		ev, err := s.newEvent(models.EventBookingCreated, stored)
		if err != nil {
			return err
		}
		return tx.Create(&ev).Error
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return models.Booking{}, persistence("create booking "+booking.BookingID, fmt.Errorf("id already taken: %w", err))
		}
		return models.Booking{}, persistence("create booking "+booking.BookingID, err)
	}
	return stored, nil
}

// Find returns the current persisted state of a booking.
func (s *BookingStore) Find(ctx context.Context, id string) (models.Booking, error) {
	id = utils.NormalizeBookingID(id)
	if id == "" {
		return models.Booking{}, ErrBookingNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var b models.Booking
	err := s.DB.WithContext(ctx).Where("booking_id = ?", id).Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Booking{}, ErrBookingNotFound
	}
	if err != nil {
		return models.Booking{}, persistence("find booking "+id, err)
	}
	return b, nil
}

// Cancel marks a booking cancelled. Cancelling an already cancelled booking
// succeeds without changes; changed reports whether the status moved.
func (s *BookingStore) Cancel(ctx context.Context, id string) (changed bool, err error) {
	id = utils.NormalizeBookingID(id)
	if id == "" {
		return false, ErrBookingNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("booking_id = ?", id).
			Take(&b).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return err
		}

		if b.Status == models.BookingCancelled {
			return nil
		}
		if !models.CanTransition(b.Status, models.BookingCancelled) {
			return fmt.Errorf("invalid status transition %s -> %s", b.Status, models.BookingCancelled)
		}

		if err := tx.Model(&models.Booking{}).
			Where("booking_id = ? AND status = ?", id, b.Status).
			Updates(map[string]interface{}{
				"status":     models.BookingCancelled,
				"updated_at": s.now(),
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("booking_id = ?", id).Take(&b).Error; err != nil {
			return err
		}
		ev, err := s.newEvent(models.EventBookingCancelled, b)
		if err != nil {
			return err
		}
		if err := tx.Create(&ev).Error; err != nil {
			return err
		}
		changed = true
		return nil
	})
	if errors.Is(err, ErrBookingNotFound) {
		return false, err
	}
	if err != nil {
		return false, persistence("cancel booking "+id, err)
	}
	return changed, nil
}

// List returns every booking in insertion order.
func (s *BookingStore) List(ctx context.Context) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []models.Booking
	if err := s.DB.WithContext(ctx).Order("seq asc").Find(&list).Error; err != nil {
		return nil, persistence("list bookings", err)
	}
	return list, nil
}

// ListByEmail returns the bookings made with the given email, oldest first.
func (s *BookingStore) ListByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return []models.Booking{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []models.Booking
	if err := s.DB.WithContext(ctx).
		Where("LOWER(email) = ?", email).
		Order("seq asc").
		Find(&list).Error; err != nil {
		return nil, persistence("list bookings by email", err)
	}
	return list, nil
}

// Events returns the audit trail of a booking, oldest first.
func (s *BookingStore) Events(ctx context.Context, id string) ([]models.BookingEvent, error) {
	id = utils.NormalizeBookingID(id)

	var events []models.BookingEvent
	if err := s.DB.WithContext(ctx).
		Where("booking_id = ?", id).
		Order("occurred_at asc").
		Find(&events).Error; err != nil {
		return nil, persistence("list booking events", err)
	}
	return events, nil
}
