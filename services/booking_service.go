package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"royal-dine/events"
	"royal-dine/models"
	"royal-dine/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("royal-dine/booking")

// Caller facing outcomes. A failed outcome is always paired with the error
// that caused it so transports can pick a status code.

type CreateOutcome struct {
	Success   bool   `json:"success"`
	BookingID string `json:"booking_id,omitempty"`
	Message   string `json:"message,omitempty"`
}

type CheckOutcome struct {
	Found   bool            `json:"found"`
	Booking *models.Booking `json:"booking,omitempty"`
}

type ResultOutcome struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type FeedbackOutcome struct {
	Success    bool   `json:"success"`
	FeedbackID string `json:"feedback_id,omitempty"`
	Message    string `json:"message,omitempty"`
}

type VerifyOutcome struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}

type Receipt struct {
	Filename    string
	ContentType string
	Data        []byte
}

const (
	msgStorageUnavailable = "We could not save your request right now, please try again later"
	msgBookingNotFound    = "Booking not found"
)

type BookingServiceDeps struct {
	Bookings      *BookingStore
	Feedback      *FeedbackStore
	OTP           *OTPManager
	Mailer        utils.Mailer
	Receipts      utils.ReceiptRenderer
	Events        events.Publisher
	SessionSecret []byte
	SessionTTL    time.Duration
	NotifyTimeout time.Duration
}

// BookingService is the entry point for every guest facing use case.
type BookingService struct {
	bookings      *BookingStore
	feedback      *FeedbackStore
	otp           *OTPManager
	mailer        utils.Mailer
	receipts      utils.ReceiptRenderer
	events        events.Publisher
	sessionSecret []byte
	sessionTTL    time.Duration
	notifyTimeout time.Duration

	wg sync.WaitGroup
}

func NewBookingService(d BookingServiceDeps) *BookingService {
	s := &BookingService{
		bookings:      d.Bookings,
		feedback:      d.Feedback,
		otp:           d.OTP,
		mailer:        d.Mailer,
		receipts:      d.Receipts,
		events:        d.Events,
		sessionSecret: d.SessionSecret,
		sessionTTL:    d.SessionTTL,
		notifyTimeout: d.NotifyTimeout,
	}
	if s.mailer == nil {
		s.mailer = utils.LogMailer{}
	}
	if s.receipts == nil {
		s.receipts = utils.PDFReceiptRenderer{}
	}
	if s.events == nil {
		s.events = events.NopPublisher{}
	}
	if s.sessionTTL <= 0 {
		s.sessionTTL = 24 * time.Hour
	}
	if s.notifyTimeout <= 0 {
		s.notifyTimeout = 10 * time.Second
	}
	return s
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// dispatch runs fn in the background with its own deadline. The request
// context only contributes values (trace), not cancellation.
func (s *BookingService) dispatch(ctx context.Context, fn func(ctx context.Context) error) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Printf("⚠️  %v", err)
		}
	}()
}

func (s *BookingService) publish(ctx context.Context, typ string, b models.Booking) {
	ev := events.Event{
		ID:         uuid.NewString(),
		Type:       typ,
		BookingID:  b.BookingID,
		OccurredAt: time.Now(),
		Booking:    b,
	}
	s.dispatch(ctx, func(ctx context.Context) error {
		if err := s.events.Publish(ctx, ev); err != nil {
			return &DeliveryError{Channel: "event " + typ, Recipient: b.BookingID, Err: err}
		}
		return nil
	})
}

// Wait blocks until background deliveries have finished.
func (s *BookingService) Wait() {
	s.wg.Wait()
}

func (s *BookingService) CreateBooking(ctx context.Context, in BookingInput) (CreateOutcome, error) {
	ctx, span := tracer.Start(ctx, "BookingService.CreateBooking")
	var err error
	defer func() { endSpan(span, err) }()

	b, err := s.bookings.Create(ctx, in)
	if err != nil {
		if IsValidation(err) {
			return CreateOutcome{Success: false, Message: err.Error()}, err
		}
		log.Printf("❌ create booking: %v", err)
		return CreateOutcome{Success: false, Message: msgStorageUnavailable}, err
	}
	span.SetAttributes(attribute.String("booking.id", b.BookingID))
	log.Printf("✅ Booking %s confirmed for %s (%d guests)", b.BookingID, utils.MaskEmail(b.Email), b.PartySize)

	msg := utils.BookingConfirmationEmail(b)
	s.dispatch(ctx, func(ctx context.Context) error {
		if err := s.mailer.Send(ctx, msg); err != nil {
			return &DeliveryError{Channel: "email", Recipient: utils.MaskEmail(msg.To), Err: err}
		}
		return nil
	})
	s.publish(ctx, models.EventBookingCreated, b)

	return CreateOutcome{Success: true, BookingID: b.BookingID, Message: "Booking confirmed"}, nil
}

func (s *BookingService) CheckBooking(ctx context.Context, id string) (CheckOutcome, error) {
	ctx, span := tracer.Start(ctx, "BookingService.CheckBooking", trace.WithAttributes(attribute.String("booking.id", id)))
	var err error
	defer func() { endSpan(span, err) }()

	b, err := s.bookings.Find(ctx, id)
	if err != nil {
		return CheckOutcome{Found: false}, err
	}
	return CheckOutcome{Found: true, Booking: &b}, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, id string) (ResultOutcome, error) {
	ctx, span := tracer.Start(ctx, "BookingService.CancelBooking", trace.WithAttributes(attribute.String("booking.id", id)))
	var err error
	defer func() { endSpan(span, err) }()

	changed, err := s.bookings.Cancel(ctx, id)
	switch {
	case errors.Is(err, ErrBookingNotFound):
		return ResultOutcome{Success: false, Message: msgBookingNotFound}, err
	case err != nil:
		log.Printf("❌ cancel booking %s: %v", id, err)
		return ResultOutcome{Success: false, Message: msgStorageUnavailable}, err
	}

	if !changed {
		return ResultOutcome{Success: true, Message: "Booking already cancelled"}, nil
	}

	if b, findErr := s.bookings.Find(ctx, id); findErr == nil {
		s.publish(ctx, models.EventBookingCancelled, b)
	} else {
		log.Printf("⚠️  cancelled %s but could not reload it: %v", id, findErr)
	}
	log.Printf("✅ Booking %s cancelled", utils.NormalizeBookingID(id))
	return ResultOutcome{Success: true, Message: "Booking cancelled"}, nil
}

func (s *BookingService) SubmitFeedback(ctx context.Context, bookingID, text string) (FeedbackOutcome, error) {
	ctx, span := tracer.Start(ctx, "BookingService.SubmitFeedback")
	var err error
	defer func() { endSpan(span, err) }()

	id, err := s.feedback.Append(ctx, bookingID, text)
	if err != nil {
		if IsValidation(err) {
			return FeedbackOutcome{Success: false, Message: err.Error()}, err
		}
		log.Printf("❌ save feedback: %v", err)
		return FeedbackOutcome{Success: false, Message: msgStorageUnavailable}, err
	}
	return FeedbackOutcome{Success: true, FeedbackID: id}, nil
}

// RequestOTP issues a code and mails it before returning, so the caller knows
// whether the guest can expect it.
func (s *BookingService) RequestOTP(ctx context.Context, email string) (ResultOutcome, error) {
	ctx, span := tracer.Start(ctx, "BookingService.RequestOTP")
	var err error
	defer func() { endSpan(span, err) }()

	code, err := s.otp.Issue(ctx, email)
	if err != nil {
		if IsValidation(err) {
			return ResultOutcome{Success: false, Message: "Email required"}, err
		}
		log.Printf("❌ issue otp: %v", err)
		return ResultOutcome{Success: false, Message: msgStorageUnavailable}, err
	}

	sendCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	msg := utils.OTPEmail(normalizeEmail(email), code)
	if sendErr := s.mailer.Send(sendCtx, msg); sendErr != nil {
		err = &DeliveryError{Channel: "email", Recipient: utils.MaskEmail(msg.To), Err: sendErr}
		log.Printf("⚠️  %v", err)
		return ResultOutcome{Success: false, Message: "We could not send the code, please try again"}, err
	}
	return ResultOutcome{Success: true, Message: "OTP sent"}, nil
}

func (s *BookingService) VerifyOTP(ctx context.Context, email, code string) (VerifyOutcome, error) {
	ctx, span := tracer.Start(ctx, "BookingService.VerifyOTP")
	var err error
	defer func() { endSpan(span, err) }()

	if !s.otp.Verify(ctx, email, code) {
		err = ErrInvalidOTP
		return VerifyOutcome{Success: false, Message: "Invalid OTP"}, err
	}

	token, tokErr := utils.CreateSessionToken(s.sessionSecret, normalizeEmail(email), s.sessionTTL)
	if tokErr != nil {
		log.Printf("⚠️  session token for %s: %v", utils.MaskEmail(email), tokErr)
		return VerifyOutcome{Success: true}, nil
	}
	return VerifyOutcome{Success: true, Token: token}, nil
}

// GetReceipt renders the current state of a booking. Unknown ids render
// nothing.
func (s *BookingService) GetReceipt(ctx context.Context, id string) (Receipt, error) {
	ctx, span := tracer.Start(ctx, "BookingService.GetReceipt", trace.WithAttributes(attribute.String("booking.id", id)))
	var err error
	defer func() { endSpan(span, err) }()

	b, err := s.bookings.Find(ctx, id)
	if err != nil {
		return Receipt{}, err
	}
	data, err := s.receipts.Render(b)
	if err != nil {
		return Receipt{}, fmt.Errorf("failed to render receipt for %s: %w", b.BookingID, err)
	}
	return Receipt{
		Filename:    utils.ReceiptFilename(b.BookingID),
		ContentType: utils.ReceiptContentType,
		Data:        data,
	}, nil
}

// MyBookings lists the bookings made with a verified email.
func (s *BookingService) MyBookings(ctx context.Context, email string) ([]models.Booking, error) {
	return s.bookings.ListByEmail(ctx, email)
}
