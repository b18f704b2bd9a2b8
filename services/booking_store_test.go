package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"royal-dine/models"
)

func aliceInput() BookingInput {
	return BookingInput{Name: "Alice", Email: "a@x.com", Date: "2024-05-01", Time: "19:00", PartySize: 4}
}

func TestBookingStoreCreateAssignsSequentialIDs(t *testing.T) {
	s := newTestBookingStore(t, openTestDB(t))
	ctx := context.Background()

	first, err := s.Create(ctx, aliceInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := s.Create(ctx, aliceInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if first.BookingID != "RD-00001" || second.BookingID != "RD-00002" {
		t.Errorf("ids = %s, %s; want RD-00001, RD-00002", first.BookingID, second.BookingID)
	}
}

func TestBookingStoreFindAfterCreate(t *testing.T) {
	s := newTestBookingStore(t, openTestDB(t))
	ctx := context.Background()

	in := BookingInput{Name: " Bob ", Email: "b@x.com", Phone: "+91 98450 00000", Date: "2024-06-10", Time: "20:30", PartySize: 2}
	created, err := s.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.Find(ctx, created.BookingID)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got.Status != models.BookingConfirmed {
		t.Errorf("Status = %s, want %s", got.Status, models.BookingConfirmed)
	}
	if got.Name != "Bob" || got.Email != in.Email || got.Phone != in.Phone ||
		got.Date != in.Date || got.Time != in.Time || got.PartySize != in.PartySize {
		t.Errorf("Find() = %+v, want fields of %+v", got, in)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if created.Name != got.Name || created.Status != got.Status || created.Seq != got.Seq {
		t.Errorf("Create() returned %+v, stored %+v", created, got)
	}

	lower, err := s.Find(ctx, " rd-00001 ")
	if err != nil || lower.BookingID != created.BookingID {
		t.Errorf("Find(lowercase id) = %+v, %v", lower, err)
	}
}

func TestBookingStoreCreateValidation(t *testing.T) {
	s := newTestBookingStore(t, openTestDB(t))
	ctx := context.Background()

	tests := []struct {
		name  string
		mut   func(*BookingInput)
		field string
	}{
		{"missing name", func(in *BookingInput) { in.Name = "  " }, "name"},
		{"missing email", func(in *BookingInput) { in.Email = "" }, "email"},
		{"missing date", func(in *BookingInput) { in.Date = "" }, "date"},
		{"missing time", func(in *BookingInput) { in.Time = "" }, "time"},
		{"zero party", func(in *BookingInput) { in.PartySize = 0 }, "people"},
		{"negative party", func(in *BookingInput) { in.PartySize = -3 }, "people"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := aliceInput()
			tt.mut(&in)
			_, err := s.Create(ctx, in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Create() error = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}

	// Rejected input must not consume ids.
	b, err := s.Create(ctx, aliceInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.BookingID != "RD-00001" {
		t.Errorf("first valid id = %s, want RD-00001", b.BookingID)
	}
}

func TestBookingStorePhoneIsOptional(t *testing.T) {
	s := newTestBookingStore(t, openTestDB(t))
	b, err := s.Create(context.Background(), aliceInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.Phone != "" {
		t.Errorf("Phone = %q, want empty", b.Phone)
	}
}

func TestBookingStoreCancel(t *testing.T) {
	s := newTestBookingStore(t, openTestDB(t))
	ctx := context.Background()

	created, err := s.Create(ctx, aliceInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	changed, err := s.Cancel(ctx, created.BookingID)
	if err != nil || !changed {
		t.Fatalf("first Cancel() = %v, %v; want true, nil", changed, err)
	}
	changed, err = s.Cancel(ctx, created.BookingID)
	if err != nil || changed {
		t.Fatalf("second Cancel() = %v, %v; want false, nil", changed, err)
	}

	got, err := s.Find(ctx, created.BookingID)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if got.Status != models.BookingCancelled {
		t.Errorf("Status = %s, want %s", got.Status, models.BookingCancelled)
	}
	if got.Name != "Alice" || got.PartySize != 4 || got.Date != "2024-05-01" || got.Time != "19:00" {
		t.Errorf("cancel changed other fields: %+v", got)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed from %v to %v", created.CreatedAt, got.CreatedAt)
	}

	events, err := s.Events(ctx, created.BookingID)
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	if len(events) != 2 || events[0].Type != models.EventBookingCreated || events[1].Type != models.EventBookingCancelled {
		t.Errorf("events = %+v, want created then cancelled", events)
	}
}

func TestBookingStoreUnknownID(t *testing.T) {
	s := newTestBookingStore(t, openTestDB(t))
	ctx := context.Background()

	for _, id := range []string{"RD-00001", "", "nonsense"} {
		if _, err := s.Find(ctx, id); !errors.Is(err, ErrBookingNotFound) {
			t.Errorf("Find(%q) error = %v, want ErrBookingNotFound", id, err)
		}
		if _, err := s.Cancel(ctx, id); !errors.Is(err, ErrBookingNotFound) {
			t.Errorf("Cancel(%q) error = %v, want ErrBookingNotFound", id, err)
		}
	}
}

func TestBookingStoreConcurrentCreates(t *testing.T) {
	s := newTestBookingStore(t, openTestDB(t))
	ctx := context.Background()

	const n = 25
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := s.Create(ctx, aliceInput())
			if err != nil {
				t.Errorf("Create() error = %v", err)
				return
			}
			ids <- b.BookingID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("id %s returned twice", id)
		}
		seen[id] = true
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != n {
		t.Fatalf("len(List()) = %d, want %d", len(list), n)
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Seq >= list[i].Seq {
			t.Errorf("List() not in insertion order at %d: %d then %d", i, list[i-1].Seq, list[i].Seq)
		}
	}
}

func TestBookingStoreFailedInsertBurnsID(t *testing.T) {
	db := openTestDB(t)
	s := newTestBookingStore(t, db)
	ctx := context.Background()

	// A stray row already holds RD-00002.
	if err := db.Create(&models.Booking{
		BookingID: "RD-00002", Seq: 1000, Name: "X", Email: "x@x.com",
		Date: "d", Time: "t", PartySize: 1, Status: models.BookingConfirmed,
	}).Error; err != nil {
		t.Fatalf("seed error = %v", err)
	}

	if b, err := s.Create(ctx, aliceInput()); err != nil || b.BookingID != "RD-00001" {
		t.Fatalf("Create() = %s, %v; want RD-00001", b.BookingID, err)
	}
	if _, err := s.Create(ctx, aliceInput()); !IsPersistence(err) {
		t.Fatalf("colliding Create() error = %v, want PersistenceError", err)
	}
	b, err := s.Create(ctx, aliceInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if b.BookingID != "RD-00003" {
		t.Errorf("id after failed insert = %s, want RD-00003", b.BookingID)
	}
}

func TestBookingStoreListByEmail(t *testing.T) {
	s := newTestBookingStore(t, openTestDB(t))
	ctx := context.Background()

	for _, email := range []string{"a@x.com", "b@x.com", "A@X.com"} {
		in := aliceInput()
		in.Email = email
		if _, err := s.Create(ctx, in); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := s.ListByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("ListByEmail() error = %v", err)
	}
	if len(got) != 2 || got[0].BookingID != "RD-00001" || got[1].BookingID != "RD-00003" {
		t.Errorf("ListByEmail() = %+v", got)
	}

	if empty, _ := s.ListByEmail(ctx, " "); len(empty) != 0 {
		t.Errorf("ListByEmail(blank) = %+v, want empty", empty)
	}
}
