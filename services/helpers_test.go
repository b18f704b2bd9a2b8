package services

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"royal-dine/config"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDBAt(t, filepath.Join(t.TempDir(), "royal_dine_test.db"))
}

func openTestDBAt(t *testing.T, path string) *gorm.DB {
	t.Helper()
	db, err := config.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = config.CloseDatabase(db) })
	return db
}

func newTestBookingStore(t *testing.T, db *gorm.DB) *BookingStore {
	t.Helper()
	return NewBookingStore(db, NewSequenceAllocator(db, BookingSequenceName))
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{t: time.Now()} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}
