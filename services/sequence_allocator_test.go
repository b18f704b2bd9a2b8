package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"royal-dine/config"
)

func TestSequenceAllocatorStartsAtOne(t *testing.T) {
	a := NewSequenceAllocator(openTestDB(t), BookingSequenceName)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := a.Next(ctx)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if got != want {
			t.Errorf("Next() = %d, want %d", got, want)
		}
	}
}

func TestSequenceAllocatorConcurrentCallersGetDistinctValues(t *testing.T) {
	a := NewSequenceAllocator(openTestDB(t), BookingSequenceName)
	ctx := context.Background()

	const n = 40
	values := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := a.Next(ctx)
			if err != nil {
				t.Errorf("Next() error = %v", err)
				return
			}
			values <- v
		}()
	}
	wg.Wait()
	close(values)

	seen := map[int64]bool{}
	for v := range values {
		if seen[v] {
			t.Fatalf("value %d handed out twice", v)
		}
		seen[v] = true
	}
	for v := int64(1); v <= n; v++ {
		if !seen[v] {
			t.Errorf("value %d never handed out", v)
		}
	}
}

func TestSequenceAllocatorSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seq.db")
	ctx := context.Background()

	db, err := config.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	a := NewSequenceAllocator(db, BookingSequenceName)
	for i := 0; i < 2; i++ {
		if _, err := a.Next(ctx); err != nil {
			t.Fatalf("Next() error = %v", err)
		}
	}
	if err := config.CloseDatabase(db); err != nil {
		t.Fatalf("CloseDatabase() error = %v", err)
	}

	reopened := openTestDBAt(t, path)
	got, err := NewSequenceAllocator(reopened, BookingSequenceName).Next(ctx)
	if err != nil {
		t.Fatalf("Next() after reopen error = %v", err)
	}
	if got != 3 {
		t.Errorf("Next() after reopen = %d, want 3", got)
	}
}

func TestSequenceAllocatorStorageUnavailable(t *testing.T) {
	db := openTestDB(t)
	a := NewSequenceAllocator(db, BookingSequenceName)
	if err := config.CloseDatabase(db); err != nil {
		t.Fatalf("CloseDatabase() error = %v", err)
	}

	if _, err := a.Next(context.Background()); !IsPersistence(err) {
		t.Errorf("Next() error = %v, want PersistenceError", err)
	}
}
