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

	"github.com/redis/go-redis/v9"
)

// OTPStore keeps at most one entry per email. Save overwrites.
type OTPStore interface {
	Save(ctx context.Context, entry models.OTPEntry) error
	Load(ctx context.Context, email string) (models.OTPEntry, bool, error)
}

// MemoryOTPStore is a process local OTPStore.
type MemoryOTPStore struct {
	mu      sync.RWMutex
	entries map[string]models.OTPEntry
	now     func() time.Time
}

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{entries: map[string]models.OTPEntry{}, now: time.Now}
}

func (s *MemoryOTPStore) Save(_ context.Context, entry models.OTPEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Email] = entry
	s.sweepLocked()
	return nil
}

func (s *MemoryOTPStore) Load(_ context.Context, email string) (models.OTPEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[email]
	return e, ok, nil
}

// sweepLocked drops expired entries so the map does not grow without bound.
func (s *MemoryOTPStore) sweepLocked() {
	now := s.now()
	for k, e := range s.entries {
		if e.Expired(now) {
			delete(s.entries, k)
		}
	}
}

// otp:{email} -> JSON OTPEntry, expiring with the code
const KeyOTP = "otp:%s"

// RedisOTPStore keeps entries in Redis so codes survive a restart.
type RedisOTPStore struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisOTPStore(rdb *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{rdb: rdb, now: time.Now}
}

// NewRedisClient wraps redis.NewClient with the service defaults.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

func otpKey(email string) string {
	return fmt.Sprintf(KeyOTP, strings.ToLower(email))
}

func (s *RedisOTPStore) Save(ctx context.Context, entry models.OTPEntry) error {
	ttl := entry.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.rdb.Del(ctx, otpKey(entry.Email)).Err()
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, otpKey(entry.Email), b, ttl).Err()
}

func (s *RedisOTPStore) Load(ctx context.Context, email string) (models.OTPEntry, bool, error) {
	b, err := s.rdb.Get(ctx, otpKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.OTPEntry{}, false, nil
	}
	if err != nil {
		return models.OTPEntry{}, false, err
	}
	var e models.OTPEntry
	if err := json.Unmarshal(b, &e); err != nil {
		return models.OTPEntry{}, false, err
	}
	return e, true, nil
}
