package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"royal-dine/models"
	"royal-dine/utils"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	OTPLength     = 6
	DefaultOTPTTL = 10 * time.Minute

	otpLockStripes = 64
)

// OTPManager issues and verifies one-time login codes. Each email has at most
// one live code; a code verifies once and only before it expires.
type OTPManager struct {
	store OTPStore
	ttl   time.Duration
	cost  int
	now   func() time.Time

	locks [otpLockStripes]sync.Mutex
}

func NewOTPManager(store OTPStore, ttl time.Duration) *OTPManager {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	return &OTPManager{store: store, ttl: ttl, cost: bcrypt.DefaultCost, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// lock serializes work on one email without a global lock.
func (m *OTPManager) lock(email string) func() {
	mu := &m.locks[xxhash.Sum64String(email)%otpLockStripes]
	mu.Lock()
	return mu.Unlock
}

// Issue replaces any previous code for email and returns the new one for
// delivery. Only a hash of the code is stored.
func (m *OTPManager) Issue(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", invalid("email", "is required")
	}

	code, err := utils.GenerateNumericCode(OTPLength)
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), m.cost)
	if err != nil {
		return "", err
	}

	unlock := m.lock(email)
	defer unlock()

	now := m.now()
	entry := models.OTPEntry{
		Email:     email,
		CodeHash:  string(hash),
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, entry); err != nil {
		return "", persistence("store otp", err)
	}
	return code, nil
}

// Verify reports whether code is the live code for email and consumes it on
// success. A wrong code leaves the entry untouched.
func (m *OTPManager) Verify(ctx context.Context, email, code string) bool {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || len(code) != OTPLength {
		return false
	}

	unlock := m.lock(email)
	defer unlock()

	e, ok, err := m.store.Load(ctx, email)
	if err != nil {
		log.Printf("[otp] load failed for %s: %v", utils.MaskEmail(email), err)
		return false
	}
	if !ok || e.Consumed || e.Expired(m.now()) {
		return false
	}
	if bcrypt.CompareHashAndPassword([]byte(e.CodeHash), []byte(code)) != nil {
		return false
	}

	e.Consumed = true
	if err := m.store.Save(ctx, e); err != nil {
		log.Printf("[otp] consume failed for %s: %v", utils.MaskEmail(email), err)
		return false
	}
	return true
}

// TTL is the validity window of newly issued codes.
func (m *OTPManager) TTL() time.Duration { return m.ttl }
