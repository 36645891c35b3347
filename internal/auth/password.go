package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/learning-portal/internal/observability"
	"github.com/spec-kit/learning-portal/internal/worker"
)

// bcrypt ignores input beyond this many bytes, so longer passwords are refused.
const maxPasswordBytes = 72

var (
	ErrEmptyPassword   = errors.New("password must not be empty")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

// Hasher hashes and verifies passwords with bcrypt on a bounded worker pool.
// Digests carry their own algorithm, cost and salt, so changing the cost only
// affects new hashes.
type Hasher struct {
	cost int
	pool *worker.Pool

	dummyOnce sync.Once
	dummy     []byte
}

// NewHasher builds a hasher. A nil pool gets a default-sized one.
func NewHasher(cost int, pool *worker.Pool) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if pool == nil {
		pool = worker.NewPool(0)
	}
	return &Hasher{cost: cost, pool: pool}
}

// Hash returns a salted bcrypt digest of plaintext.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if len(plaintext) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	var (
		digest  []byte
		hashErr error
	)
	start := time.Now()
	if err := h.pool.Do(ctx, func() {
		digest, hashErr = bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	}); err != nil {
		return "", err
	}
	observability.PasswordHashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())

	if hashErr != nil {
		return "", hashErr
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. Malformed digests, empty
// input and cancelled contexts all yield false.
func (h *Hasher) Verify(ctx context.Context, plaintext, digest string) bool {
	if plaintext == "" || digest == "" {
		return false
	}
	return h.compare(ctx, []byte(digest), plaintext)
}

// VerifyDummy spends the same effort as Verify against a throwaway digest. Login
// calls it for unknown usernames so response time does not reveal which accounts exist.
func (h *Hasher) VerifyDummy(ctx context.Context, plaintext string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("portal-dummy-password"), h.cost)
	})
	if h.dummy == nil {
		return
	}
	_ = h.compare(ctx, h.dummy, plaintext)
}

func (h *Hasher) compare(ctx context.Context, digest []byte, plaintext string) bool {
	var cmpErr error
	start := time.Now()
	if err := h.pool.Do(ctx, func() {
		cmpErr = bcrypt.CompareHashAndPassword(digest, []byte(plaintext))
	}); err != nil {
		return false
	}
	observability.PasswordHashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	return cmpErr == nil
}
