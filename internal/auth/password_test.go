package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/learning-portal/internal/worker"
)

func newTestHasher() *Hasher {
	return NewHasher(bcrypt.MinCost, worker.NewPool(2))
}

func TestHasher_HashAndVerify(t *testing.T) {
	h := newTestHasher()
	ctx := context.Background()

	digest, err := h.Hash(ctx, "admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", digest)

	assert.True(t, h.Verify(ctx, "admin123", digest))
	assert.False(t, h.Verify(ctx, "admin124", digest))
}

func TestHasher_SaltsEachDigest(t *testing.T) {
	h := newTestHasher()
	ctx := context.Background()

	first, err := h.Hash(ctx, "same-password")
	require.NoError(t, err)
	second, err := h.Hash(ctx, "same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify(ctx, "same-password", first))
	assert.True(t, h.Verify(ctx, "same-password", second))
}

func TestHasher_RejectsBadInput(t *testing.T) {
	h := newTestHasher()
	ctx := context.Background()

	_, err := h.Hash(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	_, err = h.Hash(ctx, strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestHasher_VerifyNeverPanicsOnMalformedDigest(t *testing.T) {
	h := newTestHasher()
	ctx := context.Background()

	assert.False(t, h.Verify(ctx, "admin123", "not-a-bcrypt-digest"))
	assert.False(t, h.Verify(ctx, "admin123", ""))
	assert.False(t, h.Verify(ctx, "", "$2a$04$abcdefghijklmnopqrstuu"))
}

func TestHasher_VerifyAcceptsOtherCosts(t *testing.T) {
	ctx := context.Background()
	old := NewHasher(bcrypt.MinCost, nil)
	digest, err := old.Hash(ctx, "rotate-me")
	require.NoError(t, err)

	current := NewHasher(bcrypt.MinCost+1, nil)
	assert.True(t, current.Verify(ctx, "rotate-me", digest))
}

func TestHasher_CancelledContext(t *testing.T) {
	h := newTestHasher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, "admin123")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHasher_VerifyDummy(t *testing.T) {
	h := newTestHasher()
	h.VerifyDummy(context.Background(), "whatever")
	assert.NotEmpty(t, h.dummy)
}
