package confirm

import (
	"testing"
	"time"
)

func TestConsumeWithoutArmFails(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	if store.Consume("10:end-tournament:42") {
		t.Fatal("consume must fail before arming")
	}
}

func TestArmThenConsumeInsideWindow(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()

	expiresAt := store.Arm("10:end-tournament:42", 30*time.Second)
	if !expiresAt.After(time.Now()) {
		t.Fatal("expiry must be in the future")
	}
	if !store.Consume("10:end-tournament:42") {
		t.Fatal("consume inside the window must succeed")
	}
	// The token is single use.
	if store.Consume("10:end-tournament:42") {
		t.Fatal("token must not be consumable twice")
	}
}

func TestExpiredTokenDoesNotConfirm(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	store.Arm("10:end-tournament:42", 30*time.Second)
	store.now = func() time.Time { return now.Add(31 * time.Second) }

	if store.Consume("10:end-tournament:42") {
		t.Fatal("expired token must not confirm")
	}
	// The stale token is gone; a fresh arm is required either way.
	if store.Consume("10:end-tournament:42") {
		t.Fatal("stale token must be removed on the failed consume")
	}
}

func TestTokensAreScopedByKey(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()

	store.Arm("10:end-tournament:42", 30*time.Second)
	if store.Consume("11:end-tournament:42") {
		t.Fatal("another operator's key must not consume the token")
	}
	if store.Consume("10:end-tournament:7") {
		t.Fatal("another league's key must not consume the token")
	}
	if !store.Consume("10:end-tournament:42") {
		t.Fatal("the original key must still consume")
	}
}
