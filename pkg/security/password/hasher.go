// Package password hashes and verifies passwords with bcrypt. Hashing is
// CPU-bound, so every call passes through a weighted semaphore that caps the
// number of concurrent bcrypt computations; callers wait on their own context.
package password

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Hasher hashes and verifies passwords using bcrypt. Callers must not log or
// persist plaintext passwords.
type Hasher struct {
	cost int
	gate *semaphore.Weighted
}

// NewHasher returns a Hasher with the given bcrypt cost (clamped to 4..31)
// allowing at most workers concurrent hash computations. workers <= 0 means
// GOMAXPROCS.
func NewHasher(cost, workers int) *Hasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Hasher{cost: cost, gate: semaphore.NewWeighted(int64(workers))}
}

// Cost returns the bcrypt cost used for new hashes.
func (h *Hasher) Cost() int { return h.cost }

// Hash produces a bcrypt hash of password. The salt and cost are encoded in
// the returned string.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.gate.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("wait for hash worker: %w", err)
	}
	defer h.gate.Release(1)

	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Compare recomputes the hash of password with the salt and cost stored in
// hash and compares in constant time. A mismatch is (false, nil); a malformed
// hash is an error.
func (h *Hasher) Compare(ctx context.Context, hash, password string) (bool, error) {
	if err := h.gate.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("wait for hash worker: %w", err)
	}
	defer h.gate.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("bcrypt: %w", err)
	}
}
