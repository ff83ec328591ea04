package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CredentialStore owns user records: it enforces email uniqueness (through the
// repository), hashes new passwords and verifies presented ones.
type CredentialStore struct {
	repo   UserRepository
	hasher PasswordHasher
	policy PasswordPolicy

	// dummyHash is compared against when the email is unknown so both failure
	// paths of VerifyCredentials cost one hash verification.
	dummyHash string
}

// NewCredentialStore builds a store and precomputes the dummy hash with the
// hasher's own parameters.
func NewCredentialStore(repo UserRepository, hasher PasswordHasher, policy PasswordPolicy) (*CredentialStore, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("dummy password: %w", err)
	}
	dummy, err := hasher.Hash(context.Background(), hex.EncodeToString(buf))
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}
	return &CredentialStore{repo: repo, hasher: hasher, policy: policy, dummyHash: dummy}, nil
}

// Policy returns the password policy enforced by CreateUser.
func (s *CredentialStore) Policy() PasswordPolicy { return s.policy }

// NormalizeEmail is the canonical, case-insensitive form of a login email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser stores a new user with a freshly computed password hash and the
// default role. It fails with ErrWeakPassword (as *PolicyError) or
// ErrDuplicateEmail.
func (s *CredentialStore) CreateUser(ctx context.Context, email, password string, profile Profile) (User, error) {
	if err := s.policy.Check(password); err != nil {
		return User{}, err
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	if hash == "" {
		return User{}, errors.New("hash password: empty hash")
	}

	user := User{
		ID:           uuid.New(),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(profile.FullName),
		Phone:        strings.TrimSpace(profile.Phone),
		Age:          profile.Age,
		Address:      strings.TrimSpace(profile.Address),
		Roles:        []string{DefaultRole},
		CreatedAt:    time.Now().UTC(),
	}
	// Uniqueness is decided by the repository, not by a prior lookup.
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// VerifyCredentials returns the user when password matches the stored hash.
// Unknown email and wrong password both yield ErrInvalidCredentials after one
// hash comparison.
func (s *CredentialStore) VerifyCredentials(ctx context.Context, email, password string) (User, error) {
	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	known := err == nil
	if err != nil && !errors.Is(err, ErrNotFound) {
		return User{}, fmt.Errorf("get user: %w", err)
	}

	target := s.dummyHash
	if known {
		target = user.PasswordHash
	}
	ok, err := s.hasher.Compare(ctx, target, password)
	if err != nil {
		return User{}, fmt.Errorf("compare password: %w", err)
	}
	if !known || !ok {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// FindByEmail looks a user up by email; the bool is false when none exists.
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, fmt.Errorf("get user: %w", err)
	}
	return user, true, nil
}

// FindByID looks a user up by identifier; the bool is false when none exists.
func (s *CredentialStore) FindByID(ctx context.Context, id uuid.UUID) (User, bool, error) {
	user, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return User{}, false, nil
	}
	if err != nil {
		return User{}, false, fmt.Errorf("get user: %w", err)
	}
	return user, true, nil
}
