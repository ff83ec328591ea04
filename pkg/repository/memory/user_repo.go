// Package memory provides an in-process implementation of auth.UserRepository
// for development runs and tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/artem13815/webshop/pkg/auth"
)

// UserRepository keeps users in maps guarded by a single RWMutex. The email
// index is checked and written under the same lock, which gives Create the
// unique-constraint semantics of the SQL backend.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]auth.User
	byEmail map[string]uuid.UUID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[uuid.UUID]auth.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *UserRepository) Create(ctx context.Context, user auth.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := strings.ToLower(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[key]; ok {
		return auth.ErrDuplicateEmail
	}
	r.byEmail[key] = user.ID
	r.byID[user.ID] = clone(user)
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	if err := ctx.Err(); err != nil {
		return auth.User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	if err := ctx.Err(); err != nil {
		return auth.User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return clone(u), nil
}

// Ping satisfies the readiness checker contract.
func (r *UserRepository) Ping(ctx context.Context) error { return ctx.Err() }

func clone(u auth.User) auth.User {
	u.Roles = append([]string(nil), u.Roles...)
	return u
}
