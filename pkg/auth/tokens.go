package auth

import "context"

// TokenIssuer abstracts session token creation and validation (e.g., JWT).
// It allows use cases to stay framework-agnostic.
type TokenIssuer interface {
	Issue(ctx context.Context, user User) (SessionToken, error)
	// Verify returns the token subject or ErrExpiredToken / ErrInvalidSignature.
	Verify(ctx context.Context, token string) (string, error)
}

// PasswordHasher hashes and verifies passwords with a slow salted algorithm.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Compare(ctx context.Context, hash, password string) (bool, error)
}
