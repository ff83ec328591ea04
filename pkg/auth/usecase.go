package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// AuthUseCase describes the registration and login flows.
type AuthUseCase interface {
	Register(ctx context.Context, req RegisterRequest) error
	Login(ctx context.Context, req LoginRequest) (LoginResult, error)
	Profile(ctx context.Context, userID string) (User, error)
}

type LoginResult struct {
	User  User
	Token SessionToken
}

type authService struct {
	store  *CredentialStore
	tokens TokenIssuer
	log    *slog.Logger
}

// NewAuthService returns default implementation of AuthUseCase.
//
// Every error it returns is one of *ValidationError, ErrInvalidCredentials,
// ErrNotFound or ErrInternal; underlying causes are logged, not returned.
func NewAuthService(store *CredentialStore, tokens TokenIssuer, log *slog.Logger) AuthUseCase {
	if log == nil {
		log = slog.Default()
	}
	return &authService{store: store, tokens: tokens, log: log.With("component", "auth")}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) error {
	age, err := ValidateRegister(req, s.store.Policy())
	if err != nil {
		return err
	}

	user, err := s.store.CreateUser(ctx, req.Email, req.Password, Profile{
		FullName: req.FullName,
		Phone:    req.Phone,
		Age:      age,
		Address:  req.Address,
	})
	switch {
	case err == nil:
		s.log.InfoContext(ctx, "user registered", "user_id", user.ID.String())
		return nil
	case errors.Is(err, ErrDuplicateEmail):
		ve := &ValidationError{cause: ErrDuplicateEmail}
		ve.add("email", "Email '"+NormalizeEmail(req.Email)+"' is already taken.")
		return ve
	case errors.Is(err, ErrWeakPassword):
		// store policy may be stricter than request validation
		var pe *PolicyError
		ve := &ValidationError{cause: ErrWeakPassword}
		if errors.As(err, &pe) {
			for _, v := range pe.Violations {
				ve.add("password", v)
			}
		} else {
			ve.add("password", err.Error())
		}
		return ve
	default:
		s.log.ErrorContext(ctx, "register failed", "error", err)
		return ErrInternal
	}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if err := ValidateLogin(req); err != nil {
		return LoginResult{}, err
	}

	user, err := s.store.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return LoginResult{}, ErrInvalidCredentials
		}
		s.log.ErrorContext(ctx, "verify credentials failed", "error", err)
		return LoginResult{}, ErrInternal
	}

	token, err := s.tokens.Issue(ctx, user)
	if err != nil {
		s.log.ErrorContext(ctx, "issue token failed", "user_id", user.ID.String(), "error", err)
		return LoginResult{}, ErrInternal
	}
	s.log.InfoContext(ctx, "user logged in", "user_id", user.ID.String())
	return LoginResult{User: user, Token: token}, nil
}

func (s *authService) Profile(ctx context.Context, userID string) (User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return User{}, ErrNotFound
	}
	user, ok, err := s.store.FindByID(ctx, id)
	if err != nil {
		s.log.ErrorContext(ctx, "load profile failed", "user_id", userID, "error", err)
		return User{}, ErrInternal
	}
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}
