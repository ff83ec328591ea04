package auth_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/webshop/pkg/auth"
	"github.com/artem13815/webshop/pkg/security/jwt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newService(t *testing.T) (auth.AuthUseCase, *jwt.Issuer, *bytes.Buffer) {
	t.Helper()
	store, _ := newStore(t)
	issuer, err := jwt.NewIssuer([]byte(testSecret), "webshop", 24*time.Hour)
	require.NoError(t, err)
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	return auth.NewAuthService(store, issuer, log), issuer, &buf
}

func registerReq() auth.RegisterRequest {
	return auth.RegisterRequest{
		Email:    "a@x.com",
		Password: "Secret123!",
		Phone:    "+1 555 0100",
		Age:      "30",
		FullName: "Anna Example",
		Address:  "Main st",
	}
}

func TestRegisterThenLogin(t *testing.T) {
	svc, issuer, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerReq()))

	res, err := svc.Login(ctx, auth.LoginRequest{Email: "A@X.COM", Password: "Secret123!"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token.Value)
	assert.Equal(t, res.User.ID.String(), res.Token.Subject)
	assert.Equal(t, 24*time.Hour, res.Token.ExpiresAt.Sub(res.Token.IssuedAt))

	sub, err := issuer.Verify(ctx, res.Token.Value)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), sub)

	me, err := svc.Profile(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, "Anna Example", me.FullName)
	assert.Equal(t, []string{"User"}, me.Roles)
}

func TestRegister_ValidationReturnsAllErrors(t *testing.T) {
	svc, _, _ := newService(t)
	err := svc.Register(context.Background(), auth.RegisterRequest{Email: "bad", Age: "x"})

	ve, ok := auth.IsValidation(err)
	require.True(t, ok)
	fields := map[string]bool{}
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
	assert.True(t, fields["age"])
	assert.True(t, fields["fullName"])
}

func TestRegister_DuplicateEmailIsFieldError(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, registerReq()))

	err := svc.Register(ctx, registerReq())
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrDuplicateEmail)

	ve, ok := auth.IsValidation(err)
	require.True(t, ok)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "email", ve.Fields[0].Field)
	assert.Contains(t, ve.Fields[0].Message, "already taken")
}

func TestLogin_FailuresAreGeneric(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, registerReq()))

	_, wrong := svc.Login(ctx, auth.LoginRequest{Email: "a@x.com", Password: "Wrong123!"})
	_, unknown := svc.Login(ctx, auth.LoginRequest{Email: "ghost@x.com", Password: "Secret123!"})

	assert.Equal(t, auth.ErrInvalidCredentials, wrong)
	assert.Equal(t, wrong, unknown)
}

func TestLogin_MissingFields(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Login(context.Background(), auth.LoginRequest{})
	ve, ok := auth.IsValidation(err)
	require.True(t, ok)
	assert.Len(t, ve.Fields, 2)
}

type brokenIssuer struct{}

func (brokenIssuer) Issue(context.Context, auth.User) (auth.SessionToken, error) {
	return auth.SessionToken{}, errors.New("hsm offline: key slot 7")
}

func (brokenIssuer) Verify(context.Context, string) (string, error) {
	return "", auth.ErrInvalidSignature
}

func TestLogin_InternalErrorHidesDetail(t *testing.T) {
	store, _ := newStore(t)
	var buf bytes.Buffer
	svc := auth.NewAuthService(store, brokenIssuer{}, slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, registerReq()))

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "a@x.com", Password: "Secret123!"})
	assert.Equal(t, auth.ErrInternal, err)
	assert.NotContains(t, err.Error(), "hsm")
	assert.Contains(t, buf.String(), "hsm offline")
}

func TestRegister_InternalErrorHidesDetail(t *testing.T) {
	boom := errors.New("pq: relation users does not exist")
	store, err := auth.NewCredentialStore(failingRepo{err: boom}, fastHasher(), auth.DefaultPasswordPolicy())
	require.NoError(t, err)
	var buf bytes.Buffer
	svc := auth.NewAuthService(store, brokenIssuer{}, slog.New(slog.NewTextHandler(&buf, nil)))

	err = svc.Register(context.Background(), registerReq())
	assert.Equal(t, auth.ErrInternal, err)
	assert.Contains(t, buf.String(), "relation users does not exist")
}

func TestProfile_Unknown(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Profile(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, auth.ErrNotFound)
	_, err = svc.Profile(context.Background(), "7f0c1c1e-7c1e-4a7e-9d7b-1f2e3d4c5b6a")
	assert.ErrorIs(t, err, auth.ErrNotFound)
}
