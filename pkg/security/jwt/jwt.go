package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/artem13815/webshop/pkg/auth"
)

// MinSecretLen is the shortest HS256 key accepted.
const MinSecretLen = 32

var ErrShortSecret = errors.New("jwt secret must be at least 32 bytes")

// Issuer signs and verifies session tokens with a process-wide HS256 key.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret []byte, issuer string, ttl time.Duration) (*Issuer, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrShortSecret
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Issuer{secret: key, issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Claims включает стандартные claims, email и роли пользователя.
type Claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// TTL returns how long issued tokens stay valid.
func (g *Issuer) TTL() time.Duration { return g.ttl }

func (g *Issuer) Issue(ctx context.Context, user auth.User) (auth.SessionToken, error) {
	now := g.now().UTC().Truncate(time.Second)
	exp := now.Add(g.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    g.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email: user.Email,
		Roles: user.Roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return auth.SessionToken{}, err
	}
	return auth.SessionToken{
		Value:     signed,
		Subject:   claims.Subject,
		IssuedAt:  now,
		ExpiresAt: exp,
	}, nil
}

// Verify checks signature, algorithm, issuer and expiry and returns the
// subject. Expired tokens yield auth.ErrExpiredToken; everything else that
// fails yields auth.ErrInvalidSignature.
func (g *Issuer) Verify(ctx context.Context, tokenStr string) (string, error) {
	claims, err := g.parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (g *Issuer) parse(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(g.now),
		jwt.WithExpirationRequired(),
	}
	if g.issuer != "" {
		opts = append(opts, jwt.WithIssuer(g.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, auth.ErrInvalidSignature
		}
		return g.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, auth.ErrExpiredToken
		}
		return nil, auth.ErrInvalidSignature
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, auth.ErrInvalidSignature
	}
	return claims, nil
}
