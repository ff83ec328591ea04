package jwt

import (
	"context"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/webshop/pkg/auth"
)

const secret = "0123456789abcdef0123456789abcdef"

func testUser() auth.User {
	return auth.User{ID: uuid.New(), Email: "a@x.com", Roles: []string{"User"}}
}

func newTestIssuer(t *testing.T, ttl time.Duration) *Issuer {
	t.Helper()
	g, err := NewIssuer([]byte(secret), "webshop", ttl)
	require.NoError(t, err)
	return g
}

func TestNewIssuer_RejectsShortSecret(t *testing.T) {
	_, err := NewIssuer([]byte("short"), "webshop", time.Hour)
	assert.ErrorIs(t, err, ErrShortSecret)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	g := newTestIssuer(t, 24*time.Hour)
	u := testUser()

	tok, err := g.Issue(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(tok.Value, ".")))
	assert.Equal(t, u.ID.String(), tok.Subject)
	assert.Equal(t, 24*time.Hour, tok.ExpiresAt.Sub(tok.IssuedAt))

	sub, err := g.Verify(context.Background(), tok.Value)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), sub)

	claims, err := g.parse(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, []string{"User"}, claims.Roles)
	assert.NotEmpty(t, claims.ID)
}

func TestVerify_Expired(t *testing.T) {
	g := newTestIssuer(t, 24*time.Hour)
	g.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }
	tok, err := g.Issue(context.Background(), testUser())
	require.NoError(t, err)

	g.now = time.Now
	_, err = g.Verify(context.Background(), tok.Value)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestVerify_ValidUntilExpiry(t *testing.T) {
	g := newTestIssuer(t, time.Hour)
	issued := time.Now()
	g.now = func() time.Time { return issued }
	tok, err := g.Issue(context.Background(), testUser())
	require.NoError(t, err)

	g.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = g.Verify(context.Background(), tok.Value)
	assert.NoError(t, err)

	g.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = g.Verify(context.Background(), tok.Value)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestVerify_WrongKey(t *testing.T) {
	g := newTestIssuer(t, time.Hour)
	other, err := NewIssuer([]byte(strings.Repeat("z", 32)), "webshop", time.Hour)
	require.NoError(t, err)

	tok, err := other.Issue(context.Background(), testUser())
	require.NoError(t, err)
	_, err = g.Verify(context.Background(), tok.Value)
	assert.ErrorIs(t, err, auth.ErrInvalidSignature)
}

func TestVerify_TamperedPayload(t *testing.T) {
	g := newTestIssuer(t, time.Hour)
	tok, err := g.Issue(context.Background(), testUser())
	require.NoError(t, err)

	parts := strings.Split(tok.Value, ".")
	forged := newTestIssuer(t, time.Hour)
	forgedTok, err := forged.Issue(context.Background(), testUser())
	require.NoError(t, err)
	// payload of another token under the first token's signature
	parts[1] = strings.Split(forgedTok.Value, ".")[1]

	_, err = g.Verify(context.Background(), strings.Join(parts, "."))
	assert.ErrorIs(t, err, auth.ErrInvalidSignature)
}

func TestVerify_RejectsOtherAlgorithmsAndGarbage(t *testing.T) {
	g := newTestIssuer(t, time.Hour)

	none := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.RegisteredClaims{
		Subject:   "x",
		Issuer:    "webshop",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noneStr, err := none.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	hs512 := gojwt.NewWithClaims(gojwt.SigningMethodHS512, gojwt.RegisteredClaims{
		Subject:   "x",
		Issuer:    "webshop",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	hs512Str, err := hs512.SignedString([]byte(secret))
	require.NoError(t, err)

	for _, tok := range []string{noneStr, hs512Str, "", "abc", "a.b.c"} {
		_, err := g.Verify(context.Background(), tok)
		assert.ErrorIs(t, err, auth.ErrInvalidSignature, "token %q", tok)
	}
}

func TestVerify_WrongIssuer(t *testing.T) {
	g := newTestIssuer(t, time.Hour)
	other, err := NewIssuer([]byte(secret), "someone-else", time.Hour)
	require.NoError(t, err)
	tok, err := other.Issue(context.Background(), testUser())
	require.NoError(t, err)

	_, err = g.Verify(context.Background(), tok.Value)
	assert.ErrorIs(t, err, auth.ErrInvalidSignature)
}

func TestNewIssuer_CopiesKey(t *testing.T) {
	key := []byte(secret)
	g, err := NewIssuer(key, "webshop", time.Hour)
	require.NoError(t, err)
	tok, err := g.Issue(context.Background(), testUser())
	require.NoError(t, err)

	key[0] = 'X'
	_, err = g.Verify(context.Background(), tok.Value)
	assert.NoError(t, err)
}
