package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTer(now time.Time) *JWTer {
	return &JWTer{
		Secret: []byte("test-secret"),
		Issuer: "task-platform",
		TTL:    5 * time.Minute,
		Now:    func() time.Time { return now },
	}
}

func TestJWTer_IssueVerify(t *testing.T) {
	j := newJWTer(time.Now())

	tok, err := j.Issue("alice")
	require.NoError(t, err)

	sub, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)

	// 幂等
	sub, err = j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestJWTer_Expiry(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt
	j := &JWTer{Secret: []byte("k"), TTL: 5 * time.Minute, Now: func() time.Time { return clock }}

	tok, err := j.Issue("bob")
	require.NoError(t, err)

	clock = issuedAt.Add(4*time.Minute + 59*time.Second)
	_, err = j.Verify(tok)
	require.NoError(t, err)

	clock = issuedAt.Add(5 * time.Minute)
	_, err = j.Verify(tok)
	assert.ErrorIs(t, err, ErrExpired)
	assert.True(t, IsBadToken(err))
}

func TestJWTer_InvalidSignature(t *testing.T) {
	j := newJWTer(time.Now())
	tok, err := j.Issue("alice")
	require.NoError(t, err)

	other := newJWTer(time.Now())
	other.Secret = []byte("another-secret")
	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)
	_, err = j.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestJWTer_WrongAlgorithm(t *testing.T) {
	j := newJWTer(time.Now())
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    j.Issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	s, err := tok.SignedString(j.Secret)
	require.NoError(t, err)

	_, err = j.Verify(s)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestJWTer_Malformed(t *testing.T) {
	j := newJWTer(time.Now())

	for _, in := range []string{"", "garbage", "a.b.c"} {
		_, err := j.Verify(in)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", in)
	}

	// 缺少 subject
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    j.Issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	s, err := tok.SignedString(j.Secret)
	require.NoError(t, err)
	_, err = j.Verify(s)
	assert.ErrorIs(t, err, ErrMalformed)
}
