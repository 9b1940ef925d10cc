package auth

import (
	"strings"
	"testing"
	"time"

	"authsvc/config"
	"authsvc/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_access_secret_key_very_long_for_testing"

func newTestJWTService(t *testing.T) *jwtService {
	t.Helper()

	cfg := &config.Config{Auth: &config.AuthConfig{TokenTTL: time.Hour, Issuer: "authsvc"}}
	cfg.SecretKey.Access = testSecret

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	impl, ok := svc.(*jwtService)
	require.True(t, ok)

	return impl
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.Issue("alice", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 2, strings.Count(token, "."))

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "authsvc", claims.Issuer)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestJWTService_VerifyAfterTTLIsExpired(t *testing.T) {
	svc := newTestJWTService(t)
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.Issue("alice", time.Hour)
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	_, err = svc.Verify(token)
	require.NoError(t, err)

	svc.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrTokenExpired))
	assert.False(t, errors.Is(err, service.ErrTokenInvalid))
}

func TestJWTService_VerifyWrongSecret(t *testing.T) {
	svc := newTestJWTService(t)

	other := newTestJWTService(t)
	other.secret = []byte("another-secret")

	token, err := other.Issue("alice", time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrTokenInvalid))
}

func TestJWTService_VerifyMalformed(t *testing.T) {
	svc := newTestJWTService(t)

	for _, token := range []string{"", "not.a.jwt", "clearly-not-a-jwt-token-format"} {
		claims, err := svc.Verify(token)
		require.Error(t, err, "token %q", token)
		assert.Nil(t, claims)
		assert.True(t, errors.Is(err, service.ErrTokenInvalid))
	}
}

func TestJWTService_VerifyRejectsOtherAlgorithms(t *testing.T) {
	svc := newTestJWTService(t)

	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    "authsvc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrTokenInvalid))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(unsigned)
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrTokenInvalid))
}

func TestJWTService_VerifyRequiresSubjectAndExpiry(t *testing.T) {
	svc := newTestJWTService(t)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "authsvc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Verify(noSubject)
	assert.True(t, errors.Is(err, service.ErrTokenInvalid))

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
		Issuer:  "authsvc",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Verify(noExpiry)
	assert.True(t, errors.Is(err, service.ErrTokenInvalid))
}

func TestJWTService_IssueRejectsBadInput(t *testing.T) {
	svc := newTestJWTService(t)

	_, err := svc.Issue("", time.Hour)
	assert.Error(t, err)

	_, err = svc.Issue("alice", 0)
	assert.Error(t, err)
}

func TestJWTService_EmptySecret(t *testing.T) {
	cfg := &config.Config{}

	svc, err := NewJWTService(cfg)
	require.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "jwt secret must be provided")
}

func TestJWTService_DefaultTTL(t *testing.T) {
	cfg := &config.Config{}
	cfg.SecretKey.Access = testSecret

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, svc.DefaultTTL())

	cfg.Auth = &config.AuthConfig{TokenTTL: 15 * time.Minute}
	svc, err = NewJWTService(cfg)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, svc.DefaultTTL())
}
