package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"authsvc/config"
	"authsvc/internal/domain/service"
	"authsvc/internal/errors"
)

// jwtService is a concrete implementation of the TokenIssuer interface using the JWT standard.
type jwtService struct {
	secret []byte        // HMAC key, loaded once at startup.
	issuer string        // Value of the iss claim.
	ttl    time.Duration // Default session lifetime.
	now    func() time.Time
}

// NewJWTService is the constructor for jwtService.
// A missing signing secret is a startup error, never a per-request one.
func NewJWTService(cfg *config.Config) (service.TokenIssuer, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	ttl := time.Hour
	issuer := ""
	if cfg.Auth != nil {
		if cfg.Auth.TokenTTL > 0 {
			ttl = cfg.Auth.TokenTTL
		}
		issuer = cfg.Auth.Issuer
	}

	return &jwtService{
		secret: []byte(cfg.SecretKey.Access),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token for identity that expires after ttl.
func (s *jwtService) Issue(identity string, ttl time.Duration) (string, error) {
	if identity == "" {
		return "", errors.New("token identity must not be empty")
	}
	if ttl <= 0 {
		return "", errors.Errorf("token ttl must be positive, got %s", ttl)
	}

	now := s.now()
	claims := service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify checks the signature, algorithm and expiry of tokenString.
func (s *jwtService) Verify(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Wrap(service.ErrTokenExpired, err.Error())
		}

		return nil, errors.Wrap(service.ErrTokenInvalid, err.Error())
	}

	if !token.Valid || claims.Subject == "" {
		return nil, errors.Wrap(service.ErrTokenInvalid, "token has no subject")
	}

	return claims, nil
}

// DefaultTTL returns the configured session lifetime.
func (s *jwtService) DefaultTTL() time.Duration {
	return s.ttl
}
