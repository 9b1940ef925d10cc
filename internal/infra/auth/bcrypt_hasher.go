// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"authsvc/config"
	domainerrors "authsvc/internal/domain/errors"
	"authsvc/internal/domain/service"
	"authsvc/internal/errors"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy config.PasswordPolicyConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil {
		cost = cfg.Auth.BcryptCost
	}

	var policy config.PasswordPolicyConfig
	if cfg.PasswordPolicy != nil {
		policy = *cfg.PasswordPolicy
	}

	return newBcryptHasher(cost, policy)
}

// NewBcryptHasherWithCost creates a hasher with a custom cost and no password policy.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	return newBcryptHasher(cost, config.PasswordPolicyConfig{})
}

func newBcryptHasher(cost int, policy config.PasswordPolicyConfig) *bcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &bcryptHasher{cost: cost, policy: policy}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt embeds the random salt and the cost in its output.
func (h *bcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", domainerrors.ErrPasswordHashFailed.WrapMessage("empty password")
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash in constant time.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength checks the password against the configured policy.
// The bcrypt input limit applies even when no policy is configured.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	p := h.policy
	length := utf8.RuneCountInString(password)

	if length == 0 {
		return domainerrors.ErrPasswordStrength.WrapMessage("password must not be empty")
	}
	if len(password) > maxPasswordBytes {
		return domainerrors.ErrPasswordStrength.WrapMessage(
			"password must be at most " + strconv.Itoa(maxPasswordBytes) + " bytes long")
	}
	if p.MinLength > 0 && length < p.MinLength {
		return domainerrors.ErrPasswordStrength.WrapMessage(
			"password must be at least " + strconv.Itoa(p.MinLength) + " characters long")
	}
	if p.MaxLength > 0 && length > p.MaxLength {
		return domainerrors.ErrPasswordStrength.WrapMessage(
			"password must be at most " + strconv.Itoa(p.MaxLength) + " characters long")
	}
	if p.RequireUppercase && !h.hasUppercase(password) {
		return domainerrors.ErrPasswordStrength.WrapMessage("password must contain at least one uppercase letter")
	}
	if p.RequireLowercase && !h.hasLowercase(password) {
		return domainerrors.ErrPasswordStrength.WrapMessage("password must contain at least one lowercase letter")
	}
	if p.RequireNumbers && !h.hasNumbers(password) {
		return domainerrors.ErrPasswordStrength.WrapMessage("password must contain at least one number")
	}
	if p.RequireSpecial && !h.hasSpecialChars(password) {
		return domainerrors.ErrPasswordStrength.WrapMessage("password must contain at least one special character")
	}

	return nil
}

func (h *bcryptHasher) hasUppercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

func (h *bcryptHasher) hasLowercase(s string) bool {
	return strings.IndexFunc(s, unicode.IsLower) >= 0
}

func (h *bcryptHasher) hasNumbers(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func (h *bcryptHasher) hasSpecialChars(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	}) >= 0
}
