package auth

import (
	"strings"
	"testing"

	"authsvc/config"
	domainerrors "authsvc/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	password := "secret1"
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
	assert.True(t, hasher.Check(password, hash))
}

func TestBcryptHasher_HashIsSalted(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	for _, password := range []string{"secret1", "p", "Pässphräse123!", strings.Repeat("x", 72)} {
		first, err := hasher.Hash(password)
		require.NoError(t, err)
		second, err := hasher.Hash(password)
		require.NoError(t, err)

		assert.NotEqual(t, first, second, "hashes of %q must differ", password)
		assert.True(t, hasher.Check(password, first))
		assert.True(t, hasher.Check(password, second))
	}
}

func TestBcryptHasher_HashEmptyPassword(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	_, err := hasher.Hash("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
}

func TestBcryptHasher_HashTooLong(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("x", 73))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordHashFailed))
}

func TestBcryptHasher_Check(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)
	password := "secret1"

	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	assert.True(t, hasher.Check(password, hash))
	assert.False(t, hasher.Check("wrong", hash))
	assert.False(t, hasher.Check("", hash))
	assert.False(t, hasher.Check(password, "invalid_hash"))
	assert.False(t, hasher.Check(password, ""))
}

func TestBcryptHasher_DistinctPasswordsDoNotVerify(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	pairs := [][2]string{
		{"secret1", "secret2"},
		{"a", "A"},
		{"password", "password "},
	}

	for _, pair := range pairs {
		hash, err := hasher.Hash(pair[0])
		require.NoError(t, err)
		assert.False(t, hasher.Check(pair[1], hash), "%q must not verify against hash of %q", pair[1], pair[0])
	}
}

func TestBcryptHasher_WithCustomCost(t *testing.T) {
	customCost := 6
	hasher := NewBcryptHasherWithCost(customCost)

	hash, err := hasher.Hash("StrongPass123!")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, customCost, cost)
}

func TestBcryptHasher_InvalidCostFallsBackToDefault(t *testing.T) {
	for _, cost := range []int{0, -1, bcrypt.MaxCost + 1} {
		h := newBcryptHasher(cost, config.PasswordPolicyConfig{})
		assert.Equal(t, bcrypt.DefaultCost, h.cost)
	}
}

func TestNewBcryptHasher_FromConfig(t *testing.T) {
	cfg := &config.Config{
		Auth:           &config.AuthConfig{BcryptCost: 5},
		PasswordPolicy: &config.PasswordPolicyConfig{MinLength: 10},
	}

	hasher, ok := NewBcryptHasher(cfg).(*bcryptHasher)
	require.True(t, ok)
	assert.Equal(t, 5, hasher.cost)
	assert.Equal(t, 10, hasher.policy.MinLength)
}

func TestBcryptHasher_ValidatePasswordStrength_DefaultPolicy(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	assert.NoError(t, hasher.ValidatePasswordStrength("secret1"))
	assert.NoError(t, hasher.ValidatePasswordStrength("x"))

	err := hasher.ValidatePasswordStrength("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
}

func TestBcryptHasher_ValidatePasswordStrength_ByteLimit(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	assert.NoError(t, hasher.ValidatePasswordStrength(strings.Repeat("x", 72)))

	tests := map[string]string{
		"ascii over limit":     strings.Repeat("x", 73),
		"multibyte over limit": strings.Repeat("ä", 40),
	}

	for name, password := range tests {
		t.Run(name, func(t *testing.T) {
			err := hasher.ValidatePasswordStrength(password)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
		})
	}
}

func TestBcryptHasher_ValidatePasswordStrength_StrictPolicy(t *testing.T) {
	hasher := newBcryptHasher(bcrypt.MinCost, config.PasswordPolicyConfig{
		MinLength:        8,
		MaxLength:        32,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireNumbers:   true,
		RequireSpecial:   true,
	})

	for _, password := range []string{"StrongPass123!", "MySecure@Pass1", "Pässphräse123!"} {
		assert.NoError(t, hasher.ValidatePasswordStrength(password), "password %q", password)
	}

	testCases := []struct {
		password    string
		expectedErr string
	}{
		{"Ab1!", "must be at least 8 characters long"},
		{strings.Repeat("Ab1!", 9), "must be at most 32 characters long"},
		{"PASSWORD123!", "must contain at least one lowercase letter"},
		{"password123!", "must contain at least one uppercase letter"},
		{"PasswordABC!", "must contain at least one number"},
		{"Password123", "must contain at least one special character"},
	}

	for _, tc := range testCases {
		err := hasher.ValidatePasswordStrength(tc.password)
		require.Error(t, err, "expected error for password: %s", tc.password)
		assert.Contains(t, err.Error(), tc.expectedErr)
		assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
	}
}

func TestBcryptHasher_PasswordStrengthHelpers(t *testing.T) {
	hasher := &bcryptHasher{}

	assert.True(t, hasher.hasUppercase("Password"))
	assert.False(t, hasher.hasUppercase("password"))

	assert.True(t, hasher.hasLowercase("Password"))
	assert.False(t, hasher.hasLowercase("PASSWORD"))

	assert.True(t, hasher.hasNumbers("Password123"))
	assert.False(t, hasher.hasNumbers("Password"))

	assert.True(t, hasher.hasSpecialChars("Password!"))
	assert.True(t, hasher.hasSpecialChars("Pass$word"))
	assert.False(t, hasher.hasSpecialChars("Password"))
}
