package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordEmpty is returned when hashing an empty password.
var ErrPasswordEmpty = errors.New("password cannot be empty")

// PasswordHasher stores account passwords as bcrypt hashes.
type PasswordHasher struct {
	Cost int
}

// DefaultHasher uses bcrypt's default cost.
var DefaultHasher = PasswordHasher{Cost: bcrypt.DefaultCost}

// FastHasher uses the minimum cost. Only test backends should use it.
var FastHasher = PasswordHasher{Cost: bcrypt.MinCost}

// Hash returns the bcrypt hash of password. A cost outside bcrypt's range
// falls back to the default.
func (h PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrPasswordEmpty
	}

	cost := h.Cost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Matches reports whether password hashes to hash. Empty values never match.
func (h PasswordHasher) Matches(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
