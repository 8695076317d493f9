package utils

import "golang.org/x/crypto/bcrypt"

// PasswordHasher hashes and verifies passwords with bcrypt. Every Hash call
// uses a fresh random salt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost clamped to
// [bcrypt.MinCost, bcrypt.MaxCost].
func NewPasswordHasher(cost int) *PasswordHasher {
	return &PasswordHasher{cost: min(max(cost, bcrypt.MinCost), bcrypt.MaxCost)}
}

// Hash hashes a given password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(bytes), err
}

// Verify compares a plain password with its hashed version. A malformed
// digest yields false.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
