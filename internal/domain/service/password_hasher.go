// Package service defines interfaces for core, stateless domain logic.
package service

// PasswordHasher defines the interface for password hashing and
// verification. The underlying algorithm (bcrypt) stays out of the
// domain; callers hash explicitly before constructing a persisted
// record, there is no hidden mutation-on-write.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	Check(password, hash string) bool
}
