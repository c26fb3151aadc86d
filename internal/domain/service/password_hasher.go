// Package service defines the interfaces of domain services implemented in the infra layer.
package service

// PasswordHasher defines one-way salted password hashing.
type PasswordHasher interface {
	// Hash returns a salted hash of password. Equal inputs yield different hashes.
	Hash(password string) (string, error)

	// Verify reports whether password matches hash. A malformed hash yields false.
	Verify(password, hash string) bool
}
