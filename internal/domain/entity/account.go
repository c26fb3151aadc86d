// Package entity contains the core business objects of the identity domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the authentication identity: login credentials plus status flags.
// Every Account owns exactly one Profile.
type Account struct {
	ID           uuid.UUID // Primary identifier, also the token subject.
	Email        string    // Lowercased login identifier, globally unique.
	Username     string    // Globally unique handle, [A-Za-z0-9_]{3,150}.
	PasswordHash string    // Opaque output of the PasswordHasher.
	IsActive     bool      // Deactivated accounts cannot log in.
	IsStaff      bool      // Grants access to administrative tooling.
	IsVerified   bool      // Email verification flag; no workflow flips it here.
	JoinedAt     time.Time // Registration timestamp.
	Profile      *Profile  // Always present for persisted accounts.
}

// Profile holds contact, role and personal data for an Account.
type Profile struct {
	AccountID   uuid.UUID  // Owning account.
	PhoneNumber string     // Canonical digits-only phone number, globally unique.
	Role        Role       // Defaults to RoleStudent.
	DateOfBirth *time.Time // Optional, date part only.
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewAccount builds an active, unverified account together with its profile.
// The caller is responsible for hashing the password beforehand.
func NewAccount(email, username, passwordHash string, profile *Profile) *Account {
	now := time.Now().UTC()
	id := uuid.New()

	if profile == nil {
		profile = &Profile{Role: RoleStudent}
	}
	profile.AccountID = id
	if profile.Role == "" {
		profile.Role = RoleStudent
	}
	profile.CreatedAt = now
	profile.UpdatedAt = now

	return &Account{
		ID:           id,
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     true,
		JoinedAt:     now,
		Profile:      profile,
	}
}

// CanLogin reports whether the account is allowed to authenticate.
func (a *Account) CanLogin() bool {
	return a != nil && a.IsActive
}

// Role returns the profile role, falling back to the default role.
func (a *Account) Role() Role {
	if a == nil || a.Profile == nil || a.Profile.Role == "" {
		return RoleStudent
	}

	return a.Profile.Role
}

// PromoteToSuperuser marks the account as a verified staff administrator.
func (a *Account) PromoteToSuperuser() {
	a.IsStaff = true
	a.IsVerified = true
	if a.Profile != nil {
		a.Profile.Role = RoleAdmin
	}
}
