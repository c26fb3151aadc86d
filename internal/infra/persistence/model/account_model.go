package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'accounts' table. IDs are generated by the application.
type AccountModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(254);not null;uniqueIndex:uq_accounts_email"`
	Username     string    `gorm:"type:varchar(150);not null;uniqueIndex:uq_accounts_username"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	IsActive     bool      `gorm:"not null"`
	IsStaff      bool      `gorm:"not null"`
	IsVerified   bool      `gorm:"not null"`
	JoinedAt     time.Time `gorm:"not null"`

	Profile *ProfileModel `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "accounts"
}

// ProfileModel mirrors the 'profiles' table. AccountID references accounts.id (UUID).
type ProfileModel struct {
	AccountID   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PhoneNumber string     `gorm:"type:varchar(15);not null;uniqueIndex:uq_profiles_phone_number"`
	Role        string     `gorm:"type:varchar(20);not null"`
	DateOfBirth *time.Time `gorm:"type:date"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProfileModel) TableName() string {
	return "profiles"
}
