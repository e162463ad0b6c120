package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is an account. Emails are stored normalized, see NormalizeEmail.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email          string    `gorm:"uniqueIndex:idx_users_email;not null"`
	HashedPassword string    `gorm:"not null" json:"-"`
	Name           string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`

	Memberships []BoardMember `gorm:"foreignKey:UserID"`
}

// NormalizeEmail is applied on registration, login and invitation so that
// lookups and the invitation email check are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
