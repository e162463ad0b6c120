package model

import (
	"time"

	"github.com/google/uuid"
)

type Invitation struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;index"`
	InvitedBy uuid.UUID `gorm:"type:uuid;not null"`
	Email     string    `gorm:"not null"`
	Role      string    `gorm:"not null"`
	Token     string    `gorm:"uniqueIndex;not null"`
	Status    string    `gorm:"not null;default:'pending'"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time

	Board Board `gorm:"foreignKey:BoardID"`
}

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRevoked  = "revoked"
)

func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
