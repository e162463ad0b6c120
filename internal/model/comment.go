package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CardID    uuid.UUID `gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null"`
	Body      string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Author User `gorm:"foreignKey:AuthorID"`
}
