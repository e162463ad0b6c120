package model

import (
	"time"

	"github.com/google/uuid"
)

type Card struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ColumnID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"not null"`
	Description string
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	DueDate     *time.Time
	Position    float64 `gorm:"type:double precision;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Column    Column `gorm:"foreignKey:ColumnID"`
	Creator   User   `gorm:"foreignKey:CreatedBy"`
	Assignees []User `gorm:"many2many:card_assignees"`
}
