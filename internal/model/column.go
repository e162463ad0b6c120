package model

import (
	"github.com/google/uuid"
)

// Column belongs to a board and is itself the container of cards.
type Column struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Title    string    `gorm:"not null"`
	Position float64   `gorm:"type:double precision;not null"`
	Revision int64     `gorm:"not null;default:0"`

	Board Board  `gorm:"foreignKey:BoardID"`
	Cards []Card `gorm:"foreignKey:ColumnID"`
}
