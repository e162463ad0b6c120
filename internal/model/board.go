package model

import (
	"time"

	"github.com/google/uuid"
)

// Board is the container of columns. Revision is bumped on every column
// move inside it and lets clients detect a stale column order.
type Board struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string    `gorm:"not null"`
	Description string
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Revision    int64     `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Owner   User     `gorm:"foreignKey:OwnerID"`
	Columns []Column `gorm:"foreignKey:BoardID"`
}
