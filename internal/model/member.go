package model

import (
	"time"

	"github.com/google/uuid"
)

// BoardMember grants a user access to a board they do not own.
type BoardMember struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_board_members_board_user"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_board_members_board_user"`
	Role      string    `gorm:"not null;check:role IN ('viewer', 'editor')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Board Board `gorm:"foreignKey:BoardID"`
	User  User  `gorm:"foreignKey:UserID"`
}

// Board roles. The owner is not a member row; ownership is Board.OwnerID.
const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleOwner  = "owner"
)

var roleRank = map[string]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleOwner:  3,
}

// RoleAllows reports whether a user holding role may act where required is needed.
func RoleAllows(role, required string) bool {
	return role != "" && roleRank[role] >= roleRank[required]
}
