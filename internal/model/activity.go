package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Activity is one entry of a board's feed. IDs are ULIDs so the feed can be
// paged by id alone.
type Activity struct {
	ID        string         `gorm:"type:char(26);primaryKey"`
	BoardID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	ActorID   uuid.UUID      `gorm:"type:uuid;not null"`
	Kind      string         `gorm:"not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`

	Actor User `gorm:"foreignKey:ActorID"`
}

func (Activity) TableName() string {
	return "activities"
}

const (
	ActivityBoardCreated      = "board.created"
	ActivityBoardUpdated      = "board.updated"
	ActivityColumnCreated     = "column.created"
	ActivityColumnUpdated     = "column.updated"
	ActivityColumnDeleted     = "column.deleted"
	ActivityColumnMoved       = "column.moved"
	ActivityCardCreated       = "card.created"
	ActivityCardUpdated       = "card.updated"
	ActivityCardDeleted       = "card.deleted"
	ActivityCardMoved         = "card.moved"
	ActivityCardAssigned      = "card.assigned"
	ActivityCardUnassigned    = "card.unassigned"
	ActivityCommentAdded      = "comment.added"
	ActivityMemberInvited     = "member.invited"
	ActivityMemberJoined      = "member.joined"
	ActivityMemberRemoved     = "member.removed"
	ActivityMemberRoleChanged = "member.role_changed"
)
