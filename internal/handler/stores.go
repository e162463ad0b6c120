package handler

import (
	"context"
	"time"

	"groove/internal/model"
	"groove/internal/reorder"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The handlers depend on these narrow views of the repositories so they can
// be exercised with mocks.

type BoardStore interface {
	Create(ctx context.Context, board *model.Board) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Board, error)
	CountOwned(ctx context.Context, ownerID uuid.UUID) (int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error)
	GetWithContent(ctx context.Context, id uuid.UUID) (*model.Board, error)
	Update(ctx context.Context, board *model.Board) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AccessChecker resolves a user's role on a board: owner, editor, viewer or
// "" for no access.
type AccessChecker interface {
	Role(ctx context.Context, boardID, userID uuid.UUID) (string, error)
}

type MemberStore interface {
	AccessChecker
	List(ctx context.Context, boardID uuid.UUID) ([]model.BoardMember, error)
	UpdateRole(ctx context.Context, boardID, userID uuid.UUID, role string) error
	Remove(ctx context.Context, boardID, userID uuid.UUID) error
}

type InvitationStore interface {
	Create(ctx context.Context, inv *model.Invitation) error
	ListPending(ctx context.Context, boardID uuid.UUID) ([]model.Invitation, error)
	Revoke(ctx context.Context, boardID, id uuid.UUID) error
	Accept(ctx context.Context, token string, user *model.User, now time.Time) (*model.Invitation, error)
}

type ColumnStore interface {
	Create(ctx context.Context, column *model.Column) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error)
	GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Column, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CardStore interface {
	Create(ctx context.Context, card *model.Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error)
	GetByColumnID(ctx context.Context, columnID uuid.UUID) ([]model.Card, error)
	Update(ctx context.Context, id uuid.UUID, title, description string, dueDate *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddAssignee(ctx context.Context, cardID, userID uuid.UUID) error
	RemoveAssignee(ctx context.Context, cardID, userID uuid.UUID) error
}

type CommentStore interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]model.Comment, error)
	UpdateBody(ctx context.Context, id uuid.UUID, body string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ActivityLog interface {
	Record(ctx context.Context, boardID, actorID uuid.UUID, kind string, payload map[string]interface{}) (*model.Activity, error)
	RecordTx(ctx context.Context, tx *gorm.DB, boardID, actorID uuid.UUID, kind string, payload map[string]interface{}) (*model.Activity, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID, before string, limit int) ([]model.Activity, error)
}

// Mover persists drag-and-drop moves.
type Mover interface {
	MoveWithRetry(ctx context.Context, req reorder.Request) (reorder.Placement, error)
}
