package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"groove/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvitationClosed        = errors.New("invitation is no longer pending")
	ErrInvitationExpired       = errors.New("invitation has expired")
	ErrInvitationEmailMismatch = errors.New("invitation was sent to a different email")
)

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// Create returns ErrDuplicate when the email already has a pending
// invitation to the board.
func (r *InvitationRepository) Create(ctx context.Context, inv *model.Invitation) error {
	return translate(r.db.WithContext(ctx).Create(inv).Error)
}

func (r *InvitationRepository) ListPending(ctx context.Context, boardID uuid.UUID) ([]model.Invitation, error) {
	var invitations []model.Invitation
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND status = ?", boardID, model.InvitationPending).
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

func (r *InvitationRepository) Revoke(ctx context.Context, boardID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Invitation{}).
		Where("id = ? AND board_id = ? AND status = ?", id, boardID, model.InvitationPending).
		Update("status", model.InvitationRevoked)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

// Accept turns a pending invitation into a board membership for user.
func (r *InvitationRepository) Accept(ctx context.Context, token string, user *model.User, now time.Time) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token = ?", token).
			First(&inv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvitationNotFound
		}
		if err != nil {
			return err
		}

		switch {
		case inv.Status != model.InvitationPending:
			return ErrInvitationClosed
		case inv.Expired(now):
			return ErrInvitationExpired
		case !strings.EqualFold(inv.Email, user.Email):
			return ErrInvitationEmailMismatch
		}

		var board model.Board
		if err := tx.Select("id", "owner_id").Where("id = ?", inv.BoardID).First(&board).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBoardNotFound
			}
			return err
		}
		if board.OwnerID != user.ID {
			if err := upsertMember(tx, inv.BoardID, user.ID, inv.Role); err != nil {
				return err
			}
		}

		inv.Status = model.InvitationAccepted
		return tx.Model(&inv).Update("status", model.InvitationAccepted).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
