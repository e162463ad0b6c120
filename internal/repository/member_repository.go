package repository

import (
	"context"
	"errors"

	"groove/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// upsertMember adds the user to the board or changes the role they already hold.
func upsertMember(db *gorm.DB, boardID, userID uuid.UUID, role string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var existing model.BoardMember
		err := tx.Where("board_id = ? AND user_id = ?", boardID, userID).First(&existing).Error
		if err == nil {
			return tx.Model(&existing).Update("role", role).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return translate(tx.Create(&model.BoardMember{BoardID: boardID, UserID: userID, Role: role}).Error)
	})
}

func (r *MemberRepository) UpdateRole(ctx context.Context, boardID, userID uuid.UUID, role string) error {
	res := r.db.WithContext(ctx).Model(&model.BoardMember{}).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) Remove(ctx context.Context, boardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("board_id = ? AND user_id = ?", boardID, userID).Delete(&model.BoardMember{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMemberNotFound
		}
		// a removed member stops being an assignee on the board's cards
		return tx.Exec(`DELETE FROM card_assignees WHERE user_id = ? AND card_id IN (
			SELECT cards.id FROM cards JOIN columns ON columns.id = cards.column_id WHERE columns.board_id = ?)`,
			userID, boardID).Error
	})
}

func (r *MemberRepository) List(ctx context.Context, boardID uuid.UUID) ([]model.BoardMember, error) {
	var members []model.BoardMember
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID).
		Order("created_at").
		Find(&members).Error
	return members, err
}

// Role returns the user's role on the board: owner, editor, viewer, or ""
// without access. A missing board is ErrBoardNotFound.
func (r *MemberRepository) Role(ctx context.Context, boardID, userID uuid.UUID) (string, error) {
	var board model.Board
	err := r.db.WithContext(ctx).Select("id", "owner_id").Where("id = ?", boardID).First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrBoardNotFound
	}
	if err != nil {
		return "", err
	}
	if board.OwnerID == userID {
		return model.RoleOwner, nil
	}

	var member model.BoardMember
	err = r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

// CheckAccess reports whether the user holds requiredRole or higher.
func (r *MemberRepository) CheckAccess(ctx context.Context, boardID, userID uuid.UUID, requiredRole string) (bool, error) {
	role, err := r.Role(ctx, boardID, userID)
	if err != nil {
		return false, err
	}
	return model.RoleAllows(role, requiredRole), nil
}
