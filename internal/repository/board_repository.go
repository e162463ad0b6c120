package repository

import (
	"context"
	"errors"

	"groove/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

// ListForUser returns boards the user owns or is a member of, newest first.
func (r *BoardRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", userID).
		Or("id IN (?)", r.db.Model(&model.BoardMember{}).Select("board_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&boards).Error
	return boards, err
}

func (r *BoardRepository) CountOwned(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Board{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}
	return &board, nil
}

// GetWithContent loads the board with its columns and their cards, each
// ordered by position with id as the tie-breaker.
func (r *BoardRepository) GetWithContent(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).
		Preload("Columns", func(db *gorm.DB) *gorm.DB { return db.Order("position, id") }).
		Preload("Columns.Cards", func(db *gorm.DB) *gorm.DB { return db.Order("position, id") }).
		Preload("Columns.Cards.Assignees").
		Where("id = ?", id).
		First(&board).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}
	return &board, nil
}

func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	// revision belongs to the reorder path and must not be overwritten here
	return r.db.WithContext(ctx).Model(board).Updates(map[string]interface{}{
		"title":       board.Title,
		"description": board.Description,
	}).Error
}

func (r *BoardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Board{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBoardNotFound
	}
	return nil
}
